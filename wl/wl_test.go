package wl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/wire"
)

func socketpair(t *testing.T) (*net.UnixConn, *net.UnixConn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	a, err := fileToUnixConn(fds[0])
	if err != nil {
		t.Fatalf("fileToUnixConn: %v", err)
	}
	b, err := fileToUnixConn(fds[1])
	if err != nil {
		t.Fatalf("fileToUnixConn: %v", err)
	}
	return a, b
}

func fileToUnixConn(fd int) (*net.UnixConn, error) {
	f := os.NewFile(uintptr(fd), fmt.Sprintf("socketpair-%d", fd))
	c, err := net.FileConn(f)
	f.Close()
	if err != nil {
		return nil, err
	}
	uc, ok := c.(*net.UnixConn)
	if !ok {
		c.Close()
		return nil, fmt.Errorf("unexpected conn type %T", c)
	}
	return uc, nil
}

func rawMessage(objectId uint32, opcode uint16, body []byte) []byte {
	length := wire.HeaderSize + len(body)
	msg := make([]byte, length)
	binary.LittleEndian.PutUint32(msg[0:4], objectId)
	binary.LittleEndian.PutUint32(msg[4:8], uint32(length)<<16|uint32(opcode))
	copy(msg[wire.HeaderSize:], body)
	return msg
}

// TestDisplaySyncRoundTrip exercises S1 through the typed Display/Callback
// bindings rather than raw wire calls.
func TestDisplaySyncRoundTrip(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	c := conn.Init(client, conn.Options{})
	display := NewDisplay()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := wire.NewReadBuffer(4096)
		fdq := &wire.FDQueue{}
		header, event, err := wire.ReadEvent(server, buf, fdq)
		if err != nil || header.Opcode != opcodeDisplayRequestSync {
			return
		}
		r := wire.NewArgReader(event.ArgBytes, fdq)
		callbackId, _ := r.NewId()
		body := make([]byte, 4)
		binary.LittleEndian.PutUint32(body, 42)
		server.Write(rawMessage(uint32(callbackId), 0, body))
	}()

	callback, err := display.Sync(c)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	<-done

	header, event, err := c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if header.ObjectId != callback.Id {
		t.Fatalf("event targets %d, want callback id %d", header.ObjectId, callback.Id)
	}
	ev, ok, err := DecodeCallbackDoneEvent(callback, event, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ok {
		t.Fatal("expected done event to decode")
	}
	if ev.CallbackData != 42 {
		t.Fatalf("callback_data = %d", ev.CallbackData)
	}
}

// TestRegistryBindAndCreateSurface exercises S2: get_registry, observe a
// wl_compositor global, bind it, then create a surface on the bound proxy.
func TestRegistryBindAndCreateSurface(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	c := conn.Init(client, conn.Options{})
	display := NewDisplay()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		buf := wire.NewReadBuffer(4096)
		fdq := &wire.FDQueue{}

		// get_registry
		header, event, err := wire.ReadEvent(server, buf, fdq)
		if err != nil || header.Opcode != opcodeDisplayRequestGetRegistry {
			return
		}
		r := wire.NewArgReader(event.ArgBytes, fdq)
		registryId, _ := r.NewId()

		w := wire.NewArgWriter()
		w.PutUint32(1)
		w.PutString("wl_compositor")
		w.PutUint32(4)
		server.Write(rawMessage(uint32(registryId), opcodeRegistryEventGlobal, w.Bytes()))

		// bind
		header, event, err = wire.ReadEvent(server, buf, fdq)
		if err != nil || header.ObjectId != registryId || header.Opcode != opcodeRegistryRequestBind {
			return
		}
		r = wire.NewArgReader(event.ArgBytes, fdq)
		r.Uint32() // name
		ifaceStr, _ := r.String(false)
		r.Uint32() // version
		compositorId, _ := r.NewId()
		if ifaceStr != "wl_compositor" {
			return
		}

		// create_surface
		header, event, err = wire.ReadEvent(server, buf, fdq)
		if err != nil || header.ObjectId != compositorId || header.Opcode != opcodeCompositorRequestCreateSurface {
			return
		}
	}()

	registry, err := display.GetRegistry(c)
	if err != nil {
		t.Fatalf("GetRegistry: %v", err)
	}

	header, event, err := c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	global, ok, err := DecodeRegistryGlobalEvent(registry, event, nil)
	if err != nil || !ok {
		t.Fatalf("decode global: ok=%v err=%v", ok, err)
	}
	if header.ObjectId != registry.Id || global.Interface != "wl_compositor" {
		t.Fatalf("unexpected global: %+v", global)
	}

	compositorId, err := registry.Bind(c, global.Name, global.Interface, global.Version)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	compositor := &Compositor{Id: compositorId, Version: global.Version}

	if _, err := compositor.CreateSurface(c); err != nil {
		t.Fatalf("CreateSurface: %v", err)
	}
	<-serverDone
}

// TestShmCreatePool exercises S3: a real fd passed to wl_shm.create_pool
// must travel out of band as a single SCM_RIGHTS ancillary message, while
// the in-band payload carries exactly id:new_id followed by size:int, per
// the protocol's declared request signature (id, fd, size).
func TestShmCreatePool(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	c := conn.Init(client, conn.Options{})
	shm := &Shm{Id: c.NextObjectId(), Version: 1}
	c.Bind(shm.Id, shm.Version)

	const poolSize = int32(640 * 480 * 4)

	serverDone := make(chan struct{})
	var gotArgBytes []byte
	var gotFdCount int
	go func() {
		defer close(serverDone)
		buf := wire.NewReadBuffer(4096)
		fdq := &wire.FDQueue{}
		header, event, err := wire.ReadEvent(server, buf, fdq)
		if err != nil || header.ObjectId != shm.Id || header.Opcode != opcodeShmRequestCreatePool {
			return
		}
		gotFdCount = fdq.Len()
		gotArgBytes = append([]byte(nil), event.ArgBytes...)
	}()

	pool, err := shm.CreatePool(c, int(r.Fd()), poolSize)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	<-serverDone

	if gotFdCount != 1 {
		t.Fatalf("expected exactly one ancillary fd, got %d", gotFdCount)
	}

	want := make([]byte, 8)
	binary.LittleEndian.PutUint32(want[0:4], uint32(pool.Id))
	binary.LittleEndian.PutUint32(want[4:8], uint32(poolSize))
	if !bytes.Equal(gotArgBytes, want) {
		t.Fatalf("in-band payload = % x, want % x (id:u32 then size:i32)", gotArgBytes, want)
	}
}

package conn

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/bnema/go-wlwire/wire"
	"github.com/bnema/go-wlwire/wlproto"
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

func rawMessage(objectId wlproto.ObjectId, opcode uint16, body []byte) []byte {
	length := wire.HeaderSize + len(body)
	msg := make([]byte, length)
	binary.LittleEndian.PutUint32(msg[0:4], uint32(objectId))
	binary.LittleEndian.PutUint32(msg[4:8], uint32(length)<<16|uint32(opcode))
	copy(msg[wire.HeaderSize:], body)
	return msg
}

func TestMonotonicIds(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	c := Init(client, Options{})
	prev := wlproto.ObjectId(1)
	for i := 0; i < 5; i++ {
		id := c.NextObjectId()
		if id == 1 {
			t.Fatal("id 1 must never be allocated")
		}
		if id <= prev {
			t.Fatalf("ids not strictly increasing: %d after %d", id, prev)
		}
		prev = id
	}
	if first := c.NextObjectId(); first < 2 {
		t.Fatalf("first allocated id should start at >=2 territory, got %d", first)
	}
}

func TestVersionGate(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	c := Init(client, Options{})
	surfaceId := c.NextObjectId()
	c.Bind(surfaceId, 1)

	err := c.CheckVersion(surfaceId, "wl_surface", "set_buffer_scale", 3)
	if err == nil {
		t.Fatal("expected VersionError")
	}
	if _, ok := err.(*wlproto.VersionError); !ok {
		t.Fatalf("expected *wlproto.VersionError, got %T", err)
	}
}

// TestSyncRoundTrip exercises scenario S1 against an in-process fake
// compositor: the client calls sync (object 1, opcode 0, new_id=2) and the
// fake server replies with wl_callback::done (self_id=2, opcode=0).
func TestSyncRoundTrip(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	c := Init(client, Options{})
	display := c.GetDisplay()
	callbackId := c.NextObjectId()
	if callbackId != 2 {
		t.Fatalf("expected first allocated id to be 2, got %d", callbackId)
	}

	go func() {
		buf := wire.NewReadBuffer(4096)
		fdq := &wire.FDQueue{}
		header, event, err := wire.ReadEvent(server, buf, fdq)
		if err != nil || header.ObjectId != display || header.Opcode != 0 {
			return
		}
		r := wire.NewArgReader(event.ArgBytes, fdq)
		gotId, _ := r.NewId()
		if gotId != callbackId {
			return
		}
		doneBody := make([]byte, 4)
		binary.LittleEndian.PutUint32(doneBody, 0xcafef00d)
		server.Write(rawMessage(callbackId, 0, doneBody))
	}()

	args := wire.NewArgWriter()
	args.PutNewId(callbackId)
	if err := c.SendRequest(display, 0, args); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	header, event, err := c.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if header.ObjectId != callbackId || header.Opcode != 0 {
		t.Fatalf("unexpected header %+v", header)
	}
	r := wire.NewArgReader(event.ArgBytes, nil)
	data, err := r.Uint32()
	if err != nil || data != 0xcafef00d {
		t.Fatalf("callback_data = %x, %v", data, err)
	}
}

// TestRegistryEnumeration exercises scenario S2: get_registry + sync, then
// collecting global events until the sync callback's done event fires.
func TestRegistryEnumeration(t *testing.T) {
	client, server := socketpair(t)
	defer client.Close()
	defer server.Close()

	c := Init(client, Options{})
	display := c.GetDisplay()
	registryId := c.NextObjectId()
	syncId := c.NextObjectId()

	go func() {
		buf := wire.NewReadBuffer(4096)
		fdq := &wire.FDQueue{}
		// get_registry
		if _, _, err := wire.ReadEvent(server, buf, fdq); err != nil {
			return
		}
		// sync
		if _, _, err := wire.ReadEvent(server, buf, fdq); err != nil {
			return
		}

		send := func(name uint32, iface string, version uint32) {
			w := wire.NewArgWriter()
			w.PutUint32(name)
			w.PutString(iface)
			w.PutUint32(version)
			server.Write(rawMessage(registryId, 0, w.Bytes()))
		}
		send(1, "wl_compositor", 4)
		send(2, "wl_shm", 1)
		send(3, "wl_seat", 7)

		doneBody := make([]byte, 4)
		server.Write(rawMessage(syncId, 0, doneBody))
	}()

	regArgs := wire.NewArgWriter()
	regArgs.PutNewId(registryId)
	if err := c.SendRequest(display, 1, regArgs); err != nil {
		t.Fatalf("get_registry: %v", err)
	}
	syncArgs := wire.NewArgWriter()
	syncArgs.PutNewId(syncId)
	if err := c.SendRequest(display, 0, syncArgs); err != nil {
		t.Fatalf("sync: %v", err)
	}

	seen := map[string]bool{}
	for {
		header, event, err := c.ReadEvent()
		if err != nil {
			t.Fatalf("ReadEvent: %v", err)
		}
		if header.ObjectId == syncId {
			break
		}
		if header.ObjectId == registryId && header.Opcode == 0 {
			r := wire.NewArgReader(event.ArgBytes, nil)
			r.Uint32() // name
			iface, err := r.String(false)
			if err != nil {
				t.Fatalf("String: %v", err)
			}
			seen[iface] = true
		}
	}

	for _, want := range []string{"wl_compositor", "wl_shm"} {
		if !seen[want] {
			t.Fatalf("expected to see global %q, saw %v", want, seen)
		}
	}
}

// Package conn implements the Wayland connection context: it owns the
// socket, the read buffer, the received-FD queue, and the object-id
// allocator, and exposes the two operations every generated binding is
// built on: SendRequest and ReadEvent.
package conn

import (
	"fmt"
	"net"
	"sync"

	"github.com/bnema/go-wlwire/wire"
	"github.com/bnema/go-wlwire/wlproto"
)

// Options configures a Connection at construction time.
type Options struct {
	// ReadBufferSize is the capacity of the fixed read buffer. It is
	// clamped up to wire.MinReadBufferSize.
	ReadBufferSize int
}

// Connection owns a single Wayland socket and everything needed to speak
// the wire protocol over it: next-id allocation, the read buffer, and the
// FD queue. All operations are meant to be called from a single goroutine;
// only the id counter and the bound-version table are guarded by a mutex.
type Connection struct {
	socket *net.UnixConn
	buf    *wire.ReadBuffer
	fdq    *wire.FDQueue

	mu            sync.Mutex
	nextId        uint32
	boundVersions map[wlproto.ObjectId]uint32
}

// Init wraps an already-connected Unix domain stream socket in a
// Connection, ready to send the first request (conventionally
// get_registry and sync on the display object, id 1).
func Init(socket *net.UnixConn, opts Options) *Connection {
	c := &Connection{
		socket:        socket,
		buf:           wire.NewReadBuffer(opts.ReadBufferSize),
		fdq:           &wire.FDQueue{},
		nextId:        2,
		boundVersions: make(map[wlproto.ObjectId]uint32),
	}
	c.boundVersions[wlproto.DisplayId] = 1
	return c
}

// NextObjectId returns and increments the object-id counter. Ids are
// allocated strictly increasing starting at 2; 1 is reserved for the
// display singleton and is never returned.
func (c *Connection) NextObjectId() wlproto.ObjectId {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextId
	c.nextId++
	return wlproto.ObjectId(id)
}

// GetDisplay returns the fixed id-1 display object id.
func (c *Connection) GetDisplay() wlproto.ObjectId {
	return wlproto.DisplayId
}

// Bind records the version an object id was actually bound/created at, so
// future requests on it can be version-gated per object rather than per
// interface (spec.md Open Question (a)).
func (c *Connection) Bind(id wlproto.ObjectId, version uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boundVersions[id] = version
}

// BoundVersion returns the version an object id was bound at, or 0 if the
// connection has no record of it.
func (c *Connection) BoundVersion(id wlproto.ObjectId) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boundVersions[id]
}

// CheckVersion returns a *wlproto.VersionError if the object identified by
// id was bound at a version lower than since. Generated request methods
// call this before building any argument bytes, so a version mismatch
// sends zero bytes on the wire.
func (c *Connection) CheckVersion(id wlproto.ObjectId, interfaceStr, request string, since uint32) error {
	if since == 0 {
		return nil
	}
	bound := c.BoundVersion(id)
	if bound < since {
		return &wlproto.VersionError{Interface: interfaceStr, Request: request, Since: since, Bound: bound}
	}
	return nil
}

// SendRequest delegates to the wire codec, building and sending one
// framed message for objectId/opcode/args.
func (c *Connection) SendRequest(objectId wlproto.ObjectId, opcode uint16, args *wire.ArgWriter) error {
	if err := wire.SendRequest(c.socket, objectId, opcode, args); err != nil {
		return fmt.Errorf("conn: send_request(object=%d, opcode=%d): %w", objectId, opcode, err)
	}
	return nil
}

// ReadEvent blocks until one complete event is available and returns it.
// The returned AnonymousEvent's ArgBytes borrow the connection's internal
// read buffer and are invalidated by the next call to ReadEvent.
func (c *Connection) ReadEvent() (wlproto.Header, wlproto.AnonymousEvent, error) {
	header, event, err := wire.ReadEvent(c.socket, c.buf, c.fdq)
	if err != nil {
		return wlproto.Header{}, wlproto.AnonymousEvent{}, fmt.Errorf("conn: read_event: %w", err)
	}
	return header, event, nil
}

// Close closes the underlying socket.
func (c *Connection) Close() error {
	return c.socket.Close()
}

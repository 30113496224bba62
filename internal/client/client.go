// Package client manages the Wayland connection shared by the virtual
// input protocol packages: it dials the compositor socket, performs the
// registry roundtrip, and remembers which of the virtual-input globals
// the compositor advertised.
package client

import (
	"fmt"
	"sync"

	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/internal/sockpath"
	"github.com/bnema/go-wlwire/wl"
	"github.com/bnema/go-wlwire/wlproto"
)

// Client owns the connection and the subset of bound globals the virtual
// input protocols care about.
type Client struct {
	conn     *conn.Connection
	display  *wl.Display
	registry *wl.Registry
	seat     *wl.Seat

	mu                 sync.Mutex
	globals            map[uint32]string
	pointerManager     wl.RegistryGlobalEvent
	keyboardManager    wl.RegistryGlobalEvent
	constraintsManager wl.RegistryGlobalEvent
}

// NewClient connects to the compositor named by WAYLAND_DISPLAY (or the
// override, if non-empty) and performs the initial registry roundtrip.
func NewClient(override string) (*Client, error) {
	socket, err := sockpath.Dial(override)
	if err != nil {
		return nil, fmt.Errorf("connecting to Wayland: %w", err)
	}

	c := &Client{
		conn:    conn.Init(socket, conn.Options{}),
		display: wl.NewDisplay(),
		globals: make(map[uint32]string),
	}

	registry, err := c.display.GetRegistry(c.conn)
	if err != nil {
		socket.Close()
		return nil, fmt.Errorf("get_registry: %w", err)
	}
	c.registry = registry

	callback, err := c.display.Sync(c.conn)
	if err != nil {
		socket.Close()
		return nil, fmt.Errorf("sync: %w", err)
	}

	if err := c.roundtrip(callback); err != nil {
		socket.Close()
		return nil, err
	}

	if c.seat == nil {
		socket.Close()
		return nil, fmt.Errorf("compositor did not advertise a wl_seat")
	}

	return c, nil
}

// roundtrip drains events until the given sync callback fires, recording
// every registry global it observes along the way.
func (c *Client) roundtrip(callback *wl.Callback) error {
	for {
		header, event, err := c.conn.ReadEvent()
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}

		switch header.ObjectId {
		case c.registry.Id:
			c.handleRegistryEvent(header, event)
		case callback.Id:
			if _, ok, err := wl.DecodeCallbackDoneEvent(callback, event, nil); err != nil {
				return fmt.Errorf("decoding sync done: %w", err)
			} else if ok {
				return nil
			}
		}
	}
}

func (c *Client) handleRegistryEvent(header wlproto.Header, event wlproto.AnonymousEvent) {
	if global, ok, _ := wl.DecodeRegistryGlobalEvent(c.registry, event, nil); ok {
		c.mu.Lock()
		c.globals[global.Name] = global.Interface
		c.mu.Unlock()

		switch global.Interface {
		case "wl_seat":
			if seatId, err := c.registry.Bind(c.conn, global.Name, global.Interface, global.Version); err == nil {
				c.seat = &wl.Seat{Id: seatId, Version: global.Version}
			}
		case "zwlr_virtual_pointer_manager_v1":
			c.mu.Lock()
			c.pointerManager = *global
			c.mu.Unlock()
		case "zwp_virtual_keyboard_manager_v1":
			c.mu.Lock()
			c.keyboardManager = *global
			c.mu.Unlock()
		case "zwp_pointer_constraints_v1":
			c.mu.Lock()
			c.constraintsManager = *global
			c.mu.Unlock()
		}
		return
	}
	if removed, ok, _ := wl.DecodeRegistryGlobalRemoveEvent(c.registry, event, nil); ok {
		c.mu.Lock()
		delete(c.globals, removed.Name)
		c.mu.Unlock()
	}
}

// Connection returns the underlying wire connection.
func (c *Client) Connection() *conn.Connection { return c.conn }

// Registry returns the bound registry proxy.
func (c *Client) Registry() *wl.Registry { return c.registry }

// Seat returns the bound seat proxy, or nil if none was advertised.
func (c *Client) Seat() *wl.Seat { return c.seat }

// HasVirtualPointer reports whether the compositor advertised
// zwlr_virtual_pointer_manager_v1.
func (c *Client) HasVirtualPointer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointerManager.Name != 0
}

// HasVirtualKeyboard reports whether the compositor advertised
// zwp_virtual_keyboard_manager_v1.
func (c *Client) HasVirtualKeyboard() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyboardManager.Name != 0
}

// HasPointerConstraints reports whether the compositor advertised
// zwp_pointer_constraints_v1.
func (c *Client) HasPointerConstraints() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.constraintsManager.Name != 0
}

// PointerManagerGlobal returns the virtual pointer manager's registry global.
func (c *Client) PointerManagerGlobal() wl.RegistryGlobalEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointerManager
}

// KeyboardManagerGlobal returns the virtual keyboard manager's registry global.
func (c *Client) KeyboardManagerGlobal() wl.RegistryGlobalEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyboardManager
}

// ConstraintsManagerGlobal returns the pointer constraints manager's registry global.
func (c *Client) ConstraintsManagerGlobal() wl.RegistryGlobalEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.constraintsManager
}

// Close closes the underlying socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Package virtual_pointer provides Go bindings for the
// wlr-virtual-pointer-unstable-v1 Wayland protocol.
//
// This protocol allows clients to emulate a physical pointer device,
// enabling mouse input injection into Wayland compositors without
// requiring root privileges.
//
// # Basic Usage
//
//	manager, err := NewVirtualPointerManager(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer manager.Close()
//
//	pointer, err := manager.CreatePointer()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pointer.Close()
//
//	pointer.MoveRelative(100.0, 50.0)
//	pointer.LeftClick()
//	pointer.ScrollVertical(5.0)
//
// # Protocol Specification
//
// Based on wlr-virtual-pointer-unstable-v1 from the wlroots project.
// Supported by Hyprland, Sway, and other wlroots-based compositors.
package virtual_pointer

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/internal/client"
	"github.com/bnema/go-wlwire/internal/protocols"
	"github.com/bnema/go-wlwire/wl"
	"github.com/bnema/go-wlwire/wlproto"
)

// Button constants for mouse buttons (Linux input event codes).
const (
	BTN_LEFT   = 0x110
	BTN_RIGHT  = 0x111
	BTN_MIDDLE = 0x112
	BTN_SIDE   = 0x113
	BTN_EXTRA  = 0x114
)

// Button state constants.
const (
	BUTTON_STATE_RELEASED = 0
	BUTTON_STATE_PRESSED  = 1
)

// Axis constants (from wl_pointer).
const (
	AXIS_VERTICAL_SCROLL   = 0
	AXIS_HORIZONTAL_SCROLL = 1
)

// Axis source constants (from wl_pointer).
const (
	AXIS_SOURCE_WHEEL      = 0
	AXIS_SOURCE_FINGER     = 1
	AXIS_SOURCE_CONTINUOUS = 2
	AXIS_SOURCE_WHEEL_TILT = 3
)

// Error codes.
const (
	ERROR_INVALID_AXIS        = 0
	ERROR_INVALID_AXIS_SOURCE = 1
)

// VirtualPointerError reports a client-side validation failure: an
// argument outside the range the protocol defines. It never reaches the
// wire — the compositor never sees an out-of-range value.
type VirtualPointerError struct {
	Code    int
	Message string
}

func (e *VirtualPointerError) Error() string {
	return fmt.Sprintf("virtual pointer error %d: %s", e.Code, e.Message)
}

// floatToFixed converts a float64 to Wayland fixed-point.
func floatToFixed(val float64) wlproto.Fixed {
	return wlproto.NewFixed(val)
}

func timeMs(t time.Time) uint32 {
	return uint32(t.UnixNano() / int64(time.Millisecond))
}

// VirtualPointerManager manages virtual pointer devices.
type VirtualPointerManager struct {
	client  *client.Client // nil when constructed over an existing connection
	conn    *conn.Connection
	manager *protocols.VirtualPointerManager
}

// VirtualPointer represents a virtual pointer device.
type VirtualPointer struct {
	conn    *conn.Connection
	pointer *protocols.VirtualPointer
}

// NewVirtualPointerManager dials the compositor named by WAYLAND_DISPLAY,
// binds zwlr_virtual_pointer_manager_v1, and returns a manager ready to
// create pointer devices.
func NewVirtualPointerManager(ctx context.Context) (*VirtualPointerManager, error) {
	c, err := client.NewClient("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland: %w", err)
	}
	if !c.HasVirtualPointer() {
		c.Close()
		return nil, fmt.Errorf("zwlr_virtual_pointer_manager_v1 not available")
	}

	global := c.PointerManagerGlobal()
	managerId, err := c.Registry().Bind(c.Connection(), global.Name, global.Interface, global.Version)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to bind virtual pointer manager: %w", err)
	}

	return &VirtualPointerManager{
		client:  c,
		conn:    c.Connection(),
		manager: &protocols.VirtualPointerManager{Id: managerId, Version: global.Version},
	}, nil
}

// NewVirtualPointerManagerForConn wraps an already-bound
// zwlr_virtual_pointer_manager_v1 proxy living on an existing connection —
// for callers that manage their own Wayland connection lifecycle.
func NewVirtualPointerManagerForConn(c *conn.Connection, id wlproto.ObjectId, version uint32) *VirtualPointerManager {
	return &VirtualPointerManager{conn: c, manager: &protocols.VirtualPointerManager{Id: id, Version: version}}
}

// CreatePointer creates a new virtual pointer device associated with the
// client's default seat.
func (m *VirtualPointerManager) CreatePointer() (*VirtualPointer, error) {
	var seat *wl.Seat
	if m.client != nil {
		seat = m.client.Seat()
	}
	pointer, err := m.manager.CreateVirtualPointer(m.conn, seat)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual pointer: %w", err)
	}
	return &VirtualPointer{conn: m.conn, pointer: pointer}, nil
}

// Motion sends a relative motion event.
func (p *VirtualPointer) Motion(timestamp time.Time, dx, dy float64) error {
	return p.pointer.Motion(p.conn, timeMs(timestamp), floatToFixed(dx), floatToFixed(dy))
}

// MotionAbsolute sends an absolute motion event, positioned within the
// xExtent x yExtent coordinate space supplied by the caller with each call.
func (p *VirtualPointer) MotionAbsolute(timestamp time.Time, x, y, xExtent, yExtent uint32) error {
	if x > xExtent || y > yExtent {
		return &VirtualPointerError{Code: ERROR_INVALID_AXIS, Message: "coordinates out of bounds"}
	}
	return p.pointer.MotionAbsolute(p.conn, timeMs(timestamp), x, y, xExtent, yExtent)
}

// Button sends a button press/release event.
func (p *VirtualPointer) Button(timestamp time.Time, button uint32, state uint32) error {
	if state != BUTTON_STATE_PRESSED && state != BUTTON_STATE_RELEASED {
		return &VirtualPointerError{Code: ERROR_INVALID_AXIS, Message: "invalid button state"}
	}
	return p.pointer.Button(p.conn, timeMs(timestamp), button, state)
}

// ButtonPress is a convenience wrapper around Button for a press event.
func (p *VirtualPointer) ButtonPress(button uint32) error {
	return p.Button(time.Now(), button, BUTTON_STATE_PRESSED)
}

// ButtonRelease is a convenience wrapper around Button for a release event.
func (p *VirtualPointer) ButtonRelease(button uint32) error {
	return p.Button(time.Now(), button, BUTTON_STATE_RELEASED)
}

// Axis sends a scroll event.
func (p *VirtualPointer) Axis(timestamp time.Time, axis uint32, value float64) error {
	if axis != AXIS_VERTICAL_SCROLL && axis != AXIS_HORIZONTAL_SCROLL {
		return &VirtualPointerError{Code: ERROR_INVALID_AXIS, Message: "invalid axis"}
	}
	return p.pointer.Axis(p.conn, timeMs(timestamp), axis, floatToFixed(value))
}

// Frame indicates the end of a pointer event sequence.
func (p *VirtualPointer) Frame() error {
	return p.pointer.Frame(p.conn)
}

// AxisSource sets the axis source for subsequent axis events.
func (p *VirtualPointer) AxisSource(source uint32) error {
	if source > AXIS_SOURCE_WHEEL_TILT {
		return &VirtualPointerError{Code: ERROR_INVALID_AXIS_SOURCE, Message: "invalid axis source"}
	}
	return p.pointer.AxisSource(p.conn, source)
}

// AxisStop sends an axis stop event.
func (p *VirtualPointer) AxisStop(timestamp time.Time, axis uint32) error {
	if axis != AXIS_VERTICAL_SCROLL && axis != AXIS_HORIZONTAL_SCROLL {
		return &VirtualPointerError{Code: ERROR_INVALID_AXIS, Message: "invalid axis"}
	}
	return p.pointer.AxisStop(p.conn, timeMs(timestamp), axis)
}

// AxisDiscrete sends a discrete axis event.
func (p *VirtualPointer) AxisDiscrete(timestamp time.Time, axis uint32, value float64, discrete int32) error {
	if axis != AXIS_VERTICAL_SCROLL && axis != AXIS_HORIZONTAL_SCROLL {
		return &VirtualPointerError{Code: ERROR_INVALID_AXIS, Message: "invalid axis"}
	}
	return p.pointer.AxisDiscrete(p.conn, timeMs(timestamp), axis, floatToFixed(value), discrete)
}

// Close releases the virtual pointer device.
func (p *VirtualPointer) Close() error {
	return p.pointer.Destroy(p.conn)
}

// Close releases the manager's connection, if it owns one.
func (m *VirtualPointerManager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Convenience methods for common operations.

// MoveRelative moves the pointer by the specified amount.
func (p *VirtualPointer) MoveRelative(dx, dy float64) error {
	if err := p.Motion(time.Now(), dx, dy); err != nil {
		return err
	}
	return p.Frame()
}

// MoveAbsolute moves the pointer to an absolute position.
func (p *VirtualPointer) MoveAbsolute(x, y, xExtent, yExtent uint32) error {
	if err := p.MotionAbsolute(time.Now(), x, y, xExtent, yExtent); err != nil {
		return err
	}
	return p.Frame()
}

// Click performs a press-release cycle for the given button.
func Click(p *VirtualPointer, button uint32) error {
	now := time.Now()
	if err := p.Button(now, button, BUTTON_STATE_PRESSED); err != nil {
		return err
	}
	if err := p.Button(now, button, BUTTON_STATE_RELEASED); err != nil {
		return err
	}
	return p.Frame()
}

// LeftClick performs a left mouse button click.
func (p *VirtualPointer) LeftClick() error { return Click(p, BTN_LEFT) }

// RightClick performs a right mouse button click.
func (p *VirtualPointer) RightClick() error { return Click(p, BTN_RIGHT) }

// MiddleClick performs a middle mouse button click.
func (p *VirtualPointer) MiddleClick() error { return Click(p, BTN_MIDDLE) }

// ScrollVertical scrolls vertically by the specified amount.
func ScrollVertical(p *VirtualPointer, amount float64) error {
	if err := p.Axis(time.Now(), AXIS_VERTICAL_SCROLL, amount); err != nil {
		return err
	}
	return p.Frame()
}

// ScrollHorizontal scrolls horizontally by the specified amount.
func ScrollHorizontal(p *VirtualPointer, amount float64) error {
	if err := p.Axis(time.Now(), AXIS_HORIZONTAL_SCROLL, amount); err != nil {
		return err
	}
	return p.Frame()
}

// MoveRelative is a package-level convenience wrapper around (*VirtualPointer).MoveRelative.
func MoveRelative(p *VirtualPointer, dx, dy float64) error { return p.MoveRelative(dx, dy) }

// MoveAbsolute is a package-level convenience wrapper around (*VirtualPointer).MoveAbsolute.
func MoveAbsolute(p *VirtualPointer, x, y, xExtent, yExtent uint32) error {
	return p.MoveAbsolute(x, y, xExtent, yExtent)
}

// ScrollVertical scrolls vertically by the specified amount.
func (p *VirtualPointer) ScrollVertical(amount float64) error { return ScrollVertical(p, amount) }

// ScrollHorizontal scrolls horizontally by the specified amount.
func (p *VirtualPointer) ScrollHorizontal(amount float64) error { return ScrollHorizontal(p, amount) }

// Scroll dispatches to ScrollVertical or ScrollHorizontal depending on axis.
func Scroll(p *VirtualPointer, axis uint32, amount float64) error {
	if axis == AXIS_HORIZONTAL_SCROLL {
		return ScrollHorizontal(p, amount)
	}
	return ScrollVertical(p, amount)
}

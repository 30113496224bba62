// Package protocols holds hand-authored bindings for the three
// virtual-input Wayland protocols, shaped exactly like wl/wl.go: one
// struct per interface, an interface_str constant, an opcode table,
// typed request methods against a *conn.Connection, and typed event
// decoders where the interface has events.
package protocols

import (
	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/wire"
	"github.com/bnema/go-wlwire/wl"
	"github.com/bnema/go-wlwire/wlproto"
)

// VirtualPointerManager is the zwlr_virtual_pointer_manager_v1 global: it
// creates virtual pointer devices, optionally pinned to one output.
type VirtualPointerManager struct {
	Id      wlproto.ObjectId
	Version uint32
}

const VirtualPointerManagerInterfaceStr = "zwlr_virtual_pointer_manager_v1"

func (o *VirtualPointerManager) InterfaceStr() string { return VirtualPointerManagerInterfaceStr }

const (
	opcodeVirtualPointerManagerRequestCreateVirtualPointer           uint16 = 0
	opcodeVirtualPointerManagerRequestCreateVirtualPointerWithOutput uint16 = 1
)

// CreateVirtualPointer creates a virtual pointer device, optionally
// associated with the given seat (nil sends a null object, letting the
// compositor pick the default seat).
func (o *VirtualPointerManager) CreateVirtualPointer(c *conn.Connection, seat *wl.Seat) (*VirtualPointer, error) {
	args := wire.NewArgWriter()
	if seat == nil {
		args.PutObject(0)
	} else {
		args.PutObject(seat.Id)
	}
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeVirtualPointerManagerRequestCreateVirtualPointer, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &VirtualPointer{Id: newId, Version: o.Version}, nil
}

// CreateVirtualPointerWithOutput creates a virtual pointer pinned to the
// given output for absolute motion events. Requires manager version 2.
func (o *VirtualPointerManager) CreateVirtualPointerWithOutput(c *conn.Connection, seat *wl.Seat, output *wlproto.ObjectId) (*VirtualPointer, error) {
	if err := c.CheckVersion(o.Id, VirtualPointerManagerInterfaceStr, "create_virtual_pointer_with_output", 2); err != nil {
		return nil, err
	}
	args := wire.NewArgWriter()
	if seat == nil {
		args.PutObject(0)
	} else {
		args.PutObject(seat.Id)
	}
	if output == nil {
		args.PutObject(0)
	} else {
		args.PutObject(*output)
	}
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeVirtualPointerManagerRequestCreateVirtualPointerWithOutput, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &VirtualPointer{Id: newId, Version: o.Version}, nil
}

// VirtualPointer is the zwlr_virtual_pointer_v1 device proxy.
type VirtualPointer struct {
	Id      wlproto.ObjectId
	Version uint32
}

const VirtualPointerInterfaceStr = "zwlr_virtual_pointer_v1"

func (o *VirtualPointer) InterfaceStr() string { return VirtualPointerInterfaceStr }

const (
	opcodeVirtualPointerRequestMotion         uint16 = 0
	opcodeVirtualPointerRequestMotionAbsolute uint16 = 1
	opcodeVirtualPointerRequestButton         uint16 = 2
	opcodeVirtualPointerRequestAxis           uint16 = 3
	opcodeVirtualPointerRequestFrame          uint16 = 4
	opcodeVirtualPointerRequestAxisSource     uint16 = 5
	opcodeVirtualPointerRequestAxisStop       uint16 = 6
	opcodeVirtualPointerRequestAxisDiscrete   uint16 = 7
	opcodeVirtualPointerRequestDestroy        uint16 = 8
)

func (o *VirtualPointer) Motion(c *conn.Connection, timeMs uint32, dx, dy wlproto.Fixed) error {
	args := wire.NewArgWriter()
	args.PutUint32(timeMs)
	args.PutFixed(dx)
	args.PutFixed(dy)
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestMotion, args)
}

func (o *VirtualPointer) MotionAbsolute(c *conn.Connection, timeMs, x, y, xExtent, yExtent uint32) error {
	args := wire.NewArgWriter()
	args.PutUint32(timeMs)
	args.PutUint32(x)
	args.PutUint32(y)
	args.PutUint32(xExtent)
	args.PutUint32(yExtent)
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestMotionAbsolute, args)
}

func (o *VirtualPointer) Button(c *conn.Connection, timeMs, button, state uint32) error {
	args := wire.NewArgWriter()
	args.PutUint32(timeMs)
	args.PutUint32(button)
	args.PutUint32(state)
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestButton, args)
}

func (o *VirtualPointer) Axis(c *conn.Connection, timeMs, axis uint32, value wlproto.Fixed) error {
	args := wire.NewArgWriter()
	args.PutUint32(timeMs)
	args.PutUint32(axis)
	args.PutFixed(value)
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestAxis, args)
}

func (o *VirtualPointer) Frame(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestFrame, wire.NewArgWriter())
}

func (o *VirtualPointer) AxisSource(c *conn.Connection, axisSource uint32) error {
	args := wire.NewArgWriter()
	args.PutUint32(axisSource)
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestAxisSource, args)
}

func (o *VirtualPointer) AxisStop(c *conn.Connection, timeMs, axis uint32) error {
	args := wire.NewArgWriter()
	args.PutUint32(timeMs)
	args.PutUint32(axis)
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestAxisStop, args)
}

func (o *VirtualPointer) AxisDiscrete(c *conn.Connection, timeMs, axis uint32, value wlproto.Fixed, discrete int32) error {
	args := wire.NewArgWriter()
	args.PutUint32(timeMs)
	args.PutUint32(axis)
	args.PutFixed(value)
	args.PutInt32(discrete)
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestAxisDiscrete, args)
}

func (o *VirtualPointer) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeVirtualPointerRequestDestroy, wire.NewArgWriter())
}

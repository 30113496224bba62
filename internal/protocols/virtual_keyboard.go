package protocols

import (
	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/wire"
	"github.com/bnema/go-wlwire/wl"
	"github.com/bnema/go-wlwire/wlproto"
)

// VirtualKeyboardManager is the zwp_virtual_keyboard_manager_v1 global.
type VirtualKeyboardManager struct {
	Id      wlproto.ObjectId
	Version uint32
}

const VirtualKeyboardManagerInterfaceStr = "zwp_virtual_keyboard_manager_v1"

func (o *VirtualKeyboardManager) InterfaceStr() string { return VirtualKeyboardManagerInterfaceStr }

const (
	opcodeVirtualKeyboardManagerRequestCreateVirtualKeyboard uint16 = 0
)

// CreateVirtualKeyboard creates a virtual keyboard associated with the
// given seat.
func (o *VirtualKeyboardManager) CreateVirtualKeyboard(c *conn.Connection, seat *wl.Seat) (*VirtualKeyboard, error) {
	args := wire.NewArgWriter()
	if seat == nil {
		args.PutObject(0)
	} else {
		args.PutObject(seat.Id)
	}
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeVirtualKeyboardManagerRequestCreateVirtualKeyboard, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &VirtualKeyboard{Id: newId, Version: o.Version}, nil
}

// VirtualKeyboard is the zwp_virtual_keyboard_v1 device proxy.
type VirtualKeyboard struct {
	Id      wlproto.ObjectId
	Version uint32
}

const VirtualKeyboardInterfaceStr = "zwp_virtual_keyboard_v1"

func (o *VirtualKeyboard) InterfaceStr() string { return VirtualKeyboardInterfaceStr }

const (
	opcodeVirtualKeyboardRequestKeymap    uint16 = 0
	opcodeVirtualKeyboardRequestKey       uint16 = 1
	opcodeVirtualKeyboardRequestModifiers uint16 = 2
	opcodeVirtualKeyboardRequestDestroy   uint16 = 3
)

// Keymap uploads a keymap description over fd, in the given format, size
// bytes long. The compositor takes ownership of fd's contents by mmap'ing
// it; the caller's copy should be closed after this call returns.
func (o *VirtualKeyboard) Keymap(c *conn.Connection, format uint32, fd int, size uint32) error {
	args := wire.NewArgWriter()
	args.PutUint32(format)
	args.PutFd(fd)
	args.PutUint32(size)
	return c.SendRequest(o.Id, opcodeVirtualKeyboardRequestKeymap, args)
}

func (o *VirtualKeyboard) Key(c *conn.Connection, timeMs, key, state uint32) error {
	args := wire.NewArgWriter()
	args.PutUint32(timeMs)
	args.PutUint32(key)
	args.PutUint32(state)
	return c.SendRequest(o.Id, opcodeVirtualKeyboardRequestKey, args)
}

func (o *VirtualKeyboard) Modifiers(c *conn.Connection, modsDepressed, modsLatched, modsLocked, group uint32) error {
	args := wire.NewArgWriter()
	args.PutUint32(modsDepressed)
	args.PutUint32(modsLatched)
	args.PutUint32(modsLocked)
	args.PutUint32(group)
	return c.SendRequest(o.Id, opcodeVirtualKeyboardRequestModifiers, args)
}

func (o *VirtualKeyboard) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeVirtualKeyboardRequestDestroy, wire.NewArgWriter())
}

package protocols

import (
	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/wire"
	"github.com/bnema/go-wlwire/wl"
	"github.com/bnema/go-wlwire/wlproto"
)

// PointerConstraintsManager is the zwp_pointer_constraints_v1 global: it
// creates locked or confined pointer constraints tied to a surface.
type PointerConstraintsManager struct {
	Id      wlproto.ObjectId
	Version uint32
}

const PointerConstraintsManagerInterfaceStr = "zwp_pointer_constraints_v1"

func (o *PointerConstraintsManager) InterfaceStr() string {
	return PointerConstraintsManagerInterfaceStr
}

// Lifetime is the zwp_pointer_constraints_v1 lifetime enum shared by
// lock_pointer and confine_pointer.
type Lifetime uint32

const (
	LifetimeOneshot    Lifetime = 1
	LifetimePersistent Lifetime = 2
)

const (
	opcodePointerConstraintsManagerRequestDestroy        uint16 = 0
	opcodePointerConstraintsManagerRequestLockPointer    uint16 = 1
	opcodePointerConstraintsManagerRequestConfinePointer uint16 = 2
)

func (o *PointerConstraintsManager) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodePointerConstraintsManagerRequestDestroy, wire.NewArgWriter())
}

// LockPointer locks pointer to its current position on the given surface,
// optionally restricted to region (nil means the whole surface).
func (o *PointerConstraintsManager) LockPointer(c *conn.Connection, surface *wl.Surface, pointer *wl.Seat, region *wlproto.ObjectId, lifetime Lifetime) (*LockedPointer, error) {
	args := wire.NewArgWriter()
	args.PutObject(surface.Id)
	args.PutObject(pointer.Id)
	if region == nil {
		args.PutObject(0)
	} else {
		args.PutObject(*region)
	}
	args.PutUint32(uint32(lifetime))
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodePointerConstraintsManagerRequestLockPointer, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &LockedPointer{Id: newId, Version: o.Version}, nil
}

// ConfinePointer confines pointer motion to region (nil means the whole
// surface) while it remains within the given surface.
func (o *PointerConstraintsManager) ConfinePointer(c *conn.Connection, surface *wl.Surface, pointer *wl.Seat, region *wlproto.ObjectId, lifetime Lifetime) (*ConfinedPointer, error) {
	args := wire.NewArgWriter()
	args.PutObject(surface.Id)
	args.PutObject(pointer.Id)
	if region == nil {
		args.PutObject(0)
	} else {
		args.PutObject(*region)
	}
	args.PutUint32(uint32(lifetime))
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodePointerConstraintsManagerRequestConfinePointer, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &ConfinedPointer{Id: newId, Version: o.Version}, nil
}

// LockedPointer is the zwp_locked_pointer_v1 proxy.
type LockedPointer struct {
	Id      wlproto.ObjectId
	Version uint32
}

const LockedPointerInterfaceStr = "zwp_locked_pointer_v1"

func (o *LockedPointer) InterfaceStr() string { return LockedPointerInterfaceStr }

const (
	opcodeLockedPointerRequestDestroy               uint16 = 0
	opcodeLockedPointerRequestSetCursorPositionHint uint16 = 1
	opcodeLockedPointerRequestSetRegion             uint16 = 2
)

const (
	opcodeLockedPointerEventLocked   uint16 = 0
	opcodeLockedPointerEventUnlocked uint16 = 1
)

func (o *LockedPointer) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeLockedPointerRequestDestroy, wire.NewArgWriter())
}

func (o *LockedPointer) SetCursorPositionHint(c *conn.Connection, surfaceX, surfaceY wlproto.Fixed) error {
	args := wire.NewArgWriter()
	args.PutFixed(surfaceX)
	args.PutFixed(surfaceY)
	return c.SendRequest(o.Id, opcodeLockedPointerRequestSetCursorPositionHint, args)
}

func (o *LockedPointer) SetRegion(c *conn.Connection, region *wlproto.ObjectId) error {
	args := wire.NewArgWriter()
	if region == nil {
		args.PutObject(0)
	} else {
		args.PutObject(*region)
	}
	return c.SendRequest(o.Id, opcodeLockedPointerRequestSetRegion, args)
}

// LockedPointerLockedEvent announces the lock has taken effect.
type LockedPointerLockedEvent struct{ Self *LockedPointer }

// DecodeLockedPointerLockedEvent decodes a zwp_locked_pointer_v1.locked event.
func DecodeLockedPointerLockedEvent(self *LockedPointer, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*LockedPointerLockedEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeLockedPointerEventLocked {
		return nil, false, nil
	}
	return &LockedPointerLockedEvent{Self: self}, true, nil
}

// LockedPointerUnlockedEvent announces the lock has been deactivated.
type LockedPointerUnlockedEvent struct{ Self *LockedPointer }

// DecodeLockedPointerUnlockedEvent decodes a zwp_locked_pointer_v1.unlocked event.
func DecodeLockedPointerUnlockedEvent(self *LockedPointer, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*LockedPointerUnlockedEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeLockedPointerEventUnlocked {
		return nil, false, nil
	}
	return &LockedPointerUnlockedEvent{Self: self}, true, nil
}

// ConfinedPointer is the zwp_confined_pointer_v1 proxy.
type ConfinedPointer struct {
	Id      wlproto.ObjectId
	Version uint32
}

const ConfinedPointerInterfaceStr = "zwp_confined_pointer_v1"

func (o *ConfinedPointer) InterfaceStr() string { return ConfinedPointerInterfaceStr }

const (
	opcodeConfinedPointerRequestDestroy   uint16 = 0
	opcodeConfinedPointerRequestSetRegion uint16 = 1
)

const (
	opcodeConfinedPointerEventConfined   uint16 = 0
	opcodeConfinedPointerEventUnconfined uint16 = 1
)

func (o *ConfinedPointer) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeConfinedPointerRequestDestroy, wire.NewArgWriter())
}

func (o *ConfinedPointer) SetRegion(c *conn.Connection, region *wlproto.ObjectId) error {
	args := wire.NewArgWriter()
	if region == nil {
		args.PutObject(0)
	} else {
		args.PutObject(*region)
	}
	return c.SendRequest(o.Id, opcodeConfinedPointerRequestSetRegion, args)
}

// ConfinedPointerConfinedEvent announces the confinement has taken effect.
type ConfinedPointerConfinedEvent struct{ Self *ConfinedPointer }

// DecodeConfinedPointerConfinedEvent decodes a zwp_confined_pointer_v1.confined event.
func DecodeConfinedPointerConfinedEvent(self *ConfinedPointer, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*ConfinedPointerConfinedEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeConfinedPointerEventConfined {
		return nil, false, nil
	}
	return &ConfinedPointerConfinedEvent{Self: self}, true, nil
}

// ConfinedPointerUnconfinedEvent announces the confinement has been deactivated.
type ConfinedPointerUnconfinedEvent struct{ Self *ConfinedPointer }

// DecodeConfinedPointerUnconfinedEvent decodes a zwp_confined_pointer_v1.unconfined event.
func DecodeConfinedPointerUnconfinedEvent(self *ConfinedPointer, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*ConfinedPointerUnconfinedEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeConfinedPointerEventUnconfined {
		return nil, false, nil
	}
	return &ConfinedPointerUnconfinedEvent{Self: self}, true, nil
}

// Package wl holds hand-authored bindings for the Wayland core protocol —
// wl_display, wl_registry, wl_callback, wl_compositor, wl_shm,
// wl_shm_pool, wl_buffer, wl_surface, and wl_seat. It is the minimal
// surface needed to connect, enumerate globals, and push a buffer to a
// surface, and it follows the layout emit produces from wayland.xml: one
// struct per interface, an interface_str constant, an opcode table, typed
// request methods, and typed event decoders. Its names differ from emit's
// output: struct names drop the wl_ prefix and request methods are
// exported.
package wl

import (
	"github.com/bnema/go-wlwire/conn"
	"github.com/bnema/go-wlwire/wire"
	"github.com/bnema/go-wlwire/wlproto"
)

// Display is the fixed object-id-1 singleton every connection starts
// with. Its requests are the client's two entry points into the protocol:
// Sync and GetRegistry.
type Display struct {
	Id      wlproto.ObjectId
	Version uint32
}

const DisplayInterfaceStr = "wl_display"

func (o *Display) InterfaceStr() string { return DisplayInterfaceStr }

// NewDisplay returns the fixed display object bound at version 1, ready
// to issue Sync/GetRegistry on a freshly connected socket.
func NewDisplay() *Display {
	return &Display{Id: wlproto.DisplayId, Version: 1}
}

const (
	opcodeDisplayRequestSync        uint16 = 0
	opcodeDisplayRequestGetRegistry uint16 = 1
)

const (
	opcodeDisplayEventError    uint16 = 0
	opcodeDisplayEventDeleteId uint16 = 1
)

// DisplayErrorCode is the fatal-error category carried by a display::error
// event.
type DisplayErrorCode uint32

const (
	DisplayErrorCodeInvalidObject  DisplayErrorCode = 0
	DisplayErrorCodeInvalidMethod  DisplayErrorCode = 1
	DisplayErrorCodeNoMemory       DisplayErrorCode = 2
	DisplayErrorCodeImplementation DisplayErrorCode = 3
)

// Sync asks the server to emit a callback event once all requests issued
// before this one have been processed, giving the client a round-trip
// barrier.
func (o *Display) Sync(c *conn.Connection) (*Callback, error) {
	args := wire.NewArgWriter()
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeDisplayRequestSync, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &Callback{Id: newId, Version: o.Version}, nil
}

// GetRegistry creates a registry object exposing the global objects
// available on this connection.
func (o *Display) GetRegistry(c *conn.Connection) (*Registry, error) {
	args := wire.NewArgWriter()
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeDisplayRequestGetRegistry, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &Registry{Id: newId, Version: o.Version}, nil
}

// DisplayErrorEvent reports a fatal protocol error on objectId.
type DisplayErrorEvent struct {
	Self     *Display
	ObjectId wlproto.ObjectId
	Code     DisplayErrorCode
	Message  string
}

// DecodeDisplayErrorEvent decodes a wl_display.error event.
func DecodeDisplayErrorEvent(self *Display, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*DisplayErrorEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeDisplayEventError {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	objectId, err := r.Object(false)
	if err != nil {
		return nil, false, err
	}
	code, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	message, err := r.String(false)
	if err != nil {
		return nil, false, err
	}
	return &DisplayErrorEvent{Self: self, ObjectId: objectId, Code: DisplayErrorCode(code), Message: message}, true, nil
}

// DisplayDeleteIdEvent tells the client an object id is free to reuse; the
// client must not reuse it for a new object until this event arrives.
type DisplayDeleteIdEvent struct {
	Self *Display
	Id   uint32
}

// DecodeDisplayDeleteIdEvent decodes a wl_display.delete_id event.
func DecodeDisplayDeleteIdEvent(self *Display, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*DisplayDeleteIdEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeDisplayEventDeleteId {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	id, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	return &DisplayDeleteIdEvent{Self: self, Id: id}, true, nil
}

// Registry exposes the server's global objects via the global/global_remove
// events, and lets the client bind one by (name, interface, version).
type Registry struct {
	Id      wlproto.ObjectId
	Version uint32
}

const RegistryInterfaceStr = "wl_registry"

func (o *Registry) InterfaceStr() string { return RegistryInterfaceStr }

const (
	opcodeRegistryRequestBind uint16 = 0
)

const (
	opcodeRegistryEventGlobal       uint16 = 0
	opcodeRegistryEventGlobalRemove uint16 = 1
)

// Bind creates a local proxy for the global identified by name, of the
// given interface and version. The wire encoding is the generic bind
// new_id form (interface string, version, id) since the target interface
// is chosen at runtime rather than known at generation time.
func (o *Registry) Bind(c *conn.Connection, name uint32, interfaceStr string, version uint32) (wlproto.ObjectId, error) {
	args := wire.NewArgWriter()
	args.PutUint32(name)
	newId := c.NextObjectId()
	args.PutNewIdGeneric(interfaceStr, version, newId)
	if err := c.SendRequest(o.Id, opcodeRegistryRequestBind, args); err != nil {
		return 0, err
	}
	c.Bind(newId, version)
	return newId, nil
}

// RegistryGlobalEvent announces one global object available to bind.
type RegistryGlobalEvent struct {
	Self      *Registry
	Name      uint32
	Interface string
	Version   uint32
}

// DecodeRegistryGlobalEvent decodes a wl_registry.global event.
func DecodeRegistryGlobalEvent(self *Registry, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*RegistryGlobalEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeRegistryEventGlobal {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	name, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	interfaceStr, err := r.String(false)
	if err != nil {
		return nil, false, err
	}
	version, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	return &RegistryGlobalEvent{Self: self, Name: name, Interface: interfaceStr, Version: version}, true, nil
}

// RegistryGlobalRemoveEvent announces that a previously-advertised global
// is no longer available. Already-bound proxies remain valid.
type RegistryGlobalRemoveEvent struct {
	Self *Registry
	Name uint32
}

// DecodeRegistryGlobalRemoveEvent decodes a wl_registry.global_remove event.
func DecodeRegistryGlobalRemoveEvent(self *Registry, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*RegistryGlobalRemoveEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeRegistryEventGlobalRemove {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	name, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	return &RegistryGlobalRemoveEvent{Self: self, Name: name}, true, nil
}

// Callback fires a single Done event, then is never referenced again.
type Callback struct {
	Id      wlproto.ObjectId
	Version uint32
}

const CallbackInterfaceStr = "wl_callback"

func (o *Callback) InterfaceStr() string { return CallbackInterfaceStr }

const (
	opcodeCallbackEventDone uint16 = 0
)

// CallbackDoneEvent is the one event a callback ever fires.
type CallbackDoneEvent struct {
	Self         *Callback
	CallbackData uint32
}

// DecodeCallbackDoneEvent decodes a wl_callback.done event.
func DecodeCallbackDoneEvent(self *Callback, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*CallbackDoneEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeCallbackEventDone {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	data, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	return &CallbackDoneEvent{Self: self, CallbackData: data}, true, nil
}

// Compositor creates new surfaces.
type Compositor struct {
	Id      wlproto.ObjectId
	Version uint32
}

const CompositorInterfaceStr = "wl_compositor"

func (o *Compositor) InterfaceStr() string { return CompositorInterfaceStr }

const (
	opcodeCompositorRequestCreateSurface uint16 = 0
)

// CreateSurface allocates a new, empty (not yet mapped) surface.
func (o *Compositor) CreateSurface(c *conn.Connection) (*Surface, error) {
	args := wire.NewArgWriter()
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeCompositorRequestCreateSurface, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &Surface{Id: newId, Version: o.Version}, nil
}

// Shm provides pools of shared memory the client carves buffers out of.
type Shm struct {
	Id      wlproto.ObjectId
	Version uint32
}

const ShmInterfaceStr = "wl_shm"

func (o *Shm) InterfaceStr() string { return ShmInterfaceStr }

const (
	opcodeShmRequestCreatePool uint16 = 0
)

const (
	opcodeShmEventFormat uint16 = 0
)

// ShmFormat identifies a pixel format usable in an shm pool's buffers.
type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
)

// CreatePool creates a pool backed by the shared memory file descriptor
// fd, of the given total size in bytes. fd is transmitted out of band via
// SCM_RIGHTS and may be closed by the caller once this call returns.
func (o *Shm) CreatePool(c *conn.Connection, fd int, size int32) (*ShmPool, error) {
	newId := c.NextObjectId()
	args := wire.NewArgWriter()
	args.PutNewId(newId)
	args.PutFd(fd)
	args.PutInt32(size)
	if err := c.SendRequest(o.Id, opcodeShmRequestCreatePool, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &ShmPool{Id: newId, Version: o.Version}, nil
}

// ShmFormatEvent announces one pixel format the compositor accepts.
type ShmFormatEvent struct {
	Self   *Shm
	Format ShmFormat
}

// DecodeShmFormatEvent decodes a wl_shm.format event.
func DecodeShmFormatEvent(self *Shm, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*ShmFormatEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeShmEventFormat {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	v, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	return &ShmFormatEvent{Self: self, Format: ShmFormat(v)}, true, nil
}

// ShmPool is a region of shared memory buffers are carved out of.
type ShmPool struct {
	Id      wlproto.ObjectId
	Version uint32
}

const ShmPoolInterfaceStr = "wl_shm_pool"

func (o *ShmPool) InterfaceStr() string { return ShmPoolInterfaceStr }

const (
	opcodeShmPoolRequestCreateBuffer uint16 = 0
	opcodeShmPoolRequestDestroy      uint16 = 1
	opcodeShmPoolRequestResize       uint16 = 2
)

// CreateBuffer carves a buffer of width x height pixels in format out of
// the pool at byte offset, with the given row stride.
func (o *ShmPool) CreateBuffer(c *conn.Connection, offset, width, height, stride int32, format ShmFormat) (*Buffer, error) {
	args := wire.NewArgWriter()
	args.PutInt32(offset)
	args.PutInt32(width)
	args.PutInt32(height)
	args.PutInt32(stride)
	args.PutUint32(uint32(format))
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeShmPoolRequestCreateBuffer, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &Buffer{Id: newId, Version: o.Version}, nil
}

// Destroy destroys the pool. Buffers already carved out of it remain valid.
func (o *ShmPool) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeShmPoolRequestDestroy, wire.NewArgWriter())
}

// Resize grows the pool to a new total size in bytes; it can never shrink.
func (o *ShmPool) Resize(c *conn.Connection, size int32) error {
	args := wire.NewArgWriter()
	args.PutInt32(size)
	return c.SendRequest(o.Id, opcodeShmPoolRequestResize, args)
}

// Buffer wraps a single region of an shm pool, ready to be attached to a
// surface.
type Buffer struct {
	Id      wlproto.ObjectId
	Version uint32
}

const BufferInterfaceStr = "wl_buffer"

func (o *Buffer) InterfaceStr() string { return BufferInterfaceStr }

const (
	opcodeBufferRequestDestroy uint16 = 0
)

const (
	opcodeBufferEventRelease uint16 = 0
)

// Destroy destroys the buffer.
func (o *Buffer) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeBufferRequestDestroy, wire.NewArgWriter())
}

// BufferReleaseEvent tells the client the compositor no longer needs the
// buffer's contents and it may be reused or freed.
type BufferReleaseEvent struct {
	Self *Buffer
}

// DecodeBufferReleaseEvent decodes a wl_buffer.release event.
func DecodeBufferReleaseEvent(self *Buffer, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*BufferReleaseEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeBufferEventRelease {
		return nil, false, nil
	}
	return &BufferReleaseEvent{Self: self}, true, nil
}

// Surface is an onscreen region a client can attach buffers to.
type Surface struct {
	Id      wlproto.ObjectId
	Version uint32
}

const SurfaceInterfaceStr = "wl_surface"

func (o *Surface) InterfaceStr() string { return SurfaceInterfaceStr }

const (
	opcodeSurfaceRequestDestroy uint16 = 0
	opcodeSurfaceRequestAttach  uint16 = 1
	opcodeSurfaceRequestDamage  uint16 = 2
	opcodeSurfaceRequestFrame   uint16 = 3
	opcodeSurfaceRequestCommit  uint16 = 4
)

const (
	opcodeSurfaceEventEnter uint16 = 0
	opcodeSurfaceEventLeave uint16 = 1
)

// Destroy destroys the surface.
func (o *Surface) Destroy(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeSurfaceRequestDestroy, wire.NewArgWriter())
}

// Attach sets the buffer that will be the surface's content once Commit is
// called. A nil buffer detaches the surface's current content.
func (o *Surface) Attach(c *conn.Connection, buffer *Buffer, x, y int32) error {
	args := wire.NewArgWriter()
	if buffer == nil {
		args.PutObject(0)
	} else {
		args.PutObject(buffer.Id)
	}
	args.PutInt32(x)
	args.PutInt32(y)
	return c.SendRequest(o.Id, opcodeSurfaceRequestAttach, args)
}

// Damage marks a rectangle of the surface's content as changed since the
// last Commit, in surface-local coordinates.
func (o *Surface) Damage(c *conn.Connection, x, y, width, height int32) error {
	args := wire.NewArgWriter()
	args.PutInt32(x)
	args.PutInt32(y)
	args.PutInt32(width)
	args.PutInt32(height)
	return c.SendRequest(o.Id, opcodeSurfaceRequestDamage, args)
}

// Frame requests a one-shot callback fired when this surface is next a
// good time to start drawing the following frame.
func (o *Surface) Frame(c *conn.Connection) (*Callback, error) {
	args := wire.NewArgWriter()
	newId := c.NextObjectId()
	args.PutNewId(newId)
	if err := c.SendRequest(o.Id, opcodeSurfaceRequestFrame, args); err != nil {
		return nil, err
	}
	c.Bind(newId, o.Version)
	return &Callback{Id: newId, Version: o.Version}, nil
}

// Commit atomically applies all pending state (attach, damage, ...) set
// since the last Commit.
func (o *Surface) Commit(c *conn.Connection) error {
	return c.SendRequest(o.Id, opcodeSurfaceRequestCommit, wire.NewArgWriter())
}

// SurfaceEnterEvent announces that the surface has entered the given
// output's display area.
type SurfaceEnterEvent struct {
	Self   *Surface
	Output wlproto.ObjectId
}

// DecodeSurfaceEnterEvent decodes a wl_surface.enter event.
func DecodeSurfaceEnterEvent(self *Surface, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*SurfaceEnterEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeSurfaceEventEnter {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	output, err := r.Object(false)
	if err != nil {
		return nil, false, err
	}
	return &SurfaceEnterEvent{Self: self, Output: output}, true, nil
}

// SurfaceLeaveEvent announces that the surface has left the given
// output's display area.
type SurfaceLeaveEvent struct {
	Self   *Surface
	Output wlproto.ObjectId
}

// DecodeSurfaceLeaveEvent decodes a wl_surface.leave event.
func DecodeSurfaceLeaveEvent(self *Surface, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*SurfaceLeaveEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeSurfaceEventLeave {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	output, err := r.Object(false)
	if err != nil {
		return nil, false, err
	}
	return &SurfaceLeaveEvent{Self: self, Output: output}, true, nil
}

// Seat groups one set of input devices (pointer, keyboard, touch) the
// compositor presents as a single user.
type Seat struct {
	Id      wlproto.ObjectId
	Version uint32
}

const SeatInterfaceStr = "wl_seat"

func (o *Seat) InterfaceStr() string { return SeatInterfaceStr }

const (
	opcodeSeatEventCapabilities uint16 = 0
	opcodeSeatEventName         uint16 = 1
)

// SeatCapability is the bitfield of input device classes a seat exposes.
type SeatCapability uint32

const (
	SeatCapabilityPointer  SeatCapability = 0x1
	SeatCapabilityKeyboard SeatCapability = 0x2
	SeatCapabilityTouch    SeatCapability = 0x4
)

// SeatCapabilitiesEvent announces which input device classes this seat
// currently exposes.
type SeatCapabilitiesEvent struct {
	Self         *Seat
	Capabilities SeatCapability
}

// DecodeSeatCapabilitiesEvent decodes a wl_seat.capabilities event.
func DecodeSeatCapabilitiesEvent(self *Seat, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*SeatCapabilitiesEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeSeatEventCapabilities {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	v, err := r.Uint32()
	if err != nil {
		return nil, false, err
	}
	return &SeatCapabilitiesEvent{Self: self, Capabilities: SeatCapability(v)}, true, nil
}

// SeatNameEvent announces a compositor-chosen human-readable name for the
// seat. Only sent by compositors implementing wl_seat version >= 2.
type SeatNameEvent struct {
	Self *Seat
	Name string
}

// DecodeSeatNameEvent decodes a wl_seat.name event.
func DecodeSeatNameEvent(self *Seat, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*SeatNameEvent, bool, error) {
	if ev.SelfId != self.Id || ev.Opcode != opcodeSeatEventName {
		return nil, false, nil
	}
	r := wire.NewArgReader(ev.ArgBytes, fdq)
	name, err := r.String(false)
	if err != nil {
		return nil, false, err
	}
	return &SeatNameEvent{Self: self, Name: name}, true, nil
}

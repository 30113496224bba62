// Package wlproto holds the runtime value types shared by the wire codec,
// the connection context, and every generated per-interface binding.
package wlproto

import "fmt"

// ObjectId identifies a live Wayland object on a connection. Zero means
// "no object" and is only legal where the argument allows null.
type ObjectId uint32

// DisplayId is the fixed object id of the wl_display singleton.
const DisplayId ObjectId = 1

// Fixed is a signed 24.8 fixed-point wire scalar.
type Fixed int32

// NewFixed converts a float64 into its 24.8 fixed-point wire representation.
func NewFixed(v float64) Fixed {
	return Fixed(v * 256.0)
}

// Float64 converts a Fixed back into a float64.
func (f Fixed) Float64() float64 {
	return float64(f) / 256.0
}

// Int truncates the Fixed value toward zero, as an integer.
func (f Fixed) Int() int32 {
	return int32(f) / 256
}

// Header is the 8-byte framing prefix of every Wayland message.
type Header struct {
	ObjectId ObjectId
	Opcode   uint16
	Length   uint16 // total bytes of the message, including this header
}

// AnonymousEvent is an undecoded event read off the wire: a self id, an
// opcode, and a view of the argument bytes. wire.ReadEvent leaves
// ReceivedFds empty; descriptors received alongside events are queued on
// the connection's FD queue and taken from there by ArgReader.Fd.
// ArgBytes borrows the connection's read buffer and is only valid until
// the next call to Connection.ReadEvent.
type AnonymousEvent struct {
	SelfId        ObjectId
	Opcode        uint16
	ReceivedFds   []int
	ArgBytes      []byte
}

// Interface identifies a bound object of a generation-time-known Wayland
// interface: its object id and the version it was created with.
type Interface struct {
	Id      ObjectId
	Version uint32
}

// InterfaceStr is satisfied by every generated per-interface descriptor
// type, giving it the interface's wire name for bind/error reporting.
type InterfaceStr interface {
	InterfaceStr() string
}

// VersionError is returned when a request with a `since` requirement is
// invoked on an object bound at a lower version. No bytes are sent.
type VersionError struct {
	Interface string
	Request   string
	Since     uint32
	Bound     uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s.%s requires version >= %d, object bound at version %d", e.Interface, e.Request, e.Since, e.Bound)
}

// Package wire implements the Wayland wire codec: message framing, argument
// encoding and decoding, and the ancillary SCM_RIGHTS channel used to pass
// file descriptors alongside a Unix domain stream socket.
//
// This is the lowest-level package in the module. Generated per-interface
// bindings (see the wl package) build an ArgWriter per request and consume
// an ArgReader per event; nothing above this package touches raw bytes.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/bnema/go-wlwire/wlproto"
)

// HeaderSize is the fixed size, in bytes, of every Wayland message header.
const HeaderSize = 8

// MinReadBufferSize is the smallest read buffer the connection layer is
// allowed to configure, per spec.
const MinReadBufferSize = 4096

// Decoding errors, per the error kinds enumerated for the wire codec.
var (
	ErrUnexpectedEnd     = errors.New("wire: payload shorter than declared")
	ErrNullNonNullString = errors.New("wire: non-nullable string field was null")
	ErrNullNonNullObject = errors.New("wire: non-nullable object field was null")
	ErrExpectedFD        = errors.New("wire: fd field had no corresponding descriptor in the fd queue")
	ErrEventTooBig       = errors.New("wire: event does not fit in the read buffer")
	ErrShortSend         = errors.New("wire: short send, socket not connected")
	ErrBadHeaderLength   = errors.New("wire: header length is not >= 8 and a multiple of 4")
)

// pad returns the number of zero-padding bytes needed to round n up to the
// next multiple of 4.
func pad(n int) int {
	return (4 - (n % 4)) % 4
}

// ArgWriter accumulates the in-band argument bytes and out-of-band file
// descriptors for a single outgoing request.
type ArgWriter struct {
	buf []byte
	fds []int
}

// NewArgWriter returns an ArgWriter ready to accept arguments in
// declaration order.
func NewArgWriter() *ArgWriter {
	return &ArgWriter{}
}

func (w *ArgWriter) PutInt32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *ArgWriter) PutUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *ArgWriter) PutFixed(v wlproto.Fixed) {
	w.PutInt32(int32(v))
}

// PutObject writes an object-id argument. A zero id is only valid where the
// caller has already confirmed the argument allows null; the wire codec
// does not enforce nullability on encode, only on decode.
func (w *ArgWriter) PutObject(id wlproto.ObjectId) {
	w.PutUint32(uint32(id))
}

// PutNewId writes a new_id argument whose interface is statically known:
// just the freshly allocated id, 4 bytes.
func (w *ArgWriter) PutNewId(id wlproto.ObjectId) {
	w.PutUint32(uint32(id))
}

// PutNewIdGeneric writes the generic bind-style new_id encoding: interface
// name string, version, then id, in that order (spec.md Open Question (b)).
func (w *ArgWriter) PutNewIdGeneric(interfaceStr string, version uint32, id wlproto.ObjectId) {
	w.PutString(interfaceStr)
	w.PutUint32(version)
	w.PutUint32(uint32(id))
}

// PutString writes a non-null string argument: length-prefixed (including
// the trailing NUL), NUL-terminated, zero-padded to a 4-byte boundary.
func (w *ArgWriter) PutString(s string) {
	n := len(s) + 1
	w.PutUint32(uint32(n))
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	for i := 0; i < pad(n); i++ {
		w.buf = append(w.buf, 0)
	}
}

// PutNullString writes a nullable string argument as null: length 0, no
// payload, no padding.
func (w *ArgWriter) PutNullString() {
	w.PutUint32(0)
}

// PutArray writes an array argument: byte length, raw bytes, zero-padded.
func (w *ArgWriter) PutArray(data []byte) {
	w.PutUint32(uint32(len(data)))
	w.buf = append(w.buf, data...)
	for i := 0; i < pad(len(data)); i++ {
		w.buf = append(w.buf, 0)
	}
}

// PutFd records a file descriptor to be transmitted out of band, in the
// order it was declared in the request's argument list. It contributes no
// in-band bytes.
func (w *ArgWriter) PutFd(fd int) {
	w.fds = append(w.fds, fd)
}

// Bytes returns the accumulated in-band argument bytes.
func (w *ArgWriter) Bytes() []byte { return w.buf }

// Fds returns the file descriptors accumulated so far, in declaration order.
func (w *ArgWriter) Fds() []int { return w.fds }

// SendRequest builds the full wire message (header + argument bytes) for a
// single request and sends it over conn as one write, with any accumulated
// file descriptors attached as a single SCM_RIGHTS ancillary message. A
// short send is treated as fatal: Wayland requires control data to land
// with the first segment of the message, so partial sends cannot be
// retried piecemeal.
func SendRequest(conn *net.UnixConn, objectId wlproto.ObjectId, opcode uint16, args *ArgWriter) error {
	body := args.Bytes()
	length := HeaderSize + len(body)
	if length > 0xffff {
		return fmt.Errorf("wire: request too large (%d bytes)", length)
	}

	msg := make([]byte, length)
	binary.LittleEndian.PutUint32(msg[0:4], uint32(objectId))
	binary.LittleEndian.PutUint32(msg[4:8], uint32(length)<<16|uint32(opcode))
	copy(msg[HeaderSize:], body)

	var oob []byte
	if fds := args.Fds(); len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}

	n, oobn, err := conn.WriteMsgUnix(msg, oob, nil)
	if err != nil {
		return fmt.Errorf("wire: send_request: %w", err)
	}
	if n != len(msg) || oobn != len(oob) {
		return ErrShortSend
	}
	return nil
}

// ReadBuffer is the connection's fixed-capacity receive buffer. Its
// contents are borrowed by AnonymousEvent.ArgBytes until the next call to
// ReadEvent; callers must finish decoding an event before reading again.
// Bytes read off the socket past the end of the current message are kept
// in carry, a small staging area copied to the front of data on the next
// call, so a single stream read that spans two messages never blocks.
type ReadBuffer struct {
	data  []byte
	carry []byte
}

// NewReadBuffer allocates a ReadBuffer of at least MinReadBufferSize bytes.
func NewReadBuffer(capacity int) *ReadBuffer {
	if capacity < MinReadBufferSize {
		capacity = MinReadBufferSize
	}
	return &ReadBuffer{data: make([]byte, capacity)}
}

// FDQueue holds file descriptors received via ancillary data, to be
// attributed to events in the order they are decoded.
type FDQueue struct {
	fds []int
}

// Push appends received file descriptors to the back of the queue.
func (q *FDQueue) Push(fds ...int) {
	q.fds = append(q.fds, fds...)
}

// Pop removes and returns the oldest queued file descriptor.
func (q *FDQueue) Pop() (int, bool) {
	if len(q.fds) == 0 {
		return 0, false
	}
	fd := q.fds[0]
	q.fds = q.fds[1:]
	return fd, true
}

// Len reports how many file descriptors remain queued.
func (q *FDQueue) Len() int { return len(q.fds) }

// ReadEvent reads one complete message off conn into buf, draining any
// ancillary file descriptors into fdq, and returns the decoded header plus
// an AnonymousEvent whose ArgBytes view the message body inside buf. It
// loops, issuing further ReadMsgUnix calls, until at least header.Length
// bytes of the current message are buffered.
func ReadEvent(conn *net.UnixConn, buf *ReadBuffer, fdq *FDQueue) (wlproto.Header, wlproto.AnonymousEvent, error) {
	have := copy(buf.data, buf.carry)
	buf.carry = buf.carry[:0]

	readMore := func(upTo int) error {
		for have < upTo {
			oob := make([]byte, unix.CmsgSpace(4*16))
			n, oobn, _, _, err := conn.ReadMsgUnix(buf.data[have:], oob)
			if err != nil {
				return fmt.Errorf("wire: read_event: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("wire: read_event: connection closed")
			}
			have += n
			if oobn > 0 {
				if fds, err := parseRights(oob[:oobn]); err == nil {
					fdq.Push(fds...)
				}
			}
		}
		return nil
	}

	if err := readMore(HeaderSize); err != nil {
		return wlproto.Header{}, wlproto.AnonymousEvent{}, err
	}

	objectId := wlproto.ObjectId(binary.LittleEndian.Uint32(buf.data[0:4]))
	sizeOpcode := binary.LittleEndian.Uint32(buf.data[4:8])
	length := uint16(sizeOpcode >> 16)
	opcode := uint16(sizeOpcode & 0xffff)

	if length < HeaderSize || length%4 != 0 {
		return wlproto.Header{}, wlproto.AnonymousEvent{}, ErrBadHeaderLength
	}
	if int(length) > cap(buf.data) {
		return wlproto.Header{}, wlproto.AnonymousEvent{}, ErrEventTooBig
	}

	if err := readMore(int(length)); err != nil {
		return wlproto.Header{}, wlproto.AnonymousEvent{}, err
	}

	header := wlproto.Header{ObjectId: objectId, Opcode: opcode, Length: length}
	body := buf.data[HeaderSize:length]

	// Retain any bytes read past this message's end for the next call.
	buf.carry = append(buf.carry, buf.data[length:have]...)

	event := wlproto.AnonymousEvent{
		SelfId:   objectId,
		Opcode:   opcode,
		ArgBytes: body,
	}
	return header, event, nil
}

func parseRights(oob []byte) ([]int, error) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}
	var fds []int
	for _, m := range msgs {
		f, err := unix.ParseUnixRights(&m)
		if err != nil {
			continue
		}
		fds = append(fds, f...)
	}
	return fds, nil
}

// ArgReader decodes sequential fields from an event's argument bytes,
// consuming file descriptors from an FDQueue in declaration order.
type ArgReader struct {
	buf []byte
	off int
	fdq *FDQueue
}

// NewArgReader returns an ArgReader over buf (an AnonymousEvent's
// ArgBytes), resolving fd fields against fdq.
func NewArgReader(buf []byte, fdq *FDQueue) *ArgReader {
	return &ArgReader{buf: buf, fdq: fdq}
}

func (r *ArgReader) need(n int) error {
	if r.off+n > len(r.buf) {
		return ErrUnexpectedEnd
	}
	return nil
}

func (r *ArgReader) Int32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(r.buf[r.off:]))
	r.off += 4
	return v, nil
}

func (r *ArgReader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *ArgReader) Fixed() (wlproto.Fixed, error) {
	v, err := r.Int32()
	return wlproto.Fixed(v), err
}

func (r *ArgReader) Object(allowNull bool) (wlproto.ObjectId, error) {
	v, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	if v == 0 && !allowNull {
		return 0, ErrNullNonNullObject
	}
	return wlproto.ObjectId(v), nil
}

func (r *ArgReader) NewId() (wlproto.ObjectId, error) {
	v, err := r.Uint32()
	return wlproto.ObjectId(v), err
}

// String decodes a length-prefixed, NUL-terminated, zero-padded string
// argument. allowNull controls whether a zero-length marker is accepted;
// when it is, a null string decodes as "" with a nil error.
func (r *ArgReader) String(allowNull bool) (string, error) {
	n, err := r.Uint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		if !allowNull {
			return "", ErrNullNonNullString
		}
		return "", nil
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s := string(r.buf[r.off : r.off+int(n)-1]) // drop trailing NUL
	r.off += int(n)
	r.off += pad(int(n))
	if err := r.need(0); err != nil {
		return "", err
	}
	return s, nil
}

// Array decodes a byte-length-prefixed, zero-padded array argument.
func (r *ArgReader) Array() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	data := r.buf[r.off : r.off+int(n)]
	r.off += int(n)
	r.off += pad(int(n))
	return data, nil
}

// Fd consumes the next file descriptor from the connection's FD queue. It
// contributes no in-band bytes.
func (r *ArgReader) Fd() (int, error) {
	fd, ok := r.fdq.Pop()
	if !ok {
		return -1, ErrExpectedFD
	}
	return fd, nil
}

// Remaining reports how many undecoded bytes remain in the argument view.
func (r *ArgReader) Remaining() int {
	return len(r.buf) - r.off
}

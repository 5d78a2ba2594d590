package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrShortFrame = errors.New("frame shorter than header")

// Global is the payload of a registry global event.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// DisplayErrorEvent is the payload of a display error event. Message is
// optional on the wire; HasMessage distinguishes an absent message from
// an empty one.
type DisplayErrorEvent struct {
	ObjectID   uint32
	Code       uint32
	Message    string
	HasMessage bool
}

func (e DisplayErrorEvent) Error() string {
	if e.HasMessage && e.Message != "" {
		return fmt.Sprintf("display error on object %d: code %d: %s", e.ObjectID, e.Code, e.Message)
	}
	return fmt.Sprintf("display error on object %d: code %d", e.ObjectID, e.Code)
}

// DecodeGlobal decodes a global event payload: u32 name, string interface,
// u32 version. The version immediately follows the padded string.
func DecodeGlobal(payload []byte) (Global, error) {
	if len(payload) < GlobalMinSize {
		return Global{}, ErrIncomplete
	}
	var g Global
	var err error
	off := 0
	if g.Name, off, err = ReadUint32(payload, off); err != nil {
		return Global{}, err
	}
	if g.Interface, off, err = ReadString(payload, off); err != nil {
		return Global{}, err
	}
	if g.Version, _, err = ReadUint32(payload, off); err != nil {
		return Global{}, err
	}
	return g, nil
}

// DecodeGlobalRemove decodes a global_remove payload (u32 name).
func DecodeGlobalRemove(payload []byte) (uint32, error) {
	name, _, err := ReadUint32(payload, 0)
	return name, err
}

// DecodeDisplayError decodes an error event payload: u32 object id,
// u32 code, and an optional trailing message string. payload must be the
// whole frame's arguments. A message that is truncated or lacks its NUL
// is dropped; the object id and code are still returned.
func DecodeDisplayError(payload []byte) (DisplayErrorEvent, error) {
	if len(payload) < DisplayErrorMinSize {
		return DisplayErrorEvent{}, ErrIncomplete
	}
	ev := DisplayErrorEvent{
		ObjectID: binary.NativeEndian.Uint32(payload[0:4]),
		Code:     binary.NativeEndian.Uint32(payload[4:8]),
	}
	if len(payload) == DisplayErrorMinSize {
		return ev, nil
	}
	msg, _, err := ReadString(payload, DisplayErrorMinSize)
	if err != nil {
		return ev, nil
	}
	ev.Message = msg
	ev.HasMessage = true
	return ev, nil
}

// DecodeDeleteID decodes a delete_id payload (u32 object id).
func DecodeDeleteID(payload []byte) (uint32, error) {
	id, _, err := ReadUint32(payload, 0)
	return id, err
}

// EncodeNewIDRequest builds a request frame whose only argument is a
// new_id, the shape shared by get_registry and sync.
func EncodeNewIDRequest(target uint32, opcode uint16, newID uint32) [RequestSize]byte {
	var b [RequestSize]byte
	PutHeader(b[:], Header{ObjectID: target, Opcode: opcode, Size: RequestSize})
	binary.NativeEndian.PutUint32(b[HeaderSize:], newID)
	return b
}

// Payload returns the argument bytes that start at payloadOff in b,
// bounded by the header's declared size. Returns ErrIncomplete if the
// frame has not fully arrived.
func Payload(b []byte, payloadOff int, h Header) ([]byte, error) {
	if h.Size < HeaderSize {
		return nil, ErrShortFrame
	}
	end := payloadOff + h.PayloadLen()
	if payloadOff < 0 || end > len(b) {
		return nil, ErrIncomplete
	}
	return b[payloadOff:end], nil
}

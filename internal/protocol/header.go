package protocol

import (
	"encoding/binary"
	"fmt"
)

// Header is the fixed 8-byte prefix of every frame. Size counts the
// header itself, so a frame with no arguments has Size == HeaderSize.
type Header struct {
	ObjectID uint32
	Opcode   uint16
	Size     uint16
}

func (h Header) String() string {
	return fmt.Sprintf("object=%d opcode=%d size=%d", h.ObjectID, h.Opcode, h.Size)
}

// PayloadLen returns the number of argument bytes following the header.
// Returns 0 for headers that declare less than HeaderSize.
func (h Header) PayloadLen() int {
	if h.Size < HeaderSize {
		return 0
	}
	return int(h.Size) - HeaderSize
}

// EncodeHeader serializes a header into its wire form.
func EncodeHeader(objectID uint32, opcode, size uint16) [HeaderSize]byte {
	var b [HeaderSize]byte
	PutHeader(b[:], Header{ObjectID: objectID, Opcode: opcode, Size: size})
	return b
}

// PutHeader writes h into b[0:8]. b must be at least HeaderSize long.
func PutHeader(b []byte, h Header) {
	binary.NativeEndian.PutUint32(b[0:4], h.ObjectID)
	binary.NativeEndian.PutUint16(b[4:6], h.Opcode)
	binary.NativeEndian.PutUint16(b[6:8], h.Size)
}

// DecodeHeader reads a header starting at off. The caller must ensure
// off+HeaderSize <= len(b); the codec itself does not check.
func DecodeHeader(b []byte, off int) Header {
	b = b[off : off+HeaderSize]
	return Header{
		ObjectID: binary.NativeEndian.Uint32(b[0:4]),
		Opcode:   binary.NativeEndian.Uint16(b[4:6]),
		Size:     binary.NativeEndian.Uint16(b[6:8]),
	}
}

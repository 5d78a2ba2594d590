package protocol

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrIncomplete reports that the bytes needed to decode a value have
	// not arrived yet. It is never a decode failure by itself.
	ErrIncomplete = errors.New("incomplete payload")

	ErrMalformedString = errors.New("string argument not NUL-terminated")
)

// Padded rounds n up to the next multiple of 4.
func Padded(n int) int {
	return (n + 3) &^ 3
}

// StringFieldLen returns the wire size of s as a string argument:
// the 4-byte length prefix plus the NUL-terminated bytes padded to 4.
func StringFieldLen(s string) int {
	return 4 + Padded(len(s)+1)
}

// AppendString appends s as a string argument. The length prefix counts
// the trailing NUL; padding bytes are zero.
func AppendString(dst []byte, s string) []byte {
	n := len(s) + 1
	dst = binary.NativeEndian.AppendUint32(dst, uint32(n))
	dst = append(dst, s...)
	for i := n - 1; i < Padded(n); i++ {
		dst = append(dst, 0)
	}
	return dst
}

// ReadString decodes a string argument at off and returns it without its
// NUL, along with the offset of the next argument. A zero length prefix is
// the null string and decodes as "".
//
// Returns ErrIncomplete if the prefix or the padded body extends past
// len(b), and ErrMalformedString if the body does not end in NUL.
func ReadString(b []byte, off int) (string, int, error) {
	if off < 0 || off+4 > len(b) {
		return "", off, ErrIncomplete
	}
	n := binary.NativeEndian.Uint32(b[off : off+4])
	off += 4
	if n == 0 {
		return "", off, nil
	}
	if uint64(off)+uint64(Padded(int(n))) > uint64(len(b)) {
		return "", off - 4, ErrIncomplete
	}
	body := b[off : off+int(n)]
	if body[len(body)-1] != 0 {
		return "", off - 4, ErrMalformedString
	}
	return string(body[:len(body)-1]), off + Padded(int(n)), nil
}

// ReadUint32 decodes a u32 argument at off and returns the next offset.
func ReadUint32(b []byte, off int) (uint32, int, error) {
	if off < 0 || off+4 > len(b) {
		return 0, off, ErrIncomplete
	}
	return binary.NativeEndian.Uint32(b[off : off+4]), off + 4, nil
}

package session

import (
	"io"

	"github.com/genogenov/clip-for-fun/internal/protocol"
)

// readBuffer reassembles frames from a byte stream. Bytes in
// buf[cursor:filled] have been read but not consumed; compact moves them
// to the front so a frame split across reads stays contiguous.
type readBuffer struct {
	buf    []byte
	filled int
	cursor int
}

func newReadBuffer(size int) readBuffer {
	return readBuffer{buf: make([]byte, size)}
}

func (r *readBuffer) unread() int {
	return r.filled - r.cursor
}

// fill performs one read into the free tail of the buffer.
func (r *readBuffer) fill(src io.Reader) (int, error) {
	if r.filled == len(r.buf) {
		return 0, ErrReadBufferFull
	}
	n, err := src.Read(r.buf[r.filled:])
	r.filled += n
	return n, err
}

// next returns the header of the frame at the cursor once the whole frame
// is buffered. ErrIncomplete means more bytes are needed; a size outside
// [HeaderSize, capacity] is a *FrameSizeError.
func (r *readBuffer) next() (protocol.Header, error) {
	if r.unread() < protocol.HeaderSize {
		return protocol.Header{}, protocol.ErrIncomplete
	}
	h := protocol.DecodeHeader(r.buf, r.cursor)
	if h.Size < protocol.HeaderSize || int(h.Size) > len(r.buf) {
		return h, &FrameSizeError{Header: h, Max: len(r.buf)}
	}
	if int(h.Size) > r.unread() {
		return h, protocol.ErrIncomplete
	}
	return h, nil
}

// frame returns the buffer truncated at the end of the current frame, and
// the payload offset within it. Decoders cannot read into the next frame.
func (r *readBuffer) frame(h protocol.Header) ([]byte, int) {
	return r.buf[:r.cursor+int(h.Size)], r.cursor + protocol.HeaderSize
}

func (r *readBuffer) advance(n int) {
	r.cursor += n
}

// compact moves unconsumed bytes to offset 0. copy handles overlap.
// Reports whether any bytes were moved.
func (r *readBuffer) compact() bool {
	rest := r.unread()
	moved := false
	if rest > 0 && r.cursor > 0 {
		copy(r.buf, r.buf[r.cursor:r.filled])
		moved = true
	}
	r.filled = rest
	r.cursor = 0
	return moved
}

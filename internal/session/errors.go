package session

import (
	"errors"
	"fmt"

	"github.com/genogenov/clip-for-fun/internal/protocol"
)

var (
	// ErrTransportExhausted means the peer closed the stream before any
	// terminal outcome was reached.
	ErrTransportExhausted = errors.New("transport exhausted before resolution completed")

	ErrFrameSize       = errors.New("invalid frame size")
	ErrMalformedFrame  = errors.New("malformed frame")
	ErrWriteBufferFull = errors.New("write buffer full")
	ErrReadBufferFull  = errors.New("read buffer full")
	ErrClosed          = errors.New("session closed")
)

// FrameSizeError reports a header whose declared size is below the header
// size or above the read buffer capacity. Matches ErrFrameSize.
type FrameSizeError struct {
	Header protocol.Header
	Max    int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("frame size %d outside [%d, %d] (object %d, opcode %d)",
		e.Header.Size, protocol.HeaderSize, e.Max, e.Header.ObjectID, e.Header.Opcode)
}

func (e *FrameSizeError) Is(target error) bool {
	return target == ErrFrameSize
}

package session

import (
	"fmt"

	"github.com/genogenov/clip-for-fun/internal/protocol"
)

// writeBuffer batches outgoing requests until the next flush.
type writeBuffer struct {
	buf []byte
	n   int // bytes pending flush
}

func newWriteBuffer(size int) writeBuffer {
	return writeBuffer{buf: make([]byte, size)}
}

func (w *writeBuffer) free() int {
	return len(w.buf) - w.n
}

func (w *writeBuffer) pending() []byte {
	return w.buf[:w.n]
}

func (w *writeBuffer) reset() {
	w.n = 0
}

// encodeRequest appends a single-new_id request frame.
func (w *writeBuffer) encodeRequest(target uint32, opcode uint16, newID uint32) error {
	if w.free() < protocol.RequestSize {
		return fmt.Errorf("%w: %d bytes free, need %d", ErrWriteBufferFull, w.free(), protocol.RequestSize)
	}
	frame := protocol.EncodeNewIDRequest(target, opcode, newID)
	w.n += copy(w.buf[w.n:], frame[:])
	return nil
}

// NextID returns the id the next allocation will hand out.
func (s *Session) NextID() uint32 {
	return s.lastID + 1
}

// allocID hands out the next object id. The counter is pre-incremented,
// so a fresh session's first allocation is protocol.RegistryID.
func (s *Session) allocID() uint32 {
	s.lastID++
	return s.lastID
}

// queueRequest allocates a new object id and encodes a request on the
// display carrying it. No id is consumed when the buffer is full.
func (s *Session) queueRequest(op protocol.DisplayRequest) (uint32, error) {
	if s.wbuf.free() < protocol.RequestSize {
		return 0, fmt.Errorf("queue %s: %w", op, ErrWriteBufferFull)
	}
	id := s.allocID()
	if err := s.wbuf.encodeRequest(protocol.DisplayID, uint16(op), id); err != nil {
		return 0, fmt.Errorf("queue %s: %w", op, err)
	}
	s.log.Debug("request queued", "request", op.String(), "new_id", id)
	return id, nil
}

// GetRegistry queues a get_registry request and returns the registry's id.
func (s *Session) GetRegistry() (uint32, error) {
	return s.queueRequest(protocol.DisplayGetRegistry)
}

// Sync queues a sync request and returns the callback's id.
func (s *Session) Sync() (uint32, error) {
	return s.queueRequest(protocol.DisplaySync)
}

// Flush writes all queued requests to the transport in one write.
func (s *Session) Flush() error {
	if s.wbuf.n == 0 {
		return nil
	}
	n, err := s.conn.Write(s.wbuf.pending())
	if err == nil && n < s.wbuf.n {
		err = fmt.Errorf("short write: %d of %d bytes", n, s.wbuf.n)
	}
	if err != nil {
		return fmt.Errorf("flush requests: %w", err)
	}
	s.metrics.BytesWritten(n)
	s.wbuf.reset()
	return nil
}

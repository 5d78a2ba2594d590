// Package session implements the client side of the display handshake:
// it queues get_registry and sync on the display, then reassembles and
// decodes the server's event stream until the requested global shows up,
// the sync callback fires, or the server reports an error.
//
// A Session is single-threaded. Reads block on the transport; callers that
// need timeouts set deadlines on the transport itself.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/genogenov/clip-for-fun/internal/logging"
	"github.com/genogenov/clip-for-fun/internal/metrics"
	"github.com/genogenov/clip-for-fun/internal/objects"
	"github.com/genogenov/clip-for-fun/internal/protocol"
	"github.com/genogenov/clip-for-fun/internal/transport"
)

const (
	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 1024

	// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
	maxEmptyReads = 100
)

// Config holds session configuration. Zero values select defaults.
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	Logger          *slog.Logger     // nil discards
	Metrics         *metrics.Metrics // nil disables
}

// Session owns one connection to the display server.
type Session struct {
	conn    io.ReadWriter
	log     *slog.Logger
	metrics *metrics.Metrics
	display objects.Display
	lastID  uint32 // last allocated object id
	wbuf    writeBuffer
	rbuf    readBuffer
	state   State
	closed  bool
}

// Connect dials the display socket at path and returns a session on it.
func Connect(ctx context.Context, path string, cfg Config) (*Session, error) {
	conn, err := transport.DialUnix(ctx, path)
	if err != nil {
		return nil, err
	}
	return New(conn, cfg), nil
}

// New creates a session over an already-connected byte stream. If conn
// implements io.Closer, Close closes it.
func New(conn io.ReadWriter, cfg Config) *Session {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultReadBufferSize
	}
	if cfg.WriteBufferSize <= 0 {
		cfg.WriteBufferSize = DefaultWriteBufferSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		conn:    conn,
		log:     logger.With("component", "session"),
		metrics: cfg.Metrics,
		lastID:  protocol.DisplayID,
		wbuf:    newWriteBuffer(cfg.WriteBufferSize),
		rbuf:    newReadBuffer(cfg.ReadBufferSize),
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Close closes the underlying transport.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.conn.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ResolveInterface looks up the global advertising the named interface.
// Only names in objects.KnownInterfaces are accepted; any other name,
// including real interfaces outside that set, fails with
// objects.ErrUnknownInterface before a request is sent.
func (s *Session) ResolveInterface(name string) (Result, error) {
	target, err := objects.ParseInterface(name)
	if err != nil {
		return Result{}, err
	}
	return s.Resolve(target)
}

// Resolve queues get_registry and sync, flushes them, and processes
// events until a terminal outcome. The returned error is non-nil only for
// transport, framing, and buffer capacity failures; each of them leaves
// the session in StateTransportExhausted.
func (s *Session) Resolve(target objects.Interface) (Result, error) {
	res, err := s.resolve(target)
	switch {
	case errors.Is(err, ErrClosed):
	case errors.Is(err, ErrTransportExhausted):
		s.state = StateTransportExhausted
		s.metrics.Resolution("transport_exhausted")
	case err != nil:
		s.state = StateTransportExhausted
		s.metrics.Resolution("failed")
	default:
		s.metrics.Resolution(res.Outcome.String())
	}
	return res, err
}

func (s *Session) resolve(target objects.Interface) (Result, error) {
	if s.closed {
		return Result{}, ErrClosed
	}
	s.state = StateIdle

	registryID, err := s.GetRegistry()
	if err != nil {
		return Result{}, err
	}
	callbackID, err := s.Sync()
	if err != nil {
		return Result{}, err
	}
	s.state = StateRequestsQueued

	if err := s.Flush(); err != nil {
		return Result{}, err
	}
	s.state = StateAwaitingResponse

	registry := objects.NewRegistry(registryID, target)
	callback := objects.Callback{ID: callbackID}
	log := s.log.With("target", target.String(), "registry", registryID, "callback", callbackID)

	var globals int
	var empty int
	for {
		n, rerr := s.rbuf.fill(s.conn)
		if n > 0 {
			empty = 0
			s.metrics.BytesRead(n)
		}

		res, done, err := s.process(log, registry, callback, &globals)
		if err != nil {
			return Result{}, err
		}
		if done {
			res.Globals = globals
			return res, nil
		}

		if s.rbuf.compact() {
			s.metrics.Compaction()
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return Result{}, fmt.Errorf("%w: %d bytes of a partial frame pending", ErrTransportExhausted, s.rbuf.unread())
			}
			return Result{}, fmt.Errorf("read: %w", rerr)
		}
		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return Result{}, fmt.Errorf("%w: read: %w", ErrTransportExhausted, io.ErrNoProgress)
			}
		}
	}
}

// process decodes every whole frame currently buffered. done is true when
// a terminal outcome was reached.
func (s *Session) process(log *slog.Logger, registry *objects.Registry, callback objects.Callback, globals *int) (Result, bool, error) {
	for {
		h, err := s.rbuf.next()
		if errors.Is(err, protocol.ErrIncomplete) {
			return Result{}, false, nil
		}
		if err != nil {
			log.Warn("framing error", "err", err)
			return Result{}, false, err
		}
		s.metrics.FrameDecoded()

		buf, payloadOff := s.rbuf.frame(h)

		global, ok, err := registry.TryDecodeGlobal(h, buf, payloadOff)
		if err != nil {
			return Result{}, false, malformed(h, err)
		}
		if ok {
			*globals++
			s.metrics.GlobalSeen()
			log.Debug("global", "name", global.Name, "interface", global.Interface, "version", global.Version)
			if global.Matched() {
				entry, _ := registry.Entry(global.Match)
				s.rbuf.advance(int(h.Size))
				s.state = StateResolutionFound
				return Result{Outcome: OutcomeFound, Entry: entry}, true, nil
			}
		}

		perr, ok, err := s.display.TryDecodeError(h, buf, payloadOff)
		if err != nil {
			return Result{}, false, malformed(h, err)
		}
		if ok {
			log.Warn("protocol error event", "object", perr.ObjectID, "code", perr.Code, "message", perr.Message)
			s.rbuf.advance(int(h.Size))
			s.state = StateProtocolErrorObserved
			return Result{Outcome: OutcomeProtocolError, ProtocolError: perr}, true, nil
		}

		if callback.IsDone(h) {
			log.Debug("callback done, enumeration complete")
			s.rbuf.advance(int(h.Size))
			s.state = StateEnumerationComplete
			return Result{Outcome: OutcomeEnumerationComplete}, true, nil
		}

		if name, ok, err := registry.TryDecodeGlobalRemove(h, buf, payloadOff); err != nil {
			return Result{}, false, malformed(h, err)
		} else if ok {
			log.Debug("global removed", "name", name)
		}
		if id, ok, err := s.display.TryDecodeDeleteID(h, buf, payloadOff); err != nil {
			return Result{}, false, malformed(h, err)
		} else if ok {
			log.Debug("object id released", "id", id)
		}

		s.rbuf.advance(int(h.Size))
	}
}

// malformed wraps a decode failure on a frame that is fully buffered. The
// frame's own fields overrun its declared size, so waiting for more bytes
// cannot help.
func malformed(h protocol.Header, err error) error {
	return fmt.Errorf("%w: %v: %w", ErrMalformedFrame, h, err)
}

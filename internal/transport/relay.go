package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/quic-go/quic-go"

	"github.com/genogenov/clip-for-fun/internal/metrics"
)

// Relay splices authenticated QUIC streams onto a local display socket,
// one socket connection per stream. The display server sees an ordinary
// local client.
type Relay struct {
	ln         *RelayListener
	socketPath string
	log        *slog.Logger
	metrics    *metrics.Metrics
	wg         sync.WaitGroup
}

// NewRelay creates a relay forwarding streams accepted on ln to socketPath.
// m may be nil.
func NewRelay(ln *RelayListener, socketPath string, log *slog.Logger, m *metrics.Metrics) *Relay {
	return &Relay{
		ln:         ln,
		socketPath: socketPath,
		log:        log.With("component", "relay"),
		metrics:    m,
	}
}

// Serve accepts streams until ctx is cancelled, then waits for in-flight
// splices to finish.
func (r *Relay) Serve(ctx context.Context) error {
	defer r.wg.Wait()
	for {
		conn, err := r.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, quic.ErrServerClosed) || errors.Is(err, quic.ErrTransportClosed) {
				return err
			}
			r.metrics.RelayStream("rejected")
			r.log.Warn("relay accept failed", "err", err)
			continue
		}
		r.metrics.RelayStream("accepted")

		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.splice(ctx, conn)
		}()
	}
}

// splice copies bytes both ways until either side closes.
func (r *Relay) splice(ctx context.Context, client Conn) {
	defer client.Close()

	display, err := DialUnix(ctx, r.socketPath)
	if err != nil {
		r.log.Warn("relay could not reach display", "err", err)
		return
	}
	defer display.Close()

	r.metrics.RelayActive(1)
	defer r.metrics.RelayActive(-1)
	r.log.Info("relay stream opened", "socket", r.socketPath)

	// Closing both ends unblocks whichever copy is still running.
	var once sync.Once
	closeBoth := func() {
		once.Do(func() {
			client.Close()
			display.Close()
		})
	}
	stop := context.AfterFunc(ctx, closeBoth)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	var up, down int64
	go func() {
		defer wg.Done()
		up = r.copy(display, client, "upstream")
		closeBoth()
	}()
	go func() {
		defer wg.Done()
		down = r.copy(client, display, "downstream")
		closeBoth()
	}()
	wg.Wait()

	r.log.Info("relay stream closed", "upstream_bytes", up, "downstream_bytes", down)
}

func (r *Relay) copy(dst io.Writer, src io.Reader, direction string) int64 {
	n, err := io.Copy(dst, src)
	r.metrics.RelayBytes(direction, n)
	if err != nil && !errors.Is(err, io.EOF) {
		r.log.Debug("relay copy ended", "direction", direction, "err", err)
	}
	return n
}

// Close stops the listener. Serve returns once its context is cancelled.
func (r *Relay) Close() error {
	return r.ln.Close()
}

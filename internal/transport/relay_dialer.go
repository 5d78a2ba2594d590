package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/genogenov/clip-for-fun/internal/auth"
)

var quicConfig = &quic.Config{
	MaxIdleTimeout:    30 * time.Second,
	KeepAlivePeriod:   10 * time.Second,
	InitialPacketSize: 1200, // stay under 1280-byte tunnel MTUs
}

// relayConn is one authenticated QUIC stream carrying the display byte
// stream. It owns the QUIC connection and, on the dial side, the UDP
// transport underneath it.
type relayConn struct {
	qconn  *quic.Conn
	stream *quic.Stream
	tr     *quic.Transport // nil on the relay side; the listener owns it

	closeOnce sync.Once
	closeErr  error
}

func (c *relayConn) Read(p []byte) (int, error)  { return c.stream.Read(p) }
func (c *relayConn) Write(p []byte) (int, error) { return c.stream.Write(p) }

func (c *relayConn) SetReadDeadline(t time.Time) error {
	return c.stream.SetReadDeadline(t)
}

// Close shuts the stream, then the connection, then the dial transport.
func (c *relayConn) Close() error {
	c.closeOnce.Do(func() {
		c.stream.CancelRead(0)
		c.stream.Close()
		c.qconn.CloseWithError(0, "closed")
		if c.tr != nil {
			c.closeErr = c.tr.Close()
		}
	})
	return c.closeErr
}

// DialRelay connects to a relay, authenticates with passkey, and returns
// a Conn that reaches the relay's display socket.
func DialRelay(ctx context.Context, host string, port int, passkey []byte) (Conn, error) {
	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("resolve %s:%d: %w", host, port, err)
	}

	udpConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return nil, fmt.Errorf("listen UDP: %w", err)
	}

	tr := &quic.Transport{Conn: udpConn}
	qconn, err := tr.Dial(ctx, addr, clientTLSConfig(), quicConfig)
	if err != nil {
		tr.Close()
		return nil, fmt.Errorf("QUIC dial: %w", err)
	}

	stream, err := qconn.OpenStreamSync(ctx)
	if err != nil {
		qconn.CloseWithError(1, "open stream failed")
		tr.Close()
		return nil, fmt.Errorf("open relay stream: %w", err)
	}

	material, err := exporterMaterial(qconn)
	if err != nil {
		qconn.CloseWithError(1, "exporter failed")
		tr.Close()
		return nil, err
	}

	// The token is the first write, which also announces the stream.
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetReadDeadline(deadline)
	}
	if err := auth.Authenticate(stream, passkey, material); err != nil {
		qconn.CloseWithError(1, "auth failed")
		tr.Close()
		return nil, err
	}
	stream.SetReadDeadline(time.Time{})

	return &relayConn{qconn: qconn, stream: stream, tr: tr}, nil
}

func exporterMaterial(qconn *quic.Conn) ([]byte, error) {
	state := qconn.ConnectionState()
	material, err := state.TLS.ExportKeyingMaterial(auth.ExporterLabel, nil, auth.TokenSize)
	if err != nil {
		return nil, fmt.Errorf("export keying material: %w", err)
	}
	return material, nil
}

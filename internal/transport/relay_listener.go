package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/genogenov/clip-for-fun/internal/auth"
)

const authTimeout = 10 * time.Second

// RelayListener accepts authenticated relay streams over QUIC.
type RelayListener struct {
	tr      *quic.Transport
	ln      *quic.Listener
	port    int
	passkey []byte
}

// ListenRelay binds a QUIC listener on port (0 picks a free port) using
// the given certificate.
func ListenRelay(port int, passkey []byte, cert tls.Certificate) (*RelayListener, error) {
	udpConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, fmt.Errorf("listen UDP: %w", err)
	}

	tr := &quic.Transport{Conn: udpConn}
	ln, err := tr.Listen(serverTLSConfig(cert), quicConfig)
	if err != nil {
		udpConn.Close()
		return nil, fmt.Errorf("QUIC listen: %w", err)
	}

	return &RelayListener{
		tr:      tr,
		ln:      ln,
		port:    udpConn.LocalAddr().(*net.UDPAddr).Port,
		passkey: passkey,
	}, nil
}

// Port returns the UDP port the listener is bound to.
func (l *RelayListener) Port() int {
	return l.port
}

// Accept waits for a client, accepts its first stream, and checks the
// passkey token. Clients that fail authentication are closed and reported
// as an error; the listener stays usable.
func (l *RelayListener) Accept(ctx context.Context) (Conn, error) {
	qconn, err := l.ln.Accept(ctx)
	if err != nil {
		return nil, fmt.Errorf("accept QUIC connection: %w", err)
	}

	conn, err := l.authenticate(ctx, qconn)
	if err != nil {
		qconn.CloseWithError(1, "auth failed")
		return nil, err
	}
	return conn, nil
}

func (l *RelayListener) authenticate(ctx context.Context, qconn *quic.Conn) (*relayConn, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	stream, err := qconn.AcceptStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("accept relay stream: %w", err)
	}

	material, err := exporterMaterial(qconn)
	if err != nil {
		return nil, err
	}

	stream.SetReadDeadline(time.Now().Add(authTimeout))
	if err := auth.Verify(stream, l.passkey, material); err != nil {
		return nil, fmt.Errorf("authenticate relay client %s: %w", qconn.RemoteAddr(), err)
	}
	stream.SetReadDeadline(time.Time{})

	return &relayConn{qconn: qconn, stream: stream}, nil
}

// Close shuts down the listener and its UDP transport.
func (l *RelayListener) Close() error {
	l.ln.Close()
	return l.tr.Close()
}

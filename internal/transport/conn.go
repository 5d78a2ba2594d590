package transport

import (
	"context"
	"fmt"
	"io"
	"time"
)

// DialMode selects how the client reaches the display server.
type DialMode int

const (
	ModeUnix DialMode = iota
	ModeQUIC
)

func (m DialMode) String() string {
	switch m {
	case ModeUnix:
		return "unix"
	case ModeQUIC:
		return "QUIC"
	default:
		return "unknown"
	}
}

// ParseDialMode accepts "unix" or "quic".
func ParseDialMode(s string) (DialMode, error) {
	switch s {
	case "", "unix":
		return ModeUnix, nil
	case "quic", "QUIC":
		return ModeQUIC, nil
	default:
		return 0, fmt.Errorf("unknown dial mode %q", s)
	}
}

// Conn is an ordered byte stream to the display server. Both the local
// socket and a relayed QUIC stream satisfy it. Read deadlines are the
// only way to bound a blocking read.
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// Options describes where to dial.
type Options struct {
	Mode DialMode

	// SocketPath is the display socket for ModeUnix.
	SocketPath string

	// Host, Port and Passkey locate and authenticate a relay for ModeQUIC.
	Host    string
	Port    int
	Passkey []byte
}

// Dial connects according to opts.Mode.
func Dial(ctx context.Context, opts Options) (Conn, error) {
	switch opts.Mode {
	case ModeUnix:
		return DialUnix(ctx, opts.SocketPath)
	case ModeQUIC:
		return DialRelay(ctx, opts.Host, opts.Port, opts.Passkey)
	default:
		return nil, fmt.Errorf("unsupported dial mode %v", opts.Mode)
	}
}

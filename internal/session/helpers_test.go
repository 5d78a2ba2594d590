package session

import (
	"bytes"
	"io"
	"testing"

	"github.com/genogenov/clip-for-fun/internal/protocol"
)

// scriptedConn returns pre-chunked reads and records writes. Once the
// script is exhausted, reads return io.EOF.
type scriptedConn struct {
	chunks  [][]byte
	reads   int
	written bytes.Buffer
	readErr error // returned instead of io.EOF when set
}

func (c *scriptedConn) Read(p []byte) (int, error) {
	c.reads++
	if len(c.chunks) == 0 {
		if c.readErr != nil {
			return 0, c.readErr
		}
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	return c.written.Write(p)
}

func newScripted(chunks ...[]byte) *scriptedConn {
	return &scriptedConn{chunks: chunks}
}

// splitAt cuts b at the given offsets, returning len(offsets)+1 chunks.
func splitAt(b []byte, offsets ...int) [][]byte {
	var out [][]byte
	prev := 0
	for _, off := range offsets {
		out = append(out, append([]byte(nil), b[prev:off]...))
		prev = off
	}
	return append(out, append([]byte(nil), b[prev:]...))
}

func global(name uint32, iface string, version uint32) []byte {
	return protocol.AppendGlobalFrame(nil, protocol.RegistryID, protocol.Global{
		Name:      name,
		Interface: iface,
		Version:   version,
	})
}

// Ids a fresh session allocates: get_registry then sync.
const (
	testRegistryID uint32 = 2
	testCallbackID uint32 = 3
)

func done() []byte {
	return protocol.AppendCallbackDoneFrame(nil, testCallbackID, 1)
}

// enumeration builds a typical server reply without the target interface.
func enumeration() []byte {
	var b []byte
	b = append(b, global(1, "wl_compositor", 6)...)
	b = append(b, global(2, "wl_subcompositor", 1)...)
	b = append(b, global(3, "wl_shm", 1)...)
	b = append(b, global(4, "wl_seat", 9)...)
	b = append(b, global(5, "wl_output", 4)...)
	b = append(b, global(6, "zwp_linux_dmabuf_v1", 4)...)
	return append(b, done()...)
}

func mustResolve(t *testing.T, s *Session, name string) Result {
	t.Helper()
	res, err := s.ResolveInterface(name)
	if err != nil {
		t.Fatalf("resolve %s: %v", name, err)
	}
	return res
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

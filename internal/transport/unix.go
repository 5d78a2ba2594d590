package transport

import (
	"context"
	"fmt"
	"net"
)

// DialUnix connects to the display socket at path.
func DialUnix(ctx context.Context, path string) (Conn, error) {
	if path == "" {
		return nil, fmt.Errorf("dial display socket: empty path")
	}
	var d net.Dialer
	c, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial display socket %s: %w", path, err)
	}
	return c, nil
}

package transport

import (
	"context"
	"fmt"
	"net"
)

// ListenTCP listens on addr with SO_REUSEADDR set where the platform has it,
// so a restarted server can rebind while old sockets sit in TIME_WAIT.
func ListenTCP(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

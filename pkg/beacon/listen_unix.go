//go:build !windows

package beacon

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

func endpointPath(dir string) string {
	return filepath.Join(dir, Name+".sock")
}

func dialEndpoint(ctx context.Context, endpoint string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", endpoint)
}

// listen binds the rendezvous socket. A socket file left behind by an owner
// that died without Stop refuses connections; it is removed and the bind is
// retried once.
func (b *Beacon) listen() (net.Listener, error) {
	endpoint := b.Endpoint()

	ln, err := net.Listen("unix", endpoint)
	if err == nil {
		return ln, nil
	}
	if !errors.Is(err, unix.EADDRINUSE) {
		return nil, fmt.Errorf("listening on %s: %w", endpoint, err)
	}
	if b.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyActive, endpoint)
	}

	b.logger.Info("removing stale beacon socket", "endpoint", endpoint)
	if err := os.Remove(endpoint); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing stale socket %s: %w", endpoint, err)
	}

	ln, err = net.Listen("unix", endpoint)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", endpoint, err)
	}
	return ln, nil
}

// isRefused reports whether err means nothing is listening at the endpoint.
func isRefused(err error) bool {
	return errors.Is(err, unix.ECONNREFUSED) || errors.Is(err, unix.ENOENT)
}

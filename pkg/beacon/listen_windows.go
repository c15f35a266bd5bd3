//go:build windows

package beacon

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"
)

func endpointPath(string) string {
	return `\\.\pipe\` + Name
}

func dialEndpoint(ctx context.Context, endpoint string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, endpoint)
}

// listen creates the first instance of the rendezvous pipe. The pipe
// disappears with its owning process, so there is nothing stale to clean up.
func (b *Beacon) listen() (net.Listener, error) {
	endpoint := b.Endpoint()

	ln, err := winio.ListenPipe(endpoint, nil)
	if err != nil {
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) || errors.Is(err, windows.ERROR_PIPE_BUSY) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyActive, endpoint)
		}
		return nil, fmt.Errorf("listening on %s: %w", endpoint, err)
	}
	return ln, nil
}

// isRefused reports whether err means nothing is listening at the endpoint.
func isRefused(err error) bool {
	return errors.Is(err, windows.ERROR_FILE_NOT_FOUND)
}

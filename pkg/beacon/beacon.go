package beacon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/getmockd/transmock/internal/id"
	"github.com/getmockd/transmock/pkg/logging"
)

// Name is the well-known rendezvous name shared by the test runner and every
// instrumented process on a host.
const Name = "TransMockBeacon"

// DefaultProbeTimeout bounds a single IsActive call.
const DefaultProbeTimeout = 10 * time.Millisecond

// Beacon errors.
var (
	ErrAlreadyStarted = errors.New("beacon already started")
	ErrAlreadyActive  = errors.New("beacon is owned by another process")
)

// Signal reports whether a test run is active. Beacon is the cross-process
// implementation; Static is a fixed answer for unit tests.
type Signal interface {
	Start() error
	Stop() error
	IsActive() bool
}

// dialFunc connects to a rendezvous endpoint.
type dialFunc func(ctx context.Context, endpoint string) (net.Conn, error)

// Beacon owns or probes the host-wide rendezvous channel.
type Beacon struct {
	dir     string
	timeout time.Duration
	logger  *slog.Logger
	dial    dialFunc

	mu      sync.Mutex
	ln      net.Listener
	done    chan struct{}
	session string
}

var _ Signal = (*Beacon)(nil)

// Option configures a Beacon.
type Option func(*Beacon)

// WithDir sets the directory holding the rendezvous socket. Ignored on
// Windows, where the channel lives in the named pipe namespace.
func WithDir(dir string) Option {
	return func(b *Beacon) {
		if dir != "" {
			b.dir = dir
		}
	}
}

// WithProbeTimeout sets the bound on a single IsActive call.
// Non-positive values keep DefaultProbeTimeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(b *Beacon) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Beacon) {
		b.logger = logging.OrNop(l)
	}
}

// New creates a Beacon. The same value serves both the owning side
// (Start/Stop) and the probing side (IsActive).
func New(opts ...Option) *Beacon {
	b := &Beacon{
		dir:     os.TempDir(),
		timeout: DefaultProbeTimeout,
		logger:  logging.Nop(),
		dial:    dialEndpoint,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Endpoint returns the platform address of the rendezvous channel.
func (b *Beacon) Endpoint() string {
	return endpointPath(b.dir)
}

// ProbeTimeout returns the bound applied to IsActive.
func (b *Beacon) ProbeTimeout() time.Duration {
	return b.timeout
}

// Session returns the identifier of the current ownership period, or "" when
// the beacon is not started.
func (b *Beacon) Session() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

// Start opens the rendezvous channel and begins accepting probes.
func (b *Beacon) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ln != nil {
		return ErrAlreadyStarted
	}

	ln, err := b.listen()
	if err != nil {
		return err
	}

	b.ln = ln
	b.done = make(chan struct{})
	b.session = id.Session()
	go b.serve(ln, b.done)

	b.logger.Info("beacon started", "endpoint", b.Endpoint(), "session", b.session)
	return nil
}

// Stop closes the rendezvous channel and releases the name. Calling Stop on a
// beacon that was never started is a no-op.
func (b *Beacon) Stop() error {
	b.mu.Lock()
	ln, done, session := b.ln, b.done, b.session
	b.ln, b.done, b.session = nil, nil, ""
	b.mu.Unlock()

	if ln == nil {
		return nil
	}

	err := ln.Close()
	<-done

	b.logger.Info("beacon stopped", "endpoint", b.Endpoint(), "session", session)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("closing beacon: %w", err)
	}
	return nil
}

// IsActive reports whether a beacon owner is accepting connections. The
// connection is closed as soon as it is established. Any failure, including
// the timeout, reads as false.
func (b *Beacon) IsActive() bool {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	type dialResult struct {
		conn net.Conn
		err  error
	}
	ch := make(chan dialResult, 1)
	go func() {
		conn, err := b.dial(ctx, b.Endpoint())
		ch <- dialResult{conn, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			if isRefused(r.err) {
				b.logger.Debug("no beacon owner", "endpoint", b.Endpoint())
			} else {
				b.logger.Debug("beacon not reachable", "endpoint", b.Endpoint(), "error", r.err)
			}
			return false
		}
		_ = r.conn.Close()
		return true
	case <-ctx.Done():
		// A dialer that ignores ctx may still hand back a connection later.
		go func() {
			if r := <-ch; r.conn != nil {
				_ = r.conn.Close()
			}
		}()
		b.logger.Debug("beacon probe timed out", "endpoint", b.Endpoint(), "timeout", b.timeout)
		return false
	}
}

// serve accepts and immediately releases probe connections until ln is closed.
func (b *Beacon) serve(ln net.Listener, done chan struct{}) {
	defer close(done)

	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if tempDelay > time.Second {
				tempDelay = time.Second
			}
			b.logger.Debug("beacon accept failed", "error", err, "retryIn", tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0
		_ = conn.Close()
	}
}

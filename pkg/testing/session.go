package testing

import (
	"testing"

	"github.com/getmockd/transmock/pkg/beacon"
	"github.com/getmockd/transmock/pkg/transport"
)

// Session holds the presence beacon for one test.
type Session struct {
	t      testing.TB
	beacon *beacon.Beacon
}

// StartSession starts a beacon built from opts and stops it when the test
// completes. The test fails immediately if the beacon cannot be started,
// for example because another process already holds it.
func StartSession(t testing.TB, opts ...beacon.Option) *Session {
	t.Helper()

	b := beacon.New(opts...)
	if err := b.Start(); err != nil {
		t.Fatalf("failed to start beacon at %s: %v", b.Endpoint(), err)
		return nil
	}

	s := &Session{t: t, beacon: b}
	t.Cleanup(s.Stop)
	return s
}

// Stop releases the beacon. It is safe to call more than once.
func (s *Session) Stop() {
	if err := s.beacon.Stop(); err != nil {
		s.t.Errorf("failed to stop beacon: %v", err)
	}
}

// Beacon returns the held beacon.
func (s *Session) Beacon() *beacon.Beacon {
	return s.beacon
}

// ID returns the session id logged when the beacon started.
func (s *Session) ID() string {
	return s.beacon.Session()
}

// Endpoint returns the rendezvous endpoint of the held beacon.
func (s *Session) Endpoint() string {
	return s.beacon.Endpoint()
}

// Adapter returns a transport adapter that probes this session's beacon.
func (s *Session) Adapter(opts ...transport.Option) *transport.Adapter {
	return transport.NewAdapter(s.beacon, opts...)
}

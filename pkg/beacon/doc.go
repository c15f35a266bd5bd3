// Package beacon announces "a test run is active on this host" to any local
// process that cares to ask.
//
// The owner of a test session calls Start, which opens a local rendezvous
// channel under the fixed name TransMockBeacon and accepts connections until
// Stop. Consumers call IsActive, which attempts a single connection with a
// short timeout and reports whether it succeeded. There is no state file: if
// the owner exits or crashes, the channel stops accepting connections and every
// probe reads as inactive.
//
// # Rendezvous
//
// On Unix the channel is a unix-domain socket at <dir>/TransMockBeacon.sock,
// where dir defaults to os.TempDir(). On Windows it is the named pipe
// \\.\pipe\TransMockBeacon.
//
// # Usage
//
//	b := beacon.New()
//	if err := b.Start(); err != nil {
//	    return err
//	}
//	defer b.Stop()
//
// and in the instrumented process:
//
//	if beacon.New().IsActive() {
//	    // redirect to mock endpoints
//	}
//
// Concurrent test processes on one host share the same name. The second
// Start fails with ErrAlreadyActive; coordinating such runs is left to the
// test runner.
package beacon

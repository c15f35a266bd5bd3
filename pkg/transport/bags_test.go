package transport

import (
	"errors"
	"sync"

	"github.com/getmockd/transmock/pkg/message"
)

type op struct {
	kind  string // "read" or "write"
	name  string
	value message.Value
}

// recordingBag wraps a Context and records every access.
type recordingBag struct {
	*message.Context

	mu  sync.Mutex
	ops []op
}

func newRecordingBag(props ...message.Property) *recordingBag {
	return &recordingBag{Context: message.NewContext(props...)}
}

func (b *recordingBag) Read(name string) (message.Value, bool, error) {
	b.mu.Lock()
	b.ops = append(b.ops, op{kind: "read", name: name})
	b.mu.Unlock()
	return b.Context.Read(name)
}

func (b *recordingBag) Write(name string, v message.Value) error {
	b.mu.Lock()
	b.ops = append(b.ops, op{kind: "write", name: name, value: v})
	b.mu.Unlock()
	return b.Context.Write(name, v)
}

func (b *recordingBag) writes() []op {
	var out []op
	for _, o := range b.ops {
		if o.kind == "write" {
			out = append(out, o)
		}
	}
	return out
}

var errStoreRejected = errors.New("property store rejected the operation")

// failingBag rejects reads or writes of one property.
type failingBag struct {
	*message.Context
	failRead  string
	failWrite string
}

func (b *failingBag) Read(name string) (message.Value, bool, error) {
	if name == b.failRead {
		return message.Value{}, false, errStoreRejected
	}
	return b.Context.Read(name)
}

func (b *failingBag) Write(name string, v message.Value) error {
	if name == b.failWrite {
		return errStoreRejected
	}
	return b.Context.Write(name, v)
}

// panicBag panics on every access, like a message of an incompatible type.
type panicBag struct{}

func (panicBag) Read(string) (message.Value, bool, error) { panic("incompatible message type") }
func (panicBag) Write(string, message.Value) error        { panic("incompatible message type") }

// countingSignal counts probes.
type countingSignal struct {
	mu     sync.Mutex
	active bool
	probes int
}

func (s *countingSignal) Start() error { return nil }
func (s *countingSignal) Stop() error  { return nil }

func (s *countingSignal) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes++
	return s.active
}

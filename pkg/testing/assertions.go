package testing

import (
	"testing"

	"github.com/getmockd/transmock/pkg/endpoint"
	"github.com/getmockd/transmock/pkg/message"
	"github.com/getmockd/transmock/pkg/transport"
)

// AssertOutcome asserts the outcome of a MockDynamicSendPort call.
func AssertOutcome(t testing.TB, res transport.Result, want transport.Outcome) {
	t.Helper()

	if res.Outcome != want {
		t.Errorf("outcome mismatch\nexpected: %s\nactual: %s (err: %v)", want, res.Outcome, res.Err)
	}
}

// AssertMocked asserts that res redirected portName to its mock endpoint and
// that msg carries the mock binding with no original transport left over.
// The endpoint behavior is only required to be set, since callers may pass
// their own.
func AssertMocked(t testing.TB, res transport.Result, msg message.PropertyBag, portName string) {
	t.Helper()

	d, ok := res.Descriptor()
	if !ok {
		t.Errorf("port %q was not mocked: outcome %s (err: %v)", portName, res.Outcome, res.Err)
		return
	}

	if d.PortName() != portName {
		t.Errorf("descriptor port mismatch\nexpected: %q\nactual: %q", portName, d.PortName())
	}
	if d.TransportType() != transport.TransportType {
		t.Errorf("descriptor transport type mismatch\nexpected: %q\nactual: %q", transport.TransportType, d.TransportType())
	}
	addr, err := endpoint.Parse(d.Address())
	if err != nil {
		t.Errorf("descriptor address %q: %v", d.Address(), err)
	} else if addr.Name != portName {
		t.Errorf("descriptor address %q does not name port %q", d.Address(), portName)
	}

	for _, p := range transport.NewMockProperties("").Properties() {
		got, ok := read(t, msg, p.Name)
		if !ok {
			t.Errorf("mock property %s is not set", p.Name)
			continue
		}
		if p.Name == transport.PropEndpointBehaviorConfiguration {
			if got.Str() == "" {
				t.Errorf("mock property %s is empty", p.Name)
			}
			continue
		}
		if !got.Equal(p.Value) {
			t.Errorf("mock property %s mismatch\nexpected: %#v\nactual: %#v", p.Name, p.Value, got)
		}
	}

	AssertNeutral(t, msg)
}

// AssertNeutral asserts that every original-transport property of msg that
// the mock binding does not set is either unset or holds its neutral value.
func AssertNeutral(t testing.TB, msg message.PropertyBag) {
	t.Helper()

	mockSet := make(map[string]bool)
	for _, p := range transport.NewMockProperties("").Properties() {
		mockSet[p.Name] = true
	}

	for _, p := range transport.OriginalTransport() {
		if mockSet[p.Name] {
			continue
		}
		got, ok := read(t, msg, p.Name)
		if ok && !got.Equal(p.Value) {
			t.Errorf("original transport property %s is not neutral\nexpected: %#v\nactual: %#v", p.Name, p.Value, got)
		}
	}
}

// AssertUnchanged asserts that after holds exactly the properties and payload
// of before, in the same order.
func AssertUnchanged(t testing.TB, before, after *message.Context) {
	t.Helper()

	if before.Equal(after) {
		return
	}

	if string(before.Payload) != string(after.Payload) {
		t.Errorf("payload changed\nexpected: %q\nactual: %q", before.Payload, after.Payload)
	}

	beforeProps, afterProps := before.Properties(), after.Properties()
	for _, p := range beforeProps {
		if !after.Has(p.Name) {
			t.Errorf("property %s was removed", p.Name)
			continue
		}
		if got := after.Get(p.Name); !got.Equal(p.Value) {
			t.Errorf("property %s changed\nexpected: %#v\nactual: %#v", p.Name, p.Value, got)
		}
	}
	for _, p := range afterProps {
		if !before.Has(p.Name) {
			t.Errorf("property %s was added with value %#v", p.Name, p.Value)
		}
	}
	if len(beforeProps) == len(afterProps) {
		for i := range beforeProps {
			if beforeProps[i].Name != afterProps[i].Name {
				t.Errorf("property order changed at %d\nexpected: %s\nactual: %s", i, beforeProps[i].Name, afterProps[i].Name)
				break
			}
		}
	}
}

func read(t testing.TB, msg message.PropertyBag, name string) (message.Value, bool) {
	t.Helper()

	v, ok, err := msg.Read(name)
	if err != nil {
		t.Errorf("reading %s: %v", name, err)
		return message.Value{}, false
	}
	return v, ok
}

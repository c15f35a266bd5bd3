// Package testing provides helpers for Go tests of code that dispatches
// through the mock transport adapter.
//
// # Basic Usage
//
// Hold the beacon for the duration of a test, run the code under test and
// check what it did to the message:
//
//	func TestSubmitOrder(t *testing.T) {
//	    session := tmtesting.StartSession(t, beacon.WithDir(t.TempDir()))
//	    adapter := session.Adapter()
//
//	    msg := tmtesting.NewMessage().
//	        WithOriginalTransport().
//	        WithPayload("<Order/>").
//	        Build()
//
//	    res := adapter.MockDynamicSendPort("DynamicPortOut", "", msg)
//	    tmtesting.AssertMocked(t, res, msg, "DynamicPortOut")
//	}
//
// The beacon is released when the test completes. Without a session the
// adapter leaves messages alone:
//
//	before := msg.Clone()
//	res := transport.NewAdapter(beacon.Static(false)).MockDynamicSendPort("Out", "", msg)
//	tmtesting.AssertOutcome(t, res, transport.NotActive)
//	tmtesting.AssertUnchanged(t, before, msg)
package testing

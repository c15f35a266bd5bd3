// Package transport redirects dynamic send ports to mock endpoints while a
// test run is active.
//
// The pipeline calls Adapter.MockDynamicSendPort right before it dispatches a
// message through a dynamically bound port. When the beacon reports no active
// test, the call returns NotActive and the message is not touched. When a test
// is active the adapter
//
//  1. resets every recognized property of the original transport binding to
//     its neutral value (OriginalTransport lists them), then
//  2. writes the mock binding properties (MockProperties), then
//  3. returns a Descriptor binding the logical port to mock://<host>/<port>.
//
// Failures never escape: a rejected read or write, or a panic in the property
// bag, is logged and reported as Failed so the caller dispatches with the
// binding it already had.
package transport

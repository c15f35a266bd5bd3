// Package message models the part of an outbound message the mock transport
// adapter works on: its transport property bag.
//
// PropertyBag is the capability the host pipeline exposes: named reads and
// writes of string or boolean values, either of which may fail. Context is an
// in-memory, insertion-ordered implementation used by the CLI, by fixtures and
// by tests. It also carries the message payload, which nothing in this module
// modifies.
//
// Contexts round-trip through YAML with typed scalars:
//
//	WCF.BindingType: mockBinding
//	WCF.UseSSO: false
//	FILE.Password: secret
package message

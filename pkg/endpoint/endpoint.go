// Package endpoint implements the mock:// addressing scheme.
//
// A mock address names a receive-side injection point or a send-side capture
// point inside a mock endpoint listener:
//
//	mock://localhost/DynamicPortOut
//
// Resolution happens in the listener; this package only builds, parses and
// validates addresses.
package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the URL scheme of mock addresses.
const Scheme = "mock"

// DefaultHost is the host used when none is configured.
const DefaultHost = "localhost"

// Address parsing errors.
var (
	ErrInvalidAddress = errors.New("invalid mock address")
	ErrEmptyName      = errors.New("mock address has no logical name")
)

// Address is a parsed mock endpoint address.
type Address struct {
	Host string
	Name string
}

// New creates an Address for name on host. An empty host means DefaultHost.
func New(host, name string) Address {
	if host == "" {
		host = DefaultHost
	}
	return Address{Host: host, Name: name}
}

// String formats the address as mock://<host>/<name>. Characters that are not
// valid in a URL path are escaped.
func (a Address) String() string {
	u := url.URL{Scheme: Scheme, Host: a.Host, Path: "/" + a.Name}
	return u.String()
}

// Validate checks that the address can be resolved by a listener.
func (a Address) Validate() error {
	if a.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidAddress)
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if strings.Contains(a.Name, "/") {
		return fmt.Errorf("%w: logical name %q contains '/'", ErrInvalidAddress, a.Name)
	}
	return nil
}

// Parse parses and validates a mock address.
func Parse(s string) (Address, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return Address{}, fmt.Errorf("%w: scheme %q, want %q", ErrInvalidAddress, u.Scheme, Scheme)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return Address{}, fmt.Errorf("%w: query and fragment are not allowed", ErrInvalidAddress)
	}

	a := Address{Host: u.Host, Name: strings.TrimPrefix(u.Path, "/")}
	if err := a.Validate(); err != nil {
		return Address{}, err
	}
	return a, nil
}

// IsMock reports whether s uses the mock scheme.
func IsMock(s string) bool {
	u, err := url.Parse(s)
	return err == nil && strings.EqualFold(u.Scheme, Scheme)
}

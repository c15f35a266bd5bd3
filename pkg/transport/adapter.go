package transport

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/getmockd/transmock/internal/id"
	"github.com/getmockd/transmock/pkg/beacon"
	"github.com/getmockd/transmock/pkg/endpoint"
	"github.com/getmockd/transmock/pkg/logging"
	"github.com/getmockd/transmock/pkg/message"
)

// Adapter errors.
var (
	ErrEmptyPortName    = errors.New("port name is empty")
	ErrInvalidPortName  = errors.New("port name cannot form a mock address")
	ErrPropertyMutation = errors.New("property mutation failed")
)

// Outcome classifies a MockDynamicSendPort call.
type Outcome uint8

// Outcomes.
const (
	// NotActive: no test run is active; the message was not touched.
	NotActive Outcome = iota
	// Excluded: a test run is active but the port does not match the
	// configured port patterns; the message was not touched.
	Excluded
	// Failed: a test run is active but the rewrite failed. Properties
	// written before the failure are restored where the bag allows it; the
	// caller dispatches with its own binding.
	Failed
	// Applied: the message now targets the mock endpoint.
	Applied
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case NotActive:
		return "not-active"
	case Excluded:
		return "excluded"
	case Failed:
		return "failed"
	case Applied:
		return "applied"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Descriptor binds a logical port to a mock endpoint for one dispatch.
type Descriptor struct {
	portName string
	address  string
}

// PortName returns the logical send port name.
func (d Descriptor) PortName() string { return d.portName }

// Address returns the mock endpoint address, mock://<host>/<port>. Characters
// not valid in a URL path are percent-escaped; endpoint.Parse reverses it.
func (d Descriptor) Address() string { return d.address }

// TransportType returns the transport the engine should bind the port to.
func (d Descriptor) TransportType() string { return TransportType }

// Result is the outcome of MockDynamicSendPort.
type Result struct {
	Outcome Outcome
	// Err is set when Outcome is Failed.
	Err error

	descriptor Descriptor
}

// Descriptor returns the mock transport descriptor. ok is false unless the
// outcome is Applied.
func (r Result) Descriptor() (d Descriptor, ok bool) {
	if r.Outcome != Applied {
		return Descriptor{}, false
	}
	return r.descriptor, true
}

// Mocked reports whether the message was redirected.
func (r Result) Mocked() bool {
	return r.Outcome == Applied
}

// Adapter rewrites outbound messages to the mock transport while a test run
// is active. An Adapter holds no per-message state and is safe for concurrent
// use.
type Adapter struct {
	signal          beacon.Signal
	host            string
	defaultBehavior string
	ports           []string
	logger          *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHost sets the host part of mock addresses.
func WithHost(host string) Option {
	return func(a *Adapter) {
		if host != "" {
			a.host = host
		}
	}
}

// WithDefaultBehavior sets the endpoint behavior configuration used when a
// call supplies none.
func WithDefaultBehavior(behavior string) Option {
	return func(a *Adapter) {
		if behavior != "" {
			a.defaultBehavior = behavior
		}
	}
}

// WithPorts restricts mocking to ports matching at least one doublestar
// pattern. No patterns means every port.
func WithPorts(patterns ...string) Option {
	return func(a *Adapter) {
		a.ports = append([]string(nil), patterns...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logging.OrNop(l)
	}
}

// NewAdapter creates an Adapter probing signal. A nil signal probes the
// host-wide beacon with default settings.
func NewAdapter(signal beacon.Signal, opts ...Option) *Adapter {
	if signal == nil {
		signal = beacon.New()
	}
	a := &Adapter{
		signal:          signal,
		host:            endpoint.DefaultHost,
		defaultBehavior: DefaultBehavior,
		logger:          logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MockDynamicSendPort redirects msg to the mock endpoint of portName when a
// test run is active. customBehavior, when non-empty, is used verbatim as the
// endpoint behavior configuration.
//
// Every property the rewrite may touch is read before anything is written,
// and original transport properties are cleared before any mock property is
// written. When a write fails the properties already written are put back,
// so a Failed message keeps its original binding. The call never panics and
// never retries; see Outcome for the possible results.
func (a *Adapter) MockDynamicSendPort(portName, customBehavior string, msg message.PropertyBag) (res Result) {
	var j *journal
	defer func() {
		if r := recover(); r != nil {
			logger := a.logger.With("port", portName)
			a.rollback(logger, j)
			res = a.failed(logger, fmt.Errorf("%w: panic: %v", ErrPropertyMutation, r))
		}
	}()

	if !a.signal.IsActive() {
		return Result{Outcome: NotActive}
	}

	logger := a.logger.With("port", portName, "call", id.Short())
	if portName == "" {
		return a.failed(logger, ErrEmptyPortName)
	}
	addr := endpoint.New(a.host, portName)
	if err := addr.Validate(); err != nil {
		return a.failed(logger, fmt.Errorf("%w: %w", ErrInvalidPortName, err))
	}
	if !a.portIncluded(logger, portName) {
		logger.Debug("port excluded from mocking")
		return Result{Outcome: Excluded}
	}
	if msg == nil {
		return a.failed(logger, fmt.Errorf("%w: nil property bag", ErrPropertyMutation))
	}

	behavior := customBehavior
	if behavior == "" {
		behavior = a.defaultBehavior
	}

	j, err := snapshot(msg)
	if err != nil {
		return a.failed(logger, err)
	}
	if err := j.clearOriginal(); err != nil {
		a.rollback(logger, j)
		return a.failed(logger, err)
	}
	if err := j.apply(NewMockProperties(behavior).Properties()); err != nil {
		a.rollback(logger, j)
		return a.failed(logger, err)
	}

	d := Descriptor{
		portName: portName,
		address:  addr.String(),
	}
	logger.Info("dynamic send port mocked", "address", d.address, "customBehavior", customBehavior != "")
	return Result{Outcome: Applied, descriptor: d}
}

// Mock is MockDynamicSendPort returning only the descriptor, for callers
// that treat every outcome other than Applied as "use the original binding".
func (a *Adapter) Mock(portName, customBehavior string, msg message.PropertyBag) *Descriptor {
	d, ok := a.MockDynamicSendPort(portName, customBehavior, msg).Descriptor()
	if !ok {
		return nil
	}
	return &d
}

func (a *Adapter) portIncluded(logger *slog.Logger, portName string) bool {
	if len(a.ports) == 0 {
		return true
	}
	for _, pattern := range a.ports {
		ok, err := doublestar.Match(pattern, portName)
		if err != nil {
			logger.Warn("invalid port pattern", "pattern", pattern, "error", err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func (a *Adapter) rollback(logger *slog.Logger, j *journal) {
	if err := j.restore(); err != nil {
		logger.Warn("restoring original transport properties failed", "error", err)
	}
}

func (a *Adapter) failed(logger *slog.Logger, err error) Result {
	logger.Warn("mock transport rewrite failed, dispatching unmocked", "error", err)
	return Result{Outcome: Failed, Err: err}
}

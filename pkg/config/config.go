package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/creasty/defaults"
	"github.com/getmockd/transmock/pkg/beacon"
	"github.com/getmockd/transmock/pkg/endpoint"
	"github.com/getmockd/transmock/pkg/logging"
	"github.com/getmockd/transmock/pkg/transport"
)

// Version is the configuration format version written by Default.
const Version = "1.0"

// Config is the root of transmock.yaml.
type Config struct {
	// Version is the config format version ("1" or "1.0").
	Version string `json:"version" yaml:"version" default:"1.0"`

	Beacon  BeaconConfig  `json:"beacon" yaml:"beacon"`
	Mock    MockConfig    `json:"mock" yaml:"mock"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// BeaconConfig configures the presence beacon.
type BeaconConfig struct {
	// Dir holds the rendezvous socket on unix hosts. Empty means the
	// system temp directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// ProbeTimeout bounds a single presence probe.
	ProbeTimeout time.Duration `json:"probeTimeout" yaml:"probeTimeout" default:"10ms"`
}

// MarshalJSON writes ProbeTimeout in its string form.
func (b BeaconConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dir          string `json:"dir,omitempty"`
		ProbeTimeout string `json:"probeTimeout"`
	}{b.Dir, b.ProbeTimeout.String()})
}

// MockConfig configures the transport adapter.
type MockConfig struct {
	// Host is the host part of mock://<host>/<port> addresses.
	Host string `json:"host" yaml:"host" default:"localhost"`

	// DefaultBehavior is the endpoint behavior used when a call supplies none.
	DefaultBehavior string `json:"defaultBehavior" yaml:"defaultBehavior"`

	// Ports limits mocking to ports matching one of these doublestar
	// patterns. Empty means every port.
	Ports []string `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" default:"info"`
	Format string `json:"format" yaml:"format" default:"text"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero fields from their default tags.
func (c *Config) SetDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("applying defaults: %w", err)
	}
	if c.Mock.DefaultBehavior == "" {
		c.Mock.DefaultBehavior = transport.DefaultBehavior
	}
	return nil
}

// Validate checks the decoded configuration. Schema checks on the raw file
// happen while loading; Validate covers what a schema cannot express.
func (c *Config) Validate() error {
	result := &ValidationResult{}

	switch c.Version {
	case "":
		result.AddError("version", "required")
	case "1", Version:
	default:
		result.AddError("version", fmt.Sprintf("unsupported version %q, expected %q", c.Version, Version))
	}

	if c.Beacon.ProbeTimeout <= 0 {
		result.AddError("beacon.probeTimeout", fmt.Sprintf("must be positive, got %s", c.Beacon.ProbeTimeout))
	}

	if err := (endpoint.Address{Host: c.Mock.Host, Name: "probe"}).Validate(); err != nil {
		result.AddError("mock.host", err.Error())
	}

	for i, p := range c.Mock.Ports {
		if p == "" || !doublestar.ValidatePattern(p) {
			result.AddError(fmt.Sprintf("mock.ports[%d]", i), fmt.Sprintf("invalid pattern %q", p))
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		result.AddError("logging.level", fmt.Sprintf("invalid level %q", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case string(logging.FormatText), string(logging.FormatJSON):
	default:
		result.AddError("logging.format", fmt.Sprintf("invalid format %q, must be \"text\" or \"json\"", c.Logging.Format))
	}

	if !result.IsValid() {
		return fmt.Errorf("%w:\n%s", ErrInvalidConfig, result.Error())
	}
	return nil
}

// BeaconOptions returns the beacon options the configuration describes.
// The logger is left to the caller.
func (c *Config) BeaconOptions() []beacon.Option {
	return []beacon.Option{
		beacon.WithDir(c.Beacon.Dir),
		beacon.WithProbeTimeout(c.Beacon.ProbeTimeout),
	}
}

// AdapterOptions returns the transport adapter options the configuration
// describes. The logger is left to the caller.
func (c *Config) AdapterOptions() []transport.Option {
	return []transport.Option{
		transport.WithHost(c.Mock.Host),
		transport.WithDefaultBehavior(c.Mock.DefaultBehavior),
		transport.WithPorts(c.Mock.Ports...),
	}
}

// Logger builds a logger writing to stderr.
func (c *Config) Logger() *slog.Logger {
	return c.LoggerTo(nil)
}

// LoggerTo builds a logger writing to w, or stderr when w is nil.
func (c *Config) LoggerTo(w io.Writer) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(c.Logging.Level),
		Format: logging.ParseFormat(c.Logging.Format),
		Output: w,
	})
}

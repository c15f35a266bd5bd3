package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Errors returned while loading configuration.
var (
	ErrFileNotFound  = errors.New("configuration file not found")
	ErrNoConfig      = errors.New("no configuration file found")
	ErrEmptyFile     = errors.New("configuration file is empty")
	ErrInvalidYAML   = errors.New("invalid YAML syntax")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Environment variables read by Discover and ApplyEnv.
const (
	EnvConfig       = "TRANSMOCK_CONFIG"
	EnvBeaconDir    = "TRANSMOCK_BEACON_DIR"
	EnvProbeTimeout = "TRANSMOCK_PROBE_TIMEOUT"
	EnvMockHost     = "TRANSMOCK_MOCK_HOST"
	EnvLogLevel     = "TRANSMOCK_LOG_LEVEL"
	EnvLogFormat    = "TRANSMOCK_LOG_FORMAT"
)

// DiscoveryOrder defines the priority order for finding config files.
var DiscoveryOrder = []string{
	"transmock.yaml",
	"transmock.yml",
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// Load reads the configuration at path. An empty path discovers the file;
// when none exists the defaults are used. Environment overrides are applied
// last and the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		discovered, err := Discover()
		switch {
		case errors.Is(err, ErrNoConfig):
			cfg := Default()
			if err := ApplyEnv(cfg); err != nil {
				return nil, err
			}
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		case err != nil:
			return nil, err
		}
		path = discovered
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromBytes parses a YAML document, applying variable expansion,
// schema checks, defaults and environment overrides.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := []byte(ExpandEnvVars(string(data)))

	if err := ValidateDocument(expanded); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover finds a config file via TRANSMOCK_CONFIG or in the current
// directory. It returns ErrNoConfig when there is none.
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s points to %s", ErrFileNotFound, EnvConfig, envPath)
		}
		return envPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	for _, name := range DiscoveryOrder {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrNoConfig
}

// ApplyEnv overrides cfg with the TRANSMOCK_* environment variables that
// are set.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvBeaconDir); v != "" {
		cfg.Beacon.Dir = v
	}
	if v := os.Getenv(EnvProbeTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvProbeTimeout, err)
		}
		cfg.Beacon.ProbeTimeout = d
	}
	if v := os.Getenv(EnvMockHost); v != "" {
		cfg.Mock.Host = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// ExpandEnvVars expands environment variables in the input string.
// Supports ${VAR_NAME} and ${VAR_NAME:-default} syntax.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		varName := submatch[1]
		defaultVal := ""
		if len(submatch) >= 3 {
			defaultVal = submatch[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

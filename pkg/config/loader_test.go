package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
version: "1.0"
beacon:
  dir: /run/transmock
  probeTimeout: 25ms
mock:
  host: mocks.local
  defaultBehavior: '<behavior name="Tests" />'
  ports:
    - "Dynamic*"
    - "Orders/**"
logging:
  level: debug
  format: json
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvBeaconDir, EnvProbeTimeout, EnvMockHost, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
	}
}

func TestLoadFromBytes_Full(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromBytes([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, "/run/transmock", cfg.Beacon.Dir)
	assert.Equal(t, 25*time.Millisecond, cfg.Beacon.ProbeTimeout)
	assert.Equal(t, "mocks.local", cfg.Mock.Host)
	assert.Equal(t, `<behavior name="Tests" />`, cfg.Mock.DefaultBehavior)
	assert.Equal(t, []string{"Dynamic*", "Orders/**"}, cfg.Mock.Ports)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromBytes_DefaultsFillGaps(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromBytes([]byte("version: \"1\"\nmock:\n  host: other\n"))
	require.NoError(t, err)

	want := Default()
	want.Version = "1"
	want.Mock.Host = "other"
	assert.Equal(t, want, cfg)
}

func TestLoadFromBytes_CommentsOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromBytes([]byte("# nothing configured\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromBytes_ExpandsVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("TM_TEST_HOST", "expanded.local")

	cfg, err := LoadFromBytes([]byte("mock:\n  host: ${TM_TEST_HOST}\nbeacon:\n  probeTimeout: ${TM_TEST_UNSET:-40ms}\n"))
	require.NoError(t, err)
	assert.Equal(t, "expanded.local", cfg.Mock.Host)
	assert.Equal(t, 40*time.Millisecond, cfg.Beacon.ProbeTimeout)
}

func TestLoadFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			input:   "mock: [unclosed",
			wantErr: ErrInvalidYAML,
		},
		{
			name:    "unknown top-level key",
			input:   "version: \"1.0\"\nbroker: rabbit\n",
			wantErr: ErrInvalidConfig,
			wantMsg: "broker",
		},
		{
			name:    "unknown nested key",
			input:   "beacon:\n  name: Other\n",
			wantErr: ErrInvalidConfig,
			wantMsg: "beacon",
		},
		{
			name:    "numeric probe timeout",
			input:   "beacon:\n  probeTimeout: 10\n",
			wantErr: ErrInvalidConfig,
			wantMsg: "beacon.probeTimeout",
		},
		{
			name:    "unsupported version",
			input:   "version: \"2\"\n",
			wantErr: ErrInvalidConfig,
			wantMsg: "version",
		},
		{
			name:    "empty port pattern",
			input:   "mock:\n  ports: [\"\"]\n",
			wantErr: ErrInvalidConfig,
			wantMsg: "mock.ports",
		},
		{
			name:    "invalid port pattern",
			input:   "mock:\n  ports: [\"[oops\"]\n",
			wantErr: ErrInvalidConfig,
			wantMsg: "mock.ports[0]",
		},
		{
			name:    "bad log format",
			input:   "logging:\n  format: xml\n",
			wantErr: ErrInvalidConfig,
			wantMsg: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := LoadFromBytes([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBeaconDir, "/env/dir")
	t.Setenv(EnvProbeTimeout, "75ms")
	t.Setenv(EnvMockHost, "env.local")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")

	cfg, err := LoadFromBytes([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "/env/dir", cfg.Beacon.Dir)
	assert.Equal(t, 75*time.Millisecond, cfg.Beacon.ProbeTimeout)
	assert.Equal(t, "env.local", cfg.Mock.Host)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Not overridable from the environment.
	assert.Equal(t, []string{"Dynamic*", "Orders/**"}, cfg.Mock.Ports)
}

func TestApplyEnv_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvProbeTimeout, "soon")

	err := ApplyEnv(Default())
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), EnvProbeTimeout)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mocks.local", cfg.Mock.Host)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrEmptyFile)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("logging:\n  format: xml\n"), 0644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), bad)
}

func TestLoad_Discovery(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	// Nothing to discover: defaults.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "transmock.yml"), []byte("mock:\n  host: yml.local\n"), 0644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "yml.local", cfg.Mock.Host)

	// .yaml wins over .yml.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transmock.yaml"), []byte("mock:\n  host: yaml.local\n"), 0644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "yaml.local", cfg.Mock.Host)
}

func TestDiscover_EnvVar(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "elsewhere.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0644))
	t.Setenv(EnvConfig, path)

	found, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, found)

	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "nope.yaml"))
	_, err = Discover()
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestMarshal_RoundTrip(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromBytes([]byte(fullConfig))
	require.NoError(t, err)

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "probeTimeout: 25ms")

	again, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSchema(t *testing.T) {
	assert.Contains(t, string(Schema()), `"additionalProperties": false`)
	require.NoError(t, ValidateDocument([]byte(fullConfig)))
}

func TestPointerToPath(t *testing.T) {
	assert.Equal(t, "", pointerToPath(""))
	assert.Equal(t, "mock.ports.0", pointerToPath("/mock/ports/0"))
}

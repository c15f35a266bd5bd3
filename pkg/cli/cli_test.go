package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/getmockd/transmock/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate moves the test into an empty directory with no TRANSMOCK_*
// overrides except a private beacon directory, which it returns.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{config.EnvConfig, config.EnvProbeTimeout, config.EnvMockHost, config.EnvLogLevel, config.EnvLogFormat} {
		t.Setenv(k, "")
	}
	dir, err := os.MkdirTemp("", "tmc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	t.Setenv(config.EnvBeaconDir, dir)
	t.Chdir(dir)
	return dir
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	return runCLIContext(context.Background(), args...)
}

func runCLIContext(ctx context.Context, args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = Run(ctx, args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestVersion(t *testing.T) {
	isolate(t)

	stdout, _, code := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "transmock ")

	stdout, _, code = runCLI(t, "version", "--json")
	require.Equal(t, 0, code)
	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &v))
	assert.NotEmpty(t, v.Go)
	assert.NotEmpty(t, v.OS)
}

func TestAddress(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		args     []string
		want     string
		wantCode int
	}{
		{name: "default host", args: []string{"address", "DynamicPortOut"}, want: "mock://localhost/DynamicPortOut\n"},
		{name: "host flag", args: []string{"address", "--host", "mocks.local", "Out"}, want: "mock://mocks.local/Out\n"},
		{name: "escaped name", args: []string{"address", "Port Out"}, want: "mock://localhost/Port%20Out\n"},
		{name: "slash rejected", args: []string{"address", "a/b"}, wantCode: 1},
		{name: "missing name", args: []string{"address"}, wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := runCLI(t, tt.args...)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode == 0 {
				assert.Equal(t, tt.want, stdout)
			}
		})
	}
}

func TestAddress_HostFromConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transmock.yaml"), []byte("mock:\n  host: cfg.local\n"), 0644))

	stdout, _, code := runCLI(t, "address", "--json", "Out")
	require.Equal(t, 0, code)

	var out AddressOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, AddressOutput{Address: "mock://cfg.local/Out", Host: "cfg.local", Name: "Out"}, out)
}

func TestConfig(t *testing.T) {
	isolate(t)

	stdout, _, code := runCLI(t, "config")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "probeTimeout: 10ms")
	assert.Contains(t, stdout, "host: localhost")

	stdout, _, code = runCLI(t, "config", "--validate")
	require.Equal(t, 0, code)
	assert.Equal(t, "configuration is valid\n", stdout)

	stdout, _, code = runCLI(t, "config", "--schema")
	require.Equal(t, 0, code)
	assert.True(t, json.Valid([]byte(stdout)))

	stdout, _, code = runCLI(t, "config", "--json")
	require.Equal(t, 0, code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &raw))
	assert.Equal(t, "10ms", raw["beacon"].(map[string]any)["probeTimeout"])
}

func TestConfig_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0644))

	_, stderr, code := runCLI(t, "config", "--validate", "--config", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid configuration")
	assert.Contains(t, stderr, "logging.format")
}

func TestLogFlags_Validated(t *testing.T) {
	isolate(t)

	_, stderr, code := runCLI(t, "version", "--log-format", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "logging.format")
}

func TestProbe_Inactive(t *testing.T) {
	isolate(t)

	stdout, stderr, code := runCLI(t, "probe")
	assert.Equal(t, 1, code)
	assert.Equal(t, "inactive\n", stdout)
	assert.Empty(t, stderr)

	stdout, _, code = runCLI(t, "probe", "--json")
	assert.Equal(t, 1, code)
	var out ProbeOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Active)
	assert.NotEmpty(t, out.Endpoint)
}

func TestMock_InactiveLeavesContextUntouched(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "msg.yaml")
	original := "properties:\n  WCF.Action: http://example.org/Submit\n  WCF.UseSSO: true\npayload: <Order/>\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	stdout, _, code := runCLI(t, "mock", "--port", "DynamicPortOut", "--context", path, "--write")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "outcome: not-active")
	assert.Contains(t, stdout, "WCF.Action")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestMock_Errors(t *testing.T) {
	dir := isolate(t)

	_, stderr, code := runCLI(t, "mock", "--context", "msg.yaml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `"port"`)

	_, stderr, code = runCLI(t, "mock", "--port", "Out", "--write")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--write requires --context")

	_, stderr, code = runCLI(t, "mock", "--port", "Out", "--context", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not found")
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)

	_, stderr, code := runCLI(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

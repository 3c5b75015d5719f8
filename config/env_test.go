package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
app:
  name: test
  environment: production
logging:
  level: debug
diagnostic:
  correlation_id_header_name: X-Trace
services:
  greeting:
    url: http://localhost:8080/api/v1/services
    retry_max: 3
`)

	env, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "test", env.AppConfig.Name)
	require.Equal(t, 8080, env.AppConfig.Port)
	require.Equal(t, "info", env.LoggerConfig.Level, "production forces info level")
	require.Equal(t, "production", env.LoggerConfig.Environment)
	require.Equal(t, "X-Trace", env.DiagnosticConfig.CorrelationIDHeaderName)
	require.Equal(t, 1000, env.CacheConfig.Capacity)

	svc, ok := env.Services["greeting"]
	require.True(t, ok)
	require.Equal(t, 3, svc.RetryMax)
	require.Equal(t, TransportREST, svc.TransportOrDefault())
}

func TestLoadRejectsInvalidService(t *testing.T) {
	testCases := []struct {
		desc    string
		content string
	}{
		{
			desc: "missing url",
			content: `
services:
  broken:
    transport: rest
`,
		},
		{
			desc: "unknown transport",
			content: `
services:
  broken:
    url: http://localhost
    transport: carrier-pigeon
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.ErrorContains(t, err, `service "broken"`)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestDiagnosticConfigInitParameter(t *testing.T) {
	value, ok := DiagnosticConfig{}.InitParameter("correlationIdHeaderName")
	require.False(t, ok)
	require.Empty(t, value)

	value, ok = DiagnosticConfig{CorrelationIDHeaderName: "X-Request-ID"}.InitParameter("correlationIdHeaderName")
	require.True(t, ok)
	require.Equal(t, "X-Request-ID", value)

	_, ok = DiagnosticConfig{CorrelationIDHeaderName: "X-Request-ID"}.InitParameter("other")
	require.False(t, ok)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	yml := writeFile(t, dir, "logging.yaml", `
logging:
  service: from-yaml
  app_version: 0.0.1
  log_level: error
  force_json: true
  reset_logging: false
`)
	env := writeFile(t, dir, ".env", "APP_VERSION=2.0.0\nLOG_LEVEL=warning\n")

	cfg, err := Load(Sources{
		EnvFile: env,
		File:    yml,
		Lookup:  mapLookup(map[string]string{"LOG_LEVEL": "debug"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", cfg.ServiceName) // solo en YAML
	assert.Equal(t, "2.0.0", cfg.Version)         // .env gana sobre YAML
	assert.Equal(t, "DEBUG", cfg.Level)           // entorno gana sobre todo
	assert.True(t, cfg.ForceJSON)
	assert.True(t, cfg.KeepHandlers)
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	cfg, err := Load(Sources{
		EnvFile: filepath.Join(t.TempDir(), "nope.env"),
		Lookup:  mapLookup(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.Level)
	assert.Equal(t, "unknown", cfg.Version)
	assert.False(t, cfg.KeepHandlers)
}

func TestLoad_MissingYAMLFails(t *testing.T) {
	_, err := Load(Sources{
		File:   filepath.Join(t.TempDir(), "missing.yaml"),
		Lookup: mapLookup(nil),
	})
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bad.yaml", "logging: [unclosed")
	_, err := Load(Sources{File: p, Lookup: mapLookup(nil)})
	require.Error(t, err)
}

func TestLoad_EmptyEnvValueFallsThrough(t *testing.T) {
	p := writeFile(t, t.TempDir(), "l.yaml", "logging:\n  service: svc\n")
	cfg, err := Load(Sources{
		File:   p,
		Lookup: mapLookup(map[string]string{"SERVICE": "  "}),
	})
	require.NoError(t, err)
	assert.Equal(t, "svc", cfg.ServiceName)
}

func TestLoad_ProcessEnv(t *testing.T) {
	t.Setenv("SERVICE", "auth")
	t.Setenv("FORCE_LOG_FMT", "1")
	cfg, err := Load(Sources{})
	require.NoError(t, err)
	assert.Equal(t, "auth", cfg.ServiceName)
	assert.True(t, cfg.ForceText)
}

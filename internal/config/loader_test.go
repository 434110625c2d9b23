package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestHome points HOME at a temp dir so the default config location is
// isolated from the developer's machine.
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0700))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadWithFile_NoFileUsesDefaults(t *testing.T) {
	setupTestHome(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithFile_YAML(t *testing.T) {
	setupTestHome(t)
	path := writeConfig(t, t.TempDir(), "addup.yaml", `
scan:
  max_precision: 60
  scientific: false
logging:
  level: debug
  format: json
server:
  port: 8088
  shutdown_timeout: 3s
watch:
  debounce: 50ms
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(60), cfg.Scan.MaxPrecision)
	assert.False(t, cfg.Scan.Scientific)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce.Duration())
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().Scan.MaxExponent, cfg.Scan.MaxExponent)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadWithFile_TOML(t *testing.T) {
	setupTestHome(t)
	path := writeConfig(t, t.TempDir(), "addup.toml", `
[scan]
max_precision = 80

[display]
clipboard = true

[server]
rate_limit = 2.5
rate_burst = 5
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(80), cfg.Scan.MaxPrecision)
	assert.True(t, cfg.Scan.Scientific)
	assert.True(t, cfg.Display.Clipboard)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
	assert.Equal(t, 5, cfg.Server.RateBurst)
}

func TestLoadWithFile_DefaultLocation(t *testing.T) {
	home := setupTestHome(t)
	writeConfig(t, filepath.Join(home, ".config", "addup"), "config.yaml", "scan:\n  max_precision: 42\n")

	cfg, err := LoadWithFile("")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), cfg.Scan.MaxPrecision)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	setupTestHome(t)
	path := writeConfig(t, t.TempDir(), "addup.yaml", "scan:\n  max_precision: 60\nserver:\n  port: 8088\n")

	t.Setenv("ADDUP_SCAN_MAX_PRECISION", "120")
	t.Setenv("ADDUP_LOGGING_LEVEL", "info")
	t.Setenv("ADDUP_SERVER_RATE_LIMIT", "0")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(120), cfg.Scan.MaxPrecision)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, float64(0), cfg.Server.RateLimit)
	assert.Equal(t, 8088, cfg.Server.Port)
}

func TestLoadWithFile_Errors(t *testing.T) {
	setupTestHome(t)
	dir := t.TempDir()

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfig(t, dir, "addup.ini", "x=1")
		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config format")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, dir, "broken.yaml", "scan: [unclosed")
		_, err := LoadWithFile(path)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, dir, "bad.yaml", "scan:\n  max_precision: 1\n")
		_, err := LoadWithFile(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("too large", func(t *testing.T) {
		path := writeConfig(t, dir, "big.yaml", "# "+strings.Repeat("x", maxConfigFileSize))
		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("directory", func(t *testing.T) {
		sub := filepath.Join(dir, "conf.yaml")
		require.NoError(t, os.MkdirAll(sub, 0700))
		_, err := LoadWithFile(sub)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a regular file")
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "scan.max_precision", envKey("ADDUP_SCAN_MAX_PRECISION"))
	assert.Equal(t, "server.port", envKey("ADDUP_SERVER_PORT"))
	assert.Equal(t, "telemetry.service_name", envKey("ADDUP_TELEMETRY_SERVICE_NAME"))
	assert.Equal(t, "debug", envKey("ADDUP_DEBUG"))
}

func TestTOMLParser_RoundTrip(t *testing.T) {
	p := TOMLParser()
	out, err := p.Marshal(map[string]interface{}{"scan": map[string]interface{}{"max_precision": 60}})
	require.NoError(t, err)

	back, err := p.Unmarshal(out)
	require.NoError(t, err)
	scan, ok := back["scan"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 60, scan["max_precision"])
}

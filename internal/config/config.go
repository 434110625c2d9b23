// Package config provides configuration loading for addup.
//
// Configuration is layered: built-in defaults, then an optional YAML or TOML
// file, then ADDUP_* environment variables. Command-line flags are applied by
// the caller on top of the loaded value.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/addup/internal/numscan"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete addup configuration.
type Config struct {
	Scan      ScanConfig      `koanf:"scan"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Server    ServerConfig    `koanf:"server"`
	Display   DisplayConfig   `koanf:"display"`
	Watch     WatchConfig     `koanf:"watch"`
}

// ScanConfig is the precision context of every scan.
type ScanConfig struct {
	MaxPrecision uint32 `koanf:"max_precision"`
	Scientific   bool   `koanf:"scientific"`
	MaxExponent  int32  `koanf:"max_exponent"`
	MinExponent  int32  `koanf:"min_exponent"`
}

// Settings converts the section into scanner settings.
func (c ScanConfig) Settings() numscan.Settings {
	return numscan.Settings{
		MaxPrecision: c.MaxPrecision,
		Scientific:   c.Scientific,
		MaxExponent:  c.MaxExponent,
		MinExponent:  c.MinExponent,
	}
}

// LoggingConfig holds the user-facing logging knobs.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Endpoint      string `koanf:"endpoint"`
	Protocol      string `koanf:"protocol"` // grpc or http/protobuf
	Insecure      bool   `koanf:"insecure"`
	TLSSkipVerify bool   `koanf:"tls_skip_verify"`
	ServiceName   string `koanf:"service_name"`
}

// ServerConfig holds HTTP API settings for `addup serve`.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	RateLimit       float64  `koanf:"rate_limit"` // requests per second per client, 0 disables
	RateBurst       int      `koanf:"rate_burst"`
	MaxBodyBytes    int64    `koanf:"max_body_bytes"`
}

// DisplayConfig controls how results are presented.
type DisplayConfig struct {
	Clipboard bool `koanf:"clipboard"`
	Color     bool `koanf:"color"`
}

// WatchConfig controls `addup watch`.
type WatchConfig struct {
	Debounce Duration `koanf:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	settings := numscan.DefaultSettings()
	return &Config{
		Scan: ScanConfig{
			MaxPrecision: settings.MaxPrecision,
			Scientific:   settings.Scientific,
			MaxExponent:  settings.MaxExponent,
			MinExponent:  settings.MinExponent,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			Protocol:    "grpc",
			Insecure:    true,
			ServiceName: "addup",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            9191,
			ShutdownTimeout: Duration(10 * time.Second),
			RateLimit:       20,
			RateBurst:       40,
			MaxBodyBytes:    4 << 20,
		},
		Display: DisplayConfig{
			Clipboard: false,
			Color:     true,
		},
		Watch: WatchConfig{
			Debounce: Duration(200 * time.Millisecond),
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Scan.Settings().Validate(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrInvalidConfig, err)
	}

	var lvl zapcore.Level
	if c.Logging.Level != "trace" {
		if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
			return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
		}
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("%w: logging.format must be 'json' or 'console', got %q", ErrInvalidConfig, c.Logging.Format)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("%w: telemetry.endpoint is required when telemetry is enabled", ErrInvalidConfig)
		}
		if c.Telemetry.Protocol != "grpc" && c.Telemetry.Protocol != "http/protobuf" {
			return fmt.Errorf("%w: telemetry.protocol must be 'grpc' or 'http/protobuf', got %q", ErrInvalidConfig, c.Telemetry.Protocol)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range: %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit cannot be negative", ErrInvalidConfig)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		return fmt.Errorf("%w: server.rate_burst must be positive when rate limiting", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	}

	return nil
}

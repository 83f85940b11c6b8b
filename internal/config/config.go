// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the service settings. Engine shape lives in the YAML profiles
// under ConfigDir, not here.
type Config struct {
	HTTPAddr string `env:"WISHMACHINE_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"WISHMACHINE_GRPC_ADDR" envDefault:":9090"`

	ConfigDir      string        `env:"WISHMACHINE_CONFIG_DIR" envDefault:"config"`
	Profile        string        `env:"WISHMACHINE_PROFILE" envDefault:"default"`
	WatchInterval  time.Duration `env:"WISHMACHINE_WATCH_INTERVAL" envDefault:"5s"`
	RequestTimeout time.Duration `env:"WISHMACHINE_REQUEST_TIMEOUT" envDefault:"10s"`

	CORSOrigins []string `env:"WISHMACHINE_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel  string `env:"WISHMACHINE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"WISHMACHINE_LOG_FORMAT"` // text | json; unset means json in production

	OTelMetricExporter string        `env:"WISHMACHINE_OTEL_EXPORTER" envDefault:"none"` // none | console | otlp
	OTelMetricEndpoint string        `env:"WISHMACHINE_OTEL_METRICS_ENDPOINT"`
	OTelExportInterval time.Duration `env:"WISHMACHINE_OTEL_EXPORT_INTERVAL" envDefault:"30s"`
	OTelTraceEndpoint  string        `env:"WISHMACHINE_OTEL_TRACES_ENDPOINT"`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WatchInterval < 0 {
		return Config{}, fmt.Errorf("WISHMACHINE_WATCH_INTERVAL must not be negative")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("WISHMACHINE_REQUEST_TIMEOUT must be positive")
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

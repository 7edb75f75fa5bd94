package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wellhub-backend-go/internal/telemetry"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"wellhub"`
	AccessTTL   time.Duration `env:"ACCESS_TTL" envDefault:"5m"`
	RefreshTTL  time.Duration `env:"REFRESH_TTL" envDefault:"24h"`
	Port        string        `env:"PORT" envDefault:"8080"`
	MockPort    string        `env:"MOCK_API_PORT" envDefault:"8081"`
	CorsOrigins []string      `env:"CORS_ORIGINS" envSeparator:","`

	LogDir           string `env:"LOG_DIR" envDefault:"storage/logs"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" envDefault:"7"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"text"`

	MetricsDiskPath string `env:"METRICS_DISK_PATH" envDefault:"/"`

	TelemetrySource         string        `env:"TELEMETRY_SOURCE" envDefault:"fixed"`
	TelemetryStreamInterval time.Duration `env:"TELEMETRY_STREAM_INTERVAL" envDefault:"5s"`

	Mock     MockConfig     `envPrefix:"MOCK_"`
	External ExternalConfig `envPrefix:"EXTERNAL_API_"`
}

// MockConfig parameterises the randomized telemetry generator.
type MockConfig struct {
	Seed              int64   `env:"SEED" envDefault:"0"`
	ListFailureRate   float64 `env:"LIST_FAILURE_RATE" envDefault:"0.03"`
	HealthFailureRate float64 `env:"HEALTH_FAILURE_RATE" envDefault:"0.01"`
	QueueDegradedRate float64 `env:"QUEUE_DEGRADED_RATE" envDefault:"0.05"`
	DisableDelays     bool    `env:"DISABLE_DELAYS" envDefault:"false"`
}

// ExternalConfig parameterises the fixed-table external client.
type ExternalConfig struct {
	URL               string        `env:"URL" envDefault:"https://mock.well-monitoring-api.com/v1"`
	Key               string        `env:"KEY" envDefault:"test_api_key_12345"`
	Timeout           time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Seed              int64         `env:"SEED" envDefault:"0"`
	FetchFailureRate  float64       `env:"FETCH_FAILURE_RATE" envDefault:"0.1"`
	HealthFailureRate float64       `env:"HEALTH_FAILURE_RATE" envDefault:"0.05"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CorsOrigins = trimAll(cfg.CorsOrigins)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.TelemetrySource {
	case telemetry.SourceFixed, telemetry.SourceGenerated:
	default:
		errs = append(errs, fmt.Errorf("TELEMETRY_SOURCE must be %q or %q, got %q",
			telemetry.SourceFixed, telemetry.SourceGenerated, c.TelemetrySource))
	}
	if c.TelemetryStreamInterval <= 0 {
		errs = append(errs, errors.New("TELEMETRY_STREAM_INTERVAL must be positive"))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	rates := map[string]float64{
		"MOCK_LIST_FAILURE_RATE":           c.Mock.ListFailureRate,
		"MOCK_HEALTH_FAILURE_RATE":         c.Mock.HealthFailureRate,
		"MOCK_QUEUE_DEGRADED_RATE":         c.Mock.QueueDegradedRate,
		"EXTERNAL_API_FETCH_FAILURE_RATE":  c.External.FetchFailureRate,
		"EXTERNAL_API_HEALTH_FAILURE_RATE": c.External.HealthFailureRate,
	}
	for name, value := range rates {
		if value < 0 || value > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", name, value))
		}
	}
	return errors.Join(errs...)
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	items := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}

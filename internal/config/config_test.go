package config

import (
	"os"
	"testing"
	"time"

	"wellhub-backend-go/internal/telemetry"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://test.db")
	t.Setenv("JWT_SECRET", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.MockPort != "8081" {
		t.Fatalf("unexpected ports: %s %s", cfg.Port, cfg.MockPort)
	}
	if cfg.AccessTTL != 5*time.Minute || cfg.RefreshTTL != 24*time.Hour {
		t.Fatalf("unexpected ttls: %v %v", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if cfg.Mock.ListFailureRate != 0.03 || cfg.Mock.HealthFailureRate != 0.01 {
		t.Fatalf("unexpected mock rates: %+v", cfg.Mock)
	}
	if cfg.External.FetchFailureRate != 0.1 || cfg.External.HealthFailureRate != 0.05 {
		t.Fatalf("unexpected external rates: %+v", cfg.External)
	}
	if cfg.TelemetrySource != telemetry.SourceFixed {
		t.Fatalf("unexpected source: %s", cfg.TelemetrySource)
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	t.Setenv("DATABASE_URL", "sqlite://test.db")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set")
	}
}

func TestLoad_CorsOriginsCSV(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://test.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CorsOrigins) != 2 || cfg.CorsOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %#v", cfg.CorsOrigins)
	}
}

func TestLoad_RejectsBadRate(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://test.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MOCK_LIST_FAILURE_RATE", "1.5")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out of range probability")
	}
}

func TestLoad_RejectsUnknownSource(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://test.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TELEMETRY_SOURCE", "live")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown telemetry source")
	}
}

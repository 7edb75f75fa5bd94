package telemetry

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

var fixedNow = time.Unix(1_700_000_000, 0).UTC()

func newTestGenerator(t *testing.T, mutate func(*GeneratorConfig)) *Generator {
	t.Helper()
	cfg := DefaultGeneratorConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	rnd, err := NewRand(42)
	if err != nil {
		t.Fatalf("NewRand: %v", err)
	}
	gen := NewGenerator(cfg, rnd, NoDelay)
	gen.Now = func() time.Time { return fixedNow }
	gen.Log, _ = test.NewNullLogger()
	return gen
}

func TestGetTelemetry_AscendingSeries(t *testing.T) {
	gen := newTestGenerator(t, nil)
	series, err := gen.GetTelemetry(context.Background(), "WELL-001", 24, 50)
	if err != nil {
		t.Fatalf("GetTelemetry: %v", err)
	}
	if series.Len() != 50 || len(series.Temperature) != 50 || len(series.Pressure) != 50 || len(series.FlowRate) != 50 {
		t.Fatalf("unexpected lengths: %d %d %d %d", series.Len(), len(series.Temperature), len(series.Pressure), len(series.FlowRate))
	}
	for i := 1; i < series.Len(); i++ {
		if series.Timestamps[i] <= series.Timestamps[i-1] {
			t.Fatalf("timestamps not strictly ascending at %d: %v", i, series.Timestamps[i-1:i+1])
		}
	}
	span := time.Duration(series.Timestamps[49]-series.Timestamps[0]) * time.Second
	if span < 23*time.Hour || span > 24*time.Hour {
		t.Fatalf("span = %v, want about 24h", span)
	}
	if series.Timestamps[49] != fixedNow.Unix() {
		t.Fatalf("newest timestamp = %d, want %d", series.Timestamps[49], fixedNow.Unix())
	}
	for i, flow := range series.FlowRate {
		if flow < 0 {
			t.Fatalf("flow_rate[%d] = %v", i, flow)
		}
	}
}

func TestGetTelemetry_PointsCapped(t *testing.T) {
	gen := newTestGenerator(t, nil)
	series, err := gen.GetTelemetry(context.Background(), "WELL-002", 1, 5000)
	if err != nil {
		t.Fatalf("GetTelemetry: %v", err)
	}
	if series.Len() != 1000 {
		t.Fatalf("points = %d, want 1000", series.Len())
	}
}

func TestGetTelemetry_Errors(t *testing.T) {
	gen := newTestGenerator(t, nil)
	ctx := context.Background()
	cases := []struct {
		id            string
		hours, points int
		want          error
	}{
		{"WELL-001", 0, 10, ErrInvalidParameter},
		{"WELL-001", 24, -1, ErrInvalidParameter},
		{"WELL-011", 24, 10, ErrWellNotFound},
		{"WELL-X", 24, 10, ErrInvalidWellID},
		{"WELL-001", DefaultGeneratorConfig().MaxHours + 1, 10, ErrInvalidParameter},
		{"WELL-001", math.MaxInt, 5, ErrInvalidParameter},
		{"WELL-99999999999999999999", 24, 10, ErrWellNotFound},
	}
	for _, tc := range cases {
		if _, err := gen.GetTelemetry(ctx, tc.id, tc.hours, tc.points); !errors.Is(err, tc.want) {
			t.Fatalf("GetTelemetry(%s, %d, %d) = %v, want %v", tc.id, tc.hours, tc.points, err, tc.want)
		}
	}
}

func TestGetWell(t *testing.T) {
	gen := newTestGenerator(t, nil)
	ctx := context.Background()

	if _, err := gen.GetWell(ctx, "WELL-011"); !errors.Is(err, ErrWellNotFound) {
		t.Fatalf("WELL-011: %v", err)
	}
	if _, err := gen.GetWell(ctx, "WELL-000"); !errors.Is(err, ErrWellNotFound) {
		t.Fatalf("WELL-000: %v", err)
	}
	for _, id := range []string{"WELL-X", "WELL-01", "well-001", "WELL-001 "} {
		if _, err := gen.GetWell(ctx, id); !errors.Is(err, ErrInvalidWellID) {
			t.Fatalf("%q: %v", id, err)
		}
	}

	well, err := gen.GetWell(ctx, "WELL-010")
	if err != nil {
		t.Fatalf("GetWell: %v", err)
	}
	if well.WellID != "WELL-010" || well.WellDetails == nil || well.InstallationDate != "2020-05-15" {
		t.Fatalf("unexpected well: %+v", well)
	}
	if well.FlowRate < 0 {
		t.Fatalf("negative flow rate: %v", well.FlowRate)
	}
}

func TestListWells(t *testing.T) {
	gen := newTestGenerator(t, func(cfg *GeneratorConfig) { cfg.ListFailureRate = 0 })
	ctx := context.Background()

	wells, err := gen.ListWells(ctx, 3)
	if err != nil {
		t.Fatalf("ListWells: %v", err)
	}
	if len(wells) != 3 || wells[0].WellID != "WELL-001" || wells[2].WellID != "WELL-003" {
		t.Fatalf("unexpected wells: %+v", wells)
	}
	for range 20 {
		wells, err := gen.ListWells(ctx, 0)
		if err != nil {
			t.Fatalf("ListWells: %v", err)
		}
		if len(wells) < 2 || len(wells) > 10 {
			t.Fatalf("random count %d out of [2,10]", len(wells))
		}
		for _, well := range wells {
			if well.FlowRate < 0 || well.LastUpdated == nil || well.WellDetails != nil {
				t.Fatalf("unexpected snapshot: %+v", well)
			}
		}
	}
}

func TestListWells_ForcedOutage(t *testing.T) {
	gen := newTestGenerator(t, func(cfg *GeneratorConfig) { cfg.ListFailureRate = 1 })
	if _, err := gen.ListWells(context.Background(), 0); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestListWells_SameSeedSameData(t *testing.T) {
	a := newTestGenerator(t, func(cfg *GeneratorConfig) { cfg.ListFailureRate = 0 })
	b := newTestGenerator(t, func(cfg *GeneratorConfig) { cfg.ListFailureRate = 0 })
	first, err := a.ListWells(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListWells: %v", err)
	}
	second, err := b.ListWells(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListWells: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("seeded generators diverged")
	}
}

func TestHealth(t *testing.T) {
	ctx := context.Background()

	critical := newTestGenerator(t, func(cfg *GeneratorConfig) { cfg.HealthFailureRate = 1 })
	_, err := critical.Health(ctx)
	var failure *CriticalFailure
	if !errors.As(err, &failure) || failure.Reason != "Database connection failed" {
		t.Fatalf("expected CriticalFailure, got %v", err)
	}

	degraded := newTestGenerator(t, func(cfg *GeneratorConfig) {
		cfg.HealthFailureRate = 0
		cfg.QueueDegradedRate = 1
	})
	report, err := degraded.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Services["message_queue"] != "degraded" || report.Services["database"] != "online" {
		t.Fatalf("unexpected services: %v", report.Services)
	}

	healthy := newTestGenerator(t, func(cfg *GeneratorConfig) {
		cfg.HealthFailureRate = 0
		cfg.QueueDegradedRate = 0
	})
	report, err = healthy.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Status != StatusHealthy || report.Services["message_queue"] != "online" {
		t.Fatalf("unexpected report: %+v", report)
	}
	m := report.Metrics
	if m == nil || m.UptimeSeconds < 1_000_000 || m.UptimeSeconds > 2_000_000 ||
		m.CPUPercent < 5 || m.CPUPercent > 40 || m.ActiveConnections < 50 || m.ActiveConnections > 200 {
		t.Fatalf("metrics out of range: %+v", m)
	}
	if report.ResponseTimeMS < 0 || report.ResponseTimeMS >= 100 {
		t.Fatalf("response_time_ms = %v", report.ResponseTimeMS)
	}
}

func TestDelays_UseConfiguredRange(t *testing.T) {
	var mu sync.Mutex
	var slept []time.Duration
	record := func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()
		slept = append(slept, d)
		return nil
	}
	rnd, _ := NewRand(7)
	gen := NewGenerator(DefaultGeneratorConfig(), rnd, record)
	gen.Log, _ = test.NewNullLogger()
	for range 10 {
		_, _ = gen.GetTelemetry(context.Background(), "WELL-001", 1, 5)
	}
	for _, d := range slept {
		if d < 200*time.Millisecond || d > 800*time.Millisecond {
			t.Fatalf("delay %v outside telemetry range", d)
		}
	}
	if len(slept) != 10 {
		t.Fatalf("expected 10 delays, got %d", len(slept))
	}
}

func TestDelays_StopOnCancel(t *testing.T) {
	rnd, _ := NewRand(7)
	gen := NewGenerator(DefaultGeneratorConfig(), rnd, Sleep)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if _, err := gen.GetTelemetry(ctx, "WELL-001", 24, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 150*time.Millisecond {
		t.Fatalf("cancelled call still slept")
	}
}

func TestGetTelemetry_LongestSpanStaysAscending(t *testing.T) {
	gen := newTestGenerator(t, nil)
	hours := gen.Config().MaxHours
	series, err := gen.GetTelemetry(context.Background(), "WELL-001", hours, 5)
	if err != nil {
		t.Fatalf("GetTelemetry: %v", err)
	}
	for i := 1; i < series.Len(); i++ {
		if series.Timestamps[i] <= series.Timestamps[i-1] {
			t.Fatalf("timestamps not ascending: %v", series.Timestamps)
		}
	}
	if span := series.Timestamps[series.Len()-1] - series.Timestamps[0]; span <= 0 || span > int64(hours)*3600 {
		t.Fatalf("span = %d", span)
	}
}

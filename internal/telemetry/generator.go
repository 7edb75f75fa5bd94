package telemetry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

type GeneratorConfig struct {
	ListFailureRate   float64
	HealthFailureRate float64
	QueueDegradedRate float64

	ListDelay      DelayRange
	DetailDelay    DelayRange
	TelemetryDelay DelayRange
	HealthDelay    DelayRange

	MaxWellNumber int
	MinListCount  int
	MaxListCount  int
	DefaultHours  int
	DefaultPoints int
	MaxPoints     int
	MaxHours      int
}

func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		ListFailureRate:   0.03,
		HealthFailureRate: 0.01,
		QueueDegradedRate: 0.05,
		ListDelay:         DelayRange{Min: 50 * time.Millisecond, Max: 500 * time.Millisecond},
		DetailDelay:       DelayRange{Min: 100 * time.Millisecond, Max: 300 * time.Millisecond},
		TelemetryDelay:    DelayRange{Min: 200 * time.Millisecond, Max: 800 * time.Millisecond},
		HealthDelay:       DelayRange{Min: 10 * time.Millisecond, Max: 50 * time.Millisecond},
		MaxWellNumber:     10,
		MinListCount:      2,
		MaxListCount:      10,
		DefaultHours:      24,
		DefaultPoints:     100,
		MaxPoints:         1000,
		MaxHours:          24 * 365,
	}
}

const APIVersion = "1.0.0"

var (
	snapshotStatuses = []string{"active", "active", "active", "maintenance", "inactive"}
	fieldNames       = []string{"North", "South", "West"}
	operators        = []string{"Gazprom", "Lukoil", "Rosneft"}
)

// Generator produces freshly randomized wells, series and health reports, simulating
// an unreliable upstream monitoring system. It holds no state between calls.
type Generator struct {
	cfg   GeneratorConfig
	rand  Rand
	sleep SleepFunc
	Now   func() time.Time
	Log   logrus.FieldLogger
}

func NewGenerator(cfg GeneratorConfig, rnd Rand, sleep SleepFunc) *Generator {
	if sleep == nil {
		sleep = Sleep
	}
	return &Generator{
		cfg:   cfg,
		rand:  rnd,
		sleep: sleep,
		Now:   time.Now,
		Log:   logrus.StandardLogger(),
	}
}

func (g *Generator) Config() GeneratorConfig {
	return g.cfg
}

func (g *Generator) delay(ctx context.Context, d DelayRange) error {
	return g.sleep(ctx, d.pick(g.rand))
}

// ListWells returns count snapshots; count <= 0 picks a random count.
func (g *Generator) ListWells(ctx context.Context, count int) ([]Snapshot, error) {
	if err := g.delay(ctx, g.cfg.ListDelay); err != nil {
		return nil, err
	}
	if chance(g.rand, g.cfg.ListFailureRate) {
		g.Log.Warn("mock api: simulated outage on well list")
		return nil, ErrServiceUnavailable
	}
	if count <= 0 {
		count = intBetween(g.rand, g.cfg.MinListCount, g.cfg.MaxListCount)
	}
	now := g.Now()
	wells := make([]Snapshot, 0, count)
	for i := 1; i <= count; i++ {
		wells = append(wells, g.snapshot(FormatWellID(i), now))
	}
	g.Log.WithField("count", len(wells)).Debug("mock api: wells generated")
	return wells, nil
}

func (g *Generator) GetWell(ctx context.Context, wellID string) (Snapshot, error) {
	if err := g.delay(ctx, g.cfg.DetailDelay); err != nil {
		return Snapshot{}, err
	}
	if _, err := g.wellNumber(wellID); err != nil {
		return Snapshot{}, err
	}
	well := g.snapshot(wellID, g.Now())
	well.WellDetails = &WellDetails{
		InstallationDate: "2020-05-15",
		FieldName:        choice(g.rand, fieldNames),
		Operator:         choice(g.rand, operators),
		LastMaintenance:  "2024-11-20",
	}
	return well, nil
}

// GetTelemetry returns points evenly spaced over the last hours, oldest first.
// points above the configured maximum are capped; hours above MaxHours are rejected.
func (g *Generator) GetTelemetry(ctx context.Context, wellID string, hours, points int) (Series, error) {
	if err := g.delay(ctx, g.cfg.TelemetryDelay); err != nil {
		return Series{}, err
	}
	if hours < 1 || points < 1 {
		return Series{}, fmt.Errorf("%w: hours and points must be positive", ErrInvalidParameter)
	}
	if hours > g.cfg.MaxHours {
		return Series{}, fmt.Errorf("%w: hours must not exceed %d", ErrInvalidParameter, g.cfg.MaxHours)
	}
	points = min(points, g.cfg.MaxPoints)
	n, err := g.wellNumber(wellID)
	if err != nil {
		return Series{}, err
	}

	now := epochSeconds(g.Now())
	step := float64(hours*3600) / float64(points)
	baseTemp := 80 + float64(n)*2
	basePressure := 35 + float64(n)*1.5
	baseFlow := 100 + float64(n)*10

	series := newSeries(points)
	for i := 0; i < points; i++ {
		ts := int64(now - float64(points-1-i)*step)
		season := math.Sin(float64(ts)/10000) * 3
		noise := uniform(g.rand, -1, 1)
		series.Timestamps = append(series.Timestamps, ts)
		series.Temperature = append(series.Temperature, round(baseTemp+season+noise+float64(i)*0.01, 1))
		series.Pressure = append(series.Pressure, round(basePressure+season*0.5+noise*0.5, 1))
		series.FlowRate = append(series.FlowRate, round(math.Max(0, baseFlow+season*2+noise*2), 1))
	}
	return series, nil
}

func (g *Generator) Health(ctx context.Context) (HealthReport, error) {
	if err := g.delay(ctx, g.cfg.HealthDelay); err != nil {
		return HealthReport{}, err
	}
	now := g.Now()
	if chance(g.rand, g.cfg.HealthFailureRate) {
		g.Log.Error("mock api: simulated critical failure")
		return HealthReport{}, &CriticalFailure{Reason: "Database connection failed", Timestamp: now}
	}
	queue := "online"
	if chance(g.rand, g.cfg.QueueDegradedRate) {
		queue = "degraded"
	}
	return HealthReport{
		Status:      StatusHealthy,
		Timestamp:   now,
		Version:     APIVersion,
		Environment: "production",
		Metrics: &HealthMetrics{
			UptimeSeconds:        intBetween(g.rand, 1_000_000, 2_000_000),
			MemoryUsageMB:        round(uniform(g.rand, 512, 2048), 1),
			CPUPercent:           round(uniform(g.rand, 5, 40), 1),
			ActiveConnections:    intBetween(g.rand, 50, 200),
			RequestRatePerMinute: intBetween(g.rand, 100, 500),
			LastCronRun:          now.Add(-time.Duration(intBetween(g.rand, 0, 60)) * time.Minute),
		},
		Services: map[string]string{
			"database":      "online",
			"cache":         "online",
			"message_queue": queue,
			"storage":       "online",
		},
		ResponseTimeMS: round(math.Mod(epochSeconds(now), 100), 2),
	}, nil
}

func (g *Generator) wellNumber(wellID string) (int, error) {
	n, err := ParseWellID(wellID)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > g.cfg.MaxWellNumber {
		return 0, fmt.Errorf("%w: %s", ErrWellNotFound, wellID)
	}
	return n, nil
}

func (g *Generator) snapshot(wellID string, now time.Time) Snapshot {
	trend := epochSeconds(now) / 10000
	baseTemp := 80 + uniform(g.rand, 0, 25)
	baseFlow := 50 + uniform(g.rand, 0, 150)
	basePressure := 30 + uniform(g.rand, 0, 25)
	updated := now
	return Snapshot{
		WellID:      wellID,
		Temperature: round(baseTemp+uniform(g.rand, -2, 2)+math.Mod(trend, 5), 1),
		FlowRate:    round(math.Max(0, baseFlow+uniform(g.rand, -10, 10)+math.Mod(trend, 20)), 1),
		Pressure:    round(basePressure+uniform(g.rand, -1, 1)+math.Mod(trend, 3), 1),
		Coordinates: Coordinates{
			Lat: 55.75 + uniform(g.rand, -0.01, 0.01),
			Lon: 37.61 + uniform(g.rand, -0.01, 0.01),
		},
		Depth:       round(2000+uniform(g.rand, 0, 1500), 1),
		Status:      choice(g.rand, snapshotStatuses),
		LastUpdated: &updated,
	}
}

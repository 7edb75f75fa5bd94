package telemetry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

type FixedClientConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration

	FetchDelay        time.Duration
	HealthDelay       time.Duration
	FetchFailureRate  float64
	HealthFailureRate float64

	SeriesPoints   int
	SeriesInterval time.Duration
}

func DefaultFixedClientConfig() FixedClientConfig {
	return FixedClientConfig{
		APIURL:            "https://mock.well-monitoring-api.com/v1",
		APIKey:            "test_api_key_12345",
		Timeout:           30 * time.Second,
		FetchDelay:        500 * time.Millisecond,
		HealthDelay:       100 * time.Millisecond,
		FetchFailureRate:  0.10,
		HealthFailureRate: 0.05,
		SeriesPoints:      10,
		SeriesInterval:    5 * time.Minute,
	}
}

var fixedWells = []Snapshot{
	{WellID: "WELL-001", Temperature: 85.5, FlowRate: 120.3, Pressure: 45.2, Coordinates: Coordinates{Lat: 55.7558, Lon: 37.6173}, Depth: 2450.0, Status: "active"},
	{WellID: "WELL-002", Temperature: 92.1, FlowRate: 95.7, Pressure: 38.9, Coordinates: Coordinates{Lat: 55.7512, Lon: 37.6185}, Depth: 3100.5, Status: "active"},
	{WellID: "WELL-003", Temperature: 65.3, FlowRate: 0.0, Pressure: 12.1, Coordinates: Coordinates{Lat: 55.7498, Lon: 37.6199}, Depth: 1800.0, Status: "maintenance"},
}

// FixedClient is the client-side fake of the monitoring API: three fixed wells,
// a flat fetch delay and independent failure rates.
type FixedClient struct {
	cfg   FixedClientConfig
	rand  Rand
	sleep SleepFunc
	wells []Snapshot

	// Probe replaces the simulated health request when set.
	Probe func(ctx context.Context) error
	Now   func() time.Time
	Log   logrus.FieldLogger
}

func NewFixedClient(cfg FixedClientConfig, rnd Rand, sleep SleepFunc) *FixedClient {
	if sleep == nil {
		sleep = Sleep
	}
	wells := make([]Snapshot, len(fixedWells))
	copy(wells, fixedWells)
	return &FixedClient{
		cfg:   cfg,
		rand:  rnd,
		sleep: sleep,
		wells: wells,
		Now:   time.Now,
		Log:   logrus.StandardLogger(),
	}
}

func (c *FixedClient) Config() FixedClientConfig {
	return c.cfg
}

func (c *FixedClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *FixedClient) GetWellsData(ctx context.Context) ([]Snapshot, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	c.Log.WithField("api_url", c.cfg.APIURL).Info("external api: fetching wells")
	if err := c.sleep(ctx, c.cfg.FetchDelay); err != nil {
		return nil, err
	}
	if chance(c.rand, c.cfg.FetchFailureRate) {
		c.Log.Error("external api: simulated connection failure")
		return nil, ErrConnection
	}
	wells := make([]Snapshot, len(c.wells))
	copy(wells, c.wells)
	return wells, nil
}

func (c *FixedClient) GetWellByID(_ context.Context, wellID string) (Snapshot, error) {
	for _, well := range c.wells {
		if well.WellID == wellID {
			return well, nil
		}
	}
	c.Log.WithField("well_id", wellID).Warn("external api: well not found")
	return Snapshot{}, fmt.Errorf("%w: %s", ErrWellNotFound, wellID)
}

// GetWellTelemetry jitters the well's fixed readings over the last few intervals.
func (c *FixedClient) GetWellTelemetry(ctx context.Context, wellID string) (Series, error) {
	well, err := c.GetWellByID(ctx, wellID)
	if err != nil {
		return Series{}, err
	}
	n := c.cfg.SeriesPoints
	now := c.Now().Unix()
	interval := int64(c.cfg.SeriesInterval / time.Second)
	series := newSeries(n)
	for i := 0; i < n; i++ {
		series.Timestamps = append(series.Timestamps, now-int64(n-1-i)*interval)
	}
	for i := 0; i < n; i++ {
		series.Temperature = append(series.Temperature, round(well.Temperature+uniform(c.rand, -2, 2), 1))
	}
	for i := 0; i < n; i++ {
		series.Pressure = append(series.Pressure, round(well.Pressure+uniform(c.rand, -1, 1), 1))
	}
	for i := 0; i < n; i++ {
		series.FlowRate = append(series.FlowRate, math.Max(0, round(well.FlowRate+uniform(c.rand, -5, 5), 1)))
	}
	return series, nil
}

// CheckHealth has two failure outcomes. The simulated outage is returned as
// ErrConnection; a failed or cancelled probe yields an "unhealthy" report and no error.
func (c *FixedClient) CheckHealth(ctx context.Context) (HealthReport, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	start := c.Now()
	err := c.sleep(ctx, c.cfg.HealthDelay)
	if err == nil && c.Probe != nil {
		err = c.Probe(ctx)
	}
	if err != nil {
		c.Log.WithError(err).Error("external api: health probe failed")
		return HealthReport{Status: StatusUnhealthy, Error: err.Error(), Timestamp: c.Now()}, nil
	}
	if chance(c.rand, c.cfg.HealthFailureRate) {
		c.Log.Error("external api: simulated outage")
		return HealthReport{}, ErrConnection
	}
	elapsed := c.Now().Sub(start)
	return HealthReport{
		Status:         StatusHealthy,
		Timestamp:      c.Now(),
		Version:        APIVersion,
		ResponseTimeMS: round(float64(elapsed)/float64(time.Millisecond), 0),
	}, nil
}

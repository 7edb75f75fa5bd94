package telemetry

import (
	"math"
	"time"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Snapshot is the current reading of one well as the upstream system reports it.
type Snapshot struct {
	WellID      string      `json:"well_id"`
	Temperature float64     `json:"temperature"`
	FlowRate    float64     `json:"flow_rate"`
	Pressure    float64     `json:"pressure"`
	Coordinates Coordinates `json:"coordinates"`
	Depth       float64     `json:"depth"`
	Status      string      `json:"status"`
	LastUpdated *time.Time  `json:"last_updated,omitempty"`
	*WellDetails
}

// WellDetails is only present on single-well lookups.
type WellDetails struct {
	InstallationDate string `json:"installation_date"`
	FieldName        string `json:"field_name"`
	Operator         string `json:"operator"`
	LastMaintenance  string `json:"last_maintenance"`
}

// Series holds parallel arrays ordered by ascending timestamp (epoch seconds).
type Series struct {
	Timestamps  []int64   `json:"timestamps"`
	Temperature []float64 `json:"temperature"`
	Pressure    []float64 `json:"pressure"`
	FlowRate    []float64 `json:"flow_rate"`
}

func newSeries(n int) Series {
	return Series{
		Timestamps:  make([]int64, 0, n),
		Temperature: make([]float64, 0, n),
		Pressure:    make([]float64, 0, n),
		FlowRate:    make([]float64, 0, n),
	}
}

func (s Series) Len() int {
	return len(s.Timestamps)
}

// SeriesWindow selects the span of a telemetry request. Zero fields take defaults.
type SeriesWindow struct {
	Hours  int
	Points int
}

type HealthMetrics struct {
	UptimeSeconds        int       `json:"uptime_seconds"`
	MemoryUsageMB        float64   `json:"memory_usage_mb"`
	CPUPercent           float64   `json:"cpu_percent"`
	ActiveConnections    int       `json:"active_connections"`
	RequestRatePerMinute int       `json:"request_rate_per_minute"`
	LastCronRun          time.Time `json:"last_cron_run"`
}

type HealthReport struct {
	Status         string            `json:"status"`
	Timestamp      time.Time         `json:"timestamp"`
	Version        string            `json:"version,omitempty"`
	Environment    string            `json:"environment,omitempty"`
	Metrics        *HealthMetrics    `json:"metrics,omitempty"`
	Services       map[string]string `json:"services,omitempty"`
	ResponseTimeMS float64           `json:"response_time_ms"`
	Error          string            `json:"error,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusCritical  = "critical"
)

func round(value float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(value*scale) / scale
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

package telemetry

import (
	"context"
	"time"
)

// SleepFunc parks the calling goroutine for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay skips simulated latency; used by tests and MOCK_DISABLE_DELAYS.
func NoDelay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

func (d DelayRange) pick(r Rand) time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(r.Float64()*float64(d.Max-d.Min))
}

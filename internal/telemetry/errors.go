package telemetry

import (
	"errors"
	"time"
)

var (
	ErrInvalidWellID      = errors.New("invalid well ID format")
	ErrWellNotFound       = errors.New("well not found")
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrConnection         = errors.New("could not connect to external API")
)

// CriticalFailure is the simulated hard failure of the health endpoint.
type CriticalFailure struct {
	Reason    string
	Timestamp time.Time
}

func (e *CriticalFailure) Error() string {
	return "critical: " + e.Reason
}

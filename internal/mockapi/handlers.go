package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"wellhub-backend-go/internal/telemetry"

	"github.com/go-chi/chi/v5"
)

const retryAfterSeconds = "30"

type wellsPayload struct {
	Wells      []telemetry.Snapshot `json:"wells"`
	Count      int                  `json:"count"`
	Timestamp  time.Time            `json:"timestamp"`
	APIVersion string               `json:"api_version"`
}

type telemetryPayload struct {
	WellID      string            `json:"well_id"`
	Parameters  []string          `json:"parameters"`
	Units       map[string]string `json:"units"`
	Telemetry   telemetry.Series  `json:"telemetry"`
	PeriodHours int               `json:"period_hours"`
	Points      int               `json:"points"`
}

var (
	telemetryParameters = []string{"temperature", "pressure", "flow_rate"}
	telemetryUnits      = map[string]string{"temperature": "°C", "pressure": "atm", "flow_rate": "m³/day"}
)

type criticalResponse struct {
	Status    string    `json:"status"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) ListWells(w http.ResponseWriter, r *http.Request) {
	s.Log.WithField("remote", r.RemoteAddr).Info("mock api: wells list requested")
	wells, err := s.Gen.ListWells(r.Context(), 0)
	if err != nil {
		if errors.Is(err, telemetry.ErrServiceUnavailable) {
			w.Header().Set("Retry-After", retryAfterSeconds)
			writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeData(w, wellsPayload{
		Wells:      wells,
		Count:      len(wells),
		Timestamp:  s.Gen.Now(),
		APIVersion: telemetry.APIVersion,
	})
}

func (s *Server) WellDetail(w http.ResponseWriter, r *http.Request) {
	wellID := chi.URLParam(r, "wellID")
	well, err := s.Gen.GetWell(r.Context(), wellID)
	switch {
	case errors.Is(err, telemetry.ErrInvalidWellID):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid well ID format: %s", wellID))
	case errors.Is(err, telemetry.ErrWellNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("Well %s not found", wellID))
	case err != nil:
		s.fail(w, r, err)
	default:
		writeData(w, well)
	}
}

func (s *Server) WellTelemetry(w http.ResponseWriter, r *http.Request) {
	wellID := chi.URLParam(r, "wellID")
	cfg := s.Gen.Config()
	hours, err := positiveQueryInt(r, "hours", cfg.DefaultHours)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	points, err := positiveQueryInt(r, "points", cfg.DefaultPoints)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	series, err := s.Gen.GetTelemetry(r.Context(), wellID, hours, points)
	switch {
	case errors.Is(err, telemetry.ErrInvalidWellID):
		writeError(w, http.StatusBadRequest, "Invalid well ID")
	case errors.Is(err, telemetry.ErrWellNotFound):
		writeError(w, http.StatusNotFound, "Well not found")
	case errors.Is(err, telemetry.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.fail(w, r, err)
	default:
		writeData(w, telemetryPayload{
			WellID:      wellID,
			Parameters:  telemetryParameters,
			Units:       telemetryUnits,
			Telemetry:   series,
			PeriodHours: hours,
			Points:      series.Len(),
		})
	}
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report, err := s.Gen.Health(r.Context())
	var critical *telemetry.CriticalFailure
	switch {
	case errors.As(err, &critical):
		writeJSON(w, http.StatusInternalServerError, criticalResponse{
			Status:    telemetry.StatusCritical,
			Error:     critical.Reason,
			Timestamp: critical.Timestamp,
		})
	case err != nil:
		s.fail(w, r, err)
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"api":         "Mock Well Monitoring API",
		"version":     telemetry.APIVersion,
		"description": "Simulated external well monitoring API",
		"endpoints": map[string]string{
			"wells_list":     "/api/v1/wells/",
			"well_detail":    "/api/v1/wells/{id}/",
			"well_telemetry": "/api/v1/wells/{id}/telemetry/",
			"health":         "/api/v1/health/",
		},
		"contact": "api.support@example.com",
	})
}

// fail answers unexpected errors. A cancelled request gets no body; the client is gone.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.Log.WithError(err).Debug("mock api: request abandoned")
		return
	}
	s.Log.WithError(err).Error("mock api: unexpected error")
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func positiveQueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

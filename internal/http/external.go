package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"wellhub-backend-go/internal/middleware"
	"wellhub-backend-go/internal/telemetry"

	"github.com/go-chi/chi/v5"
)

type ExternalWellsResponse struct {
	Wells []telemetry.Snapshot `json:"wells"`
	Count int                  `json:"count"`
}

type ExternalTelemetryResponse struct {
	WellID    string           `json:"well_id"`
	Telemetry telemetry.Series `json:"telemetry"`
}

func (s *Server) ExternalWells(w http.ResponseWriter, r *http.Request) {
	wells, err := s.Source.FetchWells(r.Context())
	if err != nil {
		s.writeTelemetryError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ExternalWellsResponse{Wells: wells, Count: len(wells)})
}

func (s *Server) ExternalWell(w http.ResponseWriter, r *http.Request) {
	well, err := s.Source.FetchSnapshot(r.Context(), chi.URLParam(r, "wellID"))
	if err != nil {
		s.writeTelemetryError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, well)
}

func (s *Server) ExternalTelemetry(w http.ResponseWriter, r *http.Request) {
	var window telemetry.SeriesWindow
	for key, target := range map[string]*int{"hours": &window.Hours, "points": &window.Points} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			WriteJSON(w, http.StatusBadRequest, map[string][]string{key: {"A valid positive integer is required."}})
			return
		}
		*target = value
	}
	wellID := chi.URLParam(r, "wellID")
	series, err := s.Source.FetchSeries(r.Context(), wellID, window)
	if err != nil {
		s.writeTelemetryError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ExternalTelemetryResponse{WellID: wellID, Telemetry: series})
}

func (s *Server) ExternalHealth(w http.ResponseWriter, r *http.Request) {
	report, err := s.Source.FetchHealth(r.Context())
	if err != nil {
		s.writeTelemetryError(w, r, err)
		return
	}
	status := http.StatusOK
	if report.Status != telemetry.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, report)
}

// telemetryStatus maps upstream failures to the status the main API answers with.
func telemetryStatus(err error) (int, string) {
	var critical *telemetry.CriticalFailure
	switch {
	case errors.Is(err, telemetry.ErrInvalidWellID), errors.Is(err, telemetry.ErrInvalidParameter):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, telemetry.ErrWellNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, telemetry.ErrServiceUnavailable),
		errors.Is(err, telemetry.ErrConnection),
		errors.As(err, &critical):
		return http.StatusServiceUnavailable, "External API unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "External API timed out"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func (s *Server) writeTelemetryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	status, message := telemetryStatus(err)
	entry := s.Log.WithError(err).WithField("reqid", middleware.GetRequestID(r))
	if status >= http.StatusInternalServerError {
		entry.Warn("external api call failed")
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	WriteError(w, status, message)
}

package httpapi

import (
	"context"
	"net/http"
	"time"

	"wellhub-backend-go/internal/services"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		s.Log.WithError(err).Warn("health: database ping failed")
		WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}

func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	sample, err := services.CaptureMetrics(r.Context(), s.Config.MetricsDiskPath)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, sample)
}

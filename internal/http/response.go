package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"wellhub-backend-go/internal/middleware"
	"wellhub-backend-go/internal/services"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Detail: message})
}

// writeServiceError renders validation errors as the bare field map and other
// service errors as {detail}. Anything else is logged and hidden behind a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr services.ValidationError
	if errors.As(err, &verr) {
		WriteJSON(w, http.StatusBadRequest, verr.Fields)
		return
	}
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteError(w, serr.Status, serr.Message)
		return
	}
	s.Log.WithError(err).WithField("reqid", middleware.GetRequestID(r)).Error("unhandled error")
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

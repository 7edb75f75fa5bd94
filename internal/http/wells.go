package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"wellhub-backend-go/internal/models"
	"wellhub-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type WellDTO struct {
	ID               int64             `json:"id"`
	WellNumber       string            `json:"well_number"`
	Field            string            `json:"field"`
	Latitude         float64           `json:"latitude"`
	Longitude        float64           `json:"longitude"`
	Depth            float64           `json:"depth"`
	Status           models.WellStatus `json:"status"`
	StatusDisplay    string            `json:"status_display"`
	CurrentPressure  *float64          `json:"current_pressure"`
	MeasuredFlowRate *float64          `json:"measured_flow_rate"`
	Temperature      *float64          `json:"temperature"`
	LastDataUpdate   time.Time         `json:"last_data_update"`
}

func buildWellDTO(well models.Well) WellDTO {
	return WellDTO{
		ID:               well.ID,
		WellNumber:       well.WellNumber,
		Field:            well.Field,
		Latitude:         well.Latitude,
		Longitude:        well.Longitude,
		Depth:            well.Depth,
		Status:           well.Status,
		StatusDisplay:    well.Status.Label(),
		CurrentPressure:  well.CurrentPressure,
		MeasuredFlowRate: well.MeasuredFlowRate,
		Temperature:      well.Temperature,
		LastDataUpdate:   well.LastDataUpdate.UTC(),
	}
}

func (s *Server) ListWells(w http.ResponseWriter, r *http.Request) {
	wells, err := services.ListWells(r.Context(), s.DB)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]WellDTO, 0, len(wells))
	for _, well := range wells {
		items = append(items, buildWellDTO(well))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateWell(w http.ResponseWriter, r *http.Request) {
	patch, ok := s.readWellPatch(w, r)
	if !ok {
		return
	}
	well, err := services.CreateWell(r.Context(), s.DB, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.Log.WithField("well_number", well.WellNumber).Info("well created")
	WriteJSON(w, http.StatusCreated, buildWellDTO(well))
}

func (s *Server) GetWell(w http.ResponseWriter, r *http.Request) {
	id, ok := wellIDParam(w, r)
	if !ok {
		return
	}
	well, err := services.GetWell(r.Context(), s.DB, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildWellDTO(well))
}

func (s *Server) ReplaceWell(w http.ResponseWriter, r *http.Request) {
	s.updateWell(w, r, false)
}

func (s *Server) PatchWell(w http.ResponseWriter, r *http.Request) {
	s.updateWell(w, r, true)
}

func (s *Server) updateWell(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := wellIDParam(w, r)
	if !ok {
		return
	}
	patch, ok := s.readWellPatch(w, r)
	if !ok {
		return
	}
	well, err := services.UpdateWell(r.Context(), s.DB, id, patch, partial)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildWellDTO(well))
}

func (s *Server) DeleteWell(w http.ResponseWriter, r *http.Request) {
	id, ok := wellIDParam(w, r)
	if !ok {
		return
	}
	if err := services.DeleteWell(r.Context(), s.DB, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.Log.WithField("well_id", id).Info("well deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) readWellPatch(w http.ResponseWriter, r *http.Request) (services.WellPatch, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return services.WellPatch{}, false
	}
	patch, err := services.DecodeWellPatch(body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return services.WellPatch{}, false
	}
	return patch, true
}

// wellIDParam answers 404 for ids that are not positive integers, like an unmatched route.
func wellIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "wellID"), 10, 64)
	if err != nil || id < 1 {
		WriteError(w, http.StatusNotFound, "Not found.")
		return 0, false
	}
	return id, true
}

package httpapi

import (
	"net/http"

	"wellhub-backend-go/internal/services"
)

// Profile returns the caller's own record, re-read so last_login is current.
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	current, _ := CurrentUser(r)
	user, err := services.GetUser(r.Context(), s.DB, current.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildProfileDTO(user))
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"wellhub-backend-go/internal/services"
)

const maxBodyBytes = 1 << 20

// RegisterRequest has no role: registration always creates a viewer and any
// submitted role is dropped while decoding.
type RegisterRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Password2 *string `json:"password2"`
}

type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type RefreshRequest struct {
	Refresh *string `json:"refresh"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := services.RegisterUser(r.Context(), s.DB, services.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.Log.WithField("username", user.Username).Info("user registered")
	WriteJSON(w, http.StatusCreated, RegisteredUserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	errs := services.FieldErrors{}
	if req.Username == nil || *req.Username == "" {
		errs.Add("username", "This field is required.")
	}
	if req.Password == nil || *req.Password == "" {
		errs.Add("password", "This field is required.")
	}
	if err := errs.Err(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	user, err := services.Authenticate(r.Context(), s.DB, *req.Username, *req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	pair, err := s.Tokens.IssuePair(user)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, pair)
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Refresh == nil || *req.Refresh == "" {
		WriteJSON(w, http.StatusBadRequest, services.FieldErrors{"refresh": {"This field is required."}})
		return
	}
	claims, err := s.Tokens.ParseRefreshToken(*req.Refresh)
	if err != nil {
		unauthorized(w, "Token is invalid or expired")
		return
	}
	userID, _ := claims.UserID()
	user, err := services.GetUser(r.Context(), s.DB, userID)
	if err != nil || !user.IsActive {
		unauthorized(w, "Token is invalid or expired")
		return
	}
	access, err := s.Tokens.CreateAccessToken(user)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, AccessResponse{Access: access})
}

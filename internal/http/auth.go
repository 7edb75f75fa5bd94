package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"wellhub-backend-go/internal/models"
	"wellhub-backend-go/internal/services"
)

type contextKey string

const ctxUser contextKey = "user"

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgBadToken      = "Given token not valid for any token type"
	msgForbidden     = "You do not have permission to perform this action."
)

// Authenticate resolves a bearer token to the stored user. Requests without a token
// pass through anonymous; a present but invalid token is rejected.
func (s *Server) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			unauthorized(w, msgBadToken)
			return
		}
		user, err := s.userFromToken(r.Context(), strings.TrimSpace(raw))
		if err != nil {
			unauthorized(w, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), ctxUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromToken loads the account behind an access token. The role always comes
// from the database, so role changes apply without re-login.
func (s *Server) userFromToken(ctx context.Context, raw string) (models.User, error) {
	claims, err := s.Tokens.ParseAccessToken(raw)
	if err != nil {
		return models.User{}, errors.New(msgBadToken)
	}
	userID, _ := claims.UserID()
	user, err := services.GetUser(ctx, s.DB, userID)
	if err != nil {
		return models.User{}, errors.New("User not found")
	}
	if !user.IsActive {
		return models.User{}, errors.New("User is inactive")
	}
	return user, nil
}

func CurrentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(ctxUser).(models.User)
	return user, ok
}

// RequireRoles applies the role gate for one endpoint.
func RequireRoles(allowed models.RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, authenticated := CurrentUser(r)
			if models.Allow(user.Role, authenticated, allowed) {
				next.ServeHTTP(w, r)
				return
			}
			if !authenticated {
				unauthorized(w, msgNoCredentials)
				return
			}
			WriteError(w, http.StatusForbidden, msgForbidden)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	WriteError(w, http.StatusUnauthorized, message)
}

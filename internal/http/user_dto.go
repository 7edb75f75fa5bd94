package httpapi

import (
	"time"

	"wellhub-backend-go/internal/models"
)

type RegisteredUserDTO struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

type ProfileDTO struct {
	ID         int64       `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	DateJoined time.Time   `json:"date_joined"`
	LastLogin  *time.Time  `json:"last_login"`
}

func buildProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		DateJoined: user.CreatedAt.UTC(),
		LastLogin:  utcPtr(user.LastLogin),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

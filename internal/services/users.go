package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"wellhub-backend-go/internal/db"
	"wellhub-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

const maxUsernameLength = 150

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const userColumns = `id, username, email, password_hash, role, is_active, created_at, last_login`

type Registration struct {
	Username  *string
	Email     *string
	Password  *string
	Password2 *string
}

// RegisterUser creates a viewer account. The role is never taken from the caller.
func RegisterUser(ctx context.Context, conn *sqlx.DB, req Registration) (models.User, error) {
	errs := FieldErrors{}
	username := requiredString(errs, "username", req.Username)
	password := requiredString(errs, "password", req.Password)
	password2 := requiredString(errs, "password2", req.Password2)
	email := ""
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if username != "" {
		validateUsername(errs, username)
	}
	if email != "" && !validEmail(email) {
		errs.Add("email", "Enter a valid email address.")
	}
	if password != "" {
		attrs := []PasswordAttribute{{Label: "username", Value: username}, {Label: "email address", Value: email}}
		for _, problem := range ValidatePassword(password, attrs...) {
			errs.Add("password", problem)
		}
	}
	if username != "" && len(errs["username"]) == 0 {
		taken, err := usernameTaken(ctx, conn, username)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	if err := errs.Err(); err != nil {
		return models.User{}, err
	}
	if password != password2 {
		return models.User{}, fieldError("password", "Passwords do not match.")
	}
	return insertUser(ctx, conn, username, email, password, models.RoleViewer)
}

// CreateUser is the administrative path: any role, same username and password rules.
func CreateUser(ctx context.Context, conn *sqlx.DB, username, email, password string, role models.Role) (models.User, error) {
	errs := FieldErrors{}
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		errs.Add("username", "This field may not be blank.")
	} else {
		validateUsername(errs, username)
	}
	if !role.Valid() {
		errs.Add("role", "Invalid role.")
	}
	for _, problem := range ValidatePassword(password, PasswordAttribute{Label: "username", Value: username}) {
		errs.Add("password", problem)
	}
	if err := errs.Err(); err != nil {
		return models.User{}, err
	}
	taken, err := usernameTaken(ctx, conn, username)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fieldError("username", "A user with that username already exists.")
	}
	return insertUser(ctx, conn, username, email, password, role)
}

func insertUser(ctx context.Context, conn *sqlx.DB, username, email, password string, role models.Role) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, WrapError(err, "hash password")
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	err = conn.QueryRowxContext(ctx, conn.Rebind(`
INSERT INTO users (username, email, password_hash, role, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`), user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive, user.CreatedAt).Scan(&user.ID)
	if db.IsUniqueViolation(err) {
		return models.User{}, fieldError("username", "A user with that username already exists.")
	}
	if err != nil {
		return models.User{}, WrapError(err, "insert user")
	}
	return user, nil
}

// Authenticate checks credentials and stamps last_login on success.
func Authenticate(ctx context.Context, conn *sqlx.DB, username, password string) (models.User, error) {
	denied := ErrUnauthorized("No active account found with the given credentials")
	user, err := GetUserByUsername(ctx, conn, username)
	if err != nil {
		var serr ServiceError
		if errors.As(err, &serr) && serr.Status == 404 {
			return models.User{}, denied
		}
		return models.User{}, err
	}
	if !user.IsActive || !VerifyPassword(password, user.PasswordHash) {
		return models.User{}, denied
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	if err := SetLastLogin(ctx, conn, user.ID, now); err != nil {
		return models.User{}, err
	}
	user.LastLogin = &now
	return user, nil
}

func GetUser(ctx context.Context, conn *sqlx.DB, id int64) (models.User, error) {
	var user models.User
	err := conn.GetContext(ctx, &user, conn.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound("User not found")
	}
	if err != nil {
		return models.User{}, WrapError(err, "get user")
	}
	return user, nil
}

func GetUserByUsername(ctx context.Context, conn *sqlx.DB, username string) (models.User, error) {
	var user models.User
	err := conn.GetContext(ctx, &user, conn.Rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound("User not found")
	}
	if err != nil {
		return models.User{}, WrapError(err, "get user")
	}
	return user, nil
}

func SetLastLogin(ctx context.Context, conn *sqlx.DB, userID int64, at time.Time) error {
	_, err := conn.ExecContext(ctx, conn.Rebind(`UPDATE users SET last_login = ? WHERE id = ?`), at, userID)
	return WrapError(err, "set last login")
}

// SetRole changes a user's role; only reachable from the admin CLI.
func SetRole(ctx context.Context, conn *sqlx.DB, username string, role models.Role) error {
	if !role.Valid() {
		return ErrBadRequest("Invalid role")
	}
	res, err := conn.ExecContext(ctx, conn.Rebind(`UPDATE users SET role = ? WHERE username = ?`), role, username)
	if err != nil {
		return WrapError(err, "set role")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound("User not found")
	}
	return nil
}

func usernameTaken(ctx context.Context, conn *sqlx.DB, username string) (bool, error) {
	var exists bool
	err := conn.GetContext(ctx, &exists, conn.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`), username)
	return exists, WrapError(err, "check username")
}

func requiredString(errs FieldErrors, field string, value *string) string {
	if value == nil {
		errs.Add(field, "This field is required.")
		return ""
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		errs.Add(field, "This field may not be blank.")
	}
	return trimmed
}

func validateUsername(errs FieldErrors, username string) {
	if len([]rune(username)) > maxUsernameLength {
		errs.Add("username", "Ensure this field has no more than 150 characters.")
	}
	if !usernamePattern.MatchString(username) {
		errs.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

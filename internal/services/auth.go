package services

import (
	"errors"
	"strconv"
	"time"

	"wellhub-backend-go/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Claims is the payload of both token kinds; Role is only set on access tokens.
type Claims struct {
	Type     string `json:"typ"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the token.
func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type TokenService struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (t TokenService) IssuePair(user models.User) (TokenPair, error) {
	access, err := t.CreateAccessToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := t.CreateRefreshToken(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (t TokenService) CreateAccessToken(user models.User) (string, error) {
	claims := t.claims(tokenAccess, user.ID, t.AccessTTL)
	claims.Username = user.Username
	claims.Role = user.Role.String()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

func (t TokenService) CreateRefreshToken(userID int64) (string, error) {
	claims := t.claims(tokenRefresh, userID, t.RefreshTTL)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

func (t TokenService) claims(kind string, userID int64, ttl time.Duration) Claims {
	now := time.Now().UTC()
	return Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (t TokenService) ParseAccessToken(raw string) (Claims, error) {
	return t.parse(raw, tokenAccess)
}

func (t TokenService) ParseRefreshToken(raw string) (Claims, error) {
	return t.parse(raw, tokenRefresh)
}

func (t TokenService) parse(raw, kind string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, errors.New("token is not valid")
	}
	if claims.Type != kind {
		return Claims{}, errors.New("token has wrong type")
	}
	if _, err := claims.UserID(); err != nil {
		return Claims{}, errors.New("token subject is not a user id")
	}
	return claims, nil
}

package services

import (
	"testing"
	"time"

	"wellhub-backend-go/internal/models"
)

func testTokens() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "wellhub",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func TestTokenService_Pair(t *testing.T) {
	tokens := testTokens()
	pair, err := tokens.IssuePair(models.User{ID: 7, Username: "olga", Role: models.RoleOperator})
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	claims, err := tokens.ParseAccessToken(pair.Access)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if id, _ := claims.UserID(); id != 7 || claims.Role != "operator" || claims.Username != "olga" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := tokens.ParseRefreshToken(pair.Refresh); err != nil {
		t.Fatalf("ParseRefreshToken: %v", err)
	}
}

func TestTokenService_RejectsWrongKind(t *testing.T) {
	tokens := testTokens()
	pair, err := tokens.IssuePair(models.User{ID: 1, Username: "bob", Role: models.RoleViewer})
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := tokens.ParseAccessToken(pair.Refresh); err == nil {
		t.Fatalf("refresh token must not pass as access token")
	}
	if _, err := tokens.ParseRefreshToken(pair.Access); err == nil {
		t.Fatalf("access token must not pass as refresh token")
	}
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	tokens := testTokens()
	user := models.User{ID: 1, Username: "bob", Role: models.RoleViewer}

	other := tokens
	other.Secret = []byte("another-secret")
	forged, err := other.CreateAccessToken(user)
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	if _, err := tokens.ParseAccessToken(forged); err == nil {
		t.Fatalf("token signed with another secret must fail")
	}

	expired := tokens
	expired.AccessTTL = -time.Minute
	stale, err := expired.CreateAccessToken(user)
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	if _, err := tokens.ParseAccessToken(stale); err == nil {
		t.Fatalf("expired token must fail")
	}

	foreign := tokens
	foreign.Issuer = "elsewhere"
	token, err := foreign.CreateAccessToken(user)
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	if _, err := tokens.ParseAccessToken(token); err == nil {
		t.Fatalf("token from another issuer must fail")
	}
}

package httpapi

import (
	"context"
	"net/http"
	"testing"

	"wellhub-backend-go/internal/models"
	"wellhub-backend-go/internal/services"
)

func TestRegister_AlwaysViewer(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/auth/register/", "",
		`{"username":"bob","email":"bob@example.com","password":"Str0ng!Pass","password2":"Str0ng!Pass","role":"admin"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeJSON[map[string]any](t, rec)
	if body["role"] != "viewer" || body["username"] != "bob" || body["email"] != "bob@example.com" || body["id"] == nil {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["password"]; ok {
		t.Fatalf("password must not be echoed")
	}
	user, err := services.GetUserByUsername(context.Background(), h.conn, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user.Role != models.RoleViewer {
		t.Fatalf("stored role = %v", user.Role)
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/auth/register/", "",
		`{"username":"bob","password":"Str0ng!Pass","password2":"Different!Pass"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeJSON[map[string][]string](t, rec)
	if len(body["password"]) != 1 || body["password"][0] != "Passwords do not match." {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/auth/register/", "", `{"username":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeJSON[map[string]string](t, rec); body["detail"] == "" {
		t.Fatalf("expected detail, got %v", body)
	}
}

func TestLoginRefreshProfile(t *testing.T) {
	h := newHarness(t)
	if _, err := services.CreateUser(context.Background(), h.conn, "olga", "olga@example.com", testPassword, models.RoleOperator); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	rec := h.do(http.MethodPost, "/api/auth/login/", "", `{"username":"olga","password":"wrong-pass"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rec.Code)
	}
	rec = h.do(http.MethodPost, "/api/auth/login/", "", `{"username":"olga"}`)
	if body := decodeJSON[map[string][]string](t, rec); rec.Code != http.StatusBadRequest || len(body["password"]) == 0 {
		t.Fatalf("missing password: %d %v", rec.Code, body)
	}

	rec = h.do(http.MethodPost, "/api/auth/login/", "", `{"username":"olga","password":"Str0ng!Pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	pair := decodeJSON[services.TokenPair](t, rec)
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	for _, path := range []string{"/api/auth/profile/", "/api/auth/me"} {
		rec = h.do(http.MethodGet, path, pair.Access, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		profile := decodeJSON[map[string]any](t, rec)
		if profile["username"] != "olga" || profile["role"] != "operator" || profile["date_joined"] == nil || profile["last_login"] == nil {
			t.Fatalf("unexpected profile: %v", profile)
		}
	}

	if rec = h.do(http.MethodGet, "/api/auth/profile/", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous profile status = %d", rec.Code)
	}
	if rec = h.do(http.MethodGet, "/api/auth/profile/", pair.Refresh, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token used as access: status = %d", rec.Code)
	}

	rec = h.do(http.MethodPost, "/api/auth/refresh/", "", `{"refresh":"`+pair.Refresh+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d: %s", rec.Code, rec.Body.String())
	}
	access := decodeJSON[AccessResponse](t, rec).Access
	if rec = h.do(http.MethodGet, "/api/wells/", access, ""); rec.Code != http.StatusOK {
		t.Fatalf("refreshed access token rejected: %d", rec.Code)
	}
	if rec = h.do(http.MethodPost, "/api/auth/refresh/", "", `{"refresh":"`+pair.Access+`"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("access token accepted as refresh: %d", rec.Code)
	}
}

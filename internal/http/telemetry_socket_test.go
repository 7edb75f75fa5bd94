package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wellhub-backend-go/internal/models"

	"github.com/gorilla/websocket"
)

func dialTelemetry(t *testing.T, server *httptest.Server, wellID, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/wells/" + wellID + "/telemetry"
	if token != "" {
		url += "?token=" + token
	}
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestTelemetrySocket_StreamsSnapshots(t *testing.T) {
	h := newHarness(t)
	token := h.login("operator1", models.RoleOperator)
	server := httptest.NewServer(h.handler)
	defer server.Close()

	conn, _, err := dialTelemetry(t, server, "WELL-001", token)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	for i := 0; i < 2; i++ {
		var msg socketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if msg.Type != "snapshot" || msg.WellID != "WELL-001" || msg.Data == nil || msg.Data.Pressure != 45.2 {
			t.Fatalf("unexpected message %d: %+v", i, msg)
		}
	}
}

func TestTelemetrySocket_UnknownWellCloses(t *testing.T) {
	h := newHarness(t)
	token := h.login("operator1", models.RoleOperator)
	server := httptest.NewServer(h.handler)
	defer server.Close()

	conn, _, err := dialTelemetry(t, server, "WELL-404", token)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg socketMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" || msg.Detail == "" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy close, got %v", err)
	}
}

func TestTelemetrySocket_RoleGate(t *testing.T) {
	h := newHarness(t)
	viewer := h.login("viewer1", models.RoleViewer)
	server := httptest.NewServer(h.handler)
	defer server.Close()

	cases := map[string]int{"": http.StatusUnauthorized, viewer: http.StatusForbidden, "bogus": http.StatusUnauthorized}
	for token, want := range cases {
		_, resp, err := dialTelemetry(t, server, "WELL-001", token)
		if err == nil {
			t.Fatalf("token %q: dial succeeded", token)
		}
		if resp == nil || resp.StatusCode != want {
			t.Fatalf("token %q: response %v, want %d", token, resp, want)
		}
	}
}

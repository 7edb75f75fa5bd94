package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"wellhub-backend-go/internal/models"
	"wellhub-backend-go/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const socketWriteTimeout = 10 * time.Second

type socketMessage struct {
	Type   string              `json:"type"`
	WellID string              `json:"well_id"`
	Data   *telemetry.Snapshot `json:"data,omitempty"`
	Detail string              `json:"detail,omitempty"`
	SentAt time.Time           `json:"sent_at"`
}

// TelemetrySocket streams snapshots of one well until the client disconnects.
// Browsers cannot set headers on websocket requests, so the token comes in ?token=.
func (s *Server) TelemetrySocket(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if raw == "" {
		unauthorized(w, msgNoCredentials)
		return
	}
	user, err := s.userFromToken(r.Context(), raw)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	if !models.Allow(user.Role, true, models.OperatorOrAbove) {
		WriteError(w, http.StatusForbidden, msgForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	wellID := chi.URLParam(r, "wellID")
	log := s.Log.WithField("well_id", wellID).WithField("user", user.Username)
	log.Info("telemetry stream opened")
	defer log.Info("telemetry stream closed")

	ticker := time.NewTicker(s.Config.TelemetryStreamInterval)
	defer ticker.Stop()
	for {
		if !s.pushSnapshot(ctx, conn, wellID) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pushSnapshot sends one message and reports whether the stream should continue.
func (s *Server) pushSnapshot(ctx context.Context, conn *websocket.Conn, wellID string) bool {
	msg := socketMessage{Type: "snapshot", WellID: wellID}
	snapshot, err := s.Source.FetchSnapshot(ctx, wellID)
	if errors.Is(err, context.Canceled) {
		return false
	}
	fatal := errors.Is(err, telemetry.ErrWellNotFound) || errors.Is(err, telemetry.ErrInvalidWellID)
	if err != nil {
		_, detail := telemetryStatus(err)
		msg.Type = "error"
		msg.Detail = detail
	} else {
		msg.Data = &snapshot
	}
	msg.SentAt = time.Now().UTC()
	_ = conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		return false
	}
	if fatal {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg.Detail),
			time.Now().Add(socketWriteTimeout))
		return false
	}
	return true
}

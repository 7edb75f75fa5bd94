package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("generated id %q, header %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("incoming id not kept: %q", seen)
	}
}

func TestRequestLogger_RecordsStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("nope"))
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/wells/9", nil))

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Level != logrus.WarnLevel || entry.Data["status"] != http.StatusNotFound || entry.Data["bytes"] != 4 {
		t.Fatalf("unexpected entry: %v %v", entry.Level, entry.Data)
	}
	if entry.Data["reqid"] == "" {
		t.Fatalf("request id missing from log entry")
	}
}

func TestRecoverer(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handler := Recoverer(logger, "detail")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"detail":"Internal server error"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if len(hook.Entries) != 1 || hook.LastEntry().Level != logrus.ErrorLevel {
		t.Fatalf("panic should be logged once at error level")
	}
}

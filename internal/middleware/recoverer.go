package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Recoverer turns a handler panic into a 500 with body {key: "Internal server error"}.
// The main API answers with "detail", the mock API with "error".
func Recoverer(logger logrus.FieldLogger, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.WithFields(logrus.Fields{
					"reqid":  GetRequestID(r),
					"method": r.Method,
					"path":   r.URL.Path,
				}).Errorf("panic: %v\n%s", rec, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{key: "Internal server error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"wellhub-backend-go/internal/db"
	"wellhub-backend-go/internal/migrations"

	"github.com/jmoiron/sqlx"
)

var dbSeq atomic.Int64

// OpenTestDB opens a private in-memory SQLite database with every migration applied.
// The database is closed through t.Cleanup.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if _, err := migrations.Apply(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

// Ptr returns a pointer to v, for optional request fields.
func Ptr[T any](v T) *T {
	return &v
}

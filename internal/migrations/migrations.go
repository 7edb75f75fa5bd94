package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"wellhub-backend-go/internal/db"

	"github.com/jmoiron/sqlx"
)

//go:embed sql/postgres/*.sql sql/sqlite/*.sql
var files embed.FS

type migration struct {
	Name    string
	Version string
	Path    string
}

// Apply runs every embedded migration for the connection's dialect that is not yet
// recorded in schema_migrations. Returns the names of applied migrations.
func Apply(conn *sqlx.DB) ([]string, error) {
	dir, err := dialectDir(conn.DriverName())
	if err != nil {
		return nil, err
	}
	if err := ensureTable(conn); err != nil {
		return nil, err
	}
	migs, err := listMigrations(files, dir)
	if err != nil {
		return nil, err
	}
	applied, err := appliedVersions(conn)
	if err != nil {
		return nil, err
	}
	done := []string{}
	for _, mig := range migs {
		if applied[mig.Version] {
			continue
		}
		if err := applyMigration(conn, mig); err != nil {
			return done, err
		}
		done = append(done, mig.Name)
	}
	return done, nil
}

func dialectDir(driver string) (string, error) {
	switch driver {
	case db.DriverPostgres:
		return "sql/postgres", nil
	case db.DriverSQLite:
		return "sql/sqlite", nil
	}
	return "", fmt.Errorf("no migrations for driver %q", driver)
}

func ensureTable(conn *sqlx.DB) error {
	_, err := conn.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

func listMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	migs := make([]migration, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		version := parseVersion(name)
		if version == "" {
			return nil, fmt.Errorf("migration %s: name must look like V<n>__description.sql", name)
		}
		migs = append(migs, migration{
			Name:    name,
			Version: version,
			Path:    path.Join(dir, name),
		})
	}
	sort.Slice(migs, func(i, j int) bool {
		iVersion, _ := strconv.Atoi(migs[i].Version)
		jVersion, _ := strconv.Atoi(migs[j].Version)
		if iVersion != jVersion {
			return iVersion < jVersion
		}
		return migs[i].Name < migs[j].Name
	})
	return migs, nil
}

func appliedVersions(conn *sqlx.DB) (map[string]bool, error) {
	rows := []string{}
	if err := conn.Select(&rows, `SELECT version FROM schema_migrations`); err != nil {
		return nil, err
	}
	versions := make(map[string]bool, len(rows))
	for _, version := range rows {
		versions[version] = true
	}
	return versions, nil
}

func applyMigration(conn *sqlx.DB, mig migration) error {
	content, err := fs.ReadFile(files, mig.Path)
	if err != nil {
		return err
	}
	tx, err := conn.Beginx()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply %s: %w", mig.Name, err)
	}
	if _, err := tx.Exec(tx.Rebind(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`), mig.Version, mig.Name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record %s: %w", mig.Name, err)
	}
	return tx.Commit()
}

// parseVersion extracts "12" from "V12__add_index.sql".
func parseVersion(name string) string {
	if !strings.HasPrefix(name, "V") {
		return ""
	}
	parts := strings.SplitN(name[1:], "__", 2)
	if len(parts) != 2 {
		return ""
	}
	version := strings.TrimSpace(parts[0])
	if _, err := strconv.Atoi(version); err != nil {
		return ""
	}
	return version
}

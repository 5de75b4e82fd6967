package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pantryhub/pantry/internal/database"
)

// NewTestDatabase returns a migrated in-memory database that is closed when
// the test ends.
func NewTestDatabase(t *testing.T) *sql.DB {
	t.Helper()
	return openMigrated(t, ":memory:")
}

// NewFileTestDatabase is NewTestDatabase backed by a WAL file in a temporary
// directory, for tests that need more than one connection.
func NewFileTestDatabase(t *testing.T) *sql.DB {
	t.Helper()
	return openMigrated(t, filepath.Join(t.TempDir(), "data", "pantry.db"))
}

func openMigrated(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

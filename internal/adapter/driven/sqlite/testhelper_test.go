package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB opens a migrated in-memory database shared by the writer and
// reader pools. The name comes from t.Name() so parallel tests stay isolated.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Escaped so the name cannot be read as DSN query parameters.
	name := url.PathEscape(t.Name())
	dsn := fmt.Sprintf("file:%s?%s", name, memoryPragmas)

	db, err := openDSN(context.Background(), dsn, name)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns a private in-memory database with the schema applied.
// It is closed when the test finishes.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("applying test database schema: %v", err)
	}
	return db
}

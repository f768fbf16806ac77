// Package testutil provides shared helpers for integration tests.
// The record store is an embedded SQLite file, so unlike a client/server
// database there is nothing to opt into: every test gets its own private,
// fully migrated database under t.TempDir() and never needs cleanup beyond
// the automatic t.Cleanup close.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/dmaia/fleetdesk/backend/internal/store"
	"github.com/dmaia/fleetdesk/backend/migrations"
)

// NewDB opens a fresh SQLite database in a per-test temp directory and
// applies all migrations. The handle is closed when the test (and all its
// subtests) finish.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "fleetdesk-test.db"))
	if err != nil {
		t.Fatalf("testutil.NewDB: open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		t.Fatalf("testutil.NewDB: create goose provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		t.Fatalf("testutil.NewDB: run migrations: %v", err)
	}

	return db
}

// NewStore returns a record store backed by a fresh, migrated database.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(NewDB(t))
}

// Package store implements the record store: generic key-scoped collections
// of JSON documents persisted in a single local SQLite file.
//
// Every entity in the system lives in one collection ("requests", "users",
// "vehicles", ...) as a JSON document wrapped in a small envelope of
// store-maintained fields (id, created_at, updated_at, version). Typed access
// belongs to the repo package; no business logic lives here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go sqlite driver, no cgo

	"github.com/dmaia/fleetdesk/backend/internal/domain"
)

// Record is one stored document plus its envelope.
// Data holds the entity JSON exactly as the repo layer marshalled it.
type Record struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// db is the minimal interface satisfied by *sql.DB and *sql.Tx.
// Accepting this interface lets integration tests pass a transaction that is
// rolled back after each test.
type db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides collection-scoped access to the records table.
type Store struct {
	db db
}

// New constructs a Store over the provided database handle.
func New(db db) *Store {
	return &Store{db: db}
}

// Open opens (creating if necessary) the SQLite database at path and applies
// the pragmas a single-user local console needs: WAL so a second window does
// not block the first, and a busy timeout instead of immediate lock errors.
func Open(path string) (*sql.DB, error) {
	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA foreign_keys = ON`,
	} {
		if _, err := handle.Exec(pragma); err != nil {
			handle.Close()
			return nil, fmt.Errorf("store.Open: %s: %w", pragma, err)
		}
	}
	return handle, nil
}

// timeFormat is how timestamps are stored: RFC 3339 with a fixed-width
// fractional second, so the strings sort lexicographically in chronological
// order. RFC3339Nano would not — it strips trailing zeros, which breaks the
// ORDER BY the newest-first listing relies on.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// List returns every record in the collection, newest first, the store's
// natural ordering, matching how the requests screen presents data.
func (s *Store) List(ctx context.Context, collection string) ([]Record, error) {
	const q = `
		SELECT id, data, created_at, updated_at, version
		FROM records
		WHERE collection = ?
		ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, fmt.Errorf("store.List(%s): %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store.List(%s): scan: %w", collection, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.List(%s): rows: %w", collection, err)
	}

	return records, nil
}

// Get retrieves a single record by id.
// Returns domain.ErrNotFound when the collection has no such record.
func (s *Store) Get(ctx context.Context, collection, id string) (Record, error) {
	const q = `
		SELECT id, data, created_at, updated_at, version
		FROM records
		WHERE collection = ? AND id = ?`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, q, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("store.Get(%s): %w", collection, domain.ErrNotFound)
		}
		return Record{}, fmt.Errorf("store.Get(%s): %w", collection, err)
	}
	return rec, nil
}

// Create inserts a new record with version 1 and both timestamps set to now.
// The entity value is marshalled to JSON; marshal failures are hard errors.
func (s *Store) Create(ctx context.Context, collection, id string, entity any) (Record, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return Record{}, fmt.Errorf("store.Create(%s): marshal: %w", collection, err)
	}

	now := time.Now().UTC().Format(timeFormat)
	const q = `
		INSERT INTO records (collection, id, data, created_at, updated_at, version)
		VALUES (?, ?, ?, ?, ?, 1)
		RETURNING id, data, created_at, updated_at, version`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, q, collection, id, string(data), now, now))
	if err != nil {
		return Record{}, fmt.Errorf("store.Create(%s): %w", collection, err)
	}
	return rec, nil
}

// Update overwrites a record's data, bumps updated_at and increments version.
//
// When expectedVersion is positive the write only succeeds if the stored
// version still matches — the optimistic compare-and-swap that closes the
// lost-update hazard between two concurrent windows. Pass zero to skip the
// check (last write wins, the legacy console's behavior, kept for the
// generic CRUD escape hatch).
//
// Returns domain.ErrNotFound when the record does not exist and
// domain.ErrVersionConflict when the version check fails.
func (s *Store) Update(ctx context.Context, collection, id string, entity any, expectedVersion int64) (Record, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return Record{}, fmt.Errorf("store.Update(%s): marshal: %w", collection, err)
	}

	now := time.Now().UTC().Format(timeFormat)
	const q = `
		UPDATE records
		SET data = ?, updated_at = ?, version = version + 1
		WHERE collection = ? AND id = ? AND (? <= 0 OR version = ?)
		RETURNING id, data, created_at, updated_at, version`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, q,
		string(data), now, collection, id, expectedVersion, expectedVersion))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("store.Update(%s): %w", collection, err)
	}

	// No row updated: distinguish a missing record from a stale version.
	if _, err := s.Get(ctx, collection, id); err != nil {
		return Record{}, err
	}
	return Record{}, fmt.Errorf("store.Update(%s): %w", collection, domain.ErrVersionConflict)
}

// Delete removes a record by id.
// Returns domain.ErrNotFound when there was nothing to delete.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM records WHERE collection = ? AND id = ?`

	res, err := s.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return fmt.Errorf("store.Delete(%s): %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store.Delete(%s): %w", collection, err)
	}
	if n == 0 {
		return fmt.Errorf("store.Delete(%s): %w", collection, domain.ErrNotFound)
	}
	return nil
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	const q = `SELECT COUNT(*) FROM records WHERE collection = ?`

	var n int
	if err := s.db.QueryRowContext(ctx, q, collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("store.Count(%s): %w", collection, err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, allowing scanRecord to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord maps one database row into a Record, parsing the stored
// timestamp strings. A timestamp that fails to parse means a corrupted store
// and surfaces as a hard error.
func scanRecord(s scanner) (Record, error) {
	var (
		rec                  Record
		data                 string
		createdAt, updatedAt string
	)
	if err := s.Scan(&rec.ID, &data, &createdAt, &updatedAt, &rec.Version); err != nil {
		return Record{}, err
	}

	var err error
	if rec.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return Record{}, fmt.Errorf("parse updated_at: %w", err)
	}
	rec.Data = json.RawMessage(data)
	return rec, nil
}

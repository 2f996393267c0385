// Package cache keeps the last server replies in a local SQLite database so
// the CLI can show them without a connection.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrMiss is returned when nothing has been stored under a key.
var ErrMiss = errors.New("not in cache")

const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		kind       TEXT NOT NULL,
		key        TEXT NOT NULL,
		body       TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (kind, key)
	)`

// Store is a keyed collection of JSON snapshots.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores v as JSON under (kind, key), replacing any earlier snapshot.
func (s *Store) Put(ctx context.Context, kind, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", kind, key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (kind, key, body, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		kind, key, string(body), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("storing %s/%s: %w", kind, key, err)
	}
	return nil
}

// Get decodes the snapshot under (kind, key) into v and returns when it was
// stored.
func (s *Store) Get(ctx context.Context, kind, key string, v any) (time.Time, error) {
	var body, fetched string
	err := s.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM snapshots WHERE kind = ? AND key = ?`, kind, key,
	).Scan(&body, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%s/%s: %w", kind, key, ErrMiss)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("loading %s/%s: %w", kind, key, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return time.Time{}, fmt.Errorf("decoding %s/%s: %w", kind, key, err)
	}
	at, err := time.Parse(time.RFC3339Nano, fetched)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing fetched_at %q: %w", fetched, err)
	}
	return at, nil
}

// Keys lists the keys stored for kind, in ascending order.
func (s *Store) Keys(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM snapshots WHERE kind = ? ORDER BY key ASC`, kind)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Clear deletes every snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

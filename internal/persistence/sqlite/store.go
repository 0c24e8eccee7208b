// Package sqlite is an encounter store backed by a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/suderio/skirmish/internal/engine"
	"github.com/suderio/skirmish/internal/persistence"
)

// Store keeps encounters as compressed JSON payloads keyed by id.
type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS encounters (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			system TEXT NOT NULL,
			seed TEXT NOT NULL,
			combatants INTEGER NOT NULL,
			entries INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_encounters_created ON encounters(created_at, id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts or replaces the encounter.
func (s *Store) Save(ctx context.Context, enc *engine.Encounter) error {
	payload, err := persistence.Encode(enc)
	if err != nil {
		return fmt.Errorf("encode encounter %s: %w", enc.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO encounters
		(id, title, system, seed, combatants, entries, created_at, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			system = excluded.system,
			seed = excluded.seed,
			combatants = excluded.combatants,
			entries = excluded.entries,
			updated_at = excluded.updated_at,
			payload = excluded.payload`,
		enc.ID, enc.Title, string(enc.System), enc.Seed,
		len(enc.Combatants), len(enc.Log),
		enc.CreatedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
		payload,
	)
	if err != nil {
		return fmt.Errorf("save encounter %s: %w", enc.ID, err)
	}
	return nil
}

// Load reads and validates a stored encounter.
func (s *Store) Load(ctx context.Context, id string) (*engine.Encounter, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM encounters WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("encounter %s: %w", id, persistence.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	enc, err := persistence.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("load encounter %s: %w", id, err)
	}
	return enc, nil
}

// List summarises every stored encounter, oldest first, without decoding
// payloads.
func (s *Store) List(ctx context.Context) ([]persistence.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, system, combatants, entries, created_at
		FROM encounters ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []persistence.Summary{}
	for rows.Next() {
		var (
			sum     persistence.Summary
			system  string
			created string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &system, &sum.Combatants, &sum.Entries, &created); err != nil {
			return nil, err
		}
		sum.System = engine.System(system)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			sum.CreatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a stored encounter.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM encounters WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("encounter %s: %w", id, persistence.ErrNotFound)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

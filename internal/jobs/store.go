// Package jobs persists execution history for the HTTP service: one record
// per executed circuit, with the normalized counts stored as a msgpack blob.
package jobs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New("job record not found")

// Record is one persisted execution.
type Record struct {
	ID         string         `json:"id"`
	Backend    string         `json:"backend"`
	NumQubits  int            `json:"num_qubits"`
	Shots      int            `json:"shots"`
	Counts     quantum.Counts `json:"counts"`
	CreatedAt  time.Time      `json:"created_at"`
	DurationMS int64          `json:"duration_ms"`
}

// Store is a sqlite-backed execution history repository.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS executions (
	id          TEXT PRIMARY KEY,
	backend     TEXT NOT NULL,
	num_qubits  INTEGER NOT NULL,
	shots       INTEGER NOT NULL,
	counts      BLOB NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_executions_created_at ON executions(created_at);
`

// Open opens (creating if needed) the execution history database. Use
// ":memory:" for tests.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening jobs database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing jobs schema: %w", err)
	}
	return &Store{
		db:  db,
		log: log.With().Str("component", "jobs_store").Logger(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a record, assigning an ID when none is set.
func (s *Store) Save(rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	blob, err := msgpack.Marshal(rec.Counts)
	if err != nil {
		return fmt.Errorf("encoding counts: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO executions (id, backend, num_qubits, shots, counts, created_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Backend, rec.NumQubits, rec.Shots, blob, rec.CreatedAt, rec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("saving execution record: %w", err)
	}

	s.log.Debug().Str("id", rec.ID).Str("backend", rec.Backend).Msg("Recorded execution")
	return nil
}

// Get returns the record with the given ID, or ErrNotFound.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, backend, num_qubits, shots, counts, created_at, duration_ms
		 FROM executions WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns the most recent records, newest first.
func (s *Store) List(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, backend, num_qubits, shots, counts, created_at, duration_ms
		 FROM executions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteOlderThan removes records created before now-age and returns how
// many were deleted.
func (s *Store) DeleteOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	res, err := s.db.Exec(`DELETE FROM executions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting expired records: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var blob []byte
	if err := row.Scan(&rec.ID, &rec.Backend, &rec.NumQubits, &rec.Shots, &blob, &rec.CreatedAt, &rec.DurationMS); err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(blob, &rec.Counts); err != nil {
		return nil, fmt.Errorf("decoding counts: %w", err)
	}
	return &rec, nil
}

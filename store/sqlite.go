// Package store keeps finished game results in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"

	"termzero/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	id         TEXT PRIMARY KEY,
	variant    TEXT NOT NULL,
	board_size INTEGER NOT NULL,
	player_one TEXT NOT NULL,
	player_two TEXT NOT NULL,
	outcome    INTEGER NOT NULL,
	score_one  REAL NOT NULL,
	score_two  REAL NOT NULL,
	moves      INTEGER NOT NULL,
	record     TEXT NOT NULL DEFAULT '',
	played_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_played_at ON results (played_at);
`

type SQLiteStore struct {
	db *sql.DB
}

// New opens the database at path, creating its directory if needed.
// Call Init before use.
func New(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("can't create database dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &SQLiteStore{db: conn}, nil
}

// Init creates the schema if it does not exist.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult inserts r, assigning an ID and timestamp when they are unset.
func (s *SQLiteStore) SaveResult(ctx context.Context, r *Result) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}

	q := `
	INSERT INTO results (id, variant, board_size, player_one, player_two, outcome, score_one, score_two, moves, record, played_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.db.ExecContext(ctx, q,
		r.ID.String(), r.Variant.String(), r.BoardSize, r.PlayerOne, r.PlayerTwo,
		int(r.Outcome), r.Score[0], r.Score[1], r.Moves, r.Record, r.PlayedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// GetResult loads one result. It returns *ErrNotFound for an unknown id.
func (s *SQLiteStore) GetResult(ctx context.Context, id uuid.UUID) (*Result, error) {
	q := `
	SELECT id, variant, board_size, player_one, player_two, outcome, score_one, score_two, moves, record, played_at
	FROM results WHERE id = ?;
	`
	r, err := scanResult(s.db.QueryRowContext(ctx, q, id.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}
	return r, nil
}

// ListResults returns up to limit results, newest first. A limit of zero or
// less returns all of them.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = -1
	}
	q := `
	SELECT id, variant, board_size, player_one, player_two, outcome, score_one, score_two, moves, record, played_at
	FROM results ORDER BY played_at DESC LIMIT ?;
	`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*Result, error) {
	var (
		r        Result
		id       string
		variant  string
		outcome  int
		playedAt int64
	)
	err := row.Scan(&id, &variant, &r.BoardSize, &r.PlayerOne, &r.PlayerTwo,
		&outcome, &r.Score[0], &r.Score[1], &r.Moves, &r.Record, &playedAt)
	if err != nil {
		return nil, err
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("bad result id %q: %w", id, err)
	}
	if r.Variant, err = types.ParseVariant(variant); err != nil {
		return nil, err
	}
	r.Outcome = types.Outcome(outcome)
	r.PlayedAt = time.Unix(0, playedAt)
	return &r, nil
}

// Package store persists completed debates to a local SQLite database so
// past runs can be listed and re-rendered.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/RevCBH/parley/internal/debate"
)

// ErrNotFound is returned when a debate ID does not exist.
var ErrNotFound = errors.New("debate not found")

const schema = `
CREATE TABLE IF NOT EXISTS debates (
	id              TEXT PRIMARY KEY,
	label           TEXT NOT NULL,
	pre_analysis    TEXT NOT NULL,
	conclusion      TEXT NOT NULL,
	converged_round INTEGER NOT NULL DEFAULT 0,
	started_at      TIMESTAMP NOT NULL,
	completed_at    TIMESTAMP NOT NULL,
	usage_json      TEXT NOT NULL,
	summaries_json  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	debate_id  TEXT NOT NULL REFERENCES debates(id) ON DELETE CASCADE,
	seq        INTEGER NOT NULL,
	author     TEXT NOT NULL,
	round      INTEGER NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (debate_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_debates_started ON debates(started_at);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, applying pragmas and the
// schema. The parent directory is created if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL survives concurrent readers; foreign keys enforce turn cascade.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a debate result and returns its assigned ID.
func (s *Store) Save(ctx context.Context, res *debate.Result) (string, error) {
	usageJSON, err := json.Marshal(res.Usage)
	if err != nil {
		return "", fmt.Errorf("encode usage: %w", err)
	}
	summariesJSON, err := json.Marshal(res.Summaries)
	if err != nil {
		return "", fmt.Errorf("encode summaries: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := ulid.Make().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO debates (id, label, pre_analysis, conclusion, converged_round,
			started_at, completed_at, usage_json, summaries_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Label, res.PreAnalysis, res.Conclusion, res.ConvergedAtRound,
		res.StartedAt.UTC(), res.CompletedAt.UTC(), string(usageJSON), string(summariesJSON))
	if err != nil {
		return "", fmt.Errorf("insert debate: %w", err)
	}

	for seq, turn := range res.Turns {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO turns (debate_id, seq, author, round, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, seq, turn.Author, turn.Round, turn.Content, turn.Timestamp.UTC())
		if err != nil {
			return "", fmt.Errorf("insert turn %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Summary is one row of a debate listing.
type Summary struct {
	ID             string
	Label          string
	ConvergedRound int
	TurnCount      int
	StartedAt      time.Time
	CompletedAt    time.Time
}

// List returns saved debates, most recent first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.label, d.converged_round, d.started_at, d.completed_at,
			(SELECT COUNT(*) FROM turns t WHERE t.debate_id = d.id)
		FROM debates d
		ORDER BY d.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list debates: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Label, &sum.ConvergedRound,
			&sum.StartedAt, &sum.CompletedAt, &sum.TurnCount); err != nil {
			return nil, fmt.Errorf("scan debate: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get loads a full debate result by ID.
func (s *Store) Get(ctx context.Context, id string) (*debate.Result, error) {
	var (
		res           debate.Result
		usageJSON     string
		summariesJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT label, pre_analysis, conclusion, converged_round,
			started_at, completed_at, usage_json, summaries_json
		FROM debates WHERE id = ?`, id).
		Scan(&res.Label, &res.PreAnalysis, &res.Conclusion, &res.ConvergedAtRound,
			&res.StartedAt, &res.CompletedAt, &usageJSON, &summariesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load debate: %w", err)
	}

	if err := json.Unmarshal([]byte(usageJSON), &res.Usage); err != nil {
		return nil, fmt.Errorf("decode usage: %w", err)
	}
	if err := json.Unmarshal([]byte(summariesJSON), &res.Summaries); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT author, round, content, created_at
		FROM turns WHERE debate_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var turn debate.Turn
		if err := rows.Scan(&turn.Author, &turn.Round, &turn.Content, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		res.Turns = append(res.Turns, turn)
	}
	return &res, rows.Err()
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package leaderboard provides SQLite-based persistence for play scores.
// It uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package leaderboard

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/tiltworks/pinball/go/pinball"
)

// Store manages the SQLite database holding the play history and the best
// score per submitter. It implements pinball.Leaderboard.
type Store struct {
	db *sql.DB
}

// Entry is a single recorded play.
type Entry struct {
	ID        int64
	Submitter pinball.Identity
	Score     uint64
	PlayedAt  time.Time
}

// Open creates or opens a SQLite database at the given path. It creates
// the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("leaderboard: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("leaderboard: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("leaderboard: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			submitter TEXT NOT NULL,
			score INTEGER NOT NULL,
			played_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_plays_submitter ON plays(submitter);
		CREATE INDEX IF NOT EXISTS idx_plays_top ON plays(score DESC);

		CREATE TABLE IF NOT EXISTS best_scores (
			submitter TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			played_at DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record implements pinball.Leaderboard: it appends the play to the
// history and raises the submitter's best score if it was exceeded.
func (s *Store) Record(submitter pinball.Identity, timestamp time.Time, score uint64) error {
	key := submitter.String()
	when := timestamp.UTC().Format(time.RFC3339Nano)

	_, err := s.db.Exec(
		"INSERT INTO plays (submitter, score, played_at) VALUES (?, ?, ?)",
		key, int64(score), when,
	)
	if err != nil {
		return fmt.Errorf("leaderboard: cannot record play: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO best_scores (submitter, score, played_at) VALUES (?, ?, ?)
		 ON CONFLICT(submitter) DO UPDATE SET score = excluded.score, played_at = excluded.played_at
		 WHERE excluded.score > best_scores.score`,
		key, int64(score), when,
	)
	if err != nil {
		return fmt.Errorf("leaderboard: cannot update best score: %w", err)
	}
	return nil
}

// Best returns the submitter's best score, or zero if nothing is recorded.
func (s *Store) Best(submitter pinball.Identity) (uint64, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT score FROM best_scores WHERE submitter = ?",
		submitter.String(),
	).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("leaderboard: cannot query best score: %w", err)
	}
	return uint64(score.Int64), nil
}

// History retrieves the submitter's recorded plays, newest first.
func (s *Store) History(submitter pinball.Identity, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, submitter, score, played_at
		 FROM plays
		 WHERE submitter = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		submitter.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot query history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// TopScores retrieves the best plays across all submitters.
func (s *Store) TopScores(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, submitter, score, played_at
		 FROM plays
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: cannot query top scores: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var submitter string
		var score int64
		var playedAt string
		if err := rows.Scan(&e.ID, &submitter, &score, &playedAt); err != nil {
			return nil, fmt.Errorf("leaderboard: cannot scan row: %w", err)
		}
		if err := e.Submitter.UnmarshalText([]byte(submitter)); err != nil {
			return nil, fmt.Errorf("leaderboard: corrupted submitter %q: %w", submitter, err)
		}
		e.Score = uint64(score)
		if parsed, err := time.Parse(time.RFC3339Nano, playedAt); err == nil {
			e.PlayedAt = parsed
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: row iteration error: %w", err)
	}
	return entries, nil
}

// Ensure Store implements the machine's leaderboard interface.
var _ pinball.Leaderboard = (*Store)(nil)

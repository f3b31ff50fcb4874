// Package db implements SQLite storage for champion matchup data.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQL driver registration.
)

// SQLiteStore is a SQLite database for champion matchup data.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Each connection to :memory: is a separate database, and only one process
	// writes at a time anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		db.Close() //nolint:errcheck // Already returning an error.
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for direct queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Init creates the database schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Schema returns the documented database schema.
func Schema() string {
	return schema
}

const schema = `
-- Champion roster, refreshed when the game version changes.
--
-- Example: id='kaisa', name='Kai''Sa'
CREATE TABLE IF NOT EXISTS champions (
    id TEXT PRIMARY KEY,            -- Normalized id: lower case letters and digits only
    name TEXT NOT NULL              -- Display name
);

-- A champion's record in games against one opposing champion.
--
-- Example: champion='ashe', opponent='zed', wins=210, games=300 means Ashe won
-- 210 of 300 games where Zed was on the enemy team.
CREATE TABLE IF NOT EXISTS matchups (
    champion TEXT NOT NULL,
    opponent TEXT NOT NULL,
    wins INTEGER NOT NULL DEFAULT 0,
    games INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (champion, opponent),
    CHECK (champion != opponent),
    CHECK (wins >= 0 AND wins <= games)
);

-- A champion's record against all opponents combined. One game is counted per
-- opponent faced, so games equals the sum of the champion's matchups rows.
CREATE TABLE IF NOT EXISTS global_winrates (
    champion TEXT PRIMARY KEY,
    wins INTEGER NOT NULL DEFAULT 0,
    games INTEGER NOT NULL DEFAULT 0,
    CHECK (wins >= 0 AND wins <= games)
);

-- Matches already folded into matchups and global_winrates.
--
-- Example: match_id='NA1_4950123456'
CREATE TABLE IF NOT EXISTS processed_matches (
    match_id TEXT PRIMARY KEY,
    processed_at TEXT NOT NULL      -- RFC3339 timestamp
);

-- Positions each champion is played in.
--
-- Example: champion='lulu', role='support'
CREATE TABLE IF NOT EXISTS champion_roles (
    champion TEXT NOT NULL,
    role TEXT NOT NULL,             -- 'top', 'jungle', 'mid', 'adc', 'support', or free form
    PRIMARY KEY (champion, role)
);

-- Key/value sync state.
--
-- Example: key='game_version', value='14.23.1'
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matchups_opponent ON matchups(opponent);
CREATE INDEX IF NOT EXISTS idx_champion_roles_role ON champion_roles(role);
`

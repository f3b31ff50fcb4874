package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/negz/counterpick/internal/matchup"
)

// LoadMatchups reads every matchup and global record into a new store.
func (s *SQLiteStore) LoadMatchups(ctx context.Context) (*matchup.Store, error) {
	var d matchup.Delta
	var err error

	if d.Matchups, err = s.matchupEntries(ctx); err != nil {
		return nil, err
	}
	if d.Global, err = s.globalEntries(ctx); err != nil {
		return nil, err
	}

	m := matchup.NewStore()
	m.Apply(d)
	return m, nil
}

func (s *SQLiteStore) matchupEntries(ctx context.Context) ([]matchup.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT champion, opponent, wins, games FROM matchups ORDER BY champion, opponent")
	if err != nil {
		return nil, fmt.Errorf("query matchups: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var out []matchup.Entry
	for rows.Next() {
		var e matchup.Entry
		if err := rows.Scan(&e.Champion, &e.Opponent, &e.Record.Wins, &e.Record.Games); err != nil {
			return nil, fmt.Errorf("scan matchup: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matchups: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) globalEntries(ctx context.Context) ([]matchup.Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT champion, wins, games FROM global_winrates ORDER BY champion")
	if err != nil {
		return nil, fmt.Errorf("query global win rates: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var out []matchup.Entry
	for rows.Next() {
		var e matchup.Entry
		if err := rows.Scan(&e.Champion, &e.Record.Wins, &e.Record.Games); err != nil {
			return nil, fmt.Errorf("scan global win rate: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate global win rates: %w", err)
	}
	return out, nil
}

// SaveMatchups replaces every matchup and global record with the store's.
func (s *SQLiteStore) SaveMatchups(ctx context.Context, m *matchup.Store) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	if _, err := tx.ExecContext(ctx, "DELETE FROM matchups"); err != nil {
		return fmt.Errorf("delete matchups: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM global_winrates"); err != nil {
		return fmt.Errorf("delete global win rates: %w", err)
	}
	if err := upsertEntries(ctx, tx, m.Entries()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit matchups: %w", err)
	}
	return nil
}

// CommitMatch writes the records an ingested match touched and marks the
// match processed, atomically. A match is never marked processed without
// its records, or vice versa.
func (s *SQLiteStore) CommitMatch(ctx context.Context, matchID string, d matchup.Delta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	if err := upsertEntries(ctx, tx, d); err != nil {
		return err
	}
	if err := markProcessed(ctx, tx, matchID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match %s: %w", matchID, err)
	}
	return nil
}

// MarkProcessed records a match as processed without touching any records.
// It is used for matches that can never be ingested.
func (s *SQLiteStore) MarkProcessed(ctx context.Context, matchID string) error {
	return markProcessed(ctx, s.db, matchID)
}

// ProcessedMatches returns the id of every processed match.
func (s *SQLiteStore) ProcessedMatches(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT match_id FROM processed_matches ORDER BY match_id")
	if err != nil {
		return nil, fmt.Errorf("query processed matches: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan processed match: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processed matches: %w", err)
	}
	return ids, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func markProcessed(ctx context.Context, e execer, matchID string) error {
	if _, err := e.ExecContext(ctx, `
		INSERT INTO processed_matches (match_id, processed_at) VALUES (?, ?)
		ON CONFLICT(match_id) DO NOTHING
	`, matchID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("mark match %s processed: %w", matchID, err)
	}
	return nil
}

func upsertEntries(ctx context.Context, tx *sql.Tx, d matchup.Delta) error {
	mstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matchups (champion, opponent, wins, games) VALUES (?, ?, ?, ?)
		ON CONFLICT(champion, opponent) DO UPDATE SET
			wins = excluded.wins,
			games = excluded.games
	`)
	if err != nil {
		return fmt.Errorf("prepare matchup upsert: %w", err)
	}
	defer mstmt.Close() //nolint:errcheck // Closed with the transaction.

	for _, e := range d.Matchups {
		if _, err := mstmt.ExecContext(ctx, e.Champion, e.Opponent, e.Record.Wins, e.Record.Games); err != nil {
			return fmt.Errorf("upsert matchup %s vs %s: %w", e.Champion, e.Opponent, err)
		}
	}

	gstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO global_winrates (champion, wins, games) VALUES (?, ?, ?)
		ON CONFLICT(champion) DO UPDATE SET
			wins = excluded.wins,
			games = excluded.games
	`)
	if err != nil {
		return fmt.Errorf("prepare global win rate upsert: %w", err)
	}
	defer gstmt.Close() //nolint:errcheck // Closed with the transaction.

	for _, e := range d.Global {
		if _, err := gstmt.ExecContext(ctx, e.Champion, e.Record.Wins, e.Record.Games); err != nil {
			return fmt.Errorf("upsert global win rate %s: %w", e.Champion, err)
		}
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Champion is a champion in the roster.
type Champion struct {
	ID   string
	Name string
}

// UpsertChampions inserts or renames champions.
func (s *SQLiteStore) UpsertChampions(ctx context.Context, cs []Champion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	for _, c := range cs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO champions (id, name) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name
		`, c.ID, c.Name); err != nil {
			return fmt.Errorf("upsert champion %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit champions: %w", err)
	}
	return nil
}

// ListChampions returns the roster, ordered by id.
func (s *SQLiteStore) ListChampions(ctx context.Context) ([]Champion, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM champions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query champions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	var result []Champion
	for rows.Next() {
		var c Champion
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan champion: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate champions: %w", err)
	}
	return result, nil
}

// SetRoles replaces a champion's roles. An empty list clears them.
func (s *SQLiteStore) SetRoles(ctx context.Context, champion string, roles []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	if _, err := tx.ExecContext(ctx, "DELETE FROM champion_roles WHERE champion = ?", champion); err != nil {
		return fmt.Errorf("delete roles for %s: %w", champion, err)
	}
	for _, r := range roles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO champion_roles (champion, role) VALUES (?, ?)
			ON CONFLICT(champion, role) DO NOTHING
		`, champion, r); err != nil {
			return fmt.Errorf("insert role %s for %s: %w", r, champion, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roles for %s: %w", champion, err)
	}
	return nil
}

// ListRoles returns every champion's roles. Champions with no roles are
// absent.
func (s *SQLiteStore) ListRoles(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT champion, role FROM champion_roles ORDER BY champion, role")
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only query.

	result := make(map[string][]string)
	for rows.Next() {
		var champion, role string
		if err := rows.Scan(&champion, &role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		result[champion] = append(result[champion], role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return result, nil
}

// GetMetadata returns the value for a key, or the empty string if the key is
// not set.
func (s *SQLiteStore) GetMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata %s: %w", key, err)
	}
	return value, nil
}

// SetMetadata sets the value for a key.
func (s *SQLiteStore) SetMetadata(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value); err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

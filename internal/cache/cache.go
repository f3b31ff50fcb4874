// Package cache manages the local matchup database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/negz/counterpick/internal/db"
	"github.com/negz/counterpick/internal/roles"
)

// Dir returns the counterpick cache directory.
//
// It uses os.UserCacheDir, which respects XDG_CACHE_HOME on Linux, uses
// ~/Library/Caches on macOS, and %LocalAppData% on Windows. If the user cache
// directory can't be determined it falls back to the system temp directory.
func Dir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "counterpick")
	}
	return filepath.Join(base, "counterpick")
}

// DB provides access to the matchup database.
// It lazily opens the database on first use.
type DB struct {
	Path     string `env:"COUNTERPICK_DB" name:"db-path" help:"Path to the matchup database. Defaults to counterpick.db in the user cache directory." type:"path"`
	RolesURL string `env:"COUNTERPICK_ROLES_URL" help:"URL of a git repo with a champion_roles.json file at its root."`

	log   *slog.Logger
	store *db.SQLiteStore
}

// SetLogger configures the logger for role syncs.
func (d *DB) SetLogger(log *slog.Logger) {
	d.log = log
}

// Store returns the database store, opening and initializing it if needed.
func (d *DB) Store(ctx context.Context) (*db.SQLiteStore, error) {
	if d.store != nil {
		return d.store, nil
	}

	path := d.Path
	if path == "" {
		path = filepath.Join(Dir(), "counterpick.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	store, err := db.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close() //nolint:errcheck // Already returning error.
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	d.store = store
	return d.store, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// SyncRoles pulls the champion role repository into the cache directory and
// loads its role file into the database. It returns the number of champions
// loaded.
func (d *DB) SyncRoles(ctx context.Context) (int, error) {
	if d.RolesURL == "" {
		return 0, errors.New("no champion role repo URL configured")
	}

	store, err := d.Store(ctx)
	if err != nil {
		return 0, err
	}

	log := d.log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	repo := roles.NewRepo(filepath.Join(Dir(), "champion-roles"),
		roles.WithRepoURL(d.RolesURL),
		roles.WithLogger(log),
	)
	return repo.Sync(ctx, store)
}

package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/negz/counterpick/internal/db"
	"github.com/negz/counterpick/internal/matchup"
	"github.com/negz/counterpick/internal/riot"
)

// VersionKey is the metadata key holding the game version the roster was
// last read for.
const VersionKey = "game_version"

// A StaticSource publishes the game version and champion roster.
type StaticSource interface {
	LatestVersion(ctx context.Context) (string, error)
	Champions(ctx context.Context, version string) ([]riot.Champion, error)
}

// A RosterStore persists the roster and matchup store.
type RosterStore interface {
	GetMetadata(ctx context.Context, key string) (string, error)
	SetMetadata(ctx context.Context, key, value string) error
	UpsertChampions(ctx context.Context, cs []db.Champion) error
	ListChampions(ctx context.Context) ([]db.Champion, error)
	SaveMatchups(ctx context.Context, m *matchup.Store) error
}

// A Roster keeps the champion roster current with the game version.
type Roster struct {
	src   StaticSource
	store RosterStore
	log   *slog.Logger
}

// NewRoster returns a Roster.
func NewRoster(src StaticSource, s RosterStore, log *slog.Logger) *Roster {
	return &Roster{src: src, store: s, log: log}
}

// Refresh reads the roster from the static source if the game version has
// changed since it was last read, or force is true. It then reconciles the
// model against the stored roster, saving the model if that changed it. It
// returns the current game version.
func (r *Roster) Refresh(ctx context.Context, model *matchup.Store, force bool) (string, error) {
	version, err := r.src.LatestVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("get game version: %w", err)
	}
	stored, err := r.store.GetMetadata(ctx, VersionKey)
	if err != nil {
		return "", fmt.Errorf("get stored game version: %w", err)
	}

	if force || version != stored {
		r.log.Info("Refreshing champion roster", "version", version, "previous", stored)
		champions, err := r.src.Champions(ctx, version)
		if err != nil {
			return "", fmt.Errorf("get champions: %w", err)
		}
		rows := make([]db.Champion, 0, len(champions))
		for _, c := range champions {
			rows = append(rows, db.Champion{ID: c.ID, Name: c.Name})
		}
		if err := r.store.UpsertChampions(ctx, rows); err != nil {
			return "", fmt.Errorf("store champions: %w", err)
		}
		if err := r.store.SetMetadata(ctx, VersionKey, version); err != nil {
			return "", fmt.Errorf("store game version: %w", err)
		}
	}

	if err := Reconcile(ctx, r.store, model); err != nil {
		return "", err
	}
	return version, nil
}

// Reconcile reconciles the model against the stored roster, saving it if
// that changed it.
func Reconcile(ctx context.Context, s RosterStore, model *matchup.Store) error {
	champions, err := s.ListChampions(ctx)
	if err != nil {
		return fmt.Errorf("list champions: %w", err)
	}
	ids := make([]string, 0, len(champions))
	for _, c := range champions {
		ids = append(ids, c.ID)
	}
	if !model.ReconcileRoster(ids) {
		return nil
	}
	if err := s.SaveMatchups(ctx, model); err != nil {
		return fmt.Errorf("save reconciled matchups: %w", err)
	}
	return nil
}

// Package roster implements the roster command.
package roster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/riot"
	"github.com/negz/counterpick/internal/sync"
)

// Command refreshes the champion roster.
type Command struct {
	StaticURL string `default:"${static_url}" help:"Static data host for game versions and champions." hidden:"" name:"static-url"`
	Force     bool   `help:"Refresh even if the game version is unchanged." short:"f"`
}

// Run executes the roster command.
func (c *Command) Run(d *cache.DB, log *slog.Logger) error {
	ctx := context.Background()

	store, err := d.Store(ctx)
	if err != nil {
		return err
	}

	model, err := store.LoadMatchups(ctx)
	if err != nil {
		return fmt.Errorf("load matchups: %w", err)
	}

	src := riot.NewStaticClient(riot.WithStaticURL(c.StaticURL), riot.WithLogger(log))
	version, err := sync.NewRoster(src, store, log).Refresh(ctx, model, c.Force)
	if err != nil {
		return err
	}

	fmt.Printf("Game version %s, %d champions.\n", version, len(model.Champions()))
	return nil
}

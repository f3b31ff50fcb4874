// Package champions implements the champions command.
package champions

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/output"
)

// Command lists champions with their IDs and roles.
type Command struct {
	Search string `arg:"" help:"Search term (matches ID or name)." optional:""`
}

// Run executes the champions command.
func (c *Command) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.Store(ctx)
	if err != nil {
		return err
	}

	st := cache.NewInMemoryStore(store)
	if err := st.Refresh(ctx); err != nil {
		return err
	}

	cs, err := st.ListChampions(ctx, c.Search)
	if err != nil {
		return fmt.Errorf("list champions: %w", err)
	}

	snap := st.Snapshot()
	rows := make([][]string, len(cs))
	for i, ch := range cs {
		g, _ := snap.Matchups.GlobalRecord(ch.ID)
		rows[i] = []string{ch.ID, ch.Name, strings.Join(snap.Roles.RolesFor(ch.ID), ", "), fmt.Sprint(g.Games)}
	}

	return output.Table(os.Stdout, []string{"ID", "Name", "Roles", "Games"}, rows)
}

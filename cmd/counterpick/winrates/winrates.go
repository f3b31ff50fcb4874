// Package winrates implements the winrates command.
package winrates

import (
	"context"
	"fmt"
	"os"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/output"
	"github.com/negz/counterpick/internal/strategy/recommend"
)

// Command shows champions ranked by global win rate.
type Command struct {
	Role     string `default:"any" help:"Only show champions that play this role."       short:"r"`
	MinGames int    `default:"300" help:"Fewest games a champion needs to be shown."`
	Limit    int    `default:"0"   help:"Number of champions to show. Zero shows all."   short:"n"`
}

// Run executes the winrates command.
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
	snap := st.Snapshot()
	cs, err := st.ListChampions(ctx, "")
	if err != nil {
		return err
	}

	bs := recommend.GlobalWinRates(snap.Matchups,
		recommend.WithRole(c.Role),
		recommend.WithRoles(snap.Roles),
		recommend.WithMinGames(c.MinGames),
		recommend.WithLimit(c.Limit),
	)
	if len(bs) == 0 {
		fmt.Println("No champion has enough games.")
		return nil
	}

	return output.Table(os.Stdout, output.BaselineHeaders(), output.BaselineRows(bs, output.Names(cs)))
}

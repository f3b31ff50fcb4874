// Package worst implements the worst command.
package worst

import (
	"context"

	cmdrecommend "github.com/negz/counterpick/cmd/counterpick/recommend"
	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/output"
	"github.com/negz/counterpick/internal/strategy/recommend"
)

// Command shows the champions with the lowest win rate against an enemy team.
type Command struct {
	Enemies  []string `arg:""        help:"Enemy champions, up to five (e.g. zed ahri leesin)."`
	Role     string   `default:"any" help:"Only show champions that play this role."      short:"r"`
	MinGames int      `default:"300" help:"Fewest combined games against the team a pick needs."`
	Limit    int      `default:"10"  help:"Number of picks to show. Zero shows every pick." short:"n"`
}

// Run executes the worst command.
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

	r := recommend.Worst(snap.Matchups, c.Enemies,
		recommend.WithRole(c.Role),
		recommend.WithRoles(snap.Roles),
		recommend.WithMinGames(c.MinGames),
		recommend.WithLimit(c.Limit),
	)

	return cmdrecommend.Print(r, output.Names(cs), false)
}

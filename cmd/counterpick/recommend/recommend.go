// Package recommend implements the recommend command.
package recommend

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/output"
	"github.com/negz/counterpick/internal/roles"
	"github.com/negz/counterpick/internal/strategy/recommend"
)

// Command recommends champions to counter an enemy team.
type Command struct {
	Enemies  []string `arg:""        help:"Enemy champions, up to five (e.g. zed ahri leesin)."`
	Role     string   `default:"any" help:"Only recommend champions that play this role." short:"r"`
	MinGames int      `default:"300" help:"Fewest combined games against the team a pick needs."`
	Limit    int      `default:"10"  help:"Number of picks to show. Zero shows every pick." short:"n"`
}

// Run executes the recommend command.
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

	r := recommend.Recommend(snap.Matchups, c.Enemies,
		recommend.WithRole(c.Role),
		recommend.WithRoles(snap.Roles),
		recommend.WithMinGames(c.MinGames),
		recommend.WithLimit(c.Limit),
	)

	return Print(r, output.Names(cs), true)
}

// Print writes a recommend or worst result as a table, noting ignored
// opponents. It's shared with the worst command.
func Print(r *recommend.Result, names map[string]string, showDelta bool) error {
	if len(r.Unknown) > 0 {
		fmt.Fprintf(os.Stderr, "Ignoring unknown champions: %s\n", strings.Join(r.Unknown, ", ")) //nolint:errcheck // Best effort.
	}
	if len(r.Opponents) == 0 {
		fmt.Println("No known enemy champions.")
		return nil
	}

	vs := make([]string, len(r.Opponents))
	for i, o := range r.Opponents {
		vs[i] = output.ChampionName(names, o)
	}
	role := ""
	if r.Role != roles.Any {
		role = " playing " + r.Role
	}
	fmt.Printf("Champions%s against %s:\n", role, strings.Join(vs, ", "))

	if len(r.Picks) == 0 {
		fmt.Println("No champion has enough games against this team.")
		return nil
	}
	return output.Table(os.Stdout, output.PickHeaders(showDelta), output.PickRows(r.Picks, names, showDelta))
}

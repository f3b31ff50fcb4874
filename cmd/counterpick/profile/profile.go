// Package profile implements the profile command.
package profile

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/output"
	"github.com/negz/counterpick/internal/strategy/profile"
)

// Command shows one champion's record against every opponent.
type Command struct {
	Champion string `arg:""        help:"Champion (e.g. ashe)."`
	MinGames int    `default:"100" help:"Fewest games a matchup needs to count as strongest or weakest."`
	Limit    int    `default:"20"  help:"Number of opponents to show. Zero shows all." short:"n"`
}

// Run executes the profile command.
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
	names := output.Names(cs)

	r, err := profile.Analyze(snap.Matchups, c.Champion, profile.WithMinGames(c.MinGames), profile.WithRoles(snap.Roles))
	if err != nil {
		return fmt.Errorf("%s: %w", c.Champion, err)
	}

	fmt.Printf("%s", output.ChampionName(names, r.Champion))
	if len(r.Roles) > 0 {
		fmt.Printf(" (%s)", strings.Join(r.Roles, ", "))
	}
	if r.HasGlobal {
		fmt.Printf(": %s global win rate over %d games", output.FormatWinRate(r.Global.WinRate()), r.Global.Games)
	}
	fmt.Println()
	if len(r.Analysis.Strongest) > 0 {
		fmt.Printf("Strongest against: %s\n", joinNames(names, r.Analysis.Strongest))
	}
	if len(r.Analysis.Weakest) > 0 {
		fmt.Printf("Weakest against: %s\n", joinNames(names, r.Analysis.Weakest))
	}

	opps := r.Opponents
	if c.Limit > 0 && len(opps) > c.Limit {
		opps = opps[:c.Limit]
	}
	rows := make([][]string, len(opps))
	for i, o := range opps {
		rows[i] = []string{
			output.ChampionName(names, o.Opponent),
			strconv.Itoa(o.Games),
			output.FormatWinRate(o.WinRate),
			output.FormatDelta(o.Delta),
		}
	}
	return output.Table(os.Stdout, []string{"Opponent", "Games", "Win Rate", "Delta"}, rows)
}

func joinNames(names map[string]string, ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = output.ChampionName(names, id)
	}
	return strings.Join(out, ", ")
}

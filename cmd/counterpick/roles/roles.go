// Package roles implements the roles command group.
package roles

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/matchup"
	"github.com/negz/counterpick/internal/output"
	"github.com/negz/counterpick/internal/roles"
)

// Command groups champion role subcommands.
type Command struct {
	List    ListCommand    `cmd:"" default:"withargs" help:"List champion roles."`
	Set     SetCommand     `cmd:""                    help:"Set a champion's roles."`
	Missing MissingCommand `cmd:""                    help:"List champions with no roles."`
	Sync    SyncCommand    `cmd:""                    help:"Load champion roles from the role git repo."`
}

// ListCommand lists champion roles.
type ListCommand struct {
	Role string `arg:"" help:"Only list champions that play this role." optional:""`
}

// Run executes the list command.
func (c *ListCommand) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.Store(ctx)
	if err != nil {
		return err
	}

	all, err := store.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	f := roles.New(all)

	var rows [][]string
	for _, ch := range f.Champions() {
		if c.Role != "" && !f.Has(ch, c.Role) {
			continue
		}
		rows = append(rows, []string{ch, strings.Join(f.RolesFor(ch), ", ")})
	}
	return output.Table(os.Stdout, []string{"Champion", "Roles"}, rows)
}

// SetCommand replaces a champion's roles.
type SetCommand struct {
	Champion string   `arg:"" help:"Champion (e.g. leesin)."`
	Roles    []string `arg:"" help:"Roles (e.g. jungle top). Aliases like jg, sup, and bot are accepted."`
}

// Run executes the set command.
func (c *SetCommand) Run(d *cache.DB) error {
	ctx := context.Background()
	store, err := d.Store(ctx)
	if err != nil {
		return err
	}

	id := matchup.ChampionID(c.Champion)
	f := roles.New(map[string][]string{id: c.Roles})
	if err := store.SetRoles(ctx, id, f.RolesFor(id)); err != nil {
		return fmt.Errorf("set roles: %w", err)
	}
	fmt.Printf("%s: %s\n", id, strings.Join(f.RolesFor(id), ", "))
	return nil
}

// MissingCommand lists known champions with no roles.
type MissingCommand struct{}

// Run executes the missing command.
func (c *MissingCommand) Run(d *cache.DB) error {
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

	missing := snap.Roles.Missing(snap.Matchups.Champions())
	if len(missing) == 0 {
		fmt.Println("Every champion has roles.")
		return nil
	}
	for _, ch := range missing {
		fmt.Println(ch)
	}
	return nil
}

// SyncCommand loads champion roles from the role git repo.
type SyncCommand struct{}

// Run executes the sync command.
func (c *SyncCommand) Run(d *cache.DB) error {
	n, err := d.SyncRoles(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Loaded roles for %d champions.\n", n)
	return nil
}

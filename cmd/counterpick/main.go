// Package main implements the counterpick CLI, which collects ranked match
// results and recommends champions to counter an enemy team.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/negz/counterpick/cmd/counterpick/champions"
	"github.com/negz/counterpick/cmd/counterpick/db"
	"github.com/negz/counterpick/cmd/counterpick/ingest"
	"github.com/negz/counterpick/cmd/counterpick/profile"
	"github.com/negz/counterpick/cmd/counterpick/recommend"
	"github.com/negz/counterpick/cmd/counterpick/roles"
	"github.com/negz/counterpick/cmd/counterpick/roster"
	"github.com/negz/counterpick/cmd/counterpick/serve"
	"github.com/negz/counterpick/cmd/counterpick/sync"
	"github.com/negz/counterpick/cmd/counterpick/winrates"
	"github.com/negz/counterpick/cmd/counterpick/worst"
	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/riot"
	"github.com/negz/counterpick/internal/version"
)

type cli struct {
	Cache cache.DB `embed:""`

	Debug   bool             `help:"Log debug output."`
	Version kong.VersionFlag `help:"Print version and exit."`

	Sync      sync.Command      `cmd:"" help:"Collect ranked matches from the Riot API."`
	Import    ingest.Command    `cmd:"" help:"Ingest matches from JSON lines files."`
	Roster    roster.Command    `cmd:"" help:"Refresh the champion roster for the current game version."`
	Recommend recommend.Command `cmd:"" help:"Recommend champions to counter an enemy team."`
	Worst     worst.Command     `cmd:"" help:"Show the champions that do worst against an enemy team."`
	Winrates  winrates.Command  `cmd:"" help:"Show global champion win rates."`
	Profile   profile.Command   `cmd:"" help:"Show one champion's record against every opponent."`
	Champions champions.Command `cmd:"" help:"List champions and their roles."`
	Roles     roles.Command     `cmd:"" help:"Manage champion roles."`
	DB        db.Command        `cmd:"" help:"Database utilities."                                     name:"db"`
	Serve     serve.Command     `cmd:"" help:"Serve recommendations over HTTP."`
}

func main() {
	envErr := loadEnv()

	c := &cli{}
	ctx := kong.Parse(c,
		kong.Name("counterpick"),
		kong.Description("League of Legends counter pick recommendations."),
		kong.UsageOnError(),
		kong.Vars{
			"version":      version.Version,
			"platform_url": riot.DefaultPlatformURL,
			"region_url":   riot.DefaultRegionURL,
			"static_url":   riot.DefaultStaticURL,
		},
	)

	level := new(slog.LevelVar)
	if c.Debug {
		level.Set(slog.LevelDebug)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	c.Cache.SetLogger(log)
	if envErr != nil {
		log.Warn("Cannot load environment file", "error", envErr)
	}

	err := ctx.Run(&c.Cache, log)
	c.Cache.Close() //nolint:errcheck,gosec // Nothing to do with error on program exit.
	ctx.FatalIfErrorf(err)
}

// loadEnv loads settings from .env files into the environment. A missing
// file is not an error.
func loadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load environment file: %w", err)
	}
	return nil
}

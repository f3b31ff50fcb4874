// Package sync implements the sync command.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/riot"
	isync "github.com/negz/counterpick/internal/sync"
)

// Command walks the ranked ladder and ingests each player's recent matches.
type Command struct {
	APIKey      string `env:"RIOT_API_KEY"             help:"Riot API key."                                         name:"api-key"      required:""`
	PlatformURL string `default:"${platform_url}"      help:"Platform API host for league and summoner requests."   name:"platform-url"`
	RegionURL   string `default:"${region_url}"        help:"Regional API host for match requests."                 name:"region-url"`
	StaticURL   string `default:"${static_url}"        help:"Static data host for game versions and champions."     hidden:""          name:"static-url"`
	RedisURL    string `env:"REDIS_URL"                help:"Redis URL used to cache summoner PUUIDs. Optional."    name:"redis-url"`

	Tiers            []string      `help:"Tiers to walk, highest first. Defaults to every tier from Challenger to Silver." placeholder:"TIER"`
	Pages            int           `default:"10"                                                                          help:"League pages to read per tier and division."`
	MatchesPerPlayer int           `default:"100"                                                                         help:"Recent matches to read per player."`
	RateLimit        int           `default:"100"                                                                         help:"Requests allowed per rate window. Zero disables rate limiting."`
	RateWindow       time.Duration `default:"2m"                                                                          help:"Rate limit window."`
	Burst            int           `default:"20"                                                                          help:"Requests allowed in a burst."`
	ForceRoster      bool          `help:"Refresh the champion roster even if the game version is unchanged."`
}

// Run executes the sync command.
func (c *Command) Run(d *cache.DB, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store, err := d.Store(ctx)
	if err != nil {
		return err
	}

	opts := []riot.Option{
		riot.WithPlatformURL(c.PlatformURL),
		riot.WithRegionURL(c.RegionURL),
		riot.WithStaticURL(c.StaticURL),
		riot.WithRateLimit(c.RateLimit, c.RateWindow, c.Burst),
		riot.WithLogger(log),
	}
	if c.RedisURL != "" {
		rc, err := riot.NewRedisCache(ctx, c.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close() //nolint:errcheck // Nothing to do with error on program exit.
		opts = append(opts, riot.WithPUUIDCache(rc))
	}

	model, seen, err := isync.Load(ctx, store)
	if err != nil {
		return err
	}

	version, err := isync.NewRoster(riot.NewStaticClient(opts...), store, log).Refresh(ctx, model, c.ForceRoster)
	if err != nil {
		return fmt.Errorf("refresh roster: %w", err)
	}
	log.Info("Champion roster is current", "version", version, "champions", len(model.Champions()))

	i := isync.NewIngester(store, model, seen, isync.WithLogger(log))

	lopts := []riot.LadderOption{
		riot.WithPages(c.Pages),
		riot.WithMatchesPerPlayer(c.MatchesPerPlayer),
		riot.WithSkip(i.Seen),
	}
	if len(c.Tiers) > 0 {
		lopts = append(lopts, riot.WithTiers(c.Tiers...))
	}
	ladder := riot.NewLadder(riot.NewClient(c.APIKey, opts...), lopts...)

	stats, err := i.Run(ctx, ladder)
	fmt.Printf("Ingested %d matches (%d duplicates, %d malformed).\n", stats.Ingested, stats.Duplicates, stats.Malformed)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("sync matches: %w", err)
	}
	return nil
}

package riot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/negz/counterpick/internal/matchup"
)

// Ladder defaults.
var (
	// ApexTiers are read as a single league each.
	ApexTiers = []string{"CHALLENGER", "GRANDMASTER", "MASTER"}

	// DivisionTiers are read a page at a time, per division.
	DivisionTiers = []string{"DIAMOND", "EMERALD", "PLATINUM", "GOLD", "SILVER"}

	// Divisions within each division tier.
	Divisions = []string{"I", "II", "III", "IV"}
)

const (
	// DefaultPages is how many pages of each division are read.
	DefaultPages = 10

	// DefaultMatchesPerPlayer is how many of a player's recent matches are read.
	DefaultMatchesPerPlayer = 100
)

// LadderOption configures a Ladder.
type LadderOption func(*Ladder)

// WithTiers sets the tiers to walk. Apex tiers are recognized by name. Tier
// names are case insensitive.
func WithTiers(tiers ...string) LadderOption {
	return func(l *Ladder) {
		l.tiers = make([]string, 0, len(tiers))
		for _, t := range tiers {
			l.tiers = append(l.tiers, strings.ToUpper(strings.TrimSpace(t)))
		}
	}
}

// WithPages sets how many pages of each division are read.
func WithPages(n int) LadderOption {
	return func(l *Ladder) {
		l.pages = n
	}
}

// WithMatchesPerPlayer sets how many of a player's recent matches are read.
func WithMatchesPerPlayer(n int) LadderOption {
	return func(l *Ladder) {
		l.matchesPerPlayer = n
	}
}

// WithSkip sets a predicate for match ids that shouldn't be fetched, typically
// because they were already ingested.
func WithSkip(fn func(id string) bool) LadderOption {
	return func(l *Ladder) {
		l.skip = fn
	}
}

// A Ladder walks the ranked ladder from the top down, yielding the recent
// matches of each player it finds.
type Ladder struct {
	client           *Client
	tiers            []string
	pages            int
	matchesPerPlayer int
	skip             func(id string) bool
}

// NewLadder returns a ladder walker.
func NewLadder(c *Client, opts ...LadderOption) *Ladder {
	l := &Ladder{
		client:           c,
		tiers:            append(append([]string{}, ApexTiers...), DivisionTiers...),
		pages:            DefaultPages,
		matchesPerPlayer: DefaultMatchesPerPlayer,
		skip:             func(string) bool { return false },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Walk calls visit for every match it finds. Matches are yielded at least
// once; the same match is usually found through several of its players.
//
// Failures to read one player or match are logged and skipped. Walk stops at
// the first error from visit, an authorization failure, or cancellation.
func (l *Ladder) Walk(ctx context.Context, visit func(ctx context.Context, id string, m matchup.Match) error) error {
	for _, tier := range l.tiers {
		if isApex(tier) {
			entries, err := l.client.ApexLeague(ctx, tier)
			if err != nil {
				if fatal(ctx, err) {
					return err
				}
				l.client.log.Warn("Cannot read league", "tier", tier, "error", err)
				continue
			}
			l.client.log.Info("Walking league", "tier", tier, "players", len(entries))
			if err := l.players(ctx, entries, visit); err != nil {
				return err
			}
			continue
		}

		for _, division := range Divisions {
			for page := 1; page <= l.pages; page++ {
				entries, err := l.client.LeagueEntries(ctx, tier, division, page)
				if err != nil {
					if fatal(ctx, err) {
						return err
					}
					l.client.log.Warn("Cannot read league page", "tier", tier, "division", division, "page", page, "error", err)
					continue
				}
				if len(entries) == 0 {
					break
				}
				l.client.log.Info("Walking league page", "tier", tier, "division", division, "page", page, "players", len(entries))
				if err := l.players(ctx, entries, visit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (l *Ladder) players(ctx context.Context, entries []LeagueEntry, visit func(ctx context.Context, id string, m matchup.Match) error) error {
	for _, e := range entries {
		puuid, err := l.client.PUUID(ctx, e)
		if err != nil {
			if fatal(ctx, err) {
				return err
			}
			l.client.log.Warn("Cannot resolve player", "summoner", e.SummonerID, "error", err)
			continue
		}

		ids, err := l.client.MatchIDs(ctx, puuid, 0, l.matchesPerPlayer)
		if err != nil {
			if fatal(ctx, err) {
				return err
			}
			l.client.log.Warn("Cannot list player matches", "error", err)
			continue
		}

		for _, id := range ids {
			if l.skip(id) {
				continue
			}
			mr, err := l.client.Match(ctx, id)
			if err != nil {
				if fatal(ctx, err) {
					return err
				}
				l.client.log.Warn("Cannot read match", "match", id, "error", err)
				continue
			}
			if err := visit(ctx, id, mr.ToMatch()); err != nil {
				return fmt.Errorf("visit match %s: %w", id, err)
			}
		}
	}
	return nil
}

func isApex(tier string) bool {
	for _, t := range ApexTiers {
		if strings.EqualFold(t, tier) {
			return true
		}
	}
	return false
}

// fatal returns true for errors that would fail every further request.
func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, ErrUnauthorized)
}

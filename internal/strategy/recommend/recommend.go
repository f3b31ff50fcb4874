// Package recommend ranks counter picks against an enemy composition.
package recommend

import (
	"slices"
	"sort"

	"github.com/negz/counterpick/internal/matchup"
	"github.com/negz/counterpick/internal/roles"
)

const (
	// DefaultMinGames is the fewest combined games a champion must have
	// against a composition to be ranked. The cutoff is inclusive.
	DefaultMinGames = 300

	// DefaultLimit is the number of picks returned.
	DefaultLimit = 10

	// MaxOpponents is the size of an enemy team. Further opponents are ignored.
	MaxOpponents = 5
)

// Matchups is the read-only view of the matchup store a recommendation needs.
type Matchups interface {
	Champions() []string
	Has(champion string) bool
	Matchup(champion, opponent string) matchup.Record
	GlobalRecord(champion string) (matchup.Record, bool)
	GlobalWinRates() map[string]float64
}

// Roles reports whether a champion plays a role.
type Roles interface {
	Has(champion, role string) bool
}

// A Pick is one ranked champion.
type Pick struct {
	Champion      string
	Games         int     // Combined games against the composition.
	Wins          int     // Combined wins against the composition.
	WinRate       float64 // Combined win rate against the composition.
	GlobalWinRate float64 // Zero if HasGlobal is false.
	HasGlobal     bool
	Score         float64 // WinRate less GlobalWinRate, or WinRate if HasGlobal is false.
}

// Result is the output of a Recommend or Worst query.
type Result struct {
	Opponents []string // Normalized opponents the picks were ranked against.
	Unknown   []string // Normalized opponents absent from the store, ignored.
	Role      string
	Picks     []Pick
}

// Option configures a query.
type Option func(*Options)

// Options holds optional parameters for a query.
type Options struct {
	role     string
	roles    Roles
	minGames int
	limit    int
}

// WithRole restricts picks to champions that play the role. Any, or an empty
// role, applies no restriction.
func WithRole(role string) Option {
	return func(o *Options) {
		o.role = roles.NormalizeRole(role)
	}
}

// WithRoles sets the source of champion roles used by WithRole.
func WithRoles(r Roles) Option {
	return func(o *Options) {
		o.roles = r
	}
}

// WithMinGames overrides DefaultMinGames.
func WithMinGames(n int) Option {
	return func(o *Options) {
		o.minGames = n
	}
}

// WithLimit overrides DefaultLimit. A limit of zero or less returns every
// eligible pick.
func WithLimit(n int) Option {
	return func(o *Options) {
		o.limit = n
	}
}

func options(opts []Option) Options {
	o := Options{role: roles.Any, minGames: DefaultMinGames, limit: DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Recommend ranks champions by how much better they do against the opponents
// than they do on average. A champion's score is its combined win rate
// against every opponent less its global win rate.
//
// Champions on the enemy team are never recommended. Champions with fewer
// than the minimum combined games are excluded rather than ranked. An empty
// composition, or a role nobody plays, yields no picks.
func Recommend(m Matchups, opponents []string, opts ...Option) *Result {
	o := options(opts)
	r := composition(m, opponents)
	r.Role = o.role

	picks := candidates(m, r.Opponents, o)
	for i := range picks {
		p := &picks[i]
		if g, ok := m.GlobalRecord(p.Champion); ok {
			p.HasGlobal = true
			p.GlobalWinRate = g.WinRate()
			p.Score = p.WinRate - p.GlobalWinRate
			continue
		}
		p.Score = p.WinRate
	}

	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Score > picks[j].Score })
	r.Picks = truncate(picks, o.limit)
	return r
}

// Worst ranks champions by their raw combined win rate against the opponents,
// lowest first. It applies no normalization.
func Worst(m Matchups, opponents []string, opts ...Option) *Result {
	o := options(opts)
	r := composition(m, opponents)
	r.Role = o.role

	picks := candidates(m, r.Opponents, o)
	for i := range picks {
		picks[i].Score = picks[i].WinRate
	}

	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Score < picks[j].Score })
	r.Picks = truncate(picks, o.limit)
	return r
}

// A Baseline is a champion's global record.
type Baseline struct {
	Champion string
	Games    int
	Wins     int
	WinRate  float64
}

// GlobalWinRates ranks champions by global win rate, highest first, breaking
// ties by champion. Champions with fewer than the minimum games are excluded.
// A minimum of zero includes champions that have never played, at a win rate
// of zero.
func GlobalWinRates(m Matchups, opts ...Option) []Baseline {
	o := options(opts)
	out := make([]Baseline, 0)
	for c, rate := range m.GlobalWinRates() {
		g, _ := m.GlobalRecord(c)
		if g.Games < o.minGames || !eligible(c, o) {
			continue
		}
		out = append(out, Baseline{Champion: c, Games: g.Games, Wins: g.Wins, WinRate: rate})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		return out[i].Champion < out[j].Champion
	})
	return truncate(out, o.limit)
}

// composition normalizes the opponents, dropping blanks, duplicates, and
// anything past a full team. Opponents absent from the store are reported
// as unknown.
func composition(m Matchups, opponents []string) *Result {
	r := &Result{Opponents: make([]string, 0, MaxOpponents)}
	seen := make(map[string]bool, len(opponents))
	for _, raw := range opponents {
		if len(r.Opponents)+len(r.Unknown) >= MaxOpponents {
			break
		}
		e := matchup.ChampionID(raw)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		if !m.Has(e) {
			r.Unknown = append(r.Unknown, e)
			continue
		}
		r.Opponents = append(r.Opponents, e)
	}
	return r
}

// candidates returns every eligible champion with its combined record against
// the opponents, in champion order.
func candidates(m Matchups, opponents []string, o Options) []Pick {
	picks := make([]Pick, 0)
	if len(opponents) == 0 {
		return picks
	}
	for _, c := range m.Champions() {
		if slices.Contains(opponents, c) {
			continue
		}
		combined := matchup.Record{}
		for _, e := range opponents {
			combined.Add(m.Matchup(c, e))
		}
		if combined.Games < o.minGames {
			continue
		}
		if !eligible(c, o) {
			continue
		}
		picks = append(picks, Pick{
			Champion: c,
			Games:    combined.Games,
			Wins:     combined.Wins,
			WinRate:  combined.WinRate(),
		})
	}
	return picks
}

func eligible(champion string, o Options) bool {
	if o.role == roles.Any {
		return true
	}
	if o.roles == nil {
		return false
	}
	return o.roles.Has(champion, o.role)
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

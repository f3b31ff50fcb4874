// Package profile summarizes one champion's matchups.
package profile

import (
	"cmp"
	"errors"
	"slices"

	"github.com/negz/counterpick/internal/matchup"
)

// DefaultMinGames is the fewest games a matchup needs to count as one of a
// champion's strongest or weakest.
const DefaultMinGames = 100

// ErrUnknownChampion indicates the champion has no matchup records.
var ErrUnknownChampion = errors.New("unknown champion")

// Matchups is the read-only view of the matchup store a profile needs.
type Matchups interface {
	Champions() []string
	Has(champion string) bool
	Matchup(champion, opponent string) matchup.Record
	GlobalRecord(champion string) (matchup.Record, bool)
}

// Roles lists a champion's roles.
type Roles interface {
	RolesFor(champion string) []string
}

// OpponentStats is a champion's record against one opponent.
type OpponentStats struct {
	Opponent string
	Games    int
	Wins     int
	WinRate  float64
	Delta    float64 // WinRate less the champion's global win rate.
}

// Analysis summarizes a champion's strongest and weakest matchups.
type Analysis struct {
	Strongest []string // Opponents, up to 3.
	Weakest   []string // Opponents, up to 3.
}

// Result is the output of an Analyze query.
type Result struct {
	Champion  string
	Roles     []string
	Global    matchup.Record
	HasGlobal bool
	Opponents []OpponentStats // Opponents faced at least once, most games first.
	Analysis  Analysis
}

// Option configures an Analyze query.
type Option func(*Options)

// Options holds optional parameters for an Analyze query.
type Options struct {
	minGames int
	roles    Roles
}

// WithMinGames overrides DefaultMinGames.
func WithMinGames(n int) Option {
	return func(o *Options) {
		o.minGames = n
	}
}

// WithRoles sets the source of the champion's roles.
func WithRoles(r Roles) Option {
	return func(o *Options) {
		o.roles = r
	}
}

// Analyze returns a champion's record against every opponent it has faced.
func Analyze(m Matchups, champion string, opts ...Option) (*Result, error) {
	o := Options{minGames: DefaultMinGames}
	for _, opt := range opts {
		opt(&o)
	}

	id := matchup.ChampionID(champion)
	if !m.Has(id) {
		return nil, ErrUnknownChampion
	}

	r := &Result{Champion: id, Opponents: make([]OpponentStats, 0)}
	r.Global, r.HasGlobal = m.GlobalRecord(id)
	if o.roles != nil {
		r.Roles = o.roles.RolesFor(id)
	}

	for _, opp := range m.Champions() {
		if opp == id {
			continue
		}
		rec := m.Matchup(id, opp)
		if rec.Games == 0 {
			continue
		}
		r.Opponents = append(r.Opponents, OpponentStats{
			Opponent: opp,
			Games:    rec.Games,
			Wins:     rec.Wins,
			WinRate:  rec.WinRate(),
			Delta:    rec.WinRate() - r.Global.WinRate(),
		})
	}

	slices.SortStableFunc(r.Opponents, func(a, b OpponentStats) int {
		return cmp.Compare(b.Games, a.Games)
	})
	r.Analysis = analyze(r.Opponents, o.minGames)
	return r, nil
}

func analyze(stats []OpponentStats, minGames int) Analysis {
	sorted := make([]OpponentStats, 0, len(stats))
	for _, s := range stats {
		if s.Games >= minGames {
			sorted = append(sorted, s)
		}
	}

	slices.SortStableFunc(sorted, func(a, b OpponentStats) int {
		if c := cmp.Compare(b.WinRate, a.WinRate); c != 0 {
			return c
		}
		return cmp.Compare(a.Opponent, b.Opponent)
	})

	var a Analysis
	for i := range min(3, len(sorted)) {
		a.Strongest = append(a.Strongest, sorted[i].Opponent)
	}
	if len(sorted) > 3 {
		for i := len(sorted) - 1; i >= max(3, len(sorted)-3); i-- {
			a.Weakest = append(a.Weakest, sorted[i].Opponent)
		}
	}
	return a
}

// Package roles maps champions to the positions they are played in.
package roles

import (
	"maps"
	"slices"
	"strings"

	"github.com/negz/counterpick/internal/matchup"
)

// Any matches every champion, including those with no known roles.
const Any = "any"

// Well known role tags. Other tags are allowed.
const (
	Top     = "top"
	Jungle  = "jungle"
	Mid     = "mid"
	ADC     = "adc"
	Support = "support"
)

var aliases = map[string]string{
	"sup":     Support,
	"supp":    Support,
	"utility": Support,
	"middle":  Mid,
	"bot":     ADC,
	"bottom":  ADC,
	"jg":      Jungle,
	"jng":     Jungle,
}

// NormalizeRole returns the canonical form of a role tag: lower case letters
// only, with common aliases resolved. An empty role normalizes to Any.
func NormalizeRole(r string) string {
	r = strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		default:
			return -1
		}
	}, r)
	if r == "" {
		return Any
	}
	if a, ok := aliases[r]; ok {
		return a
	}
	return r
}

// ParseRoles splits a comma separated list of role tags, normalizing each.
// Blank and duplicate tags are dropped.
func ParseRoles(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if strings.TrimSpace(r) == "" {
			continue
		}
		n := NormalizeRole(r)
		if n == Any || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// A Filter maps champion ids to role tags. The zero value is not usable; use
// New.
type Filter struct {
	roles map[string][]string
}

// New returns a Filter from a map of champion to role tags. Champion names
// and tags are normalized.
func New(in map[string][]string) *Filter {
	f := &Filter{roles: make(map[string][]string, len(in))}
	for c, rs := range in {
		f.Set(c, rs...)
	}
	return f
}

// Set replaces the champion's roles.
func (f *Filter) Set(champion string, roles ...string) {
	id := matchup.ChampionID(champion)
	if id == "" {
		return
	}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		n := NormalizeRole(r)
		if n == Any || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	slices.Sort(out)
	f.roles[id] = out
}

// RolesFor returns the champion's role tags, sorted. Unknown champions have
// no roles.
func (f *Filter) RolesFor(champion string) []string {
	return slices.Clone(f.roles[champion])
}

// Has returns true if the champion plays the role. Every champion plays Any.
func (f *Filter) Has(champion, role string) bool {
	role = NormalizeRole(role)
	if role == Any {
		return true
	}
	return slices.Contains(f.roles[champion], role)
}

// All returns a copy of every champion's role tags.
func (f *Filter) All() map[string][]string {
	out := make(map[string][]string, len(f.roles))
	for c, rs := range f.roles {
		out[c] = slices.Clone(rs)
	}
	return out
}

// Missing returns the champions that have no role tags, sorted.
func (f *Filter) Missing(champions []string) []string {
	var out []string
	for _, c := range champions {
		if len(f.roles[c]) == 0 {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// Champions returns every champion with an entry, sorted.
func (f *Filter) Champions() []string {
	return slices.Sorted(maps.Keys(f.roles))
}

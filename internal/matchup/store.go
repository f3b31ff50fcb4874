package matchup

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// legacyAllKey is a catch-all opponent key left behind by older data files.
// It is debris, not data, and is dropped whenever the roster is reconciled.
const legacyAllKey = "all"

// ErrMalformedMatch indicates a match record is missing the participants or
// winning team needed to ingest it.
var ErrMalformedMatch = errors.New("malformed match")

// ChampionID normalizes a champion name or identifier into the key used
// throughout the store: lower case, with everything but ASCII letters and
// digits removed. "Kai'Sa" and "kaisa" both become "kaisa".
func ChampionID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, s)
}

// A Participant is one champion in a match, and the team it played for.
type Participant struct {
	Champion string
	Team     int
}

// A Match is a decoded match result.
type Match struct {
	ID           string
	Participants []Participant
	WinningTeam  int
}

// An Entry is the current value of one record in the store. Opponent is empty
// for global records.
type Entry struct {
	Champion string
	Opponent string
	Record   Record
}

// A Delta lists the records an ingestion touched, with their values after the
// ingestion. It lets callers persist a single match without rewriting the
// whole store.
type Delta struct {
	Matchups []Entry
	Global   []Entry
}

// Store holds per-matchup and global records for every champion.
//
// PerOpponent[c][o] is champion c's record in games where o was on the
// opposing team. Global[c] is c's record against all opponents combined. A
// champion's global record counts one game per opponent faced, so once
// reconciled Global[c].Games equals the sum of PerOpponent[c][*].Games.
type Store struct {
	PerOpponent map[string]map[string]*Record
	Global      map[string]*Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		PerOpponent: make(map[string]map[string]*Record),
		Global:      make(map[string]*Record),
	}
}

// Ingest folds a match into the store. Every participant gains one game
// against each participant on the opposing team, won if its team won. The
// participant's global record gains the same game once per opponent faced.
//
// Ingest does not deduplicate. Callers must ensure a match is ingested at most
// once. A malformed match returns an error wrapping ErrMalformedMatch and
// leaves the store unchanged.
func (s *Store) Ingest(m Match) (Delta, error) {
	participants, err := validate(m)
	if err != nil {
		return Delta{}, err
	}

	var d Delta
	for _, p := range participants {
		won := p.Team == m.WinningTeam
		row := s.row(p.Champion)
		global := s.global(p.Champion)

		for _, o := range participants {
			if o.Team == p.Team {
				continue
			}
			r, ok := row[o.Champion]
			if !ok {
				r = &Record{}
				row[o.Champion] = r
			}
			r.UpdateWinRate(won)
			global.UpdateWinRate(won)
			d.Matchups = append(d.Matchups, Entry{Champion: p.Champion, Opponent: o.Champion, Record: *r})
		}
		d.Global = append(d.Global, Entry{Champion: p.Champion, Record: *global})
	}

	return d, nil
}

// validate checks a match can be ingested and returns its participants with
// normalized champion IDs. A champion that appears more than once keeps the
// team it was first seen on.
func validate(m Match) ([]Participant, error) {
	if len(m.Participants) == 0 {
		return nil, fmt.Errorf("match %q has no participants: %w", m.ID, ErrMalformedMatch)
	}
	if m.WinningTeam == 0 {
		return nil, fmt.Errorf("match %q has no winning team: %w", m.ID, ErrMalformedMatch)
	}

	seen := make(map[string]bool, len(m.Participants))
	out := make([]Participant, 0, len(m.Participants))
	winnerPresent, loserPresent := false, false
	for _, p := range m.Participants {
		id := ChampionID(p.Champion)
		if id == "" {
			return nil, fmt.Errorf("match %q has a participant with no champion: %w", m.ID, ErrMalformedMatch)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if p.Team == m.WinningTeam {
			winnerPresent = true
		} else {
			loserPresent = true
		}
		out = append(out, Participant{Champion: id, Team: p.Team})
	}

	if !winnerPresent {
		return nil, fmt.Errorf("match %q winning team %d has no participants: %w", m.ID, m.WinningTeam, ErrMalformedMatch)
	}
	if !loserPresent {
		return nil, fmt.Errorf("match %q has no losing participants: %w", m.ID, ErrMalformedMatch)
	}
	return out, nil
}

// ReconcileRoster ensures every known champion has a record against every
// other known champion and a global record, and drops the legacy "all"
// opponent key. A champion's missing global record is derived from the sum of
// its matchup records. It returns true if the store changed.
//
// Call it whenever the roster grows, before ingesting or querying.
func (s *Store) ReconcileRoster(known []string) bool {
	ids := make([]string, 0, len(known))
	for _, k := range known {
		if id := ChampionID(k); id != "" && id != legacyAllKey {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	changed := false
	if _, ok := s.PerOpponent[legacyAllKey]; ok {
		delete(s.PerOpponent, legacyAllKey)
		changed = true
	}
	if _, ok := s.Global[legacyAllKey]; ok {
		delete(s.Global, legacyAllKey)
		changed = true
	}
	for _, row := range s.PerOpponent {
		if _, ok := row[legacyAllKey]; ok {
			delete(row, legacyAllKey)
			changed = true
		}
	}

	for _, c := range ids {
		row, ok := s.PerOpponent[c]
		if !ok {
			row = make(map[string]*Record, len(ids))
			s.PerOpponent[c] = row
			changed = true
		}
		for _, o := range ids {
			if o == c {
				continue
			}
			if _, ok := row[o]; !ok {
				row[o] = &Record{}
				changed = true
			}
		}
	}

	for _, c := range ids {
		if _, ok := s.Global[c]; ok {
			continue
		}
		sum := &Record{}
		for _, r := range s.PerOpponent[c] {
			sum.Add(*r)
		}
		s.Global[c] = sum
		changed = true
	}

	return changed
}

// Has returns true if the store has a matchup row for the champion.
func (s *Store) Has(champion string) bool {
	_, ok := s.PerOpponent[champion]
	return ok
}

// Champions returns every champion with a matchup row, sorted.
func (s *Store) Champions() []string {
	out := make([]string, 0, len(s.PerOpponent))
	for c := range s.PerOpponent {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Matchup returns the champion's record against the opponent. Unknown
// matchups have a zero record.
func (s *Store) Matchup(champion, opponent string) Record {
	if r, ok := s.PerOpponent[champion][opponent]; ok {
		return *r
	}
	return Record{}
}

// GlobalRecord returns the champion's global record, and whether it exists.
func (s *Store) GlobalRecord(champion string) (Record, bool) {
	r, ok := s.Global[champion]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// GlobalWinRates returns every champion's global win rate.
func (s *Store) GlobalWinRates() map[string]float64 {
	out := make(map[string]float64, len(s.Global))
	for c, r := range s.Global {
		out[c] = r.WinRate()
	}
	return out
}

// Entries returns every record in the store, sorted by champion then
// opponent. Global records have an empty opponent.
func (s *Store) Entries() Delta {
	var d Delta
	for _, c := range s.Champions() {
		row := s.PerOpponent[c]
		opponents := make([]string, 0, len(row))
		for o := range row {
			opponents = append(opponents, o)
		}
		slices.Sort(opponents)
		for _, o := range opponents {
			d.Matchups = append(d.Matchups, Entry{Champion: c, Opponent: o, Record: *row[o]})
		}
	}

	champions := make([]string, 0, len(s.Global))
	for c := range s.Global {
		champions = append(champions, c)
	}
	slices.Sort(champions)
	for _, c := range champions {
		d.Global = append(d.Global, Entry{Champion: c, Record: *s.Global[c]})
	}
	return d
}

// Apply sets records from entries, creating them as needed. It is used to
// rebuild a store from persisted entries.
func (s *Store) Apply(d Delta) {
	for _, e := range d.Matchups {
		if e.Champion == e.Opponent {
			continue
		}
		r := e.Record
		s.row(e.Champion)[e.Opponent] = &r
	}
	for _, e := range d.Global {
		r := e.Record
		s.Global[e.Champion] = &r
	}
}

func (s *Store) row(champion string) map[string]*Record {
	row, ok := s.PerOpponent[champion]
	if !ok {
		row = make(map[string]*Record)
		s.PerOpponent[champion] = row
	}
	return row
}

func (s *Store) global(champion string) *Record {
	r, ok := s.Global[champion]
	if !ok {
		r = &Record{}
		s.Global[champion] = r
	}
	return r
}

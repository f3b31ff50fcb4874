package matchup

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestWinRate(t *testing.T) {
	type want struct {
		rate float64
	}

	cases := map[string]struct {
		reason string
		record Record
		want   want
	}{
		"NoGames": {
			reason: "A record with no games should have a zero win rate rather than NaN.",
			record: Record{},
			want:   want{rate: 0},
		},
		"AllWins": {
			reason: "A record with every game won should have a win rate of one.",
			record: Record{Wins: 4, Games: 4},
			want:   want{rate: 1},
		},
		"Some": {
			reason: "Win rate should be wins divided by games.",
			record: Record{Wins: 210, Games: 300},
			want:   want{rate: 0.7},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := tc.record.WinRate()
			if diff := cmp.Diff(tc.want.rate, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("\n%s\nWinRate(): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestUpdateWinRate(t *testing.T) {
	r := Record{}
	r.UpdateWinRate(true)
	r.UpdateWinRate(false)
	r.UpdateWinRate(true)
	r.AddGames(2)
	r.AddWins(1)

	if diff := cmp.Diff(Record{Wins: 3, Games: 5}, r); diff != "" {
		t.Errorf("\nUpdateWinRate should always add a game and only add a win when won.\nRecord: -want, +got:\n%s", diff)
	}
}

func TestChampionID(t *testing.T) {
	cases := map[string]struct {
		reason string
		in     string
		want   string
	}{
		"Apostrophe": {
			reason: "Punctuation should be stripped and letters lower cased.",
			in:     "Kai'Sa",
			want:   "kaisa",
		},
		"Spaces": {
			reason: "Spaces and periods should be stripped.",
			in:     " Dr. Mundo ",
			want:   "drmundo",
		},
		"AlreadyNormal": {
			reason: "A normalized ID should be unchanged.",
			in:     "zed",
			want:   "zed",
		},
		"Empty": {
			reason: "Input with no letters should normalize to the empty string.",
			in:     "  '. ",
			want:   "",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := ChampionID(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nChampionID(%q): -want, +got:\n%s", tc.reason, tc.in, diff)
			}
		})
	}
}

func TestIngest(t *testing.T) {
	type want struct {
		matchups map[string]map[string]*Record
		global   map[string]*Record
		delta    Delta
		err      error
	}

	cases := map[string]struct {
		reason string
		match  Match
		want   want
	}{
		"OneVersusOne": {
			reason: "The winner should gain a game and a win against the loser, and the loser only a game.",
			match: Match{
				ID:           "NA1_1",
				Participants: []Participant{{Champion: "Ashe", Team: 100}, {Champion: "Zed", Team: 200}},
				WinningTeam:  100,
			},
			want: want{
				matchups: map[string]map[string]*Record{
					"ashe": {"zed": {Wins: 1, Games: 1}},
					"zed":  {"ashe": {Wins: 0, Games: 1}},
				},
				global: map[string]*Record{
					"ashe": {Wins: 1, Games: 1},
					"zed":  {Wins: 0, Games: 1},
				},
				delta: Delta{
					Matchups: []Entry{
						{Champion: "ashe", Opponent: "zed", Record: Record{Wins: 1, Games: 1}},
						{Champion: "zed", Opponent: "ashe", Record: Record{Wins: 0, Games: 1}},
					},
					Global: []Entry{
						{Champion: "ashe", Record: Record{Wins: 1, Games: 1}},
						{Champion: "zed", Record: Record{Wins: 0, Games: 1}},
					},
				},
			},
		},
		"TwoVersusTwo": {
			reason: "Teammates should never be paired, and global records should count one game per opponent faced.",
			match: Match{
				ID: "NA1_2",
				Participants: []Participant{
					{Champion: "Ashe", Team: 100},
					{Champion: "Lulu", Team: 100},
					{Champion: "Zed", Team: 200},
					{Champion: "Ahri", Team: 200},
				},
				WinningTeam: 200,
			},
			want: want{
				matchups: map[string]map[string]*Record{
					"ashe": {"zed": {Games: 1}, "ahri": {Games: 1}},
					"lulu": {"zed": {Games: 1}, "ahri": {Games: 1}},
					"zed":  {"ashe": {Wins: 1, Games: 1}, "lulu": {Wins: 1, Games: 1}},
					"ahri": {"ashe": {Wins: 1, Games: 1}, "lulu": {Wins: 1, Games: 1}},
				},
				global: map[string]*Record{
					"ashe": {Games: 2},
					"lulu": {Games: 2},
					"zed":  {Wins: 2, Games: 2},
					"ahri": {Wins: 2, Games: 2},
				},
				delta: Delta{
					Matchups: []Entry{
						{Champion: "ashe", Opponent: "zed", Record: Record{Games: 1}},
						{Champion: "ashe", Opponent: "ahri", Record: Record{Games: 1}},
						{Champion: "lulu", Opponent: "zed", Record: Record{Games: 1}},
						{Champion: "lulu", Opponent: "ahri", Record: Record{Games: 1}},
						{Champion: "zed", Opponent: "ashe", Record: Record{Wins: 1, Games: 1}},
						{Champion: "zed", Opponent: "lulu", Record: Record{Wins: 1, Games: 1}},
						{Champion: "ahri", Opponent: "ashe", Record: Record{Wins: 1, Games: 1}},
						{Champion: "ahri", Opponent: "lulu", Record: Record{Wins: 1, Games: 1}},
					},
					Global: []Entry{
						{Champion: "ashe", Record: Record{Games: 2}},
						{Champion: "lulu", Record: Record{Games: 2}},
						{Champion: "zed", Record: Record{Wins: 2, Games: 2}},
						{Champion: "ahri", Record: Record{Wins: 2, Games: 2}},
					},
				},
			},
		},
		"NoParticipants": {
			reason: "A match with no participants should be rejected without changing the store.",
			match:  Match{ID: "NA1_3", WinningTeam: 100},
			want: want{
				matchups: map[string]map[string]*Record{},
				global:   map[string]*Record{},
				err:      ErrMalformedMatch,
			},
		},
		"NoWinningTeam": {
			reason: "A match with no winning team should be rejected without changing the store.",
			match: Match{
				ID:           "NA1_4",
				Participants: []Participant{{Champion: "Ashe", Team: 100}, {Champion: "Zed", Team: 200}},
			},
			want: want{
				matchups: map[string]map[string]*Record{},
				global:   map[string]*Record{},
				err:      ErrMalformedMatch,
			},
		},
		"WinnerNotPlaying": {
			reason: "A match whose winning team has no participants should be rejected.",
			match: Match{
				ID:           "NA1_5",
				Participants: []Participant{{Champion: "Ashe", Team: 100}, {Champion: "Zed", Team: 200}},
				WinningTeam:  300,
			},
			want: want{
				matchups: map[string]map[string]*Record{},
				global:   map[string]*Record{},
				err:      ErrMalformedMatch,
			},
		},
		"LosingTeamMissing": {
			reason: "A match where every participant is on the winning team should be rejected without making its champions known.",
			match: Match{
				ID:           "NA1_7",
				Participants: []Participant{{Champion: "Ashe", Team: 100}, {Champion: "Lulu", Team: 100}},
				WinningTeam:  100,
			},
			want: want{
				matchups: map[string]map[string]*Record{},
				global:   map[string]*Record{},
				err:      ErrMalformedMatch,
			},
		},
		"BlankChampion": {
			reason: "A participant with no champion should make the whole match malformed.",
			match: Match{
				ID:           "NA1_6",
				Participants: []Participant{{Champion: "Ashe", Team: 100}, {Champion: "", Team: 200}},
				WinningTeam:  100,
			},
			want: want{
				matchups: map[string]map[string]*Record{},
				global:   map[string]*Record{},
				err:      ErrMalformedMatch,
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			d, err := s.Ingest(tc.match)

			if diff := cmp.Diff(tc.want.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nIngest(...): -want error, +got error:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.delta, d, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("\n%s\nIngest(...): -want delta, +got delta:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.matchups, s.PerOpponent); diff != "" {
				t.Errorf("\n%s\nIngest(...): -want PerOpponent, +got PerOpponent:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.global, s.Global); diff != "" {
				t.Errorf("\n%s\nIngest(...): -want Global, +got Global:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestIngestGlobalMatchesRowSums(t *testing.T) {
	s := NewStore()
	matches := []Match{
		{ID: "1", WinningTeam: 100, Participants: []Participant{
			{"Ashe", 100}, {"Lulu", 100}, {"Zed", 200}, {"Ahri", 200}, {"Garen", 200},
		}},
		{ID: "2", WinningTeam: 200, Participants: []Participant{
			{"Ashe", 200}, {"Zed", 100}, {"Garen", 200}, {"Lulu", 100},
		}},
	}
	for _, m := range matches {
		if _, err := s.Ingest(m); err != nil {
			t.Fatalf("Ingest(%s): %v", m.ID, err)
		}
	}

	for c, row := range s.PerOpponent {
		sum := Record{}
		for _, r := range row {
			sum.Add(*r)
		}
		got, _ := s.GlobalRecord(c)
		if diff := cmp.Diff(sum, got); diff != "" {
			t.Errorf("\nA champion's global record should equal the sum of its matchup records.\nGlobalRecord(%q): -want, +got:\n%s", c, diff)
		}
	}
}

func TestReconcileRoster(t *testing.T) {
	type want struct {
		changed  bool
		matchups map[string]map[string]*Record
		global   map[string]*Record
	}

	cases := map[string]struct {
		reason string
		store  *Store
		known  []string
		want   want
	}{
		"Empty": {
			reason: "An empty store should gain a zero record for every pair of known champions.",
			store:  NewStore(),
			known:  []string{"Ashe", "Zed"},
			want: want{
				changed: true,
				matchups: map[string]map[string]*Record{
					"ashe": {"zed": {}},
					"zed":  {"ashe": {}},
				},
				global: map[string]*Record{"ashe": {}, "zed": {}},
			},
		},
		"NewChampion": {
			reason: "A newly released champion should gain a row, and every existing row should gain an entry for it.",
			store: &Store{
				PerOpponent: map[string]map[string]*Record{
					"ashe": {"zed": {Wins: 3, Games: 5}},
					"zed":  {"ashe": {Wins: 2, Games: 5}},
				},
				Global: map[string]*Record{
					"ashe": {Wins: 3, Games: 5},
					"zed":  {Wins: 2, Games: 5},
				},
			},
			known: []string{"ashe", "zed", "Ambessa"},
			want: want{
				changed: true,
				matchups: map[string]map[string]*Record{
					"ashe":    {"zed": {Wins: 3, Games: 5}, "ambessa": {}},
					"zed":     {"ashe": {Wins: 2, Games: 5}, "ambessa": {}},
					"ambessa": {"ashe": {}, "zed": {}},
				},
				global: map[string]*Record{
					"ashe":    {Wins: 3, Games: 5},
					"zed":     {Wins: 2, Games: 5},
					"ambessa": {},
				},
			},
		},
		"LegacyAll": {
			reason: "The legacy all opponent should be dropped, and a missing global record derived from matchup rows.",
			store: &Store{
				PerOpponent: map[string]map[string]*Record{
					"ashe": {"zed": {Wins: 3, Games: 5}, "all": {Wins: 90, Games: 100}},
					"zed":  {"ashe": {Wins: 2, Games: 5}},
				},
				Global: map[string]*Record{
					"zed": {Wins: 2, Games: 5},
				},
			},
			known: []string{"ashe", "zed"},
			want: want{
				changed: true,
				matchups: map[string]map[string]*Record{
					"ashe": {"zed": {Wins: 3, Games: 5}},
					"zed":  {"ashe": {Wins: 2, Games: 5}},
				},
				global: map[string]*Record{
					"ashe": {Wins: 3, Games: 5},
					"zed":  {Wins: 2, Games: 5},
				},
			},
		},
		"Unchanged": {
			reason: "A reconciled store should report no change.",
			store: &Store{
				PerOpponent: map[string]map[string]*Record{
					"ashe": {"zed": {}},
					"zed":  {"ashe": {}},
				},
				Global: map[string]*Record{"ashe": {}, "zed": {}},
			},
			known: []string{"Zed", "Ashe", "ashe"},
			want: want{
				changed: false,
				matchups: map[string]map[string]*Record{
					"ashe": {"zed": {}},
					"zed":  {"ashe": {}},
				},
				global: map[string]*Record{"ashe": {}, "zed": {}},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			changed := tc.store.ReconcileRoster(tc.known)

			if diff := cmp.Diff(tc.want.changed, changed); diff != "" {
				t.Errorf("\n%s\nReconcileRoster(...): -want changed, +got changed:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.matchups, tc.store.PerOpponent); diff != "" {
				t.Errorf("\n%s\nReconcileRoster(...): -want PerOpponent, +got PerOpponent:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.global, tc.store.Global); diff != "" {
				t.Errorf("\n%s\nReconcileRoster(...): -want Global, +got Global:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestEntriesApply(t *testing.T) {
	s := NewStore()
	s.ReconcileRoster([]string{"ashe", "zed", "ahri"})
	if _, err := s.Ingest(Match{
		ID:           "1",
		Participants: []Participant{{"Ashe", 100}, {"Zed", 200}, {"Ahri", 200}},
		WinningTeam:  100,
	}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	rebuilt := NewStore()
	rebuilt.Apply(s.Entries())

	if diff := cmp.Diff(s, rebuilt); diff != "" {
		t.Errorf("\nApplying a store's entries to an empty store should reproduce it.\nApply(Entries()): -want, +got:\n%s", diff)
	}
}

func TestMalformedIsDistinguishable(t *testing.T) {
	_, err := NewStore().Ingest(Match{ID: "x"})
	if !errors.Is(err, ErrMalformedMatch) {
		t.Errorf("Ingest(...): want error wrapping ErrMalformedMatch, got %v", err)
	}
}

func TestGlobalWinRates(t *testing.T) {
	s := NewStore()
	s.Apply(Delta{Global: []Entry{
		{Champion: "ashe", Record: Record{Wins: 3, Games: 4}},
		{Champion: "zed", Record: Record{Wins: 1, Games: 4}},
	}})
	s.ReconcileRoster([]string{"ashe", "zed", "lulu"})

	want := map[string]float64{"ashe": 0.75, "zed": 0.25, "lulu": 0}
	if diff := cmp.Diff(want, s.GlobalWinRates(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("\nEvery champion should have a global win rate, zero for one that has never played.\nGlobalWinRates(): -want, +got:\n%s", diff)
	}
}

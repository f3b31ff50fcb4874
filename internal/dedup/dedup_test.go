package dedup

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet(t *testing.T) {
	type want struct {
		added    []bool
		contains map[string]bool
		ids      []string
	}

	cases := map[string]struct {
		reason  string
		initial []string
		add     []string
		want    want
	}{
		"Empty": {
			reason: "An empty set should contain nothing.",
			want: want{
				contains: map[string]bool{"NA1_1": false},
				ids:      []string{},
			},
		},
		"Initial": {
			reason: "Ids passed to New should be present.",
			initial: []string{"NA1_2", "NA1_1"},
			want: want{
				contains: map[string]bool{"NA1_1": true, "NA1_2": true, "NA1_3": false},
				ids:      []string{"NA1_1", "NA1_2"},
			},
		},
		"AddDuplicate": {
			reason:  "Adding an id twice should report it was already present the second time.",
			initial: []string{"NA1_1"},
			add:     []string{"NA1_2", "NA1_1", "NA1_2"},
			want: want{
				added:    []bool{true, false, false},
				contains: map[string]bool{"NA1_1": true, "NA1_2": true},
				ids:      []string{"NA1_1", "NA1_2"},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := New(0, tc.initial...)

			var added []bool
			for _, id := range tc.add {
				added = append(added, s.Add(id))
			}
			if diff := cmp.Diff(tc.want.added, added); diff != "" {
				t.Errorf("\n%s\nAdd(...): -want, +got:\n%s", tc.reason, diff)
			}

			for id, want := range tc.want.contains {
				if got := s.Contains(id); got != want {
					t.Errorf("\n%s\nContains(%q): want %t, got %t", tc.reason, id, want, got)
				}
			}

			if diff := cmp.Diff(tc.want.ids, s.IDs()); diff != "" {
				t.Errorf("\n%s\nIDs(): -want, +got:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(len(tc.want.ids), s.Len()); diff != "" {
				t.Errorf("\n%s\nLen(): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestSetOverCapacity(t *testing.T) {
	s := New(10)
	for i := range 1000 {
		s.Add(fmt.Sprintf("NA1_%d", i))
	}
	for i := range 1000 {
		if !s.Contains(fmt.Sprintf("NA1_%d", i)) {
			t.Fatalf("Contains(NA1_%d): want true after Add", i)
		}
	}
	if s.Contains("EUW1_1") {
		t.Errorf("Contains(EUW1_1): want false for an id never added")
	}
}

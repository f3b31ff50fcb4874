package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/negz/counterpick/internal/db"
)

func TestTables(t *testing.T) {
	type want struct {
		out string
		err error
	}

	cases := map[string]struct {
		reason string
		tables []string
		want   want
	}{
		"All": {
			reason: "With no tables the whole schema should be returned.",
			want:   want{out: db.Schema()},
		},
		"Metadata": {
			reason: "A table should be returned with its documentation.",
			tables: []string{"metadata"},
			want: want{out: `-- Key/value sync state.
--
-- Example: key='game_version', value='14.23.1'
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

`},
		},
		"Unknown": {
			reason: "An unknown table should be an error.",
			tables: []string{"machines"},
			want:   want{err: cmpopts.AnyError},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Tables(db.Schema(), tc.tables...)
			if diff := cmp.Diff(tc.want.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nTables(...): -want error, +got error:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.out, got); diff != "" {
				t.Errorf("\n%s\nTables(...): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestTablesIndexes(t *testing.T) {
	got, err := Tables(db.Schema(), "matchups")
	if err != nil {
		t.Fatalf("Tables(...): %v", err)
	}
	if !strings.Contains(got, "CREATE INDEX IF NOT EXISTS idx_matchups_opponent ON matchups(opponent);") {
		t.Errorf("Tables(...): want the matchups opponent index, got:\n%s", got)
	}
	if strings.Contains(got, "champion_roles") {
		t.Errorf("Tables(...): want only the matchups table, got:\n%s", got)
	}
}

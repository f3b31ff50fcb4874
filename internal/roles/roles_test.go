package roles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNormalizeRole(t *testing.T) {
	cases := map[string]struct {
		reason string
		in     string
		want   string
	}{
		"Empty": {
			reason: "An empty role should mean any role.",
			in:     "",
			want:   Any,
		},
		"Case": {
			reason: "Roles should be lower cased.",
			in:     "MID",
			want:   Mid,
		},
		"SupAlias": {
			reason: "sup should be an alias of support.",
			in:     "Sup",
			want:   Support,
		},
		"Utility": {
			reason: "The API's UTILITY position should map to support.",
			in:     "UTILITY",
			want:   Support,
		},
		"FreeForm": {
			reason: "Unknown tags should be kept, stripped of punctuation.",
			in:     "flex-pick",
			want:   "flexpick",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := NormalizeRole(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nNormalizeRole(%q): -want, +got:\n%s", tc.reason, tc.in, diff)
			}
		})
	}
}

func TestParseRoles(t *testing.T) {
	got := ParseRoles("Top, mid,,sup ,top,any")
	want := []string{Top, Mid, Support}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("\nParseRoles should normalize tags and drop blanks, duplicates, and any.\nParseRoles(...): -want, +got:\n%s", diff)
	}
}

func TestFilterHas(t *testing.T) {
	f := New(map[string][]string{
		"Kai'Sa": {"ADC", "mid"},
		"Lulu":   {"sup"},
		"Ahri":   {},
	})

	cases := map[string]struct {
		reason   string
		champion string
		role     string
		want     bool
	}{
		"Match": {
			reason:   "A champion should match a role it is tagged with.",
			champion: "kaisa",
			role:     "adc",
			want:     true,
		},
		"Alias": {
			reason:   "Role aliases should be resolved on lookup.",
			champion: "lulu",
			role:     "support",
			want:     true,
		},
		"NoMatch": {
			reason:   "A champion should not match a role it is not tagged with.",
			champion: "kaisa",
			role:     "top",
			want:     false,
		},
		"NoRoles": {
			reason:   "A champion with no tags should match no specific role.",
			champion: "ahri",
			role:     "mid",
			want:     false,
		},
		"Unknown": {
			reason:   "A champion absent from the filter should match no specific role.",
			champion: "zed",
			role:     "mid",
			want:     false,
		},
		"Any": {
			reason:   "Every champion should match any.",
			champion: "zed",
			role:     Any,
			want:     true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := f.Has(tc.champion, tc.role)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nHas(%q, %q): -want, +got:\n%s", tc.reason, tc.champion, tc.role, diff)
			}
		})
	}
}

func TestFilterMissing(t *testing.T) {
	f := New(map[string][]string{"ashe": {"adc"}, "ahri": {}})
	got := f.Missing([]string{"zed", "ashe", "ahri"})
	want := []string{"ahri", "zed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("\nMissing should return champions with no tags or no entry.\nMissing(...): -want, +got:\n%s", diff)
	}
}

type MockStore struct {
	MockSetRoles func(ctx context.Context, champion string, roles []string) error
}

func (m *MockStore) SetRoles(ctx context.Context, champion string, roles []string) error {
	return m.MockSetRoles(ctx, champion, roles)
}

func TestFileLoad(t *testing.T) {
	errBoom := errors.New("boom")

	type want struct {
		n   int
		set map[string][]string
		err error
	}

	cases := map[string]struct {
		reason string
		data   string
		setErr error
		want   want
	}{
		"Success": {
			reason: "Every champion in the file should be written with normalized roles.",
			data:   `{"Kai'Sa": ["ADC"], "Lulu": ["sup", "mid"], "Ahri": []}`,
			want: want{
				n: 3,
				set: map[string][]string{
					"ahri":  {},
					"kaisa": {"adc"},
					"lulu":  {"mid", "support"},
				},
			},
		},
		"StoreError": {
			reason: "A store error should stop the load and be returned.",
			data:   `{"ahri": ["mid"]}`,
			setErr: errBoom,
			want: want{
				set: map[string][]string{"ahri": {"mid"}},
				err: errBoom,
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var f File
			if err := f.Decode([]byte(tc.data)); err != nil {
				t.Fatalf("Decode(...): %v", err)
			}

			set := map[string][]string{}
			s := &MockStore{MockSetRoles: func(_ context.Context, champion string, roles []string) error {
				set[champion] = roles
				return tc.setErr
			}}

			n, err := f.Load(context.Background(), s)
			if diff := cmp.Diff(tc.want.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nLoad(...): -want error, +got error:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.n, n); diff != "" {
				t.Errorf("\n%s\nLoad(...): -want n, +got n:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.want.set, set, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("\n%s\nLoad(...): -want roles, +got roles:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFileExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`{"Ashe": ["bot"]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	var f File
	if err := f.Extract(path); err != nil {
		t.Fatalf("Extract(...): %v", err)
	}
	got := f.Transform().All()
	want := map[string][]string{"ashe": {"adc"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("\nExtract then Transform should normalize names and roles.\nTransform(): -want, +got:\n%s", diff)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLoadEnv(t *testing.T) {
	cases := map[string]struct {
		reason  string
		content *string
		want    error
	}{
		"Missing": {
			reason: "A missing environment file should not be an error.",
		},
		"Valid": {
			reason:  "A well formed environment file should load.",
			content: ptr("COUNTERPICK_LOAD_ENV_VALID=yes\n"),
		},
		"Malformed": {
			reason:  "A malformed environment file should be reported.",
			content: ptr("COUNTERPICK_LOAD_ENV_MALFORMED=\"unterminated\n"),
			want:    cmpopts.AnyError,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			if tc.content != nil {
				if err := os.WriteFile(path, []byte(*tc.content), 0o600); err != nil {
					t.Fatalf("WriteFile: %v", err)
				}
			}

			err := loadEnv(path)
			if diff := cmp.Diff(tc.want, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("\n%s\nloadEnv(...): -want error, +got error:\n%s", tc.reason, diff)
			}
		})
	}
}

func ptr(s string) *string { return &s }

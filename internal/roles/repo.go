package roles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-git/go-git/v5"
	json "github.com/goccy/go-json"
)

// FileName is the role file read from the root of a role repository.
const FileName = "champion_roles.json"

// A Store persists champion roles.
type Store interface {
	SetRoles(ctx context.Context, champion string, roles []string) error
}

// RepoOption configures a Repo.
type RepoOption func(*Repo)

// WithRepoURL sets the git repository URL.
func WithRepoURL(url string) RepoOption {
	return func(r *Repo) {
		r.url = url
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l *slog.Logger) RepoOption {
	return func(r *Repo) {
		r.log = l
	}
}

// A Repo is a local checkout of a git repository containing a role file.
type Repo struct {
	path string
	url  string
	log  *slog.Logger
}

// NewRepo returns a Repo checked out at path.
func NewRepo(path string, opts ...RepoOption) *Repo {
	r := &Repo{path: path, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Sync clones or updates the repository, then loads its role file into the
// store. It returns the number of champions loaded.
func (r *Repo) Sync(ctx context.Context, s Store) (int, error) {
	if err := r.pull(ctx); err != nil {
		return 0, fmt.Errorf("sync role repo: %w", err)
	}

	var f File
	if err := f.Extract(filepath.Join(r.path, FileName)); err != nil {
		return 0, fmt.Errorf("extract roles: %w", err)
	}
	n, err := f.Load(ctx, s)
	if err != nil {
		return n, fmt.Errorf("load roles: %w", err)
	}
	r.log.Info("Loaded champion roles", "champions", n)
	return n, nil
}

// pull clones or updates the role repository.
func (r *Repo) pull(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var progress io.Writer
	if r.log.Enabled(ctx, slog.LevelDebug) {
		progress = os.Stderr
	}

	if _, err := os.Stat(filepath.Join(r.path, ".git")); err == nil {
		r.log.Info("Updating role repo", "path", r.path)
		repo, err := git.PlainOpen(r.path)
		if err != nil {
			return fmt.Errorf("open repo: %w", err)
		}
		w, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("get worktree: %w", err)
		}
		if err := w.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
			return fmt.Errorf("reset worktree: %w", err)
		}
		if err := w.PullContext(ctx, &git.PullOptions{Progress: progress}); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return err
		}
		return nil
	}

	if r.url == "" {
		return errors.New("no role repo URL configured")
	}
	r.log.Info("Cloning role repo", "url", r.url, "path", r.path)
	_, err := git.PlainCloneContext(ctx, r.path, false, &git.CloneOptions{
		URL:          r.url,
		Depth:        1,
		SingleBranch: true,
		Progress:     progress,
	})
	return err
}

// A File extracts, transforms, and loads a role file. The file is a JSON
// object of champion name to a list of role tags.
type File struct {
	raw map[string][]string
}

// Extract reads and decodes a role file.
func (f *File) Extract(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path is under the configured role repo.
	if err != nil {
		return err
	}
	return f.Decode(data)
}

// Decode decodes role file content.
func (f *File) Decode(data []byte) error {
	return json.Unmarshal(data, &f.raw)
}

// Transform returns a normalized Filter from the raw role file.
func (f *File) Transform() *Filter {
	return New(f.raw)
}

// Load writes every champion's normalized roles to the store, in champion
// order. It returns the number of champions written.
func (f *File) Load(ctx context.Context, s Store) (int, error) {
	all := f.Transform().All()
	champions := make([]string, 0, len(all))
	for c := range all {
		champions = append(champions, c)
	}
	slices.Sort(champions)

	for i, c := range champions {
		if err := s.SetRoles(ctx, c, all[c]); err != nil {
			return i, fmt.Errorf("set roles for %s: %w", c, err)
		}
	}
	return len(champions), nil
}

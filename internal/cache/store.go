package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/negz/counterpick/internal/db"
	"github.com/negz/counterpick/internal/matchup"
	"github.com/negz/counterpick/internal/roles"
)

// Store is the set of queries needed to serve recommendations.
type Store interface {
	LoadMatchups(ctx context.Context) (*matchup.Store, error)
	ListRoles(ctx context.Context) (map[string][]string, error)
	ListChampions(ctx context.Context) ([]db.Champion, error)
}

// A Snapshot is a consistent, read-only view of the matchup store and
// champion roles. Callers must not modify it.
type Snapshot struct {
	Matchups *matchup.Store
	Roles    *roles.Filter
}

// An InMemoryStore holds a Snapshot of data that only changes when a sync
// runs. Call Refresh after each sync to replace it.
type InMemoryStore struct {
	wrapped Store

	mu        sync.RWMutex // Protects everything below.
	snapshot  Snapshot
	champions []db.Champion
}

// NewInMemoryStore returns an InMemoryStore that caches s in memory. It holds
// an empty Snapshot until the first Refresh.
func NewInMemoryStore(s Store) *InMemoryStore {
	return &InMemoryStore{
		wrapped:  s,
		snapshot: Snapshot{Matchups: matchup.NewStore(), Roles: roles.New(nil)},
	}
}

// Refresh repopulates the in-memory cache from the underlying store. Readers
// holding the previous Snapshot keep a consistent view of it.
func (s *InMemoryStore) Refresh(ctx context.Context) error {
	m, err := s.wrapped.LoadMatchups(ctx)
	if err != nil {
		return fmt.Errorf("load matchups: %w", err)
	}

	r, err := s.wrapped.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("load roles: %w", err)
	}

	champions, err := s.wrapped.ListChampions(ctx)
	if err != nil {
		return fmt.Errorf("load champions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = Snapshot{Matchups: m, Roles: roles.New(r)}
	s.champions = champions

	return nil
}

// Snapshot returns the current Snapshot.
func (s *InMemoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// ListChampions returns champions from the cache, optionally filtered by
// search term.
func (s *InMemoryStore) ListChampions(_ context.Context, search string) ([]db.Champion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if search == "" {
		return s.champions, nil
	}

	search = strings.ToLower(search)
	var out []db.Champion
	for _, c := range s.champions {
		if strings.Contains(c.ID, search) || strings.Contains(strings.ToLower(c.Name), search) {
			out = append(out, c)
		}
	}
	return out, nil
}

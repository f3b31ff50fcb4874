// Package sync folds match feeds into the persisted matchup store.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/negz/counterpick/internal/dedup"
	"github.com/negz/counterpick/internal/matchup"
)

// A Feed yields decoded matches. The same match may be yielded more than
// once.
type Feed interface {
	Walk(ctx context.Context, visit func(ctx context.Context, id string, m matchup.Match) error) error
}

// A Store persists ingested matches.
type Store interface {
	LoadMatchups(ctx context.Context) (*matchup.Store, error)
	ProcessedMatches(ctx context.Context) ([]string, error)
	CommitMatch(ctx context.Context, matchID string, d matchup.Delta) error
	MarkProcessed(ctx context.Context, matchID string) error
}

// Stats counts what an Ingester did with the matches it was given.
type Stats struct {
	Ingested   int
	Duplicates int
	Malformed  int
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Ingester) {
		i.log = l
	}
}

// WithProgressEvery logs progress every n ingested matches.
func WithProgressEvery(n int) Option {
	return func(i *Ingester) {
		i.every = n
	}
}

// An Ingester folds matches into an in-memory matchup store, persisting each
// match before marking it seen. It is not safe for concurrent use.
type Ingester struct {
	store Store
	model *matchup.Store
	seen  *dedup.Set
	log   *slog.Logger
	every int
	stats Stats
}

// Load reads the matchup store and processed match ids from the store.
func Load(ctx context.Context, s Store) (*matchup.Store, *dedup.Set, error) {
	model, err := s.LoadMatchups(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load matchups: %w", err)
	}
	ids, err := s.ProcessedMatches(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load processed matches: %w", err)
	}
	return model, dedup.New(dedup.DefaultExpected, ids...), nil
}

// NewIngester returns an Ingester that folds matches into model, skipping
// any in seen.
func NewIngester(s Store, model *matchup.Store, seen *dedup.Set, opts ...Option) *Ingester {
	i := &Ingester{
		store: s,
		model: model,
		seen:  seen,
		log:   slog.New(slog.DiscardHandler),
		every: 100,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Seen returns true if the match was already ingested. Feeds use it to avoid
// fetching matches they'd only discard.
func (i *Ingester) Seen(id string) bool {
	return i.seen.Contains(id)
}

// Stats returns what the Ingester has done so far.
func (i *Ingester) Stats() Stats {
	return i.stats
}

// Ingest folds one match into the model and persists it. A match that was
// already ingested is skipped. A malformed match is logged, marked processed
// so it's never fetched again, and skipped.
//
// If persisting fails the model is reloaded from the store, so it never holds
// a match the store doesn't, and the error is returned.
func (i *Ingester) Ingest(ctx context.Context, id string, m matchup.Match) error {
	if i.seen.Contains(id) {
		i.stats.Duplicates++
		return nil
	}
	if m.ID == "" {
		m.ID = id
	}

	d, err := i.model.Ingest(m)
	if errors.Is(err, matchup.ErrMalformedMatch) {
		i.log.Warn("Skipping malformed match", "match", id, "error", err)
		if err := i.store.MarkProcessed(ctx, id); err != nil {
			return fmt.Errorf("mark match %s processed: %w", id, err)
		}
		i.seen.Add(id)
		i.stats.Malformed++
		return nil
	}
	if err != nil {
		return fmt.Errorf("ingest match %s: %w", id, err)
	}

	if err := i.store.CommitMatch(ctx, id, d); err != nil {
		if rerr := i.reload(ctx); rerr != nil {
			return errors.Join(fmt.Errorf("commit match %s: %w", id, err), rerr)
		}
		return fmt.Errorf("commit match %s: %w", id, err)
	}

	i.seen.Add(id)
	i.stats.Ingested++
	if i.every > 0 && i.stats.Ingested%i.every == 0 {
		i.log.Info("Ingested matches", "ingested", i.stats.Ingested, "duplicates", i.stats.Duplicates, "malformed", i.stats.Malformed)
	}
	return nil
}

// Run ingests every match the feed yields. It stops at the first error.
// Matches ingested before the error remain persisted.
func (i *Ingester) Run(ctx context.Context, f Feed) (Stats, error) {
	err := f.Walk(ctx, i.Ingest)
	i.log.Info("Finished ingesting", "ingested", i.stats.Ingested, "duplicates", i.stats.Duplicates, "malformed", i.stats.Malformed)
	return i.stats, err
}

// reload replaces the model's contents with the persisted store's, in place,
// so callers holding the model see the reloaded state.
func (i *Ingester) reload(ctx context.Context) error {
	fresh, err := i.store.LoadMatchups(ctx)
	if err != nil {
		return fmt.Errorf("reload matchups: %w", err)
	}
	*i.model = *fresh
	return nil
}

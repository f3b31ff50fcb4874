// Package ingest implements the import command.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/riot"
	"github.com/negz/counterpick/internal/sync"
)

// Command ingests previously downloaded match documents.
type Command struct {
	Files []string `arg:"" help:"JSON lines files with one match API document per line." type:"existingfile"`
}

// Run executes the import command.
func (c *Command) Run(d *cache.DB, log *slog.Logger) error {
	ctx := context.Background()

	store, err := d.Store(ctx)
	if err != nil {
		return err
	}

	model, seen, err := sync.Load(ctx, store)
	if err != nil {
		return err
	}

	i := sync.NewIngester(store, model, seen, sync.WithLogger(log))
	for _, f := range c.Files {
		log.Info("Importing matches", "file", f)
		if _, err := i.Run(ctx, riot.NewMatchFile(f, log)); err != nil {
			return fmt.Errorf("import %s: %w", f, err)
		}
	}

	// Matches may name champions the stored roster doesn't know yet.
	if err := sync.Reconcile(ctx, store, model); err != nil {
		return err
	}

	s := i.Stats()
	fmt.Printf("Ingested %d matches (%d duplicates, %d malformed).\n", s.Ingested, s.Duplicates, s.Malformed)
	return nil
}

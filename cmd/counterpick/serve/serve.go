// Package serve implements the serve command.
package serve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/web"
)

// Command starts the counterpick web server.
type Command struct {
	Addr            string        `default:":8080" help:"Address to listen on."`
	RefreshInterval time.Duration `default:"5m"    help:"How often to reload matchups written by sync or import."`
	SyncRoles       bool          `help:"Also pull champion roles from the role git repo on each refresh."`
}

// Run executes the serve command.
func (c *Command) Run(d *cache.DB, _ *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dbst, err := d.Store(ctx)
	if err != nil {
		return err
	}

	st := cache.NewInMemoryStore(dbst)

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	go web.Sync(ctx, func(ctx context.Context) error {
		if c.SyncRoles {
			if _, err := d.SyncRoles(ctx); err != nil {
				return err
			}
		}
		return st.Refresh(ctx)
	}, c.RefreshInterval, log)

	log.Info("Starting web server", "addr", c.Addr)

	s := &http.Server{
		Addr:              c.Addr,
		Handler:           web.WithLogging(web.WithCacheControl(web.NewServer(st, log).Handler(), "public, max-age=60"), log),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		s.Shutdown(shutdown) //nolint:errcheck,contextcheck // Best effort on exit.
	}()

	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

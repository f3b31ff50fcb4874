// Package riot fetches ranked matches and static game data from the Riot
// Games API.
package riot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/negz/counterpick/internal/version"
)

// Default API hosts.
const (
	DefaultPlatformURL = "https://na1.api.riotgames.com"
	DefaultRegionURL   = "https://americas.api.riotgames.com"
	DefaultStaticURL   = "https://ddragon.leagueoflegends.com"
)

// Development keys allow 20 requests per second and 100 per two minutes.
const (
	DefaultRequestsPerWindow = 100
	DefaultWindow            = 2 * time.Minute
	DefaultBurst             = 20
)

// Retry policy for throttled and failed requests.
const (
	DefaultMaxRetries   = 10
	DefaultInitialDelay = 2 * time.Second
)

const queue = "RANKED_SOLO_5x5"

var (
	// ErrUnauthorized indicates the API key is missing, invalid, or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// A PUUIDCache remembers the PUUID for a summoner id.
type PUUIDCache interface {
	// GetPUUID returns the cached PUUID, or the empty string on a miss.
	GetPUUID(ctx context.Context, summonerID string) (string, error)
	SetPUUID(ctx context.Context, summonerID, puuid string) error
}

// Option configures a Client or StaticClient.
type Option func(*config)

type config struct {
	platformURL  string
	regionURL    string
	staticURL    string
	http         *http.Client
	limiter      *rate.Limiter
	maxRetries   uint64
	initialDelay time.Duration
	cache        PUUIDCache
	log          *slog.Logger
}

func newConfig(opts []Option) config {
	c := config{
		platformURL:  DefaultPlatformURL,
		regionURL:    DefaultRegionURL,
		staticURL:    DefaultStaticURL,
		http:         &http.Client{Timeout: 15 * time.Second},
		limiter:      rate.NewLimiter(rate.Every(DefaultWindow/DefaultRequestsPerWindow), DefaultBurst),
		maxRetries:   DefaultMaxRetries,
		initialDelay: DefaultInitialDelay,
		log:          slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithPlatformURL sets the platform host used for league and summoner
// requests, e.g. https://euw1.api.riotgames.com.
func WithPlatformURL(u string) Option {
	return func(c *config) {
		c.platformURL = strings.TrimSuffix(u, "/")
	}
}

// WithRegionURL sets the regional host used for match requests, e.g.
// https://europe.api.riotgames.com.
func WithRegionURL(u string) Option {
	return func(c *config) {
		c.regionURL = strings.TrimSuffix(u, "/")
	}
}

// WithStaticURL sets the static data host.
func WithStaticURL(u string) Option {
	return func(c *config) {
		c.staticURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) {
		c.http = h
	}
}

// WithRateLimit allows n requests per window, with bursts of up to burst. A
// non-positive n disables rate limiting.
func WithRateLimit(n int, window time.Duration, burst int) Option {
	return func(c *config) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, burst)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(window/time.Duration(n)), burst)
	}
}

// WithLimiter sets the rate limiter directly.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *config) {
		c.limiter = l
	}
}

// WithRetry sets the retry policy: at most retries retries, with exponential
// delays starting at initial.
func WithRetry(retries uint64, initial time.Duration) Option {
	return func(c *config) {
		c.maxRetries = retries
		c.initialDelay = initial
	}
}

// WithPUUIDCache caches summoner PUUID lookups.
func WithPUUIDCache(pc PUUIDCache) Option {
	return func(c *config) {
		c.cache = pc
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// Client is a Riot Games API client.
type Client struct {
	config
	apiKey string
}

// NewClient returns a client authenticated with the API key.
func NewClient(apiKey string, opts ...Option) *Client {
	return &Client{config: newConfig(opts), apiKey: apiKey}
}

// ApexLeague returns every entry in an apex tier: challenger, grandmaster, or
// master.
func (c *Client) ApexLeague(ctx context.Context, tier string) ([]LeagueEntry, error) {
	u := fmt.Sprintf("%s/lol/league/v4/%sleagues/by-queue/%s", c.platformURL, strings.ToLower(tier), queue)
	var l LeagueList
	if err := c.get(ctx, u, &l); err != nil {
		return nil, fmt.Errorf("get %s league: %w", tier, err)
	}
	return l.Entries, nil
}

// LeagueEntries returns one page of entries for a tier and division below the
// apex tiers. Pages start at 1. An empty page means there are no more.
func (c *Client) LeagueEntries(ctx context.Context, tier, division string, page int) ([]LeagueEntry, error) {
	u := fmt.Sprintf("%s/lol/league-exp/v4/entries/%s/%s/%s?page=%d",
		c.platformURL, queue, strings.ToUpper(tier), strings.ToUpper(division), page)

	var raw json.RawMessage
	if err := c.get(ctx, u, &raw); err != nil {
		return nil, fmt.Errorf("get %s %s page %d: %w", tier, division, page, err)
	}

	// Most responses are a bare array, but some are wrapped in a league list.
	var entries []LeagueEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}
	var l LeagueList
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("decode %s %s page %d: %w", tier, division, page, err)
	}
	return l.Entries, nil
}

// Summoner returns a summoner by summoner id.
func (c *Client) Summoner(ctx context.Context, id string) (*Summoner, error) {
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/%s", c.platformURL, url.PathEscape(id))
	s := &Summoner{}
	if err := c.get(ctx, u, s); err != nil {
		return nil, fmt.Errorf("get summoner %s: %w", id, err)
	}
	return s, nil
}

// PUUID resolves a ladder entry to a PUUID, looking up the summoner when the
// entry doesn't carry one. Lookups are cached if a cache is configured.
func (c *Client) PUUID(ctx context.Context, e LeagueEntry) (string, error) {
	if e.PUUID != "" {
		return e.PUUID, nil
	}
	if e.SummonerID == "" {
		return "", errors.New("league entry has neither a PUUID nor a summoner id")
	}

	if c.cache != nil {
		puuid, err := c.cache.GetPUUID(ctx, e.SummonerID)
		if err != nil {
			c.log.Warn("Cannot read PUUID cache", "summoner", e.SummonerID, "error", err)
		}
		if puuid != "" {
			return puuid, nil
		}
	}

	s, err := c.Summoner(ctx, e.SummonerID)
	if err != nil {
		return "", err
	}

	if c.cache != nil && s.PUUID != "" {
		if err := c.cache.SetPUUID(ctx, e.SummonerID, s.PUUID); err != nil {
			c.log.Warn("Cannot write PUUID cache", "summoner", e.SummonerID, "error", err)
		}
	}
	return s.PUUID, nil
}

// MatchIDs returns up to count ranked solo match ids for a player, newest
// first.
func (c *Client) MatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?type=ranked&start=%d&count=%d",
		c.regionURL, url.PathEscape(puuid), start, count)
	var ids []string
	if err := c.get(ctx, u, &ids); err != nil {
		return nil, fmt.Errorf("get match ids: %w", err)
	}
	return ids, nil
}

// Match returns a match document.
func (c *Client) Match(ctx context.Context, id string) (*MatchResponse, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionURL, url.PathEscape(id))
	m := &MatchResponse{}
	if err := c.get(ctx, u, m); err != nil {
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	return m, nil
}

func (c *Client) get(ctx context.Context, u string, into any) error {
	return c.config.get(ctx, u, c.apiKey, into)
}

// get fetches u and decodes the JSON body into into. Throttled and server
// error responses are retried with exponential backoff. Every attempt waits
// on the rate limiter.
func (c *config) get(ctx context.Context, u, apiKey string, into any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialDelay
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	attempt := 0
	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		body, err := c.do(ctx, u, apiKey)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, into); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
	notify := func(err error, d time.Duration) {
		c.log.Debug("Retrying request", "url", redact(u), "attempt", attempt, "delay", d, "error", err)
	}
	return backoff.RetryNotify(op, policy, notify)
}

// do makes one request. It returns a permanent error for responses that
// retrying cannot fix.
func (c *config) do(ctx context.Context, u, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	if apiKey != "" {
		req.Header.Set("X-Riot-Token", apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Nothing useful to do with error.

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(fmt.Errorf("%s: %w", resp.Status, ErrUnauthorized))
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(fmt.Errorf("%s: %w", resp.Status, ErrNotFound))
	case resp.StatusCode == http.StatusTooManyRequests:
		if err := sleep(ctx, retryAfter(resp.Header.Get("Retry-After"))); err != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, fmt.Errorf("throttled: %s", resp.Status)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("server error: %s", resp.Status)
	default:
		return nil, backoff.Permanent(fmt.Errorf("unexpected response: %s", resp.Status))
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h string) time.Duration {
	s, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || s <= 0 {
		return 0
	}
	return time.Duration(s) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// redact strips the query string for logging.
func redact(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// Package web serves counter pick recommendations over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/negz/counterpick/internal/cache"
	"github.com/negz/counterpick/internal/db"
	"github.com/negz/counterpick/internal/output"
	"github.com/negz/counterpick/internal/roles"
	"github.com/negz/counterpick/internal/strategy/profile"
	"github.com/negz/counterpick/internal/strategy/recommend"
)

//go:embed templates
var tmpls embed.FS

// Store is the set of queries needed by the web UI.
type Store interface {
	Snapshot() cache.Snapshot
	ListChampions(ctx context.Context, search string) ([]db.Champion, error)
}

// Server serves the counterpick web UI and JSON API.
type Server struct {
	store Store
	log   *slog.Logger
	home  *template.Template
}

// NewServer returns a new Server.
func NewServer(store Store, log *slog.Logger) *Server {
	return &Server{
		store: store,
		log:   log,
		home:  template.Must(template.New("home.html").Funcs(newTemplateFuncs()).ParseFS(tmpls, "templates/home.html")),
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /{$}", s.handleHome)

	mux.HandleFunc("GET /api/recommend", s.handleRecommend)
	mux.HandleFunc("GET /api/worst", s.handleWorst)
	mux.HandleFunc("GET /api/winrates", s.handleWinRates)
	mux.HandleFunc("GET /api/champions", s.handleChampions)
	mux.HandleFunc("GET /api/champions/{champion}", s.handleProfile)

	return mux
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps an http.Handler to log each request's method, path,
// status code, and duration.
func WithLogging(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request", "method", r.Method, "path", r.URL.RequestURI(), "status", rec.status, "duration", time.Since(start))
	})
}

// WithCacheControl wraps an http.Handler to set the Cache-Control header on
// every response.
func WithCacheControl(next http.Handler, value string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}

// Sync runs a data sync using the provided function, then repeats every
// interval. It blocks until the context is cancelled.
func Sync(ctx context.Context, syncFn func(context.Context) error, interval time.Duration, log *slog.Logger) {
	if err := syncFn(ctx); err != nil {
		log.Error("initial sync failed", "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := syncFn(ctx); err != nil {
				log.Error("periodic sync failed", "err", err)
			}
		}
	}
}

func newTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"winRate": output.FormatWinRate,
		"delta":   output.FormatDelta,
		"inc":     func(i int) int { return i + 1 },
		"join":    strings.Join,
	}
}

// query holds the parameters shared by every recommendation endpoint.
type query struct {
	Opponents []string
	Role      string
	opts      []recommend.Option
}

// parseQuery reads the vs, role, limit, and min_games query parameters.
// Opponents may be given as repeated vs parameters, comma separated, or both.
func parseQuery(r *http.Request, snap cache.Snapshot) (query, error) {
	q := r.URL.Query()

	var vs []string
	for _, v := range q["vs"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				vs = append(vs, c)
			}
		}
	}

	role := roles.NormalizeRole(q.Get("role"))
	out := query{
		Opponents: vs,
		Role:      role,
		opts:      []recommend.Option{recommend.WithRole(role), recommend.WithRoles(snap.Roles)},
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return query{}, errBadParam("limit")
		}
		out.opts = append(out.opts, recommend.WithLimit(n))
	}
	if v := q.Get("min_games"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return query{}, errBadParam("min_games")
		}
		out.opts = append(out.opts, recommend.WithMinGames(n))
	}
	return out, nil
}

type errBadParam string

func (e errBadParam) Error() string {
	return "invalid " + string(e) + " parameter"
}

// Home page.

type homeData struct {
	Vs     string
	Role   string
	Roles  []string
	Result *recommend.Result
	Error  string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	data := homeData{
		Vs:    r.URL.Query().Get("vs"),
		Role:  roles.NormalizeRole(r.URL.Query().Get("role")),
		Roles: []string{roles.Any, roles.Top, roles.Jungle, roles.Mid, roles.ADC, roles.Support},
	}

	if data.Vs != "" {
		q, err := parseQuery(r, snap)
		if err != nil {
			data.Error = err.Error()
		} else {
			data.Result = recommend.Recommend(snap.Matchups, q.Opponents, q.opts...)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.home.Execute(w, data); err != nil {
		s.log.Error("render template", "err", err)
	}
}

// JSON API.

// PickResponse is one ranked champion.
type PickResponse struct {
	Champion      string   `json:"champion"`
	Name          string   `json:"name"`
	Games         int      `json:"games"`
	Wins          int      `json:"wins"`
	WinRate       float64  `json:"winRate"`
	GlobalWinRate *float64 `json:"globalWinRate,omitempty"`
	Score         float64  `json:"score"`
}

// ResultResponse is the response to a recommend or worst query.
type ResultResponse struct {
	Opponents []string       `json:"opponents"`
	Unknown   []string       `json:"unknown,omitempty"`
	Role      string         `json:"role"`
	Picks     []PickResponse `json:"picks"`
}

// BaselineResponse is one champion's global win rate.
type BaselineResponse struct {
	Champion string  `json:"champion"`
	Name     string  `json:"name"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	WinRate  float64 `json:"winRate"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	s.handleRanked(w, r, recommend.Recommend)
}

func (s *Server) handleWorst(w http.ResponseWriter, r *http.Request) {
	s.handleRanked(w, r, recommend.Worst)
}

func (s *Server) handleRanked(w http.ResponseWriter, r *http.Request, rank func(recommend.Matchups, []string, ...recommend.Option) *recommend.Result) {
	snap := s.store.Snapshot()
	q, err := parseQuery(r, snap)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(q.Opponents) == 0 {
		s.writeError(w, http.StatusBadRequest, "at least one vs parameter is required")
		return
	}

	names := s.names(r.Context())
	result := rank(snap.Matchups, q.Opponents, q.opts...)

	resp := ResultResponse{
		Opponents: result.Opponents,
		Unknown:   result.Unknown,
		Role:      result.Role,
		Picks:     make([]PickResponse, 0, len(result.Picks)),
	}
	for _, p := range result.Picks {
		pr := PickResponse{
			Champion: p.Champion,
			Name:     output.ChampionName(names, p.Champion),
			Games:    p.Games,
			Wins:     p.Wins,
			WinRate:  p.WinRate,
			Score:    p.Score,
		}
		if p.HasGlobal {
			g := p.GlobalWinRate
			pr.GlobalWinRate = &g
		}
		resp.Picks = append(resp.Picks, pr)
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleWinRates(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	q, err := parseQuery(r, snap)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	names := s.names(r.Context())
	bs := recommend.GlobalWinRates(snap.Matchups, q.opts...)
	resp := make([]BaselineResponse, 0, len(bs))
	for _, b := range bs {
		resp = append(resp, BaselineResponse{
			Champion: b.Champion,
			Name:     output.ChampionName(names, b.Champion),
			Games:    b.Games,
			Wins:     b.Wins,
			WinRate:  b.WinRate,
		})
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleChampions(w http.ResponseWriter, r *http.Request) {
	cs, err := s.store.ListChampions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.log.Error("list champions", "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if cs == nil {
		cs = []db.Champion{}
	}
	s.writeJSON(w, cs)
}

// OpponentResponse is a champion's record against one opponent.
type OpponentResponse struct {
	Opponent string  `json:"opponent"`
	Name     string  `json:"name"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	WinRate  float64 `json:"winRate"`
	Delta    float64 `json:"delta"`
}

// ProfileResponse is one champion's record against every opponent.
type ProfileResponse struct {
	Champion      string             `json:"champion"`
	Name          string             `json:"name"`
	Roles         []string           `json:"roles"`
	Games         int                `json:"games"`
	Wins          int                `json:"wins"`
	GlobalWinRate *float64           `json:"globalWinRate,omitempty"`
	Strongest     []string           `json:"strongest"`
	Weakest       []string           `json:"weakest"`
	Opponents     []OpponentResponse `json:"opponents"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	opts := []profile.Option{profile.WithRoles(snap.Roles)}
	if v := r.URL.Query().Get("min_games"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, errBadParam("min_games").Error())
			return
		}
		opts = append(opts, profile.WithMinGames(n))
	}

	p, err := profile.Analyze(snap.Matchups, r.PathValue("champion"), opts...)
	if errors.Is(err, profile.ErrUnknownChampion) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.Error("analyze champion", "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	names := s.names(r.Context())
	resp := ProfileResponse{
		Champion:  p.Champion,
		Name:      output.ChampionName(names, p.Champion),
		Roles:     nonNil(p.Roles),
		Games:     p.Global.Games,
		Wins:      p.Global.Wins,
		Strongest: nonNil(p.Analysis.Strongest),
		Weakest:   nonNil(p.Analysis.Weakest),
		Opponents: make([]OpponentResponse, 0, len(p.Opponents)),
	}
	if p.HasGlobal {
		g := p.Global.WinRate()
		resp.GlobalWinRate = &g
	}
	for _, o := range p.Opponents {
		resp.Opponents = append(resp.Opponents, OpponentResponse{
			Opponent: o.Opponent,
			Name:     output.ChampionName(names, o.Opponent),
			Games:    o.Games,
			Wins:     o.Wins,
			WinRate:  o.WinRate,
			Delta:    o.Delta,
		})
	}
	s.writeJSON(w, resp)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// names returns champion display names keyed by ID. Failing to read them
// isn't fatal; responses fall back to IDs.
func (s *Server) names(ctx context.Context) map[string]string {
	cs, err := s.store.ListChampions(ctx, "")
	if err != nil {
		s.log.Warn("list champions", "err", err)
		return nil
	}
	return output.Names(cs)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: msg}); err != nil {
		s.log.Error("write response", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response", "err", err)
	}
}

// Package server exposes the win-probability API over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/lifecycle"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/prob"
	"github.com/yourusername/gridiron-edge/internal/ratings"
	"github.com/yourusername/gridiron-edge/internal/schedule"
	"github.com/yourusername/gridiron-edge/internal/tracing"
)

// Server serves the schedule, estimates, and live updates.
type Server struct {
	cfg        *config.Config
	logger     *logrus.Logger
	provider   *datasource.ProviderClient
	model      *ratings.Model
	controller *lifecycle.Controller
	hub        *Hub

	httpServer *http.Server

	mu       sync.RWMutex
	baseCtx  context.Context
	snapshot schedule.Snapshot
	// liveGames holds the latest polled state for today's games, keyed by
	// game key. Scores here supersede the snapshot's.
	liveGames map[string]models.Game
}

// New creates the API server. The schedule snapshot is loaded from disk at
// startup; an absent file yields an empty schedule, not an error.
func New(cfg *config.Config, provider *datasource.ProviderClient, model *ratings.Model, controller *lifecycle.Controller, logger *logrus.Logger) (*Server, error) {
	snap, err := schedule.Load(cfg.Server.ScheduleFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule snapshot: %w", err)
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		provider:   provider,
		model:      model,
		controller: controller,
		hub:        NewHub(logger),
		snapshot:   snap,
		liveGames:  make(map[string]models.Game),
	}, nil
}

// ReplaceSnapshot swaps in a freshly built schedule snapshot.
func (s *Server) ReplaceSnapshot(snap schedule.Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	s.logger.WithField("days", len(snap)).Info("Schedule snapshot replaced")
}

// lifecycleContext returns the context estimate subscriptions run under:
// the server's own lifetime, never a single request's.
func (s *Server) lifecycleContext() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.Background()
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/schedule", s.handleSchedule)
	mux.HandleFunc("/api/games", s.handleGames)
	mux.HandleFunc("/api/estimate", s.handleEstimate)
	mux.HandleFunc("/api/ratings", s.handleRatings)
	mux.HandleFunc("/api/verdict", s.handleVerdict)
	mux.HandleFunc("/ws", s.hub.HandleWS)
	if s.cfg.Metrics.Enabled {
		mux.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	handler := tracing.Middleware(tracing.Config{
		ServiceName: s.cfg.App.Name,
		Enabled:     s.cfg.Tracing.Enabled,
		DaemonAddr:  s.cfg.Tracing.DaemonAddr,
	}, mux)

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.WithField("address", s.cfg.Server.Address).Info("API server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// PollLiveScores refreshes today's games from the provider and broadcasts
// score changes. Safe to run on a cron cadence; failures are returned for
// the scheduler to log.
func (s *Server) PollLiveScores(ctx context.Context) error {
	today := time.Now()
	records, err := s.provider.GamesForDate(ctx, today)
	if err != nil {
		return fmt.Errorf("live score fetch failed: %w", err)
	}

	updated := make([]models.Game, 0, len(records))
	s.mu.Lock()
	for i := range records {
		game := schedule.NormalizeRecord(&records[i], today)
		if game.Home == "" || game.Away == "" {
			continue
		}
		key := game.Key()
		prev, seen := s.liveGames[key]
		if !seen || !sameGameState(prev, game) {
			s.liveGames[key] = game
			updated = append(updated, game)
		}
	}
	s.mu.Unlock()

	for _, game := range updated {
		s.hub.Broadcast(map[string]interface{}{
			"type": "score",
			"game": game,
		})
	}
	return nil
}

func sameGameState(a, b models.Game) bool {
	return a.Status == b.Status &&
		equalScore(a.HomeScore, b.HomeScore) &&
		equalScore(a.AwayScore, b.AwayScore)
}

func equalScore(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// handleSchedule returns the full date-keyed snapshot.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	s.writeJSON(w, http.StatusOK, snap)
}

// handleGames returns one day's games with any live scores merged in.
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		s.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	s.mu.RLock()
	games := s.snapshot.GamesOn(date)
	for i := range games {
		if live, ok := s.liveGames[games[i].Key()]; ok {
			games[i].Status = live.Status
			games[i].HomeScore = live.HomeScore
			games[i].AwayScore = live.AwayScore
		}
	}
	s.mu.RUnlock()

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  date,
		"games": games,
	})
}

// estimateResponse is the payload for estimate requests and websocket pushes.
type estimateResponse struct {
	GameKey  string                     `json:"gameKey"`
	State    string                     `json:"state"`
	FreezeAt string                     `json:"freezeAt"`
	Estimate models.ProbabilityEstimate `json:"estimate"`
}

// handleEstimate selects a game, starting its estimate lifecycle, and
// returns the current value. Subsequent refreshes for the selected game
// arrive over the websocket.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	game, ok := s.findGame(w, r)
	if !ok {
		return
	}

	first := make(chan lifecycle.Update, 1)
	var once sync.Once
	// Subscriptions must outlive the request: the refresh ticker and the
	// freeze timer keep running after this handler returns, pushing later
	// updates over the websocket. Selection changes cancel the previous
	// subscription; the request context must not.
	s.controller.Select(s.lifecycleContext(), game, func(u lifecycle.Update) {
		once.Do(func() { first <- u })
		s.hub.Broadcast(estimateResponse{
			GameKey:  u.GameKey,
			State:    u.State.String(),
			FreezeAt: s.controller.FreezeInstant(game).Format(time.RFC3339),
			Estimate: u.Estimate,
		})
	})

	select {
	case u := <-first:
		s.writeJSON(w, http.StatusOK, estimateResponse{
			GameKey:  u.GameKey,
			State:    u.State.String(),
			FreezeAt: s.controller.FreezeInstant(game).Format(time.RFC3339),
			Estimate: u.Estimate,
		})
	case <-time.After(25 * time.Second):
		s.writeError(w, http.StatusGatewayTimeout, "estimate computation timed out")
	case <-r.Context().Done():
	}
}

// handleRatings returns the fitted rating set for a season.
func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	seasonStr := r.URL.Query().Get("season")
	if seasonStr == "" {
		seasonStr = strconv.Itoa(s.cfg.Schedule.Season)
	}
	season, err := strconv.Atoi(seasonStr)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "season must be an integer year")
		return
	}
	force := r.URL.Query().Get("refresh") == "true"

	ctx, seg := tracing.StartSubsegment(r.Context(), "season-ratings")
	tracing.AddAnnotation(ctx, "season", season)
	set, err := s.model.SeasonRatings(ctx, season, force)
	tracing.CloseSubsegment(seg, err)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"season":     set.Season,
		"hfa":        set.HFA,
		"sigma":      set.Sigma,
		"games":      set.Games,
		"offense":    set.Offense,
		"defense":    set.Defense,
		"provenance": set.Provenance(),
	})
}

// handleVerdict grades the stored estimate for a final game.
func (s *Server) handleVerdict(w http.ResponseWriter, r *http.Request) {
	game, ok := s.findGame(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	if live, exists := s.liveGames[game.Key()]; exists {
		game.Status = live.Status
		game.HomeScore = live.HomeScore
		game.AwayScore = live.AwayScore
	}
	s.mu.RUnlock()

	est, _, found := s.controller.Current(game.Key())
	var estPtr *models.ProbabilityEstimate
	if found {
		estPtr = &est
	}

	verdict := prob.Verdict(game, estPtr)
	if verdict == nil {
		s.writeError(w, http.StatusConflict, "game is not final")
		return
	}
	s.writeJSON(w, http.StatusOK, verdict)
}

// findGame resolves date/home/away query params to a snapshot game.
func (s *Server) findGame(w http.ResponseWriter, r *http.Request) (models.Game, bool) {
	q := r.URL.Query()
	date := q.Get("date")
	home := models.CanonicalAbbr(q.Get("home"))
	away := models.CanonicalAbbr(q.Get("away"))
	if date == "" || home == "" || away == "" {
		s.writeError(w, http.StatusBadRequest, "date, home and away are required")
		return models.Game{}, false
	}

	s.mu.RLock()
	games := s.snapshot.GamesOn(date)
	s.mu.RUnlock()

	for _, g := range games {
		if g.Home == home && g.Away == away {
			return g, true
		}
	}
	s.writeError(w, http.StatusNotFound, fmt.Sprintf("no game %s@%s on %s", away, home, date))
	return models.Game{}, false
}

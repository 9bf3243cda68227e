// Package finals retrieves and caches the set of completed games per season.
package finals

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/directory"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const cacheName = "finals"

// SeasonGamesFetcher fetches one team's full game list for a season.
type SeasonGamesFetcher interface {
	TeamSeasonGames(ctx context.Context, teamID string, season int) ([]datasource.GameRecord, error)
}

// Repository retrieves and caches the set of completed games per season.
// Empty results are never cached: a season with zero finals is far more
// likely a transient fetch failure than a true absence, so the next call
// re-attempts the full fetch.
type Repository struct {
	provider  SeasonGamesFetcher
	directory *directory.TeamDirectory
	cache     *cache.Cache
	logger    *logrus.Logger
}

// NewRepository creates a new finals repository with its own season cache.
func NewRepository(provider SeasonGamesFetcher, dir *directory.TeamDirectory, ttl time.Duration, logger *logrus.Logger) *Repository {
	return &Repository{
		provider:  provider,
		directory: dir,
		cache:     cache.New(ttl, ttl*2),
		logger:    logger,
	}
}

// SeasonFinals returns every completed game for a season, deduplicated by
// game key. force bypasses the cache unconditionally. Individual team fetch
// failures are swallowed; the result is simply missing that team's subset.
func (r *Repository) SeasonFinals(ctx context.Context, season int, force bool) ([]models.FinalGame, error) {
	key := strconv.Itoa(season)

	if !force {
		if cached, found := r.cache.Get(key); found {
			metrics.RecordCacheHit(cacheName)
			return cached.([]models.FinalGame), nil
		}
	}
	metrics.RecordCacheMiss(cacheName)

	teams, err := r.directory.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve teams for season %d: %w", season, err)
	}

	start := time.Now()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		merged   = make(map[string]models.FinalGame)
		failures int
	)

	for abbr, id := range teams {
		wg.Add(1)
		go func(abbr, id string) {
			defer wg.Done()

			records, err := r.provider.TeamSeasonGames(ctx, id, season)
			if err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				metrics.RecordTeamFetchFailure()
				r.logger.WithError(err).WithFields(logrus.Fields{
					"team":   abbr,
					"season": season,
				}).Warn("Team season fetch failed, excluding from aggregate")
				return
			}

			mu.Lock()
			for i := range records {
				if game, ok := toFinalGame(&records[i]); ok {
					merged[game.Key] = game
				}
			}
			mu.Unlock()
		}(abbr, id)
	}
	wg.Wait()

	metrics.RecordSeasonFetch(time.Since(start).Seconds())

	games := make([]models.FinalGame, 0, len(merged))
	for _, g := range merged {
		games = append(games, g)
	}

	r.logger.WithFields(logrus.Fields{
		"season":   season,
		"finals":   len(games),
		"failures": failures,
	}).Info("Season finals fetched")

	if len(games) > 0 {
		r.cache.Set(key, games, cache.DefaultExpiration)
	}

	return games, nil
}

// toFinalGame converts a provider record into a FinalGame. A record
// qualifies only when both teams resolve and both final scores are numeric;
// a final-looking status alone is not enough to construct one.
func toFinalGame(rec *datasource.GameRecord) (models.FinalGame, bool) {
	homePts, homeOK := rec.HomePoints()
	awayPts, awayOK := rec.AwayPoints()
	if !homeOK || !awayOK {
		return models.FinalGame{}, false
	}

	home := models.CanonicalAbbr(rec.HomeAbbr())
	away := models.CanonicalAbbr(rec.AwayAbbr())
	if home == "" || away == "" {
		return models.FinalGame{}, false
	}

	week := math.NaN()
	if w, ok := rec.WeekNumber(); ok {
		week = w
	}

	id := rec.ID.String()
	if id == "" {
		id = rec.Date
	}

	return models.FinalGame{
		Key:     fmt.Sprintf("%s|%s@%s", id, away, home),
		Home:    home,
		Away:    away,
		HomePts: homePts,
		AwayPts: awayPts,
		Week:    week,
	}, true
}

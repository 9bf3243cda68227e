package ratings

import (
	"context"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const cacheName = "ratings"

// FinalsSource provides the completed games a season's fit trains on.
type FinalsSource interface {
	SeasonFinals(ctx context.Context, season int, force bool) ([]models.FinalGame, error)
}

// Prediction is the model's probability for one matchup with its
// provenance note.
type Prediction struct {
	PHome float64
	Note  string
}

// Model fits and caches season rating sets. Concurrent requests for the same
// uncomputed season share a single in-flight fit via singleflight, so a
// burst of callers never triggers duplicate gradient descents.
type Model struct {
	finals FinalsSource
	params Hyperparameters
	cache  *cache.Cache
	group  singleflight.Group
	logger *logrus.Logger
}

// NewModel creates a new rating model with its own season cache.
func NewModel(finals FinalsSource, params Hyperparameters, ttl time.Duration, logger *logrus.Logger) *Model {
	return &Model{
		finals: finals,
		params: params,
		cache:  cache.New(ttl, ttl*2),
		logger: logger,
	}
}

// SeasonRatings returns the fitted rating set for a season. A season with
// zero finals yields a neutral set that is never cached, so a later call
// re-attempts the fetch and fit. force bypasses the cache.
func (m *Model) SeasonRatings(ctx context.Context, season int, force bool) (*models.RatingSet, error) {
	key := strconv.Itoa(season)

	if !force {
		if cached, found := m.cache.Get(key); found {
			metrics.RecordCacheHit(cacheName)
			return cached.(*models.RatingSet), nil
		}
	}
	metrics.RecordCacheMiss(cacheName)

	result, err, _ := m.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have just
		// populated the cache.
		if !force {
			if cached, found := m.cache.Get(key); found {
				return cached, nil
			}
		}

		games, err := m.finals.SeasonFinals(ctx, season, force)
		if err != nil {
			return nil, err
		}

		if len(games) == 0 {
			m.logger.WithField("season", season).Warn("No finals available, returning neutral ratings")
			return m.params.Neutral(season), nil
		}

		start := time.Now()
		rs := Fit(season, games, m.params)
		metrics.RecordRatingFit(time.Since(start).Seconds())

		m.logger.WithFields(logrus.Fields{
			"season": season,
			"games":  rs.Games,
			"hfa":    rs.HFA,
			"sigma":  rs.Sigma,
		}).Info("Season ratings fitted")

		m.cache.Set(key, rs, cache.DefaultExpiration)
		return rs, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.RatingSet), nil
}

// Predict estimates the home win probability for one matchup. Teams absent
// from the season's rating set are treated as exactly league average. If the
// first rating fetch trained on zero games, one forced refresh is attempted
// before giving up, which covers a stale empty-cache race.
func (m *Model) Predict(ctx context.Context, season int, homeAbbr, awayAbbr string) (*Prediction, error) {
	rs, err := m.SeasonRatings(ctx, season, false)
	if err != nil {
		return nil, err
	}
	if rs.Games == 0 {
		rs, err = m.SeasonRatings(ctx, season, true)
		if err != nil {
			return nil, err
		}
	}

	home := models.CanonicalAbbr(homeAbbr)
	away := models.CanonicalAbbr(awayAbbr)

	margin := (rs.OffenseFor(home) - rs.DefenseFor(away)) -
		(rs.OffenseFor(away) - rs.DefenseFor(home)) + rs.HFA

	sigma := rs.Sigma
	if sigma <= 0 {
		sigma = m.params.DefaultSigma
	}

	return &Prediction{
		PHome: WinProbability(margin, sigma),
		Note:  rs.Provenance(),
	}, nil
}

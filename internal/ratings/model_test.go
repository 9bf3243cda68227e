package ratings

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

type fakeFinalsSource struct {
	mu    sync.Mutex
	games []models.FinalGame
	err   error
	calls int
}

func (f *fakeFinalsSource) SeasonFinals(ctx context.Context, season int, force bool) ([]models.FinalGame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.games, f.err
}

func (f *fakeFinalsSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// TestSeasonRatingsCaches tests that a successful fit is served from cache
func TestSeasonRatingsCaches(t *testing.T) {
	source := &fakeFinalsSource{games: sampleSeason()}
	model := NewModel(source, DefaultHyperparameters(), time.Hour, testLogger())

	first, err := model.SeasonRatings(context.Background(), 2025, false)
	require.NoError(t, err)
	second, err := model.SeasonRatings(context.Background(), 2025, false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, source.callCount())
}

// TestSeasonRatingsEmptyNotCached tests that a neutral set never pollutes the cache
func TestSeasonRatingsEmptyNotCached(t *testing.T) {
	source := &fakeFinalsSource{}
	model := NewModel(source, DefaultHyperparameters(), time.Hour, testLogger())

	rs, err := model.SeasonRatings(context.Background(), 2025, false)
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Games)

	// Finals arrive; the next call must refetch rather than serve the
	// stale neutral set.
	source.mu.Lock()
	source.games = sampleSeason()
	source.mu.Unlock()

	rs, err = model.SeasonRatings(context.Background(), 2025, false)
	require.NoError(t, err)
	assert.Equal(t, 8, rs.Games)
}

// TestSeasonRatingsForce tests cache bypass
func TestSeasonRatingsForce(t *testing.T) {
	source := &fakeFinalsSource{games: sampleSeason()}
	model := NewModel(source, DefaultHyperparameters(), time.Hour, testLogger())

	_, err := model.SeasonRatings(context.Background(), 2025, false)
	require.NoError(t, err)
	_, err = model.SeasonRatings(context.Background(), 2025, true)
	require.NoError(t, err)

	assert.Equal(t, 2, source.callCount())
}

// TestSeasonRatingsError tests error propagation from the finals source
func TestSeasonRatingsError(t *testing.T) {
	source := &fakeFinalsSource{err: errors.New("provider down")}
	model := NewModel(source, DefaultHyperparameters(), time.Hour, testLogger())

	_, err := model.SeasonRatings(context.Background(), 2025, false)
	assert.Error(t, err)
}

// TestSeasonRatingsSingleFlight tests in-flight deduplication of fits
func TestSeasonRatingsSingleFlight(t *testing.T) {
	source := &fakeFinalsSource{games: sampleSeason()}
	model := NewModel(source, DefaultHyperparameters(), time.Hour, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := model.SeasonRatings(context.Background(), 2025, false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Concurrent callers share one flight; a straggler may still miss the
	// cache and start a second, but never one per caller.
	assert.LessOrEqual(t, source.callCount(), 2)
}

// TestPredictUnseenTeams tests that unknown teams predict as league average
func TestPredictUnseenTeams(t *testing.T) {
	source := &fakeFinalsSource{games: sampleSeason()}
	model := NewModel(source, DefaultHyperparameters(), time.Hour, testLogger())

	pred, err := model.Predict(context.Background(), 2025, "SEA", "DEN")
	require.NoError(t, err)

	// Two average teams differ only by home-field advantage.
	rs, err := model.SeasonRatings(context.Background(), 2025, false)
	require.NoError(t, err)
	assert.InDelta(t, WinProbability(rs.HFA, rs.Sigma), pred.PHome, 1e-9)
	assert.NotEmpty(t, pred.Note)
}

// TestPredictHomeEdge tests that the stronger home side is favored
func TestPredictHomeEdge(t *testing.T) {
	source := &fakeFinalsSource{games: sampleSeason()}
	model := NewModel(source, DefaultHyperparameters(), time.Hour, testLogger())

	pred, err := model.Predict(context.Background(), 2025, "KC", "NE")
	require.NoError(t, err)
	assert.Greater(t, pred.PHome, 0.5)

	reverse, err := model.Predict(context.Background(), 2025, "NE", "KC")
	require.NoError(t, err)
	assert.Less(t, reverse.PHome, pred.PHome)
}

package directory

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

type fakeTeamLister struct {
	teams []models.Team
	err   error
	calls int
}

func (f *fakeTeamLister) ListTeams(ctx context.Context) ([]models.Team, error) {
	f.calls++
	return f.teams, f.err
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// TestResolveMemoizesSuccess tests that a successful load is fetched once
func TestResolveMemoizesSuccess(t *testing.T) {
	lister := &fakeTeamLister{teams: []models.Team{
		{ID: "1", Abbr: "KC"},
		{ID: "2", Abbr: "BUF"},
	}}
	dir := NewTeamDirectory(lister, testLogger())

	id, err := dir.Resolve(context.Background(), "KC")
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	id, err = dir.Resolve(context.Background(), "BUF")
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	assert.Equal(t, 1, lister.calls)
}

// TestResolveNeverMemoizesFailure tests retry-on-next-call after a failed load
func TestResolveNeverMemoizesFailure(t *testing.T) {
	lister := &fakeTeamLister{err: errors.New("provider down")}
	dir := NewTeamDirectory(lister, testLogger())

	_, err := dir.Resolve(context.Background(), "KC")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDirectoryUnavailable)

	// Provider recovers; the next call must refetch.
	lister.err = nil
	lister.teams = []models.Team{{ID: "1", Abbr: "KC"}}

	id, err := dir.Resolve(context.Background(), "KC")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, 2, lister.calls)
}

// TestResolveEmptyListIsUnavailable tests that zero teams is a load failure
func TestResolveEmptyListIsUnavailable(t *testing.T) {
	lister := &fakeTeamLister{}
	dir := NewTeamDirectory(lister, testLogger())

	_, err := dir.Resolve(context.Background(), "KC")
	assert.ErrorIs(t, err, models.ErrDirectoryUnavailable)
}

// TestResolveLegacyAlias tests lookup through the alias table
func TestResolveLegacyAlias(t *testing.T) {
	lister := &fakeTeamLister{teams: []models.Team{
		{ID: "9", Abbr: "WSH"},
	}}
	dir := NewTeamDirectory(lister, testLogger())

	// Provider reports WSH; a lookup under the legacy WAS must land on it.
	id, err := dir.Resolve(context.Background(), "WAS")
	require.NoError(t, err)
	assert.Equal(t, "9", id)
}

// TestResolveUnknownTeam tests the error for an unmapped abbreviation
func TestResolveUnknownTeam(t *testing.T) {
	lister := &fakeTeamLister{teams: []models.Team{{ID: "1", Abbr: "KC"}}}
	dir := NewTeamDirectory(lister, testLogger())

	_, err := dir.Resolve(context.Background(), "XYZ")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrDirectoryUnavailable)
}

// TestAll tests the defensive copy of the full mapping
func TestAll(t *testing.T) {
	lister := &fakeTeamLister{teams: []models.Team{
		{ID: "1", Abbr: "KC"},
		{ID: "2", Abbr: "BUF"},
	}}
	dir := NewTeamDirectory(lister, testLogger())

	all, err := dir.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Mutating the returned map must not affect the directory.
	delete(all, "KC")
	id, err := dir.Resolve(context.Background(), "KC")
	require.NoError(t, err)
	assert.Equal(t, "1", id)
}

// TestInvalidate tests that invalidation forces a refetch
func TestInvalidate(t *testing.T) {
	lister := &fakeTeamLister{teams: []models.Team{{ID: "1", Abbr: "KC"}}}
	dir := NewTeamDirectory(lister, testLogger())

	_, err := dir.Resolve(context.Background(), "KC")
	require.NoError(t, err)

	dir.Invalidate()
	_, err = dir.Resolve(context.Background(), "KC")
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}

// TestCheck tests the readiness probe hook
func TestCheck(t *testing.T) {
	lister := &fakeTeamLister{teams: []models.Team{{ID: "1", Abbr: "KC"}}}
	dir := NewTeamDirectory(lister, testLogger())

	assert.NoError(t, dir.Check(context.Background()))

	failing := NewTeamDirectory(&fakeTeamLister{err: errors.New("down")}, testLogger())
	assert.Error(t, failing.Check(context.Background()))
}

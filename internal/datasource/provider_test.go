package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/config"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestProvider(t *testing.T, handler http.Handler, apiKey string) (*ProviderClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.MaxRetries = 0
	httpCfg.RateLimit = 1000
	client := NewRateLimitedHTTPClient(httpCfg, testLogger())
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{}
	cfg.Provider.BaseURL = srv.URL
	cfg.Provider.APIKey = apiKey
	cfg.Provider.PerPage = 100
	cfg.Provider.MaxPagesPerTeam = 8
	cfg.Odds.Sport = "nfl"

	return NewProviderClient(cfg, client, testLogger()), srv
}

// TestListTeams tests team list decoding and filtering
func TestListTeams(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams", r.URL.Path)
		fmt.Fprint(w, `{"data": [
			{"id": 1, "abbreviation": "KC", "full_name": "Kansas City Chiefs"},
			{"id": 2, "abbreviation": "BUF", "name": "Bills"},
			{"id": 3, "abbreviation": ""}
		]}`)
	})
	provider, _ := newTestProvider(t, handler, "")

	teams, err := provider.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "1", teams[0].ID)
	assert.Equal(t, "Kansas City Chiefs", teams[0].Name)
	assert.Equal(t, "Bills", teams[1].Name)
}

// TestAuthorizationHeader tests that the credential rides every request
func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"data": []}`)
	})
	provider, _ := newTestProvider(t, handler, "test-key")

	_, err := provider.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotAuth)
}

// TestTeamSeasonGamesFollowsCursor tests cursor pagination
func TestTeamSeasonGamesFollowsCursor(t *testing.T) {
	var requests []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		cursor := r.URL.Query().Get("cursor")
		switch cursor {
		case "":
			fmt.Fprint(w, `{"data": [{"id": 1, "home": "KC", "away": "BUF"}], "meta": {"next_cursor": 25}}`)
		case "25":
			fmt.Fprint(w, `{"data": [{"id": 2, "home": "KC", "away": "DEN"}], "meta": {}}`)
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	})
	provider, _ := newTestProvider(t, handler, "")

	games, err := provider.TeamSeasonGames(context.Background(), "7", 2025)
	require.NoError(t, err)
	assert.Len(t, games, 2)
	assert.Len(t, requests, 2)
}

// TestTeamSeasonGamesPageGuard tests the runaway-cursor guard
func TestTeamSeasonGamesPageGuard(t *testing.T) {
	var pages int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		// Always hand back another cursor.
		fmt.Fprintf(w, `{"data": [{"id": %d, "home": "KC", "away": "BUF"}], "meta": {"next_cursor": %d}}`, pages, pages)
	})
	provider, _ := newTestProvider(t, handler, "")

	games, err := provider.TeamSeasonGames(context.Background(), "7", 2025)
	require.NoError(t, err)
	assert.Equal(t, 8, pages)
	assert.Len(t, games, 8)
}

// TestGamesForDate tests the date query shape
func TestGamesForDate(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "2025-09-07", r.URL.Query().Get("dates[]"))
		fmt.Fprint(w, `{"data": [{"id": 1, "home": "KC", "away": "BUF", "date": "2025-09-07T17:00:00Z"}]}`)
	})
	provider, _ := newTestProvider(t, handler, "")

	games, err := provider.GamesForDate(context.Background(), time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "KC", games[0].HomeAbbr())
}

// TestOddsForDateRawRows tests that odds rows stay undecoded
func TestOddsForDateRawRows(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/odds", r.URL.Path)
		assert.Equal(t, "nfl", r.URL.Query().Get("sport"))
		fmt.Fprint(w, `{"data": [{"home": "KC", "away": "BUF", "ml_home": -150, "ml_away": 130}]}`)
	})
	provider, _ := newTestProvider(t, handler, "key")

	rows, err := provider.OddsForDate(context.Background(), "2025-09-07")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, json.Valid(rows[0]))
}

// TestGetJSONErrorStatus tests non-200 handling
func TestGetJSONErrorStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})
	provider, _ := newTestProvider(t, handler, "")

	_, err := provider.ListTeams(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// ProviderClient is the REST client for the sports data provider (team list,
// per-team season games, day games, moneyline odds).
type ProviderClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	perPage    int
	maxPages   int
	oddsSport  string
	logger     *logrus.Logger
}

// NewProviderClient creates a new provider client
func NewProviderClient(cfg *config.Config, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *ProviderClient {
	return &ProviderClient{
		httpClient: httpClient,
		baseURL:    cfg.Provider.BaseURL,
		apiKey:     cfg.Provider.APIKey,
		perPage:    cfg.Provider.PerPage,
		maxPages:   cfg.Provider.MaxPagesPerTeam,
		oddsSport:  cfg.OddsSport(),
		logger:     logger,
	}
}

// HasCredential reports whether an API credential is configured. Market data
// requires one; schedule and score data degrade to unauthenticated access.
func (c *ProviderClient) HasCredential() bool {
	return c.apiKey != ""
}

func (c *ProviderClient) getJSON(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderRequest(endpoint, fmt.Sprintf("http_%d", resp.StatusCode))
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordProviderRequest(endpoint, "decode_error")
		return fmt.Errorf("failed to decode response: %w", err)
	}

	metrics.RecordProviderRequest(endpoint, "ok")
	return nil
}

// ListTeams fetches the full league team list.
func (c *ProviderClient) ListTeams(ctx context.Context) ([]models.Team, error) {
	var envelope listResponse[struct {
		ID           json.Number `json:"id"`
		Abbreviation string      `json:"abbreviation"`
		FullName     string      `json:"full_name"`
		Name         string      `json:"name"`
	}]

	query := url.Values{}
	query.Set("per_page", fmt.Sprintf("%d", c.perPage))

	if err := c.getJSON(ctx, "/teams", query, &envelope); err != nil {
		return nil, err
	}

	teams := make([]models.Team, 0, len(envelope.Data))
	for _, t := range envelope.Data {
		if t.Abbreviation == "" || t.ID.String() == "" {
			continue
		}
		name := t.FullName
		if name == "" {
			name = t.Name
		}
		teams = append(teams, models.Team{
			ID:   t.ID.String(),
			Abbr: t.Abbreviation,
			Name: name,
		})
	}

	return teams, nil
}

// TeamSeasonGames fetches every game for one team in one season, following
// the cursor until exhausted or the per-team page guard trips.
func (c *ProviderClient) TeamSeasonGames(ctx context.Context, teamID string, season int) ([]GameRecord, error) {
	var (
		out    []GameRecord
		cursor *json.Number
	)

	for page := 0; ; page++ {
		if page >= c.maxPages {
			c.logger.WithFields(logrus.Fields{
				"team_id": teamID,
				"season":  season,
				"pages":   page,
			}).Warn("Pagination guard tripped for team season games")
			break
		}

		query := url.Values{}
		query.Add("seasons[]", fmt.Sprintf("%d", season))
		query.Add("team_ids[]", teamID)
		query.Set("per_page", fmt.Sprintf("%d", c.perPage))
		if cursor != nil {
			query.Set("cursor", cursor.String())
		}

		var envelope listResponse[GameRecord]
		if err := c.getJSON(ctx, "/games", query, &envelope); err != nil {
			return out, err
		}

		out = append(out, envelope.Data...)
		if envelope.Meta.NextCursor == nil {
			break
		}
		cursor = envelope.Meta.NextCursor
	}

	return out, nil
}

// GamesForDate fetches all games scheduled on one calendar date.
func (c *ProviderClient) GamesForDate(ctx context.Context, date time.Time) ([]GameRecord, error) {
	query := url.Values{}
	query.Add("dates[]", date.Format("2006-01-02"))
	query.Set("per_page", fmt.Sprintf("%d", c.perPage))

	var envelope listResponse[GameRecord]
	if err := c.getJSON(ctx, "/games", query, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// OddsForDate fetches the raw odds rows for one date. Rows are returned
// undecoded; the market adapter owns the shape guessing.
func (c *ProviderClient) OddsForDate(ctx context.Context, dateISO string) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("date", dateISO)
	query.Set("sport", c.oddsSport)
	query.Set("per_page", fmt.Sprintf("%d", c.perPage))

	var envelope listResponse[json.RawMessage]
	if err := c.getJSON(ctx, "/odds", query, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

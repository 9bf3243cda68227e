package market

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// OddsFetcher fetches raw odds rows for one date.
type OddsFetcher interface {
	OddsForDate(ctx context.Context, dateISO string) ([]json.RawMessage, error)
	HasCredential() bool
}

// Adapter fetches and normalizes moneyline odds for specific matchups.
// Absence of market data is an expected condition, never an error: a nil
// quote means "no market", and the caller falls back accordingly.
type Adapter struct {
	provider OddsFetcher
	parsers  []quoteParser
	logger   *logrus.Logger
}

// NewAdapter creates a new market odds adapter
func NewAdapter(provider OddsFetcher, logger *logrus.Logger) *Adapter {
	return &Adapter{
		provider: provider,
		parsers:  defaultParsers(),
		logger:   logger,
	}
}

// matchRow is the slice of an odds row needed to match it to a matchup.
type matchRow struct {
	HomeTeam *struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"home_team"`
	VisitorTeam *struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"visitor_team"`
	Home string `json:"home"`
	Away string `json:"away"`
}

func (r *matchRow) homeAbbr() string {
	if r.HomeTeam != nil && r.HomeTeam.Abbreviation != "" {
		return r.HomeTeam.Abbreviation
	}
	return r.Home
}

func (r *matchRow) awayAbbr() string {
	if r.VisitorTeam != nil && r.VisitorTeam.Abbreviation != "" {
		return r.VisitorTeam.Abbreviation
	}
	return r.Away
}

// Moneylines returns the moneyline pair for one matchup on one date, or nil
// when no credential is configured, the fetch fails, or no parser strategy
// recognizes the row.
func (a *Adapter) Moneylines(ctx context.Context, dateISO, homeAbbr, awayAbbr string) *models.MarketQuote {
	if !a.provider.HasCredential() {
		return nil
	}

	rows, err := a.provider.OddsForDate(ctx, dateISO)
	if err != nil {
		a.logger.WithError(err).WithField("date", dateISO).Debug("Odds fetch failed, treating market as absent")
		return nil
	}

	home := models.CanonicalAbbr(homeAbbr)
	away := models.CanonicalAbbr(awayAbbr)

	for _, raw := range rows {
		var match matchRow
		if err := json.Unmarshal(raw, &match); err != nil {
			continue
		}
		if models.CanonicalAbbr(match.homeAbbr()) != home ||
			models.CanonicalAbbr(match.awayAbbr()) != away {
			continue
		}

		for _, parse := range a.parsers {
			if quote := parse(raw); quote != nil {
				return quote
			}
		}
	}

	return nil
}

// ImpliedHomeProbability converts a quote into a de-vigged home win
// probability.
func ImpliedHomeProbability(q *models.MarketQuote) (float64, bool) {
	if q == nil {
		return 0, false
	}
	pHome, okHome := ImpliedProbability(q.MLHome)
	pAway, okAway := ImpliedProbability(q.MLAway)
	if !okHome || !okAway {
		return 0, false
	}
	return Devig(pHome, pAway)
}

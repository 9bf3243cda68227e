// Package prob combines model and market win probabilities into a final
// estimate with a documented fallback ladder.
package prob

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/ratings"
)

// ModelPredictor provides the season model's probability for a matchup.
type ModelPredictor interface {
	Predict(ctx context.Context, season int, homeAbbr, awayAbbr string) (*ratings.Prediction, error)
}

// MarketSource provides moneyline quotes for a matchup.
type MarketSource interface {
	Moneylines(ctx context.Context, dateISO, homeAbbr, awayAbbr string) *models.MarketQuote
}

// Blender produces the final win-probability estimate. The fallback ladder,
// in order: blend of market and model, market alone, model alone, and a
// home-field-advantage-only logistic fallback.
type Blender struct {
	model        ModelPredictor
	market       MarketSource
	marketWeight float64
	defaultHFA   float64
	defaultSigma float64
	logger       *logrus.Logger
}

// NewBlender creates a new probability blender
func NewBlender(model ModelPredictor, marketSrc MarketSource, marketWeight, defaultHFA, defaultSigma float64, logger *logrus.Logger) *Blender {
	if marketWeight <= 0 || marketWeight > 1 {
		marketWeight = 0.70
	}
	return &Blender{
		model:        model,
		market:       marketSrc,
		marketWeight: marketWeight,
		defaultHFA:   defaultHFA,
		defaultSigma: defaultSigma,
		logger:       logger,
	}
}

// Estimate computes the win probability for one game. It never fails: every
// data-source absence degrades one rung down the ladder.
func (b *Blender) Estimate(ctx context.Context, game models.Game) models.ProbabilityEstimate {
	season := game.Kickoff.Year()
	dateISO := game.Kickoff.Format("2006-01-02")
	home := models.CanonicalAbbr(game.Home)
	away := models.CanonicalAbbr(game.Away)

	var (
		pModel   float64
		hasModel bool
		note     string
	)
	pred, err := b.model.Predict(ctx, season, home, away)
	if err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"home": home, "away": away, "season": season,
		}).Warn("Model prediction unavailable")
	} else {
		pModel = pred.PHome
		note = pred.Note
		hasModel = true
	}

	quote := b.market.Moneylines(ctx, dateISO, home, away)
	pMarket, hasMarket := market.ImpliedHomeProbability(quote)

	var (
		pHome float64
		basis string
	)
	switch {
	case hasMarket && hasModel:
		pHome = b.marketWeight*pMarket + (1-b.marketWeight)*pModel
		note = fmt.Sprintf("Blended (%.0f%% market) - %s", b.marketWeight*100, note)
		basis = models.BasisBlend
	case hasMarket:
		pHome = pMarket
		note = "Based on moneylines (de-vigged)"
		basis = models.BasisMarket
	case hasModel:
		pHome = pModel
		basis = models.BasisModel
	default:
		pHome = ratings.WinProbability(b.defaultHFA, b.defaultSigma)
		note = "Fallback: home-field advantage only"
		basis = models.BasisFallback
	}

	pHome = clamp01(pHome)
	metrics.RecordEstimate(basis)

	return models.ProbabilityEstimate{
		Home:  pHome,
		Away:  1 - pHome,
		Note:  note,
		Basis: basis,
	}
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Package ratings fits per-team offense/defense ratings and home-field
// advantage from completed games via recency-weighted stochastic gradient
// descent.
package ratings

import (
	"math"
	"sort"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Hyperparameters control the rating fit. The constants are tunable, not
// load-bearing; the defaults are the values the model was calibrated with.
type Hyperparameters struct {
	Epochs       int
	LearningRate float64
	// RecencyBase is the per-week decay applied backward from the most
	// recent week: a game in week w carries weight RecencyBase^(maxWeek-w).
	RecencyBase  float64
	SigmaMin     float64
	SigmaMax     float64
	DefaultHFA   float64
	DefaultSigma float64
}

// DefaultHyperparameters returns the calibrated defaults.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		Epochs:       10,
		LearningRate: 0.015,
		RecencyBase:  0.85,
		SigmaMin:     5.0,
		SigmaMax:     12.0,
		DefaultHFA:   2.0,
		DefaultSigma: 7.0,
	}
}

// Neutral returns the uncacheable all-average rating set used when a season
// has no completed games.
func (p Hyperparameters) Neutral(season int) *models.RatingSet {
	return &models.RatingSet{
		Season:  season,
		Offense: map[string]float64{},
		Defense: map[string]float64{},
		HFA:     p.DefaultHFA,
		Sigma:   p.DefaultSigma,
	}
}

// WinProbability converts a predicted point margin into a home win
// probability via the logistic transform.
func WinProbability(margin, sigma float64) float64 {
	if sigma <= 0 {
		sigma = 7.0
	}
	return 1.0 / (1.0 + math.Exp(-margin/sigma))
}

// Fit runs the full rating fit over one season's finals. Given the same game
// set and hyperparameters the result is deterministic: games are processed
// in key order every epoch.
func Fit(season int, games []models.FinalGame, p Hyperparameters) *models.RatingSet {
	if len(games) == 0 {
		return p.Neutral(season)
	}

	ordered := make([]models.FinalGame, len(games))
	copy(ordered, games)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Key < ordered[j].Key })

	wMin, wMax := math.Inf(1), math.Inf(-1)
	for _, g := range ordered {
		if g.HasWeek() {
			wMin = math.Min(wMin, g.Week)
			wMax = math.Max(wMax, g.Week)
		}
	}
	hasWeeks := !math.IsInf(wMax, -1)

	weight := func(g models.FinalGame) float64 {
		if g.HasWeek() && hasWeeks {
			return math.Pow(p.RecencyBase, wMax-g.Week)
		}
		return 1.0
	}

	off := make(map[string]float64)
	def := make(map[string]float64)
	for _, g := range ordered {
		off[g.Home], def[g.Home] = 0, 0
		off[g.Away], def[g.Away] = 0, 0
	}

	// HFA starts at the season's raw mean home-minus-away margin.
	hfa := 0.0
	for _, g := range ordered {
		hfa += g.Margin()
	}
	hfa /= float64(len(ordered))

	lr := p.LearningRate
	for epoch := 0; epoch < p.Epochs; epoch++ {
		for _, g := range ordered {
			w := weight(g)
			oh, dh := off[g.Home], def[g.Home]
			oa, da := off[g.Away], def[g.Away]

			// Home scoring is explained by home offense against away
			// defense plus HFA; away scoring by away offense against
			// home defense.
			predHome := oh - da + hfa
			predAway := oa - dh
			errHome := g.HomePts - predHome
			errAway := g.AwayPts - predAway

			off[g.Home] = oh + lr*w*errHome
			def[g.Away] = da - lr*w*errHome
			off[g.Away] = oa + lr*w*errAway
			def[g.Home] = dh - lr*w*errAway
		}

		// Ratings are relative, not absolute: re-center both means to zero.
		recenter(off)
		recenter(def)

		// Nudge HFA toward the weighted mean margin residual.
		var residual, wSum float64
		for _, g := range ordered {
			w := weight(g)
			predMargin := (off[g.Home] - def[g.Away]) - (off[g.Away] - def[g.Home]) + hfa
			residual += w * (g.Margin() - predMargin)
			wSum += w
		}
		if wSum > 0 {
			hfa += (lr * 0.25) * (residual / wSum)
		}
	}

	var sse float64
	for _, g := range ordered {
		predMargin := (off[g.Home] - def[g.Away]) - (off[g.Away] - def[g.Home]) + hfa
		err := g.Margin() - predMargin
		sse += err * err
	}
	sigma := math.Sqrt(sse / float64(len(ordered)))
	sigma = math.Max(p.SigmaMin, math.Min(p.SigmaMax, sigma))

	rs := &models.RatingSet{
		Season:  season,
		Offense: off,
		Defense: def,
		HFA:     hfa,
		Sigma:   sigma,
		Games:   len(ordered),
	}
	if hasWeeks {
		rs.WeekMin = int(math.Round(wMin))
		rs.WeekMax = int(math.Round(wMax))
		rs.HasWeeks = true
	}
	return rs
}

func recenter(ratings map[string]float64) {
	if len(ratings) == 0 {
		return
	}
	var mean float64
	for _, v := range ratings {
		mean += v
	}
	mean /= float64(len(ratings))
	for t := range ratings {
		ratings[t] -= mean
	}
}

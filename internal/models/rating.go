package models

import "fmt"

// RatingSet holds the fitted per-team ratings for one season.
// Offense ratings are points above league average contributed by a team's
// offense; defense ratings are points above average conceded, so more
// negative is better. Both maps are re-centered to mean zero, making ratings
// relative rather than absolute.
type RatingSet struct {
	Season  int
	Offense map[string]float64
	Defense map[string]float64
	// HFA is the fitted home-field advantage in points.
	HFA float64
	// Sigma is the points-equivalent of one standard deviation of
	// prediction error, clamped to [5, 12].
	Sigma float64
	// Games is the number of finals the fit was trained on.
	Games int
	// WeekMin and WeekMax span the weeks with known week numbers.
	// Valid only when HasWeeks is true.
	WeekMin  int
	WeekMax  int
	HasWeeks bool
}

// OffenseFor returns a team's offense rating, treating unseen teams as
// exactly league average.
func (r *RatingSet) OffenseFor(abbr string) float64 {
	return r.Offense[CanonicalAbbr(abbr)]
}

// DefenseFor returns a team's defense rating, treating unseen teams as
// exactly league average.
func (r *RatingSet) DefenseFor(abbr string) float64 {
	return r.Defense[CanonicalAbbr(abbr)]
}

// Provenance describes the fit for display alongside a model probability.
func (r *RatingSet) Provenance() string {
	span := ""
	if r.HasWeeks {
		span = fmt.Sprintf(" W%d-W%d", r.WeekMin, r.WeekMax)
	}
	return fmt.Sprintf("Season model: %d%s finals (n=%d), HFA=%.1f, sigma=%.1f",
		r.Season, span, r.Games, r.HFA, r.Sigma)
}

package models

import (
	"fmt"
	"math"
	"time"
)

// Game represents one scheduled or in-progress contest as displayed to the
// client. Scores are nil until the provider reports them.
type Game struct {
	Home      string     `json:"home"`
	Away      string     `json:"away"`
	Kickoff   time.Time  `json:"kickoff"`
	Week      int        `json:"week,omitempty"`
	TV        string     `json:"tv,omitempty"`
	Status    string     `json:"status,omitempty"`
	HomeScore *float64   `json:"homeScore,omitempty"`
	AwayScore *float64   `json:"awayScore,omitempty"`
	Venue     string     `json:"venue,omitempty"`
	City      string     `json:"city,omitempty"`
	State     string     `json:"state,omitempty"`
}

// Key returns the stable identity of a game for one calendar day:
// "YYYY-MM-DD|AWAY@HOME".
func (g Game) Key() string {
	return fmt.Sprintf("%s|%s@%s",
		g.Kickoff.Format("2006-01-02"),
		CanonicalAbbr(g.Away),
		CanonicalAbbr(g.Home))
}

// FinalGame represents one completed contest with a definitive score.
// A FinalGame is only constructed when both point totals are present.
type FinalGame struct {
	Key     string
	Home    string
	Away    string
	HomePts float64
	AwayPts float64
	// Week is NaN when the provider did not report a week number.
	Week float64
}

// HasWeek reports whether the game carries a known week number.
func (g FinalGame) HasWeek() bool {
	return !math.IsNaN(g.Week)
}

// Margin returns the home-minus-away point differential.
func (g FinalGame) Margin() float64 {
	return g.HomePts - g.AwayPts
}

package ratings

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

func sampleSeason() []models.FinalGame {
	// A small round-robin. Recency weighting and home-field discounting
	// settle the fitted pecking order at BUF > KC > NE > NYJ.
	mk := func(i int, home, away string, hp, ap, week float64) models.FinalGame {
		return models.FinalGame{
			Key:     fmt.Sprintf("%02d|%s@%s", i, away, home),
			Home:    home,
			Away:    away,
			HomePts: hp,
			AwayPts: ap,
			Week:    week,
		}
	}
	return []models.FinalGame{
		mk(1, "KC", "BUF", 27, 20, 1),
		mk(2, "NYJ", "NE", 17, 13, 1),
		mk(3, "BUF", "NYJ", 24, 14, 2),
		mk(4, "KC", "NE", 31, 10, 2),
		mk(5, "NE", "KC", 13, 28, 3),
		mk(6, "NYJ", "KC", 16, 27, 3),
		mk(7, "BUF", "NE", 30, 17, 4),
		mk(8, "NYJ", "BUF", 13, 20, 4),
	}
}

// TestFitRecentersRatings tests that offense and defense means stay at zero
func TestFitRecentersRatings(t *testing.T) {
	rs := Fit(2025, sampleSeason(), DefaultHyperparameters())

	var offSum, defSum float64
	for _, v := range rs.Offense {
		offSum += v
	}
	for _, v := range rs.Defense {
		defSum += v
	}
	assert.InDelta(t, 0.0, offSum/float64(len(rs.Offense)), 1e-9)
	assert.InDelta(t, 0.0, defSum/float64(len(rs.Defense)), 1e-9)
}

// TestFitSigmaBounds tests the sigma clamp
func TestFitSigmaBounds(t *testing.T) {
	p := DefaultHyperparameters()
	rs := Fit(2025, sampleSeason(), p)

	assert.GreaterOrEqual(t, rs.Sigma, p.SigmaMin)
	assert.LessOrEqual(t, rs.Sigma, p.SigmaMax)
}

// TestFitDeterministic tests that the fit is order-independent
func TestFitDeterministic(t *testing.T) {
	games := sampleSeason()
	reversed := make([]models.FinalGame, len(games))
	for i, g := range games {
		reversed[len(games)-1-i] = g
	}

	a := Fit(2025, games, DefaultHyperparameters())
	b := Fit(2025, reversed, DefaultHyperparameters())

	// Re-centering sums map values, whose iteration order varies, so two
	// fits agree only up to float summation noise.
	assert.InDelta(t, a.HFA, b.HFA, 1e-9)
	assert.InDelta(t, a.Sigma, b.Sigma, 1e-9)
	for team, off := range a.Offense {
		assert.InDelta(t, off, b.Offense[team], 1e-9, "offense %s", team)
	}
}

// TestFitRanksTeams tests the fitted net ratings on the fixture
func TestFitRanksTeams(t *testing.T) {
	rs := Fit(2025, sampleSeason(), DefaultHyperparameters())

	net := func(team string) float64 {
		return rs.OffenseFor(team) - rs.DefenseFor(team)
	}
	// BUF's week-4 wins carry the most recency weight, KC's home blowouts
	// are discounted by HFA, and NYJ's repeated double-digit losses sink it
	// below NE.
	assert.Greater(t, net("BUF"), net("KC"))
	assert.Greater(t, net("KC"), net("NE"))
	assert.Greater(t, net("NE"), net("NYJ"))

	assert.InDelta(t, 1.0225, net("BUF"), 0.01)
	assert.InDelta(t, 0.4198, net("KC"), 0.01)
	assert.InDelta(t, 0.2707, net("NE"), 0.01)
	assert.InDelta(t, -1.7130, net("NYJ"), 0.01)
}

// TestFitWeekRange tests week bookkeeping on the fitted set
func TestFitWeekRange(t *testing.T) {
	rs := Fit(2025, sampleSeason(), DefaultHyperparameters())

	require.True(t, rs.HasWeeks)
	assert.Equal(t, 1, rs.WeekMin)
	assert.Equal(t, 4, rs.WeekMax)
	assert.Equal(t, 8, rs.Games)
}

// TestFitEmptySeason tests the neutral set for a season without finals
func TestFitEmptySeason(t *testing.T) {
	p := DefaultHyperparameters()
	rs := Fit(2025, nil, p)

	assert.Equal(t, 0, rs.Games)
	assert.Equal(t, p.DefaultHFA, rs.HFA)
	assert.Equal(t, p.DefaultSigma, rs.Sigma)
	assert.Empty(t, rs.Offense)
}

// TestFitUnknownWeeks tests uniform weighting when no game reports a week
func TestFitUnknownWeeks(t *testing.T) {
	games := sampleSeason()
	for i := range games {
		games[i].Week = math.NaN()
	}

	rs := Fit(2025, games, DefaultHyperparameters())
	assert.False(t, rs.HasWeeks)
	assert.Equal(t, 8, rs.Games)
}

// TestWinProbability tests the logistic margin transform
func TestWinProbability(t *testing.T) {
	assert.InDelta(t, 0.5, WinProbability(0, 7), 1e-9)

	// The default home-field-only fallback: margin 2, sigma 7.
	assert.InDelta(t, 0.5712, WinProbability(2, 7), 0.0005)

	assert.Greater(t, WinProbability(10, 7), WinProbability(3, 7))
	assert.Less(t, WinProbability(-10, 7), 0.5)

	// Always a proper probability, even at extreme margins.
	assert.LessOrEqual(t, WinProbability(1000, 7), 1.0)
	assert.GreaterOrEqual(t, WinProbability(-1000, 7), 0.0)

	// A non-positive sigma falls back to the default spread.
	assert.InDelta(t, WinProbability(2, 7), WinProbability(2, 0), 1e-9)
}

// TestUnseenTeamIsAverage tests that unknown teams rate as exactly average
func TestUnseenTeamIsAverage(t *testing.T) {
	rs := Fit(2025, sampleSeason(), DefaultHyperparameters())

	assert.Zero(t, rs.OffenseFor("ZZZ"))
	assert.Zero(t, rs.DefenseFor("ZZZ"))
}

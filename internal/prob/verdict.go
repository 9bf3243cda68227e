package prob

import "github.com/yourusername/gridiron-edge/internal/models"

// Verdict grades an estimate against a game's final score. It returns nil
// for games that have not concluded. Ties carry no verdict beyond finality,
// and a final without a usable estimate reports the actual winner only.
func Verdict(game models.Game, est *models.ProbabilityEstimate) *models.Verdict {
	if !game.IsFinal() {
		return nil
	}
	if game.HomeScore == nil || game.AwayScore == nil || *game.HomeScore == *game.AwayScore {
		return &models.Verdict{Final: true, Tie: true}
	}

	actual := "home"
	if *game.AwayScore > *game.HomeScore {
		actual = "away"
	}

	if est == nil {
		return &models.Verdict{Final: true, Actual: actual}
	}

	predicted := "home"
	if est.Away > est.Home {
		predicted = "away"
	}
	correct := predicted == actual
	confidence := est.Home
	if est.Away > est.Home {
		confidence = est.Away
	}

	return &models.Verdict{
		Final:      true,
		Actual:     actual,
		Predicted:  predicted,
		Correct:    &correct,
		Confidence: &confidence,
	}
}

// Package market fetches and normalizes moneyline odds into de-vigged
// implied probabilities.
package market

// ImpliedProbability converts an American moneyline into a raw implied
// probability. A zero line carries no information and reports false.
func ImpliedProbability(ml int) (float64, bool) {
	n := float64(ml)
	switch {
	case n > 0:
		return 100.0 / (n + 100.0), true
	case n < 0:
		return -n / (-n + 100.0), true
	default:
		return 0, false
	}
}

// Devig removes the bookmaker margin from a pair of raw implied
// probabilities, returning the fair home probability. The raw pair sums to
// more than 1; normalizing by the sum recovers a proper probability.
func Devig(pHomeRaw, pAwayRaw float64) (float64, bool) {
	sum := pHomeRaw + pAwayRaw
	if pHomeRaw <= 0 || pAwayRaw <= 0 || sum <= 0 {
		return 0, false
	}
	return pHomeRaw / sum, true
}

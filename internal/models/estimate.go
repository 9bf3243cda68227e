package models

// MarketQuote is a pair of American-odds moneylines for one matchup on one
// date. Quotes are ephemeral: fetched fresh per estimate, never cached.
type MarketQuote struct {
	MLHome int
	MLAway int
}

// Estimate basis values, recorded for observability and display.
const (
	BasisBlend    = "blend"
	BasisMarket   = "market"
	BasisModel    = "model"
	BasisFallback = "fallback"
)

// ProbabilityEstimate is a win-probability pair for one matchup, with a
// human-readable provenance note. Home is always in [0,1] and Away is its
// complement.
type ProbabilityEstimate struct {
	Home  float64 `json:"home"`
	Away  float64 `json:"away"`
	Note  string  `json:"note"`
	Basis string  `json:"basis"`
}

// Verdict grades a probability estimate against a final score.
type Verdict struct {
	Final      bool     `json:"final"`
	Tie        bool     `json:"tie,omitempty"`
	Actual     string   `json:"actual,omitempty"`
	Predicted  string   `json:"predicted,omitempty"`
	Correct    *bool    `json:"correct,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

package market

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// TestParseFlat tests extraction from top-level moneyline fields
func TestParseFlat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *models.MarketQuote
	}{
		{
			name: "ml_home/ml_away numbers",
			raw:  `{"ml_home": -150, "ml_away": 130}`,
			want: &models.MarketQuote{MLHome: -150, MLAway: 130},
		},
		{
			name: "moneyline_home string prices",
			raw:  `{"moneyline_home": "-150", "moneyline_away": "+130"}`,
			want: &models.MarketQuote{MLHome: -150, MLAway: 130},
		},
		{
			name: "unparseable price misses",
			raw:  `{"ml_home": "EVEN", "ml_away": 130}`,
			want: nil,
		},
		{
			name: "home_moneyline variant",
			raw:  `{"home_moneyline": -200, "away_moneyline": 170}`,
			want: &models.MarketQuote{MLHome: -200, MLAway: 170},
		},
		{
			name: "quoted numeric strings",
			raw:  `{"ml_home": "-150", "ml_away": "130"}`,
			want: &models.MarketQuote{MLHome: -150, MLAway: 130},
		},
		{
			name: "half a pair is no quote",
			raw:  `{"ml_home": -150}`,
			want: nil,
		},
		{
			name: "no odds fields",
			raw:  `{"home": "KC", "away": "BUF"}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFlat(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseFlatAcceptsLeadingPlus tests that "+130" style prices decode
func TestParseFlatAcceptsLeadingPlus(t *testing.T) {
	// decimal accepts an explicit leading plus sign.
	got := parseFlat(json.RawMessage(`{"ml_home": "-150", "ml_away": "+130"}`))
	require.NotNil(t, got)
	assert.Equal(t, &models.MarketQuote{MLHome: -150, MLAway: 130}, got)
}

// TestParseOutcomes tests extraction from a markets/outcomes array
func TestParseOutcomes(t *testing.T) {
	raw := `{
		"markets": [
			{"name": "Spread", "outcomes": [{"side": "home", "price": -110}, {"side": "away", "price": -110}]},
			{"name": "Moneyline", "outcomes": [{"side": "home", "price": -150}, {"side": "away", "price": 130}]}
		]
	}`
	got := parseOutcomes(json.RawMessage(raw))
	require.NotNil(t, got)
	assert.Equal(t, &models.MarketQuote{MLHome: -150, MLAway: 130}, got)
}

// TestParseOutcomesSideLabels tests the accepted side label spellings
func TestParseOutcomesSideLabels(t *testing.T) {
	raw := `{
		"markets": [
			{"type": "moneyline", "outcomes": [{"selection": "H", "price": -120}, {"selection": "Visitor", "price": 100}]}
		]
	}`
	got := parseOutcomes(json.RawMessage(raw))
	require.NotNil(t, got)
	assert.Equal(t, &models.MarketQuote{MLHome: -120, MLAway: 100}, got)
}

// TestParseOutcomesH2HKey tests that the h2h market key counts as moneyline
func TestParseOutcomesH2HKey(t *testing.T) {
	raw := `{
		"markets": [
			{"key": "h2h", "outcomes": [{"name": "home", "price": -135}, {"name": "away", "price": 115}]}
		]
	}`
	got := parseOutcomes(json.RawMessage(raw))
	require.NotNil(t, got)
	assert.Equal(t, &models.MarketQuote{MLHome: -135, MLAway: 115}, got)
}

// TestParseBookmakers tests extraction from per-bookmaker market arrays
func TestParseBookmakers(t *testing.T) {
	raw := `{
		"bookmakers": [
			{"markets": [{"name": "Total", "outcomes": []}]},
			{"markets": [{"name": "Moneyline", "outcomes": [{"side": "home", "price": "-145"}, {"side": "away", "price": "125"}]}]}
		]
	}`
	got := parseBookmakers(json.RawMessage(raw))
	require.NotNil(t, got)
	assert.Equal(t, &models.MarketQuote{MLHome: -145, MLAway: 125}, got)
}

// TestParserOrdering tests that the flat strategy wins over nested shapes
func TestParserOrdering(t *testing.T) {
	raw := json.RawMessage(`{
		"ml_home": -150, "ml_away": 130,
		"markets": [{"name": "Moneyline", "outcomes": [{"side": "home", "price": -999}, {"side": "away", "price": 999}]}]
	}`)

	for _, parse := range defaultParsers() {
		if q := parse(raw); q != nil {
			assert.Equal(t, &models.MarketQuote{MLHome: -150, MLAway: 130}, q)
			return
		}
	}
	t.Fatal("no parser produced a quote")
}

package market

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// The odds response format is not guaranteed consistent across endpoints, so
// extraction runs an ordered list of parser strategies over each raw row.
// Each strategy is a pure function: raw row in, quote or nil out. The first
// strategy that yields a price pair wins.
type quoteParser func(raw json.RawMessage) *models.MarketQuote

// defaultParsers returns the strategies in priority order: flat fields,
// then a market/outcome array, then per-bookmaker market arrays.
func defaultParsers() []quoteParser {
	return []quoteParser{parseFlat, parseOutcomes, parseBookmakers}
}

var (
	moneylineRe = regexp.MustCompile(`(?i)moneyline`)
	homeSideRe  = regexp.MustCompile(`(?i)^(home|h)$`)
	awaySideRe  = regexp.MustCompile(`(?i)^(away|a|visitor)$`)
)

// flexPrice decodes a moneyline price that may arrive as a JSON number or a
// string. Decoding goes through decimal to avoid float noise on quoted
// prices before rounding to the American-odds integer.
type flexPrice struct {
	value decimal.Decimal
	ok    bool
}

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		s = strings.TrimSpace(inner)
		if s == "" {
			return nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// An unparseable price means this strategy misses, not an error.
		return nil
	}
	p.value = d
	p.ok = true
	return nil
}

func (p *flexPrice) moneyline() (int, bool) {
	if !p.ok {
		return 0, false
	}
	return int(p.value.Round(0).IntPart()), true
}

func quoteFrom(home, away *flexPrice) *models.MarketQuote {
	mlHome, okHome := home.moneyline()
	mlAway, okAway := away.moneyline()
	if !okHome || !okAway {
		return nil
	}
	return &models.MarketQuote{MLHome: mlHome, MLAway: mlAway}
}

// parseFlat handles rows with top-level moneyline fields.
func parseFlat(raw json.RawMessage) *models.MarketQuote {
	var row struct {
		MLHome        flexPrice `json:"ml_home"`
		MLAway        flexPrice `json:"ml_away"`
		MoneylineHome flexPrice `json:"moneyline_home"`
		MoneylineAway flexPrice `json:"moneyline_away"`
		HomeMoneyline flexPrice `json:"home_moneyline"`
		AwayMoneyline flexPrice `json:"away_moneyline"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil
	}

	pairs := [][2]*flexPrice{
		{&row.MLHome, &row.MLAway},
		{&row.MoneylineHome, &row.MoneylineAway},
		{&row.HomeMoneyline, &row.AwayMoneyline},
	}
	for _, pair := range pairs {
		if q := quoteFrom(pair[0], pair[1]); q != nil {
			return q
		}
	}
	return nil
}

type outcomeShape struct {
	Side      string    `json:"side"`
	Selection string    `json:"selection"`
	Name      string    `json:"name"`
	Price     flexPrice `json:"price"`
}

type marketShape struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Key      string         `json:"key"`
	Outcomes []outcomeShape `json:"outcomes"`
}

func (o *outcomeShape) label() string {
	if o.Side != "" {
		return o.Side
	}
	if o.Selection != "" {
		return o.Selection
	}
	return o.Name
}

func (m *marketShape) isMoneyline() bool {
	return moneylineRe.MatchString(m.Name) || moneylineRe.MatchString(m.Type) ||
		strings.EqualFold(m.Key, "h2h")
}

func quoteFromMarkets(markets []marketShape) *models.MarketQuote {
	for i := range markets {
		if !markets[i].isMoneyline() {
			continue
		}
		var home, away *flexPrice
		for j := range markets[i].Outcomes {
			o := &markets[i].Outcomes[j]
			switch {
			case homeSideRe.MatchString(o.label()):
				home = &o.Price
			case awaySideRe.MatchString(o.label()):
				away = &o.Price
			}
		}
		if home != nil && away != nil {
			if q := quoteFrom(home, away); q != nil {
				return q
			}
		}
	}
	return nil
}

// parseOutcomes handles rows with a markets array of moneyline outcomes.
func parseOutcomes(raw json.RawMessage) *models.MarketQuote {
	var row struct {
		Markets []marketShape `json:"markets"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil
	}
	return quoteFromMarkets(row.Markets)
}

// parseBookmakers handles rows with per-bookmaker market arrays; the first
// bookmaker that yields a pair wins.
func parseBookmakers(raw json.RawMessage) *models.MarketQuote {
	var row struct {
		Bookmakers []struct {
			Markets []marketShape `json:"markets"`
		} `json:"bookmakers"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil
	}
	for i := range row.Bookmakers {
		if q := quoteFromMarkets(row.Bookmakers[i].Markets); q != nil {
			return q
		}
	}
	return nil
}

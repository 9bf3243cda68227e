package datasource

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
)

// FlexFloat is a JSON number that tolerates the provider's inconsistent
// encodings: a number, a numeric string (possibly with stray characters),
// or null.
type FlexFloat float64

var numericJunkRe = regexp.MustCompile(`[^\d.\-]`)

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = numericJunkRe.ReplaceAllString(s, "")
		if s == "" || s == "-" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Unparseable strings are treated as absent, not fatal.
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// teamRef is an embedded home/visitor team reference.
type teamRef struct {
	ID           json.Number `json:"id"`
	Abbreviation string      `json:"abbreviation"`
}

// GameRecord is one game row as returned by the provider. Score fields are
// duplicated under the three naming conventions seen in the wild; use the
// accessor methods rather than the fields.
type GameRecord struct {
	ID     json.Number `json:"id"`
	Date   string      `json:"date"`
	Status string      `json:"status"`
	TV     string      `json:"tv"`
	Venue  string      `json:"venue"`
	City   string      `json:"city"`
	State  string      `json:"state"`

	Week *FlexFloat `json:"week"`
	Game *struct {
		Week *FlexFloat `json:"week"`
	} `json:"game"`

	HomeTeam    *teamRef `json:"home_team"`
	VisitorTeam *teamRef `json:"visitor_team"`
	HomeFlat    string   `json:"home"`
	AwayFlat    string   `json:"away"`

	HomeTeamScore    *FlexFloat `json:"home_team_score"`
	HomeScoreSnake   *FlexFloat `json:"home_score"`
	HomeScoreCamel   *FlexFloat `json:"homeScore"`
	VisitorTeamScore *FlexFloat `json:"visitor_team_score"`
	AwayScoreSnake   *FlexFloat `json:"away_score"`
	AwayScoreCamel   *FlexFloat `json:"awayScore"`
}

// HomeAbbr returns the home team abbreviation, preferring the nested ref.
func (r *GameRecord) HomeAbbr() string {
	if r.HomeTeam != nil && r.HomeTeam.Abbreviation != "" {
		return r.HomeTeam.Abbreviation
	}
	return r.HomeFlat
}

// AwayAbbr returns the away team abbreviation, preferring the nested ref.
func (r *GameRecord) AwayAbbr() string {
	if r.VisitorTeam != nil && r.VisitorTeam.Abbreviation != "" {
		return r.VisitorTeam.Abbreviation
	}
	return r.AwayFlat
}

func firstScore(candidates ...*FlexFloat) (float64, bool) {
	for _, c := range candidates {
		if c != nil {
			return float64(*c), true
		}
	}
	return 0, false
}

// HomePoints returns the home final score under whichever field name the
// provider used.
func (r *GameRecord) HomePoints() (float64, bool) {
	return firstScore(r.HomeTeamScore, r.HomeScoreSnake, r.HomeScoreCamel)
}

// AwayPoints returns the away final score under whichever field name the
// provider used.
func (r *GameRecord) AwayPoints() (float64, bool) {
	return firstScore(r.VisitorTeamScore, r.AwayScoreSnake, r.AwayScoreCamel)
}

// WeekNumber returns the game's week, checking the flat and nested fields.
func (r *GameRecord) WeekNumber() (float64, bool) {
	if r.Week != nil {
		return float64(*r.Week), true
	}
	if r.Game != nil && r.Game.Week != nil {
		return float64(*r.Game.Week), true
	}
	return 0, false
}

// listResponse is the provider's paginated envelope.
type listResponse[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		NextCursor *json.Number `json:"next_cursor"`
	} `json:"meta"`
}

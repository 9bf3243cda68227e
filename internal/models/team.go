// Package models defines the shared domain types for the Gridiron Edge service.
package models

import "strings"

// Team represents one NFL franchise as reported by the data provider.
type Team struct {
	ID   string `json:"id"`
	Abbr string `json:"abbreviation"`
	Name string `json:"name,omitempty"`
}

// abbrAliases maps legacy or alternate team abbreviations to their current
// canonical three-letter codes. Feeds disagree on relocated franchises and on
// a handful of historical spellings, so every abbreviation must pass through
// this table before being used as a lookup key.
var abbrAliases = map[string]string{
	"WAS": "WSH",
	"WFT": "WSH",
	"RED": "WSH",
	"JAC": "JAX",
	"TAM": "TB",
	"NOR": "NO",
	"GNB": "GB",
	"SFO": "SF",
	"ARZ": "ARI",
	"SD":  "LAC",
	"OAK": "LV",
	"STL": "LAR",
	"LA":  "LAR",
	"NWE": "NE",
	"KCC": "KC",
}

// CanonicalAbbr normalizes a team abbreviation to its canonical form.
// Unknown abbreviations are returned uppercased and otherwise untouched.
func CanonicalAbbr(abbr string) string {
	k := strings.ToUpper(strings.TrimSpace(abbr))
	if canon, ok := abbrAliases[k]; ok {
		return canon
	}
	return k
}

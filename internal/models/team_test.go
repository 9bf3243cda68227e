package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCanonicalAbbrAliases tests legacy abbreviation normalization
func TestCanonicalAbbrAliases(t *testing.T) {
	cases := map[string]string{
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
	for legacy, canon := range cases {
		assert.Equal(t, canon, CanonicalAbbr(legacy), "alias %s", legacy)
	}
}

// TestCanonicalAbbrPassthrough tests that unknown codes are uppercased only
func TestCanonicalAbbrPassthrough(t *testing.T) {
	assert.Equal(t, "KC", CanonicalAbbr("kc"))
	assert.Equal(t, "BUF", CanonicalAbbr(" buf "))
	assert.Equal(t, "XYZ", CanonicalAbbr("xyz"))
	assert.Equal(t, "", CanonicalAbbr("  "))
}

// TestCanonicalAbbrCaseInsensitiveAlias tests alias lookup after uppercasing
func TestCanonicalAbbrCaseInsensitiveAlias(t *testing.T) {
	assert.Equal(t, "WSH", CanonicalAbbr("was"))
	assert.Equal(t, "LAR", CanonicalAbbr("la"))
}

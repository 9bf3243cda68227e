package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestLooksFinal tests recognition of concluded-game status strings
func TestLooksFinal(t *testing.T) {
	final := []string{
		"Final",
		"FINAL",
		"Final/OT",
		"completed",
		"Complete",
		"Full Time",
		"full  time",
		"FT",
		"ft",
		"Ended",
	}
	for _, s := range final {
		assert.True(t, LooksFinal(s), "status %q should read as final", s)
	}

	notFinal := []string{
		"",
		"Scheduled",
		"In Progress",
		"Halftime",
		"Q4 2:00",
		"Postponed",
		"left", // contains "ft" but the bare token must be the whole string
		"soft",
	}
	for _, s := range notFinal {
		assert.False(t, LooksFinal(s), "status %q should not read as final", s)
	}
}

// TestGameIsFinal tests the score-or-status finality rule
func TestGameIsFinal(t *testing.T) {
	hs, as := 24.0, 17.0

	scored := Game{Home: "KC", Away: "BUF", HomeScore: &hs, AwayScore: &as}
	assert.True(t, scored.IsFinal())

	statusOnly := Game{Home: "KC", Away: "BUF", Status: "Final"}
	assert.True(t, statusOnly.IsFinal())

	pending := Game{Home: "KC", Away: "BUF", Status: "Scheduled"}
	assert.False(t, pending.IsFinal())

	oneScore := Game{Home: "KC", Away: "BUF", HomeScore: &hs, Status: "Q3"}
	assert.False(t, oneScore.IsFinal())
}

// TestGameKey tests the stable game identity format
func TestGameKey(t *testing.T) {
	kickoff := time.Date(2025, 9, 7, 18, 0, 0, 0, time.UTC)
	g := Game{Home: "kc", Away: "was", Kickoff: kickoff}
	assert.Equal(t, "2025-09-07|WSH@KC", g.Key())
}

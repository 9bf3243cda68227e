package models

import "regexp"

// finalStatusRe matches the status strings providers use for concluded games.
var finalStatusRe = regexp.MustCompile(`(?i)(final|completed|full\s*time|^ft$|ended|complete)`)

// LooksFinal reports whether a provider status string describes a
// concluded game.
func LooksFinal(status string) bool {
	return finalStatusRe.MatchString(status)
}

// IsFinal reports whether the game has concluded: either both scores are
// present or the status text reads as final.
func (g Game) IsFinal() bool {
	if g.HomeScore != nil && g.AwayScore != nil {
		return true
	}
	return LooksFinal(g.Status)
}

// Package model contains domain models passed between layers.
package model

import "github.com/okian/careshare/internal/domain/level"

// Contribution percentage bounds.
const (
	MinContributionPct = 0
	MaxContributionPct = 100
)

// Clinic is a participating organization with its own sharing settings.
type Clinic struct {
	ID              string // stable clinic identifier, e.g. "A"
	Name            string // display name
	OptedIn         bool   // network participation flag
	ContributionPct int    // 0..100, always 0 while opted out
}

// ContextLevel derives the clinic's sharing tier. It is never stored.
func (c Clinic) ContextLevel() int {
	return level.FromContribution(c.OptedIn, c.ContributionPct)
}

// NetworkStatus returns the badge label for the clinic's current level.
func (c Clinic) NetworkStatus() string {
	return level.NetworkStatus(c.ContextLevel())
}

// ApplySettings updates opt-in and contribution. Opting out forces the
// percentage to zero; opted-in percentages are clamped to [0,100].
func (c *Clinic) ApplySettings(optedIn bool, pct int) {
	c.OptedIn = optedIn
	if !optedIn {
		c.ContributionPct = 0
		return
	}
	c.ContributionPct = ClampPct(pct)
}

// ClampPct bounds a contribution percentage to [0,100].
func ClampPct(pct int) int {
	switch {
	case pct < MinContributionPct:
		return MinContributionPct
	case pct > MaxContributionPct:
		return MaxContributionPct
	default:
		return pct
	}
}

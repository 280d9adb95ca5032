// Package level maps clinic participation settings to context levels and
// describes what each level unlocks.
package level

// Context levels.
const (
	Isolated      = 0
	Basic         = 1
	Collaborative = 2
	Trusted       = 3
)

// Contribution thresholds (percent) at which each level starts.
const (
	BasicThreshold         = 10
	CollaborativeThreshold = 40
	TrustedThreshold       = 80
)

// FromContribution returns the context level for the given settings.
// Opted-out clinics are always level 0 regardless of percentage.
func FromContribution(optedIn bool, pct int) int {
	switch {
	case !optedIn || pct < BasicThreshold:
		return Isolated
	case pct < CollaborativeThreshold:
		return Basic
	case pct < TrustedThreshold:
		return Collaborative
	default:
		return Trusted
	}
}

// NetworkStatus returns the badge label for a level. Unknown levels are Isolated.
func NetworkStatus(l int) string {
	switch l {
	case Basic:
		return "Basic"
	case Collaborative:
		return "Collaborative"
	case Trusted:
		return "Trusted Contributor"
	default:
		return "Isolated"
	}
}

// Min returns the smaller of two levels.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

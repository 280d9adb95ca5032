package level

// Scenario describes what a clinic would unlock by reaching a higher level.
type Scenario struct {
	TargetPct      int      `json:"targetPct"`
	TargetLevel    int      `json:"targetLevel"`
	Unlocks        []string `json:"unlocks"`
	IncreaseNeeded int      `json:"increaseNeeded"`
}

type threshold struct {
	pct     int
	level   int
	unlocks []string
}

var thresholds = []threshold{
	{pct: BasicThreshold, level: Basic, unlocks: []string{"Conditions and date ranges", "Contributing clinics"}},
	{pct: CollaborativeThreshold, level: Collaborative, unlocks: []string{"Intervention categories", "Response trend"}},
	{pct: TrustedThreshold, level: Trusted, unlocks: []string{"Red flags", "Timeline", "Last seen date"}},
}

// LockedPreview lists the fields that unlock at the level after l.
func LockedPreview(l int) []string {
	switch l {
	case Isolated:
		return []string{"Conditions and date ranges", "Contributing clinics count"}
	case Basic:
		return []string{"Intervention categories", "Response trend (improving/plateau/worse)"}
	case Collaborative:
		return []string{"Red flags", "Timeline (short bullets)", "Last seen date"}
	default:
		return []string{}
	}
}

// WhatIf returns one scenario per threshold strictly above the current level.
func WhatIf(optedIn bool, pct int) []Scenario {
	current := FromContribution(optedIn, pct)
	out := make([]Scenario, 0, len(thresholds))
	for _, t := range thresholds {
		if t.level <= current {
			continue
		}
		need := t.pct - pct
		if need < 0 {
			need = 0
		}
		out = append(out, Scenario{
			TargetPct:      t.pct,
			TargetLevel:    t.level,
			Unlocks:        append([]string(nil), t.unlocks...),
			IncreaseNeeded: need,
		})
	}
	return out
}

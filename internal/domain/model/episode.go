package model

// Trend is the coarse outcome of an episode.
type Trend string

// Known trends. The empty Trend means unknown and is ignored by aggregation.
const (
	TrendImproving Trend = "improving"
	TrendPlateau   Trend = "plateau"
	TrendWorse     Trend = "worse"
	TrendUnknown   Trend = ""
)

// Trends lists the known trend categories in reporting order.
var Trends = []Trend{TrendImproving, TrendPlateau, TrendWorse}

// WorstTrend picks the most severe trend present: worse > plateau > improving.
// Unknown trends are skipped; the result is TrendUnknown when nothing is known.
func WorstTrend(trends []Trend) Trend {
	var seenPlateau, seenImproving bool
	for _, t := range trends {
		switch t {
		case TrendWorse:
			return TrendWorse
		case TrendPlateau:
			seenPlateau = true
		case TrendImproving:
			seenImproving = true
		}
	}
	switch {
	case seenPlateau:
		return TrendPlateau
	case seenImproving:
		return TrendImproving
	default:
		return TrendUnknown
	}
}

// DateRange is an inclusive episode span in ISO YYYY-MM-DD form.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Episode is an immutable care record owned by exactly one clinic.
type Episode struct {
	ID            string
	ClinicID      string // owning clinic
	Fingerprint   string // subject match key
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD
	Conditions    []string
	Interventions []string
	ResponseTrend Trend
	RedFlags      []string
	Timeline      []string // short bullets in chronological order
}

// HasDateRange reports whether both ends of the episode are set.
func (e Episode) HasDateRange() bool {
	return e.StartDate != "" && e.EndDate != ""
}

// Clone returns a deep copy so callers cannot mutate stored slices.
func (e Episode) Clone() Episode {
	e.Conditions = cloneStrings(e.Conditions)
	e.Interventions = cloneStrings(e.Interventions)
	e.RedFlags = cloneStrings(e.RedFlags)
	e.Timeline = cloneStrings(e.Timeline)
	return e
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

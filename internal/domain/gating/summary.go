package gating

import (
	"sort"

	"github.com/okian/careshare/internal/domain/level"
	"github.com/okian/careshare/internal/domain/model"
)

// timelineCap bounds timeline bullets per contributor and in the merged summary.
const timelineCap = 5

// ContributorSummary is one contributor's disclosure, filtered by the level
// at which the requester may see it. Fields above VisibleLevel stay zero.
type ContributorSummary struct {
	ClinicID     string
	VisibleLevel int

	// level 1
	Conditions []string
	DateRanges []model.DateRange

	// level 2
	Interventions []string
	ResponseTrend model.Trend

	// level 3
	RedFlags     []string
	Timeline     []string
	LastSeenDate string
}

// SharedSummary is the merged view across contributors. Conditions and
// DateRanges are always present; the rest are omitted when nothing reached
// their threshold.
type SharedSummary struct {
	Conditions    []string          `json:"conditions"`
	DateRanges    []model.DateRange `json:"dateRanges"`
	Interventions []string          `json:"interventions,omitempty"`
	ResponseTrend model.Trend       `json:"responseTrend,omitempty"`
	RedFlags      []string          `json:"redFlags,omitempty"`
	Timeline      []string          `json:"timeline,omitempty"`
	LastSeenDate  string            `json:"lastSeenDate,omitempty"`
}

// summarize builds a contributor summary for episodes of a single clinic.
// It returns nil when nothing is visible.
func summarize(clinicID string, episodes []model.Episode, visible int) *ContributorSummary {
	if visible < level.Basic || len(episodes) == 0 {
		return nil
	}
	s := &ContributorSummary{ClinicID: clinicID, VisibleLevel: visible}

	conditions := newStringSet()
	s.DateRanges = []model.DateRange{}
	for _, ep := range episodes {
		conditions.add(ep.Conditions...)
		if ep.HasDateRange() {
			s.DateRanges = append(s.DateRanges, model.DateRange{Start: ep.StartDate, End: ep.EndDate})
		}
	}
	s.Conditions = conditions.items()

	if visible >= level.Collaborative {
		interventions := newStringSet()
		trends := make([]model.Trend, 0, len(episodes))
		for _, ep := range episodes {
			interventions.add(ep.Interventions...)
			if ep.ResponseTrend != model.TrendUnknown {
				trends = append(trends, ep.ResponseTrend)
			}
		}
		s.Interventions = interventions.items()
		s.ResponseTrend = model.WorstTrend(trends)
	}

	if visible >= level.Trusted {
		flags := newStringSet()
		var timeline []string
		for _, ep := range episodes {
			flags.add(ep.RedFlags...)
			timeline = append(timeline, ep.Timeline...)
			if ep.EndDate > s.LastSeenDate {
				s.LastSeenDate = ep.EndDate
			}
		}
		s.RedFlags = flags.items()
		s.Timeline = capTimeline(timeline)
	}
	return s
}

// merge folds contributor summaries into one shared summary. Each field only
// takes input from contributors visible at that field's level.
func merge(summaries []*ContributorSummary) *SharedSummary {
	if len(summaries) == 0 {
		return nil
	}
	conditions := newStringSet()
	interventions := newStringSet()
	flags := newStringSet()
	dateRanges := []model.DateRange{}
	var (
		trends   []model.Trend
		timeline []string
		lastSeen string
	)

	for _, s := range summaries {
		if s.VisibleLevel >= level.Basic {
			conditions.add(s.Conditions...)
			dateRanges = append(dateRanges, s.DateRanges...)
		}
		if s.VisibleLevel >= level.Collaborative {
			interventions.add(s.Interventions...)
			if s.ResponseTrend != model.TrendUnknown {
				trends = append(trends, s.ResponseTrend)
			}
		}
		if s.VisibleLevel >= level.Trusted {
			flags.add(s.RedFlags...)
			timeline = append(timeline, s.Timeline...)
			if s.LastSeenDate > lastSeen {
				lastSeen = s.LastSeenDate
			}
		}
	}

	out := &SharedSummary{
		Conditions: conditions.sorted(),
		DateRanges: dateRanges,
	}
	if interventions.len() > 0 {
		out.Interventions = interventions.sorted()
	}
	if len(trends) > 0 {
		out.ResponseTrend = model.WorstTrend(trends)
	}
	if flags.len() > 0 {
		out.RedFlags = flags.sorted()
	}
	if len(timeline) > 0 {
		out.Timeline = capTimeline(timeline)
	}
	out.LastSeenDate = lastSeen
	return out
}

func capTimeline(items []string) []string {
	if len(items) > timelineCap {
		items = items[:timelineCap]
	}
	return append([]string(nil), items...)
}

// stringSet is an insertion-ordered set of labels.
type stringSet struct {
	seen  map[string]struct{}
	order []string
}

func newStringSet() *stringSet {
	return &stringSet{seen: make(map[string]struct{})}
}

func (s *stringSet) add(items ...string) {
	for _, it := range items {
		if _, ok := s.seen[it]; ok {
			continue
		}
		s.seen[it] = struct{}{}
		s.order = append(s.order, it)
	}
}

func (s *stringSet) len() int { return len(s.order) }

func (s *stringSet) items() []string {
	return append([]string{}, s.order...)
}

func (s *stringSet) sorted() []string {
	out := s.items()
	sort.Strings(out)
	return out
}

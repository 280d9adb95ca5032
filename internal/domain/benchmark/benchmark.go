// Package benchmark compares a clinic's response-trend mix with the rest of
// the network.
//
// The aggregator only ever sees clinic participation settings and trend
// values. Names, identities and level 3 fields are not reachable from here.
package benchmark

import (
	"context"
	"math"

	"github.com/okian/careshare/internal/domain/level"
	"github.com/okian/careshare/internal/domain/model"
)

// Reason explains why a benchmark is not eligible.
type Reason string

// Ineligibility reasons, evaluated in this order.
const (
	ReasonEntityNotFound Reason = "entity_not_found"
	ReasonNotOptedIn     Reason = "not_opted_in"
	ReasonLockedLevel0   Reason = "locked_level_0"
	ReasonNoParticipants Reason = "no_participants"
)

// Participant is the only clinic data the aggregator is given.
type Participant struct {
	ID              string
	OptedIn         bool
	ContributionPct int
}

func (p Participant) level() int {
	return level.FromContribution(p.OptedIn, p.ContributionPct)
}

// TrendSource provides participants and their most recent trends.
type TrendSource interface {
	// Participant reports false when the clinic does not exist.
	Participant(ctx context.Context, id string) (Participant, bool)
	Participants(ctx context.Context) []Participant
	// RecentTrends returns the trends of the clinic's last n records, oldest
	// first. Records without a trend yield TrendUnknown.
	RecentTrends(ctx context.Context, clinicID string, n int) []model.Trend
}

// Distribution is the share of each trend category, rounded to 2 decimals.
type Distribution struct {
	Improving float64 `json:"improving"`
	Plateau   float64 `json:"plateau"`
	Worse     float64 `json:"worse"`
}

// Result is a benchmark outcome. Reason is nil when eligible.
type Result struct {
	Eligible           bool         `json:"eligible"`
	Reason             *Reason      `json:"reason"`
	ClinicDistribution Distribution `json:"clinicDistribution"`
	NetworkAverage     Distribution `json:"networkAverage"`
	You                Distribution `json:"you"`
	Network            Distribution `json:"network"`
	ParticipatingCount int          `json:"participating_count"`
}

// ReasonOrEligible returns the reason label, or "eligible".
func (r Result) ReasonOrEligible() string {
	if r.Reason == nil {
		return "eligible"
	}
	return string(*r.Reason)
}

// Aggregator computes benchmarks over a TrendSource.
type Aggregator struct {
	src           TrendSource
	clinicWindow  int
	networkWindow int
}

// NewAggregator creates an aggregator over src.
func NewAggregator(src TrendSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		src:           src,
		clinicWindow:  DefaultClinicWindow,
		networkWindow: DefaultNetworkWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Benchmark evaluates clinicID against the other participating clinics.
func (a *Aggregator) Benchmark(ctx context.Context, clinicID string) Result {
	self, ok := a.src.Participant(ctx, clinicID)
	if !ok {
		return ineligible(ReasonEntityNotFound, 0)
	}

	var participating, others []string
	for _, p := range a.src.Participants(ctx) {
		if p.level() < level.Basic {
			continue
		}
		participating = append(participating, p.ID)
		if p.ID != clinicID {
			others = append(others, p.ID)
		}
	}

	switch {
	case !self.OptedIn:
		return ineligible(ReasonNotOptedIn, len(participating))
	case self.level() < level.Basic:
		return ineligible(ReasonLockedLevel0, len(participating))
	}

	you := distribution(a.src.RecentTrends(ctx, clinicID, a.clinicWindow))
	if len(others) == 0 {
		res := ineligible(ReasonNoParticipants, 0)
		res.ClinicDistribution = you
		res.You = you
		return res
	}

	var pooled []model.Trend
	for _, id := range others {
		pooled = append(pooled, a.src.RecentTrends(ctx, id, a.networkWindow)...)
	}
	network := distribution(pooled)
	return Result{
		Eligible:           true,
		ClinicDistribution: you,
		NetworkAverage:     network,
		You:                you,
		Network:            network,
		ParticipatingCount: len(others),
	}
}

func ineligible(reason Reason, participating int) Result {
	return Result{Reason: &reason, ParticipatingCount: participating}
}

// distribution computes category proportions over known trends.
func distribution(trends []model.Trend) Distribution {
	var improving, plateau, worse int
	for _, t := range trends {
		switch t {
		case model.TrendImproving:
			improving++
		case model.TrendPlateau:
			plateau++
		case model.TrendWorse:
			worse++
		}
	}
	total := improving + plateau + worse
	if total == 0 {
		return Distribution{}
	}
	return Distribution{
		Improving: share(improving, total),
		Plateau:   share(plateau, total),
		Worse:     share(worse, total),
	}
}

func share(n, total int) float64 {
	return math.RoundToEven(float64(n)/float64(total)*100) / 100
}

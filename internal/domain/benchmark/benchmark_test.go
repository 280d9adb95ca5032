package benchmark_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/okian/careshare/internal/domain/benchmark"
	"github.com/okian/careshare/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	participants []benchmark.Participant
	trends       map[string][]model.Trend
}

func (f *fakeSource) Participant(_ context.Context, id string) (benchmark.Participant, bool) {
	for _, p := range f.participants {
		if p.ID == id {
			return p, true
		}
	}
	return benchmark.Participant{}, false
}

func (f *fakeSource) Participants(_ context.Context) []benchmark.Participant { return f.participants }

func (f *fakeSource) RecentTrends(_ context.Context, id string, n int) []model.Trend {
	all := f.trends[id]
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

func (f *fakeSource) set(id string, optedIn bool, pct int) {
	for i := range f.participants {
		if f.participants[i].ID == id {
			f.participants[i].OptedIn = optedIn
			f.participants[i].ContributionPct = pct
		}
	}
}

const (
	imp = model.TrendImproving
	pla = model.TrendPlateau
	wor = model.TrendWorse
	unk = model.TrendUnknown
)

func newSource() *fakeSource {
	return &fakeSource{
		participants: []benchmark.Participant{
			{ID: "A", OptedIn: true, ContributionPct: 85},
			{ID: "B", OptedIn: false},
			{ID: "C", OptedIn: true, ContributionPct: 30},
		},
		trends: map[string][]model.Trend{
			"A": {imp, imp, pla},
			"B": {wor},
			"C": {pla, wor, unk},
		},
	}
}

func TestAggregator_Eligible(t *testing.T) {
	ctx := context.Background()

	Convey("Given A and C participating", t, func() {
		agg := benchmark.NewAggregator(newSource())
		res := agg.Benchmark(ctx, "A")

		Convey("Then A is compared against C only", func() {
			So(res.Eligible, ShouldBeTrue)
			So(res.Reason, ShouldBeNil)
			So(res.ReasonOrEligible(), ShouldEqual, "eligible")
			So(res.ParticipatingCount, ShouldEqual, 1)
			So(res.You, ShouldResemble, benchmark.Distribution{Improving: 0.67, Plateau: 0.33})
			So(res.ClinicDistribution, ShouldResemble, res.You)
			So(res.Network, ShouldResemble, benchmark.Distribution{Plateau: 0.5, Worse: 0.5})
			So(res.NetworkAverage, ShouldResemble, res.Network)
		})
	})

	Convey("Given a larger network", t, func() {
		src := newSource()
		src.participants = append(src.participants, benchmark.Participant{ID: "D", OptedIn: true, ContributionPct: 50})
		src.trends["D"] = []model.Trend{imp, imp, imp, imp, imp, imp, imp, imp}
		res := benchmark.NewAggregator(src).Benchmark(ctx, "A")

		Convey("Then trends are pooled rather than averaged per clinic", func() {
			So(res.ParticipatingCount, ShouldEqual, 2)
			// 8 improving of 10 pooled; a mean of means would give 0.5
			So(res.Network.Improving, ShouldEqual, 0.8)
			So(res.Network.Plateau, ShouldEqual, 0.1)
			So(res.Network.Worse, ShouldEqual, 0.1)
		})
	})

	Convey("Given a small clinic window", t, func() {
		agg := benchmark.NewAggregator(newSource(), benchmark.WithClinicWindow(1), benchmark.WithNetworkWindow(1))
		res := agg.Benchmark(ctx, "A")

		Convey("Then only the most recent records count", func() {
			So(res.You, ShouldResemble, benchmark.Distribution{Plateau: 1})
			// C's latest record has no trend
			So(res.Network, ShouldResemble, benchmark.Distribution{})
		})
	})
}

func TestAggregator_Ineligible(t *testing.T) {
	ctx := context.Background()

	Convey("Given an unknown clinic", t, func() {
		res := benchmark.NewAggregator(newSource()).Benchmark(ctx, "Z")
		So(res.Eligible, ShouldBeFalse)
		So(*res.Reason, ShouldEqual, benchmark.ReasonEntityNotFound)
		So(res.ParticipatingCount, ShouldEqual, 0)
	})

	Convey("Given an opted-out clinic", t, func() {
		res := benchmark.NewAggregator(newSource()).Benchmark(ctx, "B")
		So(*res.Reason, ShouldEqual, benchmark.ReasonNotOptedIn)
		So(res.ParticipatingCount, ShouldEqual, 2)
		So(res.You, ShouldResemble, benchmark.Distribution{})
	})

	Convey("Given an opted-in clinic below level 1", t, func() {
		src := newSource()
		src.set("B", true, 5)
		res := benchmark.NewAggregator(src).Benchmark(ctx, "B")
		So(*res.Reason, ShouldEqual, benchmark.ReasonLockedLevel0)
		So(res.ParticipatingCount, ShouldEqual, 2)
	})

	Convey("Given a clinic that is the only participant", t, func() {
		src := newSource()
		src.set("C", false, 0)
		res := benchmark.NewAggregator(src).Benchmark(ctx, "A")

		Convey("Then its own distribution is still returned", func() {
			So(res.Eligible, ShouldBeFalse)
			So(*res.Reason, ShouldEqual, benchmark.ReasonNoParticipants)
			So(res.You, ShouldResemble, benchmark.Distribution{Improving: 0.67, Plateau: 0.33})
			So(res.ClinicDistribution, ShouldResemble, res.You)
			So(res.Network, ShouldResemble, benchmark.Distribution{})
			So(res.NetworkAverage, ShouldResemble, benchmark.Distribution{})
			So(res.ParticipatingCount, ShouldEqual, 0)
		})
	})

	Convey("Given a clinic with no trends at all", t, func() {
		src := newSource()
		src.trends["A"] = []model.Trend{unk, unk}
		res := benchmark.NewAggregator(src).Benchmark(ctx, "A")
		So(res.You, ShouldResemble, benchmark.Distribution{})
	})
}

func TestAggregator_SerializedShape(t *testing.T) {
	Convey("Given a serialized benchmark", t, func() {
		res := benchmark.NewAggregator(newSource()).Benchmark(context.Background(), "A")
		raw, err := json.Marshal(res)
		So(err, ShouldBeNil)

		out := map[string]any{}
		So(json.Unmarshal(raw, &out), ShouldBeNil)

		Convey("Then only distribution keys and counters are present", func() {
			So(out, ShouldHaveLength, 7)
			So(out["reason"], ShouldBeNil)
			you := out["you"].(map[string]any)
			So(you, ShouldHaveLength, 3)
			So(you, ShouldContainKey, "improving")
			So(you, ShouldContainKey, "plateau")
			So(you, ShouldContainKey, "worse")
		})

		Convey("Then no clinic identifiers leak", func() {
			So(string(raw), ShouldNotContainSubstring, `"A"`)
			So(string(raw), ShouldNotContainSubstring, `"C"`)
		})
	})
}

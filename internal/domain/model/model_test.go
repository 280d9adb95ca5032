package model_test

import (
	"testing"

	"github.com/okian/careshare/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestClinicApplySettings(t *testing.T) {
	convey.Convey("Given a clinic", t, func() {
		c := model.Clinic{ID: "A", Name: "Clinic A", OptedIn: true, ContributionPct: 85}

		convey.Convey("When opting out with a non-zero percentage", func() {
			c.ApplySettings(false, 60)

			convey.Convey("Then the percentage is forced to zero", func() {
				convey.So(c.OptedIn, convey.ShouldBeFalse)
				convey.So(c.ContributionPct, convey.ShouldEqual, 0)
				convey.So(c.ContextLevel(), convey.ShouldEqual, 0)
				convey.So(c.NetworkStatus(), convey.ShouldEqual, "Isolated")
			})
		})

		convey.Convey("When opting in above 100", func() {
			c.ApplySettings(true, 140)
			convey.So(c.ContributionPct, convey.ShouldEqual, 100)
		})

		convey.Convey("When opting in below 0", func() {
			c.ApplySettings(true, -5)
			convey.So(c.ContributionPct, convey.ShouldEqual, 0)
		})

		convey.Convey("When opting in at 45", func() {
			c.ApplySettings(true, 45)
			convey.So(c.ContextLevel(), convey.ShouldEqual, 2)
			convey.So(c.NetworkStatus(), convey.ShouldEqual, "Collaborative")
		})
	})
}

func TestWorstTrend(t *testing.T) {
	convey.Convey("Given trend lists", t, func() {
		convey.So(model.WorstTrend([]model.Trend{"improving", "worse", "plateau"}), convey.ShouldEqual, model.TrendWorse)
		convey.So(model.WorstTrend([]model.Trend{"improving", "plateau"}), convey.ShouldEqual, model.TrendPlateau)
		convey.So(model.WorstTrend([]model.Trend{"", "improving"}), convey.ShouldEqual, model.TrendImproving)
		convey.So(model.WorstTrend([]model.Trend{""}), convey.ShouldEqual, model.TrendUnknown)
		convey.So(model.WorstTrend(nil), convey.ShouldEqual, model.TrendUnknown)
	})
}

func TestEpisodeClone(t *testing.T) {
	convey.Convey("Given an episode", t, func() {
		ep := model.Episode{ID: "ep1", Conditions: []string{"Asthma"}, Timeline: []string{"x"}}

		convey.Convey("When the clone is mutated", func() {
			cp := ep.Clone()
			cp.Conditions[0] = "changed"
			cp.Timeline = append(cp.Timeline, "y")

			convey.Convey("Then the original is untouched", func() {
				convey.So(ep.Conditions[0], convey.ShouldEqual, "Asthma")
				convey.So(ep.Timeline, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When dates are partially set", func() {
			convey.So(model.Episode{StartDate: "2023-01-01"}.HasDateRange(), convey.ShouldBeFalse)
			convey.So(model.Episode{StartDate: "2023-01-01", EndDate: "2023-02-01"}.HasDateRange(), convey.ShouldBeTrue)
		})
	})
}

func TestCreditKey(t *testing.T) {
	convey.Convey("Given a credit event", t, func() {
		ev := model.CreditEvent{PatientKey: "john doe|1990-01-15|1234", FromClinic: "A", ToClinic: "B"}
		convey.So(ev.IdempotencyKey(), convey.ShouldEqual, "john doe|1990-01-15|1234:A:B")
		convey.So(model.CreditKey("k", "A", "B"), convey.ShouldNotEqual, model.CreditKey("k", "B", "A"))
	})
}

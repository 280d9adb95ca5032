package gating_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/careshare/internal/domain/gating"
	"github.com/okian/careshare/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const subject = "john doe|1990-01-15|1234"

// fakeDirectory is a static Directory for engine specs.
type fakeDirectory struct {
	clinics  []model.Clinic
	episodes []model.Episode
}

func (d *fakeDirectory) Clinic(_ context.Context, id string) (model.Clinic, error) {
	for _, c := range d.clinics {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Clinic{}, model.ErrClinicNotFound
}

func (d *fakeDirectory) Clinics(_ context.Context) []model.Clinic { return d.clinics }

func (d *fakeDirectory) EpisodesByFingerprint(_ context.Context, fp string) []model.Episode {
	var out []model.Episode
	for _, ep := range d.episodes {
		if ep.Fingerprint == fp {
			out = append(out, ep)
		}
	}
	return out
}

func (d *fakeDirectory) set(id string, optedIn bool, pct int) {
	for i := range d.clinics {
		if d.clinics[i].ID == id {
			d.clinics[i].ApplySettings(optedIn, pct)
		}
	}
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		clinics: []model.Clinic{
			{ID: "A", Name: "Clinic A", OptedIn: true, ContributionPct: 85},
			{ID: "B", Name: "Clinic B", OptedIn: true, ContributionPct: 45},
			{ID: "C", Name: "Clinic C", OptedIn: true, ContributionPct: 30},
		},
		episodes: []model.Episode{
			{
				ID: "ep1a", ClinicID: "A", Fingerprint: subject,
				StartDate: "2023-01-15", EndDate: "2023-06-20",
				Conditions:    []string{"Hypertension", "Type 2 Diabetes"},
				Interventions: []string{"Medication Management", "Lifestyle Counseling"},
				ResponseTrend: model.TrendImproving,
				RedFlags:      []string{"Non-adherence to medication"},
				Timeline:      []string{"a1", "a2", "a3"},
			},
			{
				ID: "ep1c", ClinicID: "C", Fingerprint: subject,
				StartDate: "2023-07-01", EndDate: "2024-01-10",
				Conditions:    []string{"Hypertension", "High Cholesterol"},
				Interventions: []string{"Dietary Changes"},
				ResponseTrend: model.TrendPlateau,
				RedFlags:      []string{"Elevated BP readings"},
				Timeline:      []string{"c1", "c2", "c3"},
			},
		},
	}
}

func keys(t *testing.T, s *gating.SharedSummary) map[string]any {
	t.Helper()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestEngine_CheckCollaborativeRequester(t *testing.T) {
	Convey("Given A at level 3, C at level 1 and requester B at level 2", t, func() {
		dir := newDirectory()
		engine := gating.NewEngine(dir)

		res, err := engine.Check(context.Background(), subject, "B")
		So(err, ShouldBeNil)

		Convey("Then both contributors are counted and C is capped", func() {
			So(res.MatchFound, ShouldBeTrue)
			So(res.ContributionGating.ContributingClinicsCount, ShouldEqual, 2)
			So(res.ContributionGating.DetailCappedClinicsCount, ShouldEqual, 1)

			details := res.ContributionGating.ContributingClinics
			So(details[0].ClinicID, ShouldEqual, "A")
			So(details[0].VisibleLevel, ShouldEqual, 2)
			So(details[0].IsCapped, ShouldBeFalse)
			So(details[0].NetworkStatus, ShouldEqual, "Trusted Contributor")
			So(details[1].ClinicID, ShouldEqual, "C")
			So(details[1].VisibleLevel, ShouldEqual, 1)
			So(details[1].IsCapped, ShouldBeTrue)
		})

		Convey("Then level 2 fields come only from A and level 3 fields are absent", func() {
			s := res.SharedSummary
			So(s, ShouldNotBeNil)
			So(s.Conditions, ShouldResemble, []string{"High Cholesterol", "Hypertension", "Type 2 Diabetes"})
			So(s.DateRanges, ShouldHaveLength, 2)
			So(s.Interventions, ShouldResemble, []string{"Lifestyle Counseling", "Medication Management"})
			So(s.ResponseTrend, ShouldEqual, model.TrendImproving)

			k := keys(t, s)
			So(k, ShouldContainKey, "interventions")
			So(k, ShouldContainKey, "responseTrend")
			So(k, ShouldNotContainKey, "redFlags")
			So(k, ShouldNotContainKey, "timeline")
			So(k, ShouldNotContainKey, "lastSeenDate")
		})

		Convey("Then the locked preview and what-if point at level 3", func() {
			So(res.LockedPreview.NextLevelUnlocks, ShouldContain, "Red flags")
			So(res.WhatIf, ShouldHaveLength, 1)
			So(res.WhatIf[0].TargetLevel, ShouldEqual, 3)
			So(res.WhatIf[0].IncreaseNeeded, ShouldEqual, 35)
		})

		Convey("Then network stats count opted-in clinics", func() {
			So(res.NetworkStats.ParticipatingClinicsCount, ShouldEqual, 3)
			So(res.NetworkStats.ParticipatingClinicsPct, ShouldEqual, 100)
		})
	})
}

func TestEngine_CheckLevelZeroRequester(t *testing.T) {
	Convey("Given a requester that is opted out", t, func() {
		dir := newDirectory()
		dir.set("B", false, 60)
		engine := gating.NewEngine(dir)

		res, err := engine.Check(context.Background(), subject, "B")
		So(err, ShouldBeNil)

		Convey("Then existence is signalled but nothing is shared", func() {
			So(res.MatchFound, ShouldBeTrue)
			So(res.SharedSummary, ShouldBeNil)
			So(res.RequestingClinic.ContextLevel, ShouldEqual, 0)
			So(res.RequestingClinic.ContributionPct, ShouldEqual, 0)
			So(res.ContributionGating.ContributingClinicsCount, ShouldEqual, 2)
			So(res.ContributionGating.DetailCappedClinicsCount, ShouldEqual, 0)
			So(res.NetworkStats.ParticipatingClinicsPct, ShouldEqual, 67)
		})

		Convey("Then the serialized summary is null", func() {
			raw, err := json.Marshal(res)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"sharedSummary":null`)
		})
	})
}

func TestEngine_CheckOptedOutContributors(t *testing.T) {
	Convey("Given every contributor is opted out", t, func() {
		dir := newDirectory()
		dir.set("A", false, 0)
		dir.set("C", false, 0)
		engine := gating.NewEngine(dir)

		res, err := engine.Check(context.Background(), subject, "B")
		So(err, ShouldBeNil)

		Convey("Then a match is still reported with no contributors", func() {
			So(res.MatchFound, ShouldBeTrue)
			So(res.ContributionGating.ContributingClinicsCount, ShouldEqual, 0)
			So(res.ContributionGating.ContributingClinics, ShouldNotBeNil)
			So(res.SharedSummary, ShouldBeNil)
		})
	})

	Convey("Given a contributor opted in at level 0", t, func() {
		dir := newDirectory()
		dir.set("C", true, 5)
		dir.set("A", false, 0)
		engine := gating.NewEngine(dir)

		res, err := engine.Check(context.Background(), subject, "B")
		So(err, ShouldBeNil)

		Convey("Then it is listed with visible level 0 and contributes nothing", func() {
			So(res.ContributionGating.ContributingClinicsCount, ShouldEqual, 1)
			So(res.ContributionGating.ContributingClinics[0].VisibleLevel, ShouldEqual, 0)
			So(res.ContributionGating.ContributingClinics[0].IsCapped, ShouldBeTrue)
			So(res.SharedSummary, ShouldBeNil)
			So(res.Creditable(), ShouldBeEmpty)
		})
	})
}

func TestEngine_CheckTrustedRequester(t *testing.T) {
	Convey("Given requester B at level 3", t, func() {
		dir := newDirectory()
		dir.set("B", true, 90)
		engine := gating.NewEngine(dir)

		res, err := engine.Check(context.Background(), subject, "B")
		So(err, ShouldBeNil)

		Convey("Then A contributes level 3 fields and C stays at level 1", func() {
			s := res.SharedSummary
			So(s, ShouldNotBeNil)
			So(s.RedFlags, ShouldResemble, []string{"Non-adherence to medication"})
			So(s.Timeline, ShouldResemble, []string{"a1", "a2", "a3"})
			So(s.LastSeenDate, ShouldEqual, "2023-06-20")
			So(s.Interventions, ShouldNotContain, "Dietary Changes")
			So(res.ContributionGating.DetailCappedClinicsCount, ShouldEqual, 1)
		})
	})

	Convey("Given requester at level 1 seeing a level 3 contributor", t, func() {
		dir := newDirectory()
		dir.set("B", true, 15)
		engine := gating.NewEngine(dir)

		res, err := engine.Check(context.Background(), subject, "B")
		So(err, ShouldBeNil)

		Convey("Then the requester is the bottleneck and nobody is capped", func() {
			So(res.ContributionGating.DetailCappedClinicsCount, ShouldEqual, 0)
			k := keys(t, res.SharedSummary)
			So(k, ShouldContainKey, "conditions")
			So(k, ShouldContainKey, "dateRanges")
			So(k, ShouldNotContainKey, "interventions")
			So(k, ShouldNotContainKey, "responseTrend")
		})
	})
}

func TestEngine_CheckMonotonicFields(t *testing.T) {
	Convey("Given the same data seen at increasing requester levels", t, func() {
		dir := newDirectory()
		dir.set("C", true, 95)
		engine := gating.NewEngine(dir)

		var prev map[string]any
		for _, pct := range []int{15, 45, 85} {
			dir.set("B", true, pct)
			res, err := engine.Check(context.Background(), subject, "B")
			So(err, ShouldBeNil)
			cur := keys(t, res.SharedSummary)
			for k := range prev {
				So(cur, ShouldContainKey, k)
			}
			prev = cur
		}
		So(prev, ShouldContainKey, "lastSeenDate")
	})
}

func TestEngine_CheckEdgeCases(t *testing.T) {
	Convey("Given an unknown requester", t, func() {
		engine := gating.NewEngine(newDirectory())
		_, err := engine.Check(context.Background(), subject, "Z")
		So(errors.Is(err, model.ErrClinicNotFound), ShouldBeTrue)
	})

	Convey("Given the requester's own episodes", t, func() {
		engine := gating.NewEngine(newDirectory())
		res, err := engine.Check(context.Background(), subject, "A")
		So(err, ShouldBeNil)

		Convey("Then they are never treated as contributions", func() {
			So(res.ContributionGating.ContributingClinicsCount, ShouldEqual, 1)
			So(res.ContributionGating.ContributingClinics[0].ClinicID, ShouldEqual, "C")
		})
	})

	Convey("Given a subject with no episodes", t, func() {
		engine := gating.NewEngine(newDirectory())
		res, err := engine.Check(context.Background(), "nobody|2000-01-01|0000", "B")
		So(err, ShouldBeNil)
		So(res.MatchFound, ShouldBeFalse)
		So(res.SharedSummary, ShouldBeNil)
		So(res.ContributionGating.ContributingClinicsCount, ShouldEqual, 0)
	})

	Convey("Given a network where nobody is opted in", t, func() {
		dir := &fakeDirectory{clinics: []model.Clinic{{ID: "X", OptedIn: false}}}
		engine := gating.NewEngine(dir)
		res, err := engine.Check(context.Background(), subject, "X")
		So(err, ShouldBeNil)
		So(res.NetworkStats.ParticipatingClinicsPct, ShouldEqual, 0)
	})
}

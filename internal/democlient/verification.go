package democlient

import (
	"errors"
	"fmt"
)

// ErrExpectation marks a scenario step whose response did not match.
var ErrExpectation = errors.New("expectation failed")

// expectations collects failed checks of a run.
type expectations struct {
	failures []error
	checks   int
}

func (e *expectations) that(ok bool, format string, args ...any) {
	e.checks++
	if !ok {
		e.failures = append(e.failures, fmt.Errorf("%w: %s", ErrExpectation, fmt.Sprintf(format, args...)))
	}
}

func (e *expectations) err() error {
	return errors.Join(e.failures...)
}

func verifyClinics(e *expectations, clinics []Clinic) {
	e.that(len(clinics) >= 3, "expected at least 3 clinics, got %d", len(clinics))
	for _, c := range clinics {
		e.that(c.ContextLevel >= 0 && c.ContextLevel <= 3, "clinic %s has level %d", c.ClinicID, c.ContextLevel)
	}
}

func verifyRaisedClinic(e *expectations, c Clinic) {
	e.that(c.ContextLevel == 2, "clinic %s at 45%% should be level 2, got %d", c.ClinicID, c.ContextLevel)
	e.that(c.NetworkStatus == "Collaborative", "clinic %s should be Collaborative, got %q", c.ClinicID, c.NetworkStatus)
}

func verifyCheck(e *expectations, res CheckResult) {
	g := res.ContributionGating
	e.that(res.MatchFound, "intake check should find a match")
	e.that(g.ContributingClinicsCount == 2, "expected 2 contributors, got %d", g.ContributingClinicsCount)
	e.that(g.DetailCappedClinicsCount == 1, "expected 1 capped contributor, got %d", g.DetailCappedClinicsCount)
	if res.SharedSummary == nil {
		e.that(false, "shared summary should be present")
		return
	}
	_, hasInterventions := res.SharedSummary["interventions"]
	_, hasRedFlags := res.SharedSummary["redFlags"]
	e.that(hasInterventions, "interventions should be visible at level 2")
	e.that(!hasRedFlags, "red flags should stay hidden at level 2")
}

func verifyContinueCare(e *expectations, first, second ContinueCareResult) {
	e.that(first.Credited, "first continue care should credit, got status %q", first.Status)
	e.that(first.CreditsAwarded == 2, "first continue care should award 2 credits, got %d", first.CreditsAwarded)
	e.that(!second.Credited, "second continue care should not credit")
	e.that(second.Status == "already_recorded", "second continue care status should be already_recorded, got %q", second.Status)
}

func verifyDashboard(e *expectations, d Dashboard) {
	e.that(d.ClinicCredits["A"] == 1, "clinic A should hold 1 credit, got %d", d.ClinicCredits["A"])
	e.that(d.ClinicCredits["C"] == 1, "clinic C should hold 1 credit, got %d", d.ClinicCredits["C"])
	e.that(len(d.RecentEvents) == 2, "expected 2 recent events, got %d", len(d.RecentEvents))
}

func verifyBenchmark(e *expectations, b Benchmark) {
	reason := ""
	if b.Reason != nil {
		reason = *b.Reason
	}
	e.that(b.Eligible, "clinic A should be eligible for benchmarking, reason %q", reason)
	e.that(b.ParticipatingCount > 0, "benchmark should compare against at least one clinic")
}

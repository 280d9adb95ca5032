package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/careshare/internal/domain/benchmark"
	"github.com/okian/careshare/internal/domain/credits"
	"github.com/okian/careshare/internal/domain/fingerprint"
	"github.com/okian/careshare/internal/domain/gating"
	"github.com/okian/careshare/internal/domain/model"
	"github.com/okian/careshare/pkg/logger"
	"github.com/okian/careshare/pkg/metrics"
)

// Continue-care outcomes.
const (
	StatusRecorded        = "recorded"
	StatusAlreadyRecorded = "already_recorded"
	StatusNoContributors  = "no_contributors"
)

// ClinicSummary is a clinic with its derived level and badge.
type ClinicSummary struct {
	ClinicID        string `json:"clinicId"`
	Name            string `json:"name"`
	OptedIn         bool   `json:"optedIn"`
	ContributionPct int    `json:"contributionPct"`
	ContextLevel    int    `json:"contextLevel"`
	NetworkStatus   string `json:"networkStatus"`
}

func summarizeClinic(c model.Clinic) ClinicSummary {
	return ClinicSummary{
		ClinicID:        c.ID,
		Name:            c.Name,
		OptedIn:         c.OptedIn,
		ContributionPct: c.ContributionPct,
		ContextLevel:    c.ContextLevel(),
		NetworkStatus:   c.NetworkStatus(),
	}
}

// Intake identifies a subject on behalf of a requesting clinic.
type Intake struct {
	ClinicID   string
	FullName   string
	DOB        string
	PhoneLast4 string
}

// Fingerprint returns the subject match key.
func (in Intake) Fingerprint() string {
	return fingerprint.Compute(in.FullName, in.DOB, in.PhoneLast4)
}

// ContinueCareResult reports the credits created by a continue-care call.
type ContinueCareResult struct {
	Status         string              `json:"status"`
	Credited       bool                `json:"credited"`
	CreditsAwarded int                 `json:"creditsAwarded"`
	Message        string              `json:"message"`
	Events         []model.CreditEvent `json:"events"`
}

// CreditsDashboard lists totals per clinic and the latest events.
type CreditsDashboard struct {
	ClinicCredits map[string]int      `json:"clinicCredits"`
	RecentEvents  []model.CreditEvent `json:"recentEvents"`
}

// DemoStatus tells clients whether demo operations are available.
type DemoStatus struct {
	DemoMode bool `json:"demoMode"`
}

// ListClinics returns every clinic in dataset order.
func (s *Service) ListClinics(ctx context.Context) ([]ClinicSummary, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	clinics := s.store.Clinics(ctx)
	out := make([]ClinicSummary, 0, len(clinics))
	for _, c := range clinics {
		out = append(out, summarizeClinic(c))
	}
	return out, nil
}

// UpdateClinicSettings changes a clinic's participation settings.
func (s *Service) UpdateClinicSettings(ctx context.Context, id string, optedIn bool, pct int) (ClinicSummary, error) {
	if err := s.running(); err != nil {
		return ClinicSummary{}, err
	}
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	c, err := s.store.UpdateSettings(ctx, id, optedIn, pct)
	if err != nil {
		return ClinicSummary{}, err
	}
	metrics.RecordSettingsUpdate()
	s.logger.Info(ctx, "clinic settings updated",
		logger.String("clinicId", c.ID),
		logger.Bool("optedIn", c.OptedIn),
		logger.Int("contributionPct", c.ContributionPct),
		logger.Int("contextLevel", c.ContextLevel()),
	)
	return summarizeClinic(c), nil
}

// CheckMatch evaluates what the requesting clinic may see about the subject.
func (s *Service) CheckMatch(ctx context.Context, in Intake) (gating.Result, error) {
	if err := s.running(); err != nil {
		return gating.Result{}, err
	}
	if !fingerprint.ValidPhoneLast4(in.PhoneLast4) {
		return gating.Result{}, ErrInvalidPhone
	}
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	return s.check(ctx, in)
}

func (s *Service) check(ctx context.Context, in Intake) (gating.Result, error) {
	fp := in.Fingerprint()
	res, err := s.engine.Check(ctx, fp, in.ClinicID)
	if err != nil {
		return gating.Result{}, err
	}

	g := res.ContributionGating
	metrics.RecordIntakeCheck(res.MatchFound, g.ContributingClinicsCount, g.DetailCappedClinicsCount)
	if res.SharedSummary != nil {
		metrics.RecordSharedSummary(res.RequestingClinic.ContextLevel)
	}
	s.logger.Debug(ctx, "intake checked",
		logger.String("clinicId", in.ClinicID),
		logger.String("fingerprint", fp),
		logger.Bool("matchFound", res.MatchFound),
		logger.Int("contributors", g.ContributingClinicsCount),
		logger.Int("capped", g.DetailCappedClinicsCount),
	)
	return res, nil
}

// ContinueCare checks the match and awards continuity credits to every
// contributor whose data was visible.
func (s *Service) ContinueCare(ctx context.Context, in Intake) (ContinueCareResult, error) {
	if err := s.running(); err != nil {
		return ContinueCareResult{}, err
	}
	if !fingerprint.ValidPhoneLast4(in.PhoneLast4) {
		return ContinueCareResult{}, ErrInvalidPhone
	}
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	res, err := s.check(ctx, in)
	if err != nil {
		return ContinueCareResult{}, err
	}

	creditable := res.Creditable()
	if !res.MatchFound || len(creditable) == 0 {
		return ContinueCareResult{
			Status:  StatusNoContributors,
			Message: "No contributing clinics to award",
			Events:  []model.CreditEvent{},
		}, nil
	}

	contributors := make([]credits.Contributor, 0, len(creditable))
	for _, c := range creditable {
		contributors = append(contributors, credits.Contributor{ClinicID: c.ClinicID, VisibleLevel: c.VisibleLevel})
	}
	events, credited, err := s.ledger.Award(ctx, res.Fingerprint, in.ClinicID, contributors)
	if err != nil {
		metrics.RecordErrorByComponent("ledger", "award")
		return ContinueCareResult{}, fmt.Errorf("continue care: %w", err)
	}

	if !credited {
		metrics.RecordCreditDuplicate()
		return ContinueCareResult{
			Status:  StatusAlreadyRecorded,
			Message: "Already recorded for this patient and clinic pair",
			Events:  []model.CreditEvent{},
		}, nil
	}

	metrics.RecordCreditsAwarded(len(events))
	s.logger.Info(ctx, "continuity credits awarded",
		logger.String("toClinic", in.ClinicID),
		logger.Int("credits", len(events)),
	)
	return ContinueCareResult{
		Status:         StatusRecorded,
		Credited:       true,
		CreditsAwarded: len(events),
		Message:        fmt.Sprintf("Awarded %d credit(s) to contributing clinics", len(events)),
		Events:         events,
	}, nil
}

// CreditsDashboard returns per-clinic totals and the most recent events.
func (s *Service) CreditsDashboard(ctx context.Context) (CreditsDashboard, error) {
	if err := s.running(); err != nil {
		return CreditsDashboard{}, err
	}
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	totals, err := s.ledger.Totals(ctx)
	if err != nil {
		return CreditsDashboard{}, fmt.Errorf("credits dashboard: %w", err)
	}
	recent, err := s.ledger.Recent(ctx, s.recentEventsLimit)
	if err != nil {
		return CreditsDashboard{}, fmt.Errorf("credits dashboard: %w", err)
	}
	return CreditsDashboard{ClinicCredits: totals, RecentEvents: recent}, nil
}

// Benchmark compares the clinic's response trends with the network. For an
// unknown clinic the ineligible result is returned with model.ErrClinicNotFound.
func (s *Service) Benchmark(ctx context.Context, clinicID string) (benchmark.Result, error) {
	if err := s.running(); err != nil {
		return benchmark.Result{}, err
	}
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	res := s.bench.Benchmark(ctx, clinicID)
	metrics.RecordBenchmarkQuery(res.ReasonOrEligible())
	if res.Reason != nil && *res.Reason == benchmark.ReasonEntityNotFound {
		return res, fmt.Errorf("benchmark %q: %w", clinicID, model.ErrClinicNotFound)
	}
	return res, nil
}

// DemoStatus reports whether demo operations are enabled.
func (s *Service) DemoStatus() DemoStatus {
	return DemoStatus{DemoMode: s.demoMode}
}

// ResetDemo restores the seed dataset and clears the ledger.
func (s *Service) ResetDemo(ctx context.Context) error {
	if err := s.running(); err != nil {
		return err
	}
	if !s.demoMode {
		return ErrDemoDisabled
	}
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	if err := s.store.Reseed(ctx, s.seed); err != nil {
		return fmt.Errorf("demo reset: %w", err)
	}
	if err := s.ledger.Reset(ctx); err != nil {
		return fmt.Errorf("demo reset: %w", err)
	}
	metrics.UpdateCreditEvents(0)
	s.logger.Info(ctx, "demo state reset")
	return nil
}

// ScenarioAllLevelZero opts every clinic in at 0%, leaving everyone at level 0.
func (s *Service) ScenarioAllLevelZero(ctx context.Context) ([]ClinicSummary, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	if !s.demoMode {
		return nil, ErrDemoDisabled
	}
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	clinics := s.store.Clinics(ctx)
	out := make([]ClinicSummary, 0, len(clinics))
	for _, c := range clinics {
		updated, err := s.store.UpdateSettings(ctx, c.ID, true, 0)
		if err != nil {
			if errors.Is(err, model.ErrClinicNotFound) {
				continue
			}
			return nil, fmt.Errorf("demo scenario: %w", err)
		}
		out = append(out, summarizeClinic(updated))
	}
	s.logger.Info(ctx, "demo scenario applied", logger.String("scenario", "all_level_0"))
	return out, nil
}

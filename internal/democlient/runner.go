package democlient

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/careshare/pkg/logger"
)

// Scenario actors.
const (
	requesterID  = "B"
	benchmarkID  = "A"
	raisedPct    = 45
	subjectName  = "John Doe"
	subjectDOB   = "1990-01-15"
	subjectPhone = "1234"
)

// Run walks the demo scenario against a live server. Transport failures
// abort the run; mismatched responses are collected and returned together.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("democlient")
	client := newHTTPClient(config.BaseURL, config.Timeout)
	exp := &expectations{}

	log.Info(ctx, "starting careshare demo scenario",
		logger.String("baseURL", config.BaseURL),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("reset", config.Reset),
	)

	step := func(name string, fn func() error) error {
		stats.Requests++
		log.Debug(ctx, "step", logger.String("name", name))
		if err := fn(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := step("health", func() error { return client.GetJSON(ctx, "/health", &health) }); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	exp.that(health.Status == "healthy", "health status should be healthy, got %q", health.Status)

	var clinics []Clinic
	if err := step("list clinics", func() error { return client.GetJSON(ctx, "/clinics", &clinics) }); err != nil {
		return stats, err
	}
	verifyClinics(exp, clinics)

	if config.Reset {
		if err := step("demo reset", func() error { return client.PostJSON(ctx, "/demo/reset", nil, nil) }); err != nil {
			return stats, err
		}
	}

	var raised Clinic
	settings := Settings{OptedIn: true, ContributionPct: raisedPct}
	if err := step("raise contribution", func() error {
		return client.PostJSON(ctx, "/clinics/"+requesterID+"/settings", settings, &raised)
	}); err != nil {
		return stats, err
	}
	verifyRaisedClinic(exp, raised)

	intake := Intake{ClinicID: requesterID, FullName: subjectName, DOB: subjectDOB, PhoneLast4: subjectPhone}
	var check CheckResult
	if err := step("intake check", func() error { return client.PostJSON(ctx, "/intake/check", intake, &check) }); err != nil {
		return stats, err
	}
	verifyCheck(exp, check)

	var first, second ContinueCareResult
	if err := step("continue care", func() error {
		return client.PostJSON(ctx, "/intake/continue-care", intake, &first)
	}); err != nil {
		return stats, err
	}
	if err := step("continue care again", func() error {
		return client.PostJSON(ctx, "/intake/continue-care", intake, &second)
	}); err != nil {
		return stats, err
	}
	verifyContinueCare(exp, first, second)

	var dash Dashboard
	if err := step("credits dashboard", func() error { return client.GetJSON(ctx, "/credits/dashboard", &dash) }); err != nil {
		return stats, err
	}
	verifyDashboard(exp, dash)

	var bench Benchmark
	if err := step("benchmark", func() error {
		return client.GetJSON(ctx, "/clinics/"+benchmarkID+"/benchmark", &bench)
	}); err != nil {
		return stats, err
	}
	verifyBenchmark(exp, bench)

	stats.Checks = exp.checks
	stats.Failures = len(exp.failures)
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "scenario finished",
		logger.Int("requests", stats.Requests),
		logger.Int("checks", stats.Checks),
		logger.Int("failures", stats.Failures),
		logger.Duration("duration", stats.Duration),
	)
	return stats, exp.err()
}

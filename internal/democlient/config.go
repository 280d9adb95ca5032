package democlient

import "time"

// Config holds configuration for a scenario run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Reset   bool          // Call POST /demo/reset before the scenario
	Verbose bool          // Enable debug logging
}

// Clinic mirrors an entry of GET /clinics.
type Clinic struct {
	ClinicID        string `json:"clinicId"`
	Name            string `json:"name"`
	OptedIn         bool   `json:"optedIn"`
	ContributionPct int    `json:"contributionPct"`
	ContextLevel    int    `json:"contextLevel"`
	NetworkStatus   string `json:"networkStatus"`
}

// Settings is the body of POST /clinics/{id}/settings.
type Settings struct {
	OptedIn         bool `json:"optedIn"`
	ContributionPct int  `json:"contributionPct"`
}

// Intake is the body of POST /intake/*.
type Intake struct {
	ClinicID   string `json:"clinicId"`
	FullName   string `json:"fullName"`
	DOB        string `json:"dob"`
	PhoneLast4 string `json:"phoneLast4"`
}

// CheckResult holds the parts of an intake check the scenario verifies.
// SharedSummary stays raw so absent keys can be told apart from empty ones.
type CheckResult struct {
	MatchFound         bool `json:"matchFound"`
	ContributionGating struct {
		ContributingClinicsCount int `json:"contributingClinicsCount"`
		DetailCappedClinicsCount int `json:"detailCappedClinicsCount"`
	} `json:"contributionGating"`
	SharedSummary map[string]any `json:"sharedSummary"`
}

// ContinueCareResult mirrors POST /intake/continue-care.
type ContinueCareResult struct {
	Status         string `json:"status"`
	Credited       bool   `json:"credited"`
	CreditsAwarded int    `json:"creditsAwarded"`
	Message        string `json:"message"`
}

// Dashboard mirrors GET /credits/dashboard.
type Dashboard struct {
	ClinicCredits map[string]int   `json:"clinicCredits"`
	RecentEvents  []map[string]any `json:"recentEvents"`
}

// Benchmark mirrors the parts of GET /clinics/{id}/benchmark the scenario reads.
type Benchmark struct {
	Eligible           bool    `json:"eligible"`
	Reason             *string `json:"reason"`
	ParticipatingCount int     `json:"participating_count"`
}

// Stats holds run statistics.
type Stats struct {
	Requests  int
	Checks    int
	Failures  int
	StartTime time.Time
	Duration  time.Duration
}

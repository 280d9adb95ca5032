package repository

import (
	"fmt"

	"github.com/okian/careshare/internal/domain/fingerprint"
	"github.com/okian/careshare/internal/domain/model"
)

// Dataset is a complete set of clinics and episodes.
type Dataset struct {
	Clinics  []model.Clinic
	Episodes []model.Episode
}

// Validate checks ids are unique, episodes belong to known clinics and
// trends are known.
func (d Dataset) Validate() error {
	clinics := make(map[string]struct{}, len(d.Clinics))
	for _, c := range d.Clinics {
		if c.ID == "" {
			return fmt.Errorf("%w: clinic without id", ErrInvalidDataset)
		}
		if _, dup := clinics[c.ID]; dup {
			return fmt.Errorf("%w: duplicate clinic %q", ErrInvalidDataset, c.ID)
		}
		clinics[c.ID] = struct{}{}
	}
	episodes := make(map[string]struct{}, len(d.Episodes))
	for _, ep := range d.Episodes {
		if _, dup := episodes[ep.ID]; dup && ep.ID != "" {
			return fmt.Errorf("%w: duplicate episode %q", ErrInvalidDataset, ep.ID)
		}
		episodes[ep.ID] = struct{}{}
		if _, ok := clinics[ep.ClinicID]; !ok {
			return fmt.Errorf("%w: episode %q references unknown clinic %q", ErrInvalidDataset, ep.ID, ep.ClinicID)
		}
		if ep.Fingerprint == "" {
			return fmt.Errorf("%w: episode %q has no fingerprint", ErrInvalidDataset, ep.ID)
		}
		if !validTrend(ep.ResponseTrend) {
			return fmt.Errorf("%w: episode %q has unknown trend %q", ErrInvalidDataset, ep.ID, ep.ResponseTrend)
		}
	}
	return nil
}

func validTrend(t model.Trend) bool {
	if t == model.TrendUnknown {
		return true
	}
	for _, known := range model.Trends {
		if t == known {
			return true
		}
	}
	return false
}

// Seeded subjects.
var (
	JohnDoe    = fingerprint.Compute("John Doe", "1990-01-15", "1234")
	JaneSmith  = fingerprint.Compute("Jane Smith", "1985-03-22", "5678")
	AlexRivera = fingerprint.Compute("Alex Rivera", "1978-11-03", "9012")
	MariaChen  = fingerprint.Compute("Maria Chen", "2000-07-20", "3456")
)

// DefaultSeed returns the demo dataset: three clinics and six episodes for
// four subjects. Each call returns fresh slices.
func DefaultSeed() Dataset {
	return Dataset{
		Clinics: []model.Clinic{
			{ID: "A", Name: "Clinic A", OptedIn: true, ContributionPct: 85},
			{ID: "B", Name: "Clinic B", OptedIn: false, ContributionPct: 0},
			{ID: "C", Name: "Clinic C", OptedIn: true, ContributionPct: 30},
		},
		Episodes: []model.Episode{
			{
				ID: "ep1a", ClinicID: "A", Fingerprint: JohnDoe,
				StartDate: "2023-01-15", EndDate: "2023-06-20",
				Conditions:    []string{"Hypertension", "Type 2 Diabetes"},
				Interventions: []string{"Medication Management", "Lifestyle Counseling"},
				ResponseTrend: model.TrendImproving,
				RedFlags:      []string{"Non-adherence to medication"},
				Timeline: []string{
					"Initial diagnosis Jan 2023",
					"Medication started Feb 2023",
					"Improvement noted by May 2023",
				},
			},
			{
				ID: "ep1c", ClinicID: "C", Fingerprint: JohnDoe,
				StartDate: "2023-07-01", EndDate: "2024-01-10",
				Conditions:    []string{"Hypertension", "Type 2 Diabetes", "High Cholesterol"},
				Interventions: []string{"Medication Management", "Dietary Changes", "Exercise Program"},
				ResponseTrend: model.TrendPlateau,
				RedFlags:      []string{"Elevated BP readings"},
				Timeline: []string{
					"Transferred care Jul 2023",
					"Cholesterol added Aug 2023",
					"Stable through Dec 2023",
				},
			},
			{
				ID: "ep2a", ClinicID: "A", Fingerprint: JaneSmith,
				StartDate: "2022-05-10", EndDate: "2023-02-15",
				Conditions:    []string{"Asthma", "Seasonal Allergies"},
				Interventions: []string{"Inhaler Therapy", "Allergy Management"},
				ResponseTrend: model.TrendImproving,
				RedFlags:      []string{"Frequent ER visits"},
				Timeline: []string{
					"Asthma diagnosis May 2022",
					"Inhaler started Jun 2022",
					"Reduced ER visits by Sep 2022",
				},
			},
			{
				ID: "ep3b", ClinicID: "B", Fingerprint: AlexRivera,
				StartDate: "2023-03-10", EndDate: "2023-09-25",
				Conditions:    []string{"Chronic Lower Back Pain", "Sciatica"},
				Interventions: []string{"Manual Therapy", "Core Strengthening"},
				ResponseTrend: model.TrendPlateau,
				RedFlags:      []string{"Recurring flare-ups"},
				Timeline: []string{
					"Back pain history Mar 2023",
					"Manual therapy started Apr 2023",
					"Plateau through Sep 2023",
				},
			},
			{
				ID: "ep3c", ClinicID: "C", Fingerprint: AlexRivera,
				StartDate: "2023-10-05", EndDate: "2024-03-15",
				Conditions:    []string{"Chronic Lower Back Pain", "Sciatica", "Hip Bursitis"},
				Interventions: []string{"Shockwave Therapy", "Pilates Program"},
				ResponseTrend: model.TrendImproving,
				RedFlags:      []string{},
				Timeline: []string{
					"Transferred Oct 2023",
					"Shockwave started Nov 2023",
					"Significant improvement by Feb 2024",
				},
			},
			{
				ID: "ep4a", ClinicID: "A", Fingerprint: MariaChen,
				StartDate: "2024-01-08", EndDate: "2024-06-30",
				Conditions:    []string{"Rotator Cuff Tear", "Frozen Shoulder"},
				Interventions: []string{"Post-surgical Rehab", "ROM Exercises"},
				ResponseTrend: model.TrendPlateau,
				RedFlags:      []string{"Post-op complications", "Slow ROM recovery"},
				Timeline: []string{
					"Surgery Jan 2024",
					"Rehab started Feb 2024",
					"Limited progress through Jun 2024",
				},
			},
		},
	}
}

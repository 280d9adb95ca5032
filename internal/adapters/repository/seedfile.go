package repository

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/careshare/internal/domain/fingerprint"
	"github.com/okian/careshare/internal/domain/model"
)

type seedFile struct {
	Clinics  []seedClinic  `koanf:"clinics"`
	Episodes []seedEpisode `koanf:"episodes"`
}

type seedClinic struct {
	ID              string `koanf:"id"`
	Name            string `koanf:"name"`
	OptedIn         bool   `koanf:"opted_in"`
	ContributionPct int    `koanf:"contribution_pct"`
}

// seedEpisode names its subject either by fingerprint or by identity fields.
type seedEpisode struct {
	ID            string   `koanf:"id"`
	ClinicID      string   `koanf:"clinic_id"`
	Fingerprint   string   `koanf:"fingerprint"`
	FullName      string   `koanf:"full_name"`
	DOB           string   `koanf:"dob"`
	PhoneLast4    string   `koanf:"phone_last4"`
	StartDate     string   `koanf:"start_date"`
	EndDate       string   `koanf:"end_date"`
	Conditions    []string `koanf:"conditions"`
	Interventions []string `koanf:"interventions"`
	ResponseTrend string   `koanf:"response_trend"`
	RedFlags      []string `koanf:"red_flags"`
	Timeline      []string `koanf:"timeline"`
}

func (e seedEpisode) fingerprint() (string, error) {
	if e.Fingerprint != "" {
		return e.Fingerprint, nil
	}
	if e.FullName == "" || e.DOB == "" || !fingerprint.ValidPhoneLast4(e.PhoneLast4) {
		return "", fmt.Errorf("%w: episode %q needs a fingerprint or full_name, dob and 4-digit phone_last4", ErrInvalidDataset, e.ID)
	}
	return fingerprint.Compute(e.FullName, e.DOB, e.PhoneLast4), nil
}

// LoadSeedFile reads a YAML dataset from path and validates it.
func LoadSeedFile(path string) (Dataset, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Dataset{}, fmt.Errorf("%w: %s: %v", ErrLoadSeed, path, err)
	}

	var raw seedFile
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Dataset{}, fmt.Errorf("%w: %s: %v", ErrLoadSeed, path, err)
	}

	ds := Dataset{
		Clinics:  make([]model.Clinic, 0, len(raw.Clinics)),
		Episodes: make([]model.Episode, 0, len(raw.Episodes)),
	}
	for _, c := range raw.Clinics {
		ds.Clinics = append(ds.Clinics, model.Clinic{
			ID:              c.ID,
			Name:            c.Name,
			OptedIn:         c.OptedIn,
			ContributionPct: c.ContributionPct,
		})
	}
	for _, e := range raw.Episodes {
		fp, err := e.fingerprint()
		if err != nil {
			return Dataset{}, err
		}
		ds.Episodes = append(ds.Episodes, model.Episode{
			ID:            e.ID,
			ClinicID:      e.ClinicID,
			Fingerprint:   fp,
			StartDate:     e.StartDate,
			EndDate:       e.EndDate,
			Conditions:    e.Conditions,
			Interventions: e.Interventions,
			ResponseTrend: model.Trend(e.ResponseTrend),
			RedFlags:      e.RedFlags,
			Timeline:      e.Timeline,
		})
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Package repository holds clinics and their care episodes.
package repository

import (
	"context"

	"github.com/okian/careshare/internal/domain/model"
)

// Counts summarizes the store contents.
type Counts struct {
	Clinics       int `json:"clinics"`
	Participating int `json:"participating"`
	Episodes      int `json:"episodes"`
}

// Store provides read/write access to clinics and read access to episodes.
// Returned values are copies; mutating them does not affect the store.
type Store interface {
	// Clinic returns model.ErrClinicNotFound if the id is unknown.
	Clinic(ctx context.Context, id string) (model.Clinic, error)

	// Clinics returns all clinics in dataset order.
	Clinics(ctx context.Context) []model.Clinic

	// UpdateSettings applies opt-in and contribution settings and returns the
	// updated clinic. Opting out forces the percentage to zero.
	UpdateSettings(ctx context.Context, id string, optedIn bool, pct int) (model.Clinic, error)

	// EpisodesByFingerprint returns every episode for the subject in dataset order.
	EpisodesByFingerprint(ctx context.Context, fingerprint string) []model.Episode

	// EpisodesByClinic returns the clinic's episodes in dataset order.
	EpisodesByClinic(ctx context.Context, clinicID string) []model.Episode

	Counts(ctx context.Context) Counts

	// Reseed replaces the whole contents with ds.
	Reseed(ctx context.Context, ds Dataset) error
}

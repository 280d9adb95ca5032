package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/careshare/internal/domain/model"
	"github.com/okian/careshare/pkg/metrics"
)

// MemoryStore keeps the dataset in process memory behind one RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	clinics  map[string]*model.Clinic
	episodes []model.Episode
	byFP     map[string][]int
}

// NewMemoryStore creates a store holding DefaultSeed unless WithDataset is given.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	cfg := storeConfig{dataset: DefaultSeed()}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &MemoryStore{}
	if err := s.Reseed(context.Background(), cfg.dataset); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemoryStore) Clinic(_ context.Context, id string) (model.Clinic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clinics[id]
	if !ok {
		return model.Clinic{}, fmt.Errorf("clinic %q: %w", id, model.ErrClinicNotFound)
	}
	return *c, nil
}

func (s *MemoryStore) Clinics(_ context.Context) []model.Clinic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Clinic, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.clinics[id])
	}
	return out
}

func (s *MemoryStore) UpdateSettings(_ context.Context, id string, optedIn bool, pct int) (model.Clinic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clinics[id]
	if !ok {
		return model.Clinic{}, fmt.Errorf("clinic %q: %w", id, model.ErrClinicNotFound)
	}
	c.ApplySettings(optedIn, pct)
	s.publishLocked()
	return *c, nil
}

func (s *MemoryStore) EpisodesByFingerprint(_ context.Context, fingerprint string) []model.Episode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.byFP[fingerprint]
	out := make([]model.Episode, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.episodes[i].Clone())
	}
	return out
}

func (s *MemoryStore) EpisodesByClinic(_ context.Context, clinicID string) []model.Episode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Episode
	for _, ep := range s.episodes {
		if ep.ClinicID == clinicID {
			out = append(out, ep.Clone())
		}
	}
	return out
}

func (s *MemoryStore) Counts(_ context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countsLocked()
}

func (s *MemoryStore) Reseed(_ context.Context, ds Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	clinics := make(map[string]*model.Clinic, len(ds.Clinics))
	order := make([]string, 0, len(ds.Clinics))
	for _, c := range ds.Clinics {
		c.ApplySettings(c.OptedIn, c.ContributionPct)
		clinics[c.ID] = &c
		order = append(order, c.ID)
	}
	episodes := make([]model.Episode, 0, len(ds.Episodes))
	byFP := make(map[string][]int)
	for i, ep := range ds.Episodes {
		episodes = append(episodes, ep.Clone())
		byFP[ep.Fingerprint] = append(byFP[ep.Fingerprint], i)
	}

	s.mu.Lock()
	s.clinics, s.order, s.episodes, s.byFP = clinics, order, episodes, byFP
	s.publishLocked()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) countsLocked() Counts {
	c := Counts{Clinics: len(s.order), Episodes: len(s.episodes)}
	for _, cl := range s.clinics {
		if cl.OptedIn {
			c.Participating++
		}
	}
	return c
}

func (s *MemoryStore) publishLocked() {
	c := s.countsLocked()
	metrics.UpdateClinicGauges(c.Clinics, c.Participating)
}

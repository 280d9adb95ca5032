package service

import (
	"context"

	"github.com/okian/careshare/internal/adapters/repository"
	"github.com/okian/careshare/internal/domain/benchmark"
	"github.com/okian/careshare/internal/domain/model"
)

// trendSource exposes only participation settings and trends from the store.
type trendSource struct {
	store repository.Store
}

func (t trendSource) Participant(ctx context.Context, id string) (benchmark.Participant, bool) {
	c, err := t.store.Clinic(ctx, id)
	if err != nil {
		return benchmark.Participant{}, false
	}
	return participant(c), true
}

func (t trendSource) Participants(ctx context.Context) []benchmark.Participant {
	clinics := t.store.Clinics(ctx)
	out := make([]benchmark.Participant, 0, len(clinics))
	for _, c := range clinics {
		out = append(out, participant(c))
	}
	return out
}

func (t trendSource) RecentTrends(ctx context.Context, clinicID string, n int) []model.Trend {
	episodes := t.store.EpisodesByClinic(ctx, clinicID)
	if len(episodes) > n {
		episodes = episodes[len(episodes)-n:]
	}
	out := make([]model.Trend, 0, len(episodes))
	for _, ep := range episodes {
		out = append(out, ep.ResponseTrend)
	}
	return out
}

func participant(c model.Clinic) benchmark.Participant {
	return benchmark.Participant{ID: c.ID, OptedIn: c.OptedIn, ContributionPct: c.ContributionPct}
}

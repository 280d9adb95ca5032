// Package gating decides how much of each contributor's history a requesting
// clinic may see, and merges the visible parts into one shared summary.
//
// A contributor's data is disclosed at min(requester level, contributor
// level). Fields above that level never leave the contributor summary.
package gating

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/careshare/internal/domain/level"
	"github.com/okian/careshare/internal/domain/model"
)

// gatingReason explains the capping rule to clients.
const gatingReason = "Detail is capped by the contributor clinic's participation level (min(context levels))."

// Directory is the read side the engine needs from the clinic store.
type Directory interface {
	// Clinic returns model.ErrClinicNotFound for unknown ids.
	Clinic(ctx context.Context, id string) (model.Clinic, error)
	Clinics(ctx context.Context) []model.Clinic
	EpisodesByFingerprint(ctx context.Context, fingerprint string) []model.Episode
}

// Engine evaluates intake checks against a Directory.
type Engine struct {
	dir Directory
}

// NewEngine creates an engine over dir.
func NewEngine(dir Directory) *Engine {
	return &Engine{dir: dir}
}

// RequestingClinic echoes the requester's settings and derived level.
type RequestingClinic struct {
	ClinicID        string `json:"clinicId"`
	OptedIn         bool   `json:"optedIn"`
	ContributionPct int    `json:"contributionPct"`
	ContextLevel    int    `json:"contextLevel"`
}

// NetworkStats reports opt-in participation across all clinics.
type NetworkStats struct {
	ParticipatingClinicsCount int `json:"participatingClinicsCount"`
	ParticipatingClinicsPct   int `json:"participatingClinicsPct"`
}

// ContributorDetail is the per-contributor visibility decision.
type ContributorDetail struct {
	ClinicID         string `json:"clinicId"`
	ClinicName       string `json:"clinicName"`
	ContributorLevel int    `json:"contributorLevel"`
	VisibleLevel     int    `json:"visibleLevel"`
	IsCapped         bool   `json:"isCapped"`
	NetworkStatus    string `json:"networkStatus"`
}

// ContributionGating summarizes who contributed and who limited detail.
type ContributionGating struct {
	ContributingClinicsCount int                 `json:"contributingClinicsCount"`
	DetailCappedClinicsCount int                 `json:"detailCappedClinicsCount"`
	ContributingClinics      []ContributorDetail `json:"contributingClinics"`
	Reason                   string              `json:"reason"`
}

// LockedPreview lists what the requester's next level would unlock.
type LockedPreview struct {
	NextLevelUnlocks []string `json:"nextLevelUnlocks"`
}

// Result is the full outcome of an intake check.
type Result struct {
	MatchFound         bool               `json:"matchFound"`
	Fingerprint        string             `json:"fingerprint"`
	RequestingClinic   RequestingClinic   `json:"requestingClinic"`
	NetworkStats       NetworkStats       `json:"networkStats"`
	ContributionGating ContributionGating `json:"contributionGating"`
	LockedPreview      LockedPreview      `json:"lockedPreview"`
	WhatIf             []level.Scenario   `json:"whatIf"`
	SharedSummary      *SharedSummary     `json:"sharedSummary"`

	// Summaries holds the per-contributor disclosures that fed SharedSummary.
	Summaries []*ContributorSummary `json:"-"`
}

// Creditable returns contributors whose data was visible to the requester.
func (r Result) Creditable() []ContributorDetail {
	var out []ContributorDetail
	for _, c := range r.ContributionGating.ContributingClinics {
		if c.VisibleLevel > level.Isolated {
			out = append(out, c)
		}
	}
	return out
}

// Check evaluates what requesterID may see about the subject keyed by fingerprint.
func (e *Engine) Check(ctx context.Context, fingerprint, requesterID string) (Result, error) {
	requester, err := e.dir.Clinic(ctx, requesterID)
	if err != nil {
		return Result{}, fmt.Errorf("gating check: %w", err)
	}
	requesterLevel := requester.ContextLevel()

	raw := otherClinicEpisodes(e.dir.EpisodesByFingerprint(ctx, fingerprint), requesterID)
	matchFound := len(raw) > 0

	gating := ContributionGating{ContributingClinics: []ContributorDetail{}, Reason: gatingReason}
	var summaries []*ContributorSummary
	for _, group := range e.groupEligible(ctx, raw) {
		contributorLevel := group.clinic.ContextLevel()
		visible := level.Min(requesterLevel, contributorLevel)
		capped := contributorLevel < requesterLevel
		if capped {
			gating.DetailCappedClinicsCount++
		}
		gating.ContributingClinics = append(gating.ContributingClinics, ContributorDetail{
			ClinicID:         group.clinic.ID,
			ClinicName:       group.clinic.Name,
			ContributorLevel: contributorLevel,
			VisibleLevel:     visible,
			IsCapped:         capped,
			NetworkStatus:    level.NetworkStatus(contributorLevel),
		})
		if s := summarize(group.clinic.ID, group.episodes, visible); s != nil {
			summaries = append(summaries, s)
		}
	}
	gating.ContributingClinicsCount = len(gating.ContributingClinics)

	res := Result{
		MatchFound:  matchFound,
		Fingerprint: fingerprint,
		RequestingClinic: RequestingClinic{
			ClinicID:        requester.ID,
			OptedIn:         requester.OptedIn,
			ContributionPct: requester.ContributionPct,
			ContextLevel:    requesterLevel,
		},
		NetworkStats:       networkStats(e.dir.Clinics(ctx)),
		ContributionGating: gating,
		LockedPreview:      LockedPreview{NextLevelUnlocks: level.LockedPreview(requesterLevel)},
		WhatIf:             level.WhatIf(requester.OptedIn, requester.ContributionPct),
		Summaries:          summaries,
	}
	if matchFound && requesterLevel >= level.Basic {
		res.SharedSummary = merge(summaries)
	}
	return res, nil
}

type contributorGroup struct {
	clinic   model.Clinic
	episodes []model.Episode
}

// groupEligible keeps episodes of opted-in clinics and groups them by owner
// in order of first appearance.
func (e *Engine) groupEligible(ctx context.Context, episodes []model.Episode) []*contributorGroup {
	var groups []*contributorGroup
	byID := make(map[string]*contributorGroup)
	skipped := make(map[string]struct{})
	for _, ep := range episodes {
		if _, ok := skipped[ep.ClinicID]; ok {
			continue
		}
		g, ok := byID[ep.ClinicID]
		if !ok {
			c, err := e.dir.Clinic(ctx, ep.ClinicID)
			if err != nil || !c.OptedIn {
				skipped[ep.ClinicID] = struct{}{}
				continue
			}
			g = &contributorGroup{clinic: c}
			byID[ep.ClinicID] = g
			groups = append(groups, g)
		}
		g.episodes = append(g.episodes, ep)
	}
	return groups
}

func otherClinicEpisodes(episodes []model.Episode, requesterID string) []model.Episode {
	out := episodes[:0:0]
	for _, ep := range episodes {
		if ep.ClinicID != requesterID {
			out = append(out, ep)
		}
	}
	return out
}

func networkStats(clinics []model.Clinic) NetworkStats {
	var optedIn int
	for _, c := range clinics {
		if c.OptedIn {
			optedIn++
		}
	}
	stats := NetworkStats{ParticipatingClinicsCount: optedIn}
	if len(clinics) > 0 {
		stats.ParticipatingClinicsPct = int(math.RoundToEven(float64(optedIn) / float64(len(clinics)) * 100))
	}
	return stats
}

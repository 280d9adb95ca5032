package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/careshare/internal/app"
	"github.com/okian/careshare/internal/domain/benchmark"
	"github.com/okian/careshare/pkg/logger"
)

// ClinicDependencies defines the clinic read, settings and benchmark operations.
type ClinicDependencies interface {
	ListClinics(ctx context.Context) ([]service.ClinicSummary, error)
	UpdateClinicSettings(ctx context.Context, id string, optedIn bool, pct int) (service.ClinicSummary, error)
	Benchmark(ctx context.Context, clinicID string) (benchmark.Result, error)
}

// ClinicsHandler handles /clinics requests.
type ClinicsHandler struct {
	deps ClinicDependencies
	log  logger.Logger
}

// NewClinicsHandler creates a new clinics handler.
func NewClinicsHandler(deps ClinicDependencies, log logger.Logger) *ClinicsHandler {
	return &ClinicsHandler{deps: deps, log: log}
}

// settingsRequest mirrors the OpenAPI schema for POST /clinics/{clinicID}/settings.
type settingsRequest struct {
	OptedIn         *bool `json:"optedIn"`
	ContributionPct *int  `json:"contributionPct"`
}

func (s settingsRequest) validate() error {
	switch {
	case s.OptedIn == nil:
		return fmt.Errorf("%w: missing optedIn", ErrValidation)
	case s.ContributionPct == nil:
		return fmt.Errorf("%w: missing contributionPct", ErrValidation)
	case *s.ContributionPct < 0 || *s.ContributionPct > 100:
		return fmt.Errorf("%w: contributionPct must be between 0 and 100", ErrValidation)
	}
	return nil
}

// HandleList handles GET /clinics requests.
func (h *ClinicsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.deps.ListClinics(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, clinics)
}

// HandleUpdateSettings handles POST /clinics/{clinicID}/settings requests.
func (h *ClinicsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	c, err := h.deps.UpdateClinicSettings(r.Context(), chi.URLParam(r, "clinicID"), *req.OptedIn, *req.ContributionPct)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleBenchmark handles GET /clinics/{clinicID}/benchmark requests.
func (h *ClinicsHandler) HandleBenchmark(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Benchmark(r.Context(), chi.URLParam(r, "clinicID"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/careshare/internal/app"
	"github.com/okian/careshare/pkg/logger"
)

// DemoDependencies defines the demo-only operations.
type DemoDependencies interface {
	DemoStatus() service.DemoStatus
	ResetDemo(ctx context.Context) error
	ScenarioAllLevelZero(ctx context.Context) ([]service.ClinicSummary, error)
}

// DemoHandler handles /demo requests.
type DemoHandler struct {
	deps DemoDependencies
	log  logger.Logger
}

// NewDemoHandler creates a new demo handler.
func NewDemoHandler(deps DemoDependencies, log logger.Logger) *DemoHandler {
	return &DemoHandler{deps: deps, log: log}
}

// HandleStatus handles GET /demo/status requests.
func (h *DemoHandler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.DemoStatus())
}

// HandleReset handles POST /demo/reset requests.
func (h *DemoHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ResetDemo(r.Context()); err != nil {
		if errors.Is(err, service.ErrDemoDisabled) {
			writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "Demo reset not available"})
			return
		}
		writeServiceError(w, r, h.log, err)
		return
	}
	h.log.Info(r.Context(), "demo reset via api")
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// HandleAllLevelZero handles POST /demo/scenario/all_level_0 requests.
func (h *DemoHandler) HandleAllLevelZero(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.deps.ScenarioAllLevelZero(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrDemoDisabled) {
			writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "Demo scenarios not available"})
			return
		}
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, clinics)
}

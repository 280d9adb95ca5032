package api

import (
	"context"
	"net/http"

	service "github.com/okian/careshare/internal/app"
	"github.com/okian/careshare/pkg/logger"
)

// CreditsDependencies defines the credits dashboard read.
type CreditsDependencies interface {
	CreditsDashboard(ctx context.Context) (service.CreditsDashboard, error)
}

// CreditsHandler handles /credits requests.
type CreditsHandler struct {
	deps CreditsDependencies
	log  logger.Logger
}

// NewCreditsHandler creates a new credits handler.
func NewCreditsHandler(deps CreditsDependencies, log logger.Logger) *CreditsHandler {
	return &CreditsHandler{deps: deps, log: log}
}

// HandleDashboard handles GET /credits/dashboard requests.
func (h *CreditsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.deps.CreditsDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

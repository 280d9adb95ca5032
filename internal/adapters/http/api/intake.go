package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/careshare/internal/app"
	"github.com/okian/careshare/internal/domain/gating"
	"github.com/okian/careshare/pkg/logger"
)

// IntakeDependencies defines the match and continue-care operations.
type IntakeDependencies interface {
	CheckMatch(ctx context.Context, in service.Intake) (gating.Result, error)
	ContinueCare(ctx context.Context, in service.Intake) (service.ContinueCareResult, error)
}

// IntakeHandler handles /intake requests.
type IntakeHandler struct {
	deps IntakeDependencies
	log  logger.Logger
}

// NewIntakeHandler creates a new intake handler.
func NewIntakeHandler(deps IntakeDependencies, log logger.Logger) *IntakeHandler {
	return &IntakeHandler{deps: deps, log: log}
}

// intakeRequest mirrors the OpenAPI schema for POST /intake/*.
type intakeRequest struct {
	ClinicID   string `json:"clinicId"`
	FullName   string `json:"fullName"`
	DOB        string `json:"dob"`
	PhoneLast4 string `json:"phoneLast4"`
}

func (in intakeRequest) validate() error {
	switch {
	case strings.TrimSpace(in.ClinicID) == "":
		return fmt.Errorf("%w: missing clinicId", ErrValidation)
	case strings.TrimSpace(in.FullName) == "":
		return fmt.Errorf("%w: missing fullName", ErrValidation)
	case strings.TrimSpace(in.DOB) == "":
		return fmt.Errorf("%w: missing dob", ErrValidation)
	case in.PhoneLast4 == "":
		return fmt.Errorf("%w: missing phoneLast4", ErrValidation)
	}
	return nil
}

func (in intakeRequest) intake() service.Intake {
	return service.Intake{ClinicID: in.ClinicID, FullName: in.FullName, DOB: in.DOB, PhoneLast4: in.PhoneLast4}
}

func (h *IntakeHandler) decode(w http.ResponseWriter, r *http.Request) (service.Intake, bool) {
	var req intakeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, h.log, err)
		return service.Intake{}, false
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, r, h.log, err)
		return service.Intake{}, false
	}
	return req.intake(), true
}

// HandleCheck handles POST /intake/check requests.
func (h *IntakeHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	res, err := h.deps.CheckMatch(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleContinueCare handles POST /intake/continue-care requests.
func (h *IntakeHandler) HandleContinueCare(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	res, err := h.deps.ContinueCare(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

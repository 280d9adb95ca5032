// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	service "github.com/okian/careshare/internal/app"
	"github.com/okian/careshare/internal/domain/model"
	"github.com/okian/careshare/pkg/logger"
)

// Dependencies required by HTTP handlers. Each handler only sees the
// narrow slice of it that it uses.
type Dependencies interface {
	ClinicDependencies
	IntakeDependencies
	CreditsDependencies
	DemoDependencies
	StatsProvider
	HealthChecker
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	clinicsHandler *ClinicsHandler
	intakeHandler  *IntakeHandler
	creditsHandler *CreditsHandler
	demoHandler    *DemoHandler

	allowedOrigins []string
	log            logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the origins accepted by the CORS middleware.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithLogger sets the logger used for unexpected handler errors.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.clinicsHandler = NewClinicsHandler(deps, s.log)
	s.intakeHandler = NewIntakeHandler(deps, s.log)
	s.creditsHandler = NewCreditsHandler(deps, s.log)
	s.demoHandler = NewDemoHandler(deps, s.log)
	return s
}

// Routes returns a chi router with middleware and every API route mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(MetricsMiddleware)
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.healthHandler.HandleRoot)
	r.Get("/health", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/clinics", func(r chi.Router) {
		r.Get("/", s.clinicsHandler.HandleList)
		r.Post("/{clinicID}/settings", s.clinicsHandler.HandleUpdateSettings)
		r.Get("/{clinicID}/benchmark", s.clinicsHandler.HandleBenchmark)
	})
	r.Route("/intake", func(r chi.Router) {
		r.Post("/check", s.intakeHandler.HandleCheck)
		r.Post("/continue-care", s.intakeHandler.HandleContinueCare)
	})
	r.Get("/credits/dashboard", s.creditsHandler.HandleDashboard)
	r.Route("/demo", func(r chi.Router) {
		r.Get("/status", s.demoHandler.HandleStatus)
		r.Post("/reset", s.demoHandler.HandleReset)
		r.Post("/scenario/all_level_0", s.demoHandler.HandleAllLevelZero)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps a service error to its HTTP status and code.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrClinicNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "Clinic not found"})
	case errors.Is(err, ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err)
	case errors.Is(err, service.ErrInvalidPhone), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestId", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// decodeJSON decodes the request body into v, reporting malformed input as
// a validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", ErrValidation, err)
	}
	return nil
}

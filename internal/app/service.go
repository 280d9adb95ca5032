// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/careshare/internal/adapters/repository"
	"github.com/okian/careshare/internal/domain/benchmark"
	"github.com/okian/careshare/internal/domain/credits"
	"github.com/okian/careshare/internal/domain/gating"
	"github.com/okian/careshare/pkg/logger"
	"github.com/okian/careshare/pkg/metrics"
)

// Service implements the API dependencies for the clinic network.
type Service struct {
	mu sync.RWMutex

	// resetMu is held shared by every operation and exclusively by demo
	// resets, so no operation sees a store and ledger from different epochs.
	resetMu sync.RWMutex

	// Core components
	store  repository.Store
	ledger credits.Ledger
	engine *gating.Engine
	bench  *benchmark.Aggregator

	// Configuration
	seed              repository.Dataset
	demoMode          bool
	recentEventsLimit int
	clinicWindow      int
	networkWindow     int
	ledgerBackend     string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the clinic store. A MemoryStore holding the seed is used otherwise.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLedger sets the credit ledger. An in-memory ledger is used otherwise.
func WithLedger(l credits.Ledger, backend string) Option {
	return func(s *Service) {
		s.ledger = l
		if backend != "" {
			s.ledgerBackend = backend
		}
	}
}

// WithSeed sets the dataset used at start and on demo reset.
func WithSeed(ds repository.Dataset) Option {
	return func(s *Service) {
		s.seed = ds
	}
}

// WithDemoMode enables the demo reset and scenario operations.
func WithDemoMode(enabled bool) Option {
	return func(s *Service) {
		s.demoMode = enabled
	}
}

// WithRecentEventsLimit sets how many events the credits dashboard shows.
func WithRecentEventsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentEventsLimit = n
		}
	}
}

// WithBenchmarkWindows sets the per-clinic and per-network-clinic record windows.
func WithBenchmarkWindows(clinic, network int) Option {
	return func(s *Service) {
		if clinic > 0 {
			s.clinicWindow = clinic
		}
		if network > 0 {
			s.networkWindow = network
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		seed:              repository.DefaultSeed(),
		recentEventsLimit: 5,
		clinicWindow:      benchmark.DefaultClinicWindow,
		networkWindow:     benchmark.DefaultNetworkWindow,
		ledgerBackend:     "memory",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting careshare service...")

	if s.store == nil {
		store, err := repository.NewMemoryStore(repository.WithDataset(s.seed))
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.store = store
	}
	if s.ledger == nil {
		s.ledger = credits.NewMemoryLedger()
	}
	s.engine = gating.NewEngine(s.store)
	s.bench = benchmark.NewAggregator(trendSource{store: s.store},
		benchmark.WithClinicWindow(s.clinicWindow),
		benchmark.WithNetworkWindow(s.networkWindow),
	)

	s.started = true
	counts := s.store.Counts(ctx)
	s.logger.Info(ctx, "careshare service started",
		logger.Int("clinics", counts.Clinics),
		logger.Int("episodes", counts.Episodes),
		logger.String("ledger", s.ledgerBackend),
		logger.Bool("demoMode", s.demoMode),
	)
	return nil
}

// Stop shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "careshare service stopped")
}

// running returns an error unless Start has completed.
func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"demoMode":          s.demoMode,
		"ledgerBackend":     s.ledgerBackend,
		"recentEventsLimit": s.recentEventsLimit,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	counts := s.store.Counts(ctx)
	stats["clinics"] = counts.Clinics
	stats["participatingClinics"] = counts.Participating
	stats["episodes"] = counts.Episodes
	if n, err := s.ledger.Len(ctx); err == nil {
		stats["creditEvents"] = n
		metrics.UpdateCreditEvents(n)
	}
	metrics.UpdateClinicGauges(counts.Clinics, counts.Participating)
	return stats
}

// Health reports whether the ledger backend is reachable.
func (s *Service) Health(ctx context.Context) error {
	if err := s.running(); err != nil {
		return err
	}
	if h, ok := s.ledger.(interface{ Health(context.Context) error }); ok {
		return h.Health(ctx)
	}
	return nil
}

package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/provider"
	"github.com/statusdeck/statusdeck/internal/provider/resilience"
	"github.com/statusdeck/statusdeck/internal/status"
)

// Service errors.
var (
	// ErrServiceNotFound is returned when a requested service is not in
	// the roster.
	ErrServiceNotFound = errors.New("service not found")

	// ErrNoSnapshot is returned before the first refresh cycle completes.
	ErrNoSnapshot = errors.New("no snapshot available yet")
)

// Defaults for refresh cycles.
const (
	DefaultConcurrency  = 4
	DefaultCheckTimeout = 15 * time.Second
)

// ServiceDeps holds configuration for creating a Service.
type ServiceDeps struct {
	// Services is the monitoring roster. Defaults to DefaultServices().
	Services []ServiceConfig

	// Registry maps parser kinds to checker factories. Defaults to
	// DefaultRegistry().
	Registry *provider.Registry

	// Upstreams records per-upstream fetch health for the ops surface
	// (optional).
	Upstreams *resilience.Registry

	// FetchMetrics records fetch durations and counts (optional).
	FetchMetrics *provider.FetchMetrics

	// Concurrency is the number of parallel checks per refresh cycle.
	Concurrency int

	// CheckTimeout bounds each individual service check.
	CheckTimeout time.Duration

	// Logger for refresh diagnostics.
	Logger zerolog.Logger
}

// entry pairs one roster item with its built checker.
type entry struct {
	config  ServiceConfig
	checker provider.Checker
}

// Service runs refresh cycles across the roster and holds the most
// recent snapshot. All methods are safe for concurrent use.
type Service struct {
	entries      []entry
	concurrency  int
	checkTimeout time.Duration
	logger       zerolog.Logger

	mu       sync.RWMutex
	snapshot *status.Snapshot
	inflight chan struct{}

	metrics RefreshMetrics
}

// RefreshMetrics tracks refresh cycle statistics.
type RefreshMetrics struct {
	TotalCycles         int64
	FailedChecks        int64
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
}

// NewService builds a Service from the roster, constructing one checker
// per configured service through the parser registry. An unknown parser
// kind is a configuration error and fails construction.
func NewService(deps ServiceDeps) (*Service, error) {
	services := deps.Services
	if len(services) == 0 {
		services = DefaultServices()
	}
	registry := deps.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	checkTimeout := deps.CheckTimeout
	if checkTimeout <= 0 {
		checkTimeout = DefaultCheckTimeout
	}

	entries := make([]entry, 0, len(services))
	for _, cfg := range services {
		checker, err := registry.New(cfg.Parser, provider.CheckerConfig{
			Endpoint: cfg.EndpointURL,
			Params:   cfg.Params,
			Fetcher: provider.NewFetcher(provider.FetcherConfig{
				Name:     cfg.Name,
				Registry: deps.Upstreams,
				Metrics:  deps.FetchMetrics,
				Logger:   deps.Logger,
			}),
			Logger: deps.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("building checker for %q: %w", cfg.Name, err)
		}
		entries = append(entries, entry{config: cfg, checker: checker})
	}

	return &Service{
		entries:      entries,
		concurrency:  concurrency,
		checkTimeout: checkTimeout,
		logger:       deps.Logger,
	}, nil
}

// Refresh runs one full cycle: every service is checked, a new snapshot
// is built from scratch and swapped in wholesale. Concurrent calls
// coalesce: if a cycle is already running, the caller waits for it and
// returns its snapshot instead of starting another.
func (s *Service) Refresh(ctx context.Context) (status.Snapshot, error) {
	s.mu.Lock()
	if pending := s.inflight; pending != nil {
		s.mu.Unlock()
		select {
		case <-pending:
			return s.Snapshot()
		case <-ctx.Done():
			return status.Snapshot{}, ctx.Err()
		}
	}
	done := make(chan struct{})
	s.inflight = done
	s.mu.Unlock()

	snapshot := s.runCycle(ctx)

	s.mu.Lock()
	s.snapshot = &snapshot
	s.inflight = nil
	s.mu.Unlock()
	close(done)

	return snapshot, nil
}

// Snapshot returns the most recent snapshot. ErrNoSnapshot is returned
// before the first refresh completes.
func (s *Service) Snapshot() (status.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return status.Snapshot{}, ErrNoSnapshot
	}
	return *s.snapshot, nil
}

// Observation returns the most recent observation for one service by
// name. ErrServiceNotFound covers both unknown names and names not yet
// observed.
func (s *Service) Observation(name string) (status.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return status.Observation{}, ErrNoSnapshot
	}
	obs, ok := s.snapshot.Services[name]
	if !ok {
		return status.Observation{}, ErrServiceNotFound
	}
	return obs, nil
}

// Services returns the roster in configuration order.
func (s *Service) Services() []ServiceConfig {
	configs := make([]ServiceConfig, 0, len(s.entries))
	for _, e := range s.entries {
		configs = append(configs, e.config)
	}
	return configs
}

// Metrics returns a copy of the refresh metrics.
func (s *Service) Metrics() RefreshMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// runCycle checks every service through a bounded worker pool and
// assembles the snapshot. A failed check never aborts the cycle; the
// failing service is reported as an outage and the rest proceed.
func (s *Service) runCycle(ctx context.Context) status.Snapshot {
	startTime := time.Now()

	s.logger.Info().
		Int("services", len(s.entries)).
		Int("concurrency", s.concurrency).
		Msg("starting status refresh cycle")

	type checkResult struct {
		observation status.Observation
		failed      bool
	}

	entriesChan := make(chan entry, len(s.entries))
	resultsChan := make(chan checkResult, len(s.entries))

	var wg sync.WaitGroup
	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range entriesChan {
				obs, failed := s.checkOne(ctx, e)
				resultsChan <- checkResult{observation: obs, failed: failed}
			}
		}()
	}

	for _, e := range s.entries {
		entriesChan <- e
	}
	close(entriesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	observations := make(map[string]status.Observation, len(s.entries))
	var failedChecks int64
	for r := range resultsChan {
		observations[r.observation.Name] = r.observation
		if r.failed {
			failedChecks++
		}
	}

	order := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		order = append(order, e.config.Name)
	}

	snapshot := status.Snapshot{
		Services:    observations,
		Order:       order,
		Overall:     status.Overall(observations),
		RefreshedAt: time.Now(),
	}

	duration := snapshot.RefreshedAt.Sub(startTime)
	s.mu.Lock()
	s.metrics.TotalCycles++
	s.metrics.FailedChecks += failedChecks
	s.metrics.LastRefreshAt = snapshot.RefreshedAt
	s.metrics.LastRefreshDuration = duration
	s.mu.Unlock()

	s.logger.Info().
		Dur("duration", duration).
		Int64("failed_checks", failedChecks).
		Str("overall", string(snapshot.Overall)).
		Msg("status refresh cycle completed")

	return snapshot
}

// checkOne runs a single service check within its timeout. Errors are
// converted into an outage observation so one broken upstream never
// hides the health of the others.
func (s *Service) checkOne(ctx context.Context, e entry) (status.Observation, bool) {
	checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	check, err := e.checker.Check(checkCtx)
	if err != nil {
		s.logger.Warn().
			Str("service", e.config.Name).
			Err(err).
			Msg("service check failed")

		return status.Observation{
			Name:         e.config.Name,
			Status:       status.StatusOutage,
			Message:      fmt.Sprintf("Status check failed: %v", err),
			ReferenceURL: e.config.StatusPageURL,
			ObservedAt:   time.Now(),
		}, true
	}

	return status.Observation{
		Name:         e.config.Name,
		Status:       check.Status,
		Message:      check.Message,
		Incidents:    check.Incidents,
		ReferenceURL: e.config.StatusPageURL,
		ObservedAt:   time.Now(),
	}, false
}

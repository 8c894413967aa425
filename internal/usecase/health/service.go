package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means the AI provider is down; classification and expansion run on fallbacks.
	Degraded Status = "degraded"
	// Unhealthy means storage is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK       CheckResult = "ok"
	CheckError    CheckResult = "error"
	CheckDisabled CheckResult = "disabled"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	ai      AIChecker
	timeout time.Duration
}

// New creates a Service. ai can be nil when no provider is configured.
func New(db DBPinger, ai AIChecker) *Service {
	return &Service{db: db, ai: ai, timeout: DefaultCheckTimeout}
}

// Check probes storage and the AI provider concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var mu sync.Mutex
	checks := map[string]CheckResult{"ai": CheckDisabled}
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			checks[name] = CheckError
			return
		}
		checks[name] = CheckOK
	}

	var g errgroup.Group
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		record("database", s.db.Ping(cctx))
		return nil
	})
	if s.ai != nil {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			record("ai", s.ai.HealthCheck(cctx))
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	switch {
	case checks["database"] == CheckError:
		status = Unhealthy
	case checks["ai"] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

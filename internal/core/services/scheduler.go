package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/leadcache/internal/core/ports/driving"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// DefaultSyncInterval is how often watch mode re-syncs all lists.
const DefaultSyncInterval = 5 * time.Minute

// Scheduler re-runs the full sync pipeline on a fixed interval.
// It is a pure core service with no external control API.
type Scheduler struct {
	interval time.Duration
	coord    driving.SyncCoordinator

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. A non-positive interval falls back
// to DefaultSyncInterval.
func NewScheduler(interval time.Duration, coord driving.SyncCoordinator) *Scheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Scheduler{
		interval: interval,
		coord:    coord,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or the context is cancelled. The first sync round runs
// immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.runRound(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.runRound(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for an in-flight round to complete
	s.wg.Wait()
	return nil
}

// runRound executes one SyncAll round. Failures are logged, never fatal:
// the next tick gets another chance.
func (s *Scheduler) runRound(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.coord.SyncAll(ctx); err != nil {
		logger.Warn("scheduled sync round finished with errors: %v", err)
	}
}

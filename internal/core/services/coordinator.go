package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driving"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// ListSyncer is the coordinator's type-erased view of a sync engine.
type ListSyncer interface {
	// ListID identifies the list the engine synchronises.
	ListID() string

	// SyncOnce runs one sync pass and returns the records applied.
	SyncOnce(ctx context.Context) (int, error)
}

// Ensure Coordinator implements the interface.
var _ driving.SyncCoordinator = (*Coordinator)(nil)

// Coordinator runs the sync engines for all registered lists together
// and triggers the derived-status pass once they have settled.
type Coordinator struct {
	engines   []ListSyncer
	byID      map[string]ListSyncer
	evaluator *Evaluator

	// Status tracking
	mu         sync.RWMutex
	activeSync map[string]*driving.SyncStatus
}

// NewCoordinator creates a coordinator. The evaluator is optional - nil
// disables the derived-status pass.
func NewCoordinator(evaluator *Evaluator) *Coordinator {
	return &Coordinator{
		byID:       make(map[string]ListSyncer),
		evaluator:  evaluator,
		activeSync: make(map[string]*driving.SyncStatus),
	}
}

// Register adds an engine. Registration order is preserved for reporting;
// execution order is not defined.
func (c *Coordinator) Register(engine ListSyncer) {
	c.engines = append(c.engines, engine)
	c.byID[engine.ListID()] = engine
}

// Sync triggers synchronisation for one list.
func (c *Coordinator) Sync(ctx context.Context, listID string) error {
	engine, ok := c.byID[listID]
	if !ok {
		return fmt.Errorf("list %s: %w", listID, domain.ErrNotFound)
	}
	return c.syncOne(ctx, engine)
}

// SyncAll synchronises every registered list concurrently. Failures are
// isolated per list and joined into the returned error. The evaluator
// pass runs after all lists settle, even when some of them failed, on
// whatever snapshot state is available; its errors are reported in the
// log but never fail SyncAll.
func (c *Coordinator) SyncAll(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(c.engines))

	for i, engine := range c.engines {
		wg.Add(1)
		go func(i int, engine ListSyncer) {
			defer wg.Done()
			if err := c.syncOne(ctx, engine); err != nil {
				errs[i] = fmt.Errorf("sync %s: %w", engine.ListID(), err)
			}
		}(i, engine)
	}
	wg.Wait()

	if c.evaluator != nil {
		if err := c.evaluator.Evaluate(ctx); err != nil {
			logger.Warn("status evaluation failed: %v", err)
		}
	}

	return errors.Join(errs...)
}

// Status returns sync status for a list.
func (c *Coordinator) Status(_ context.Context, listID string) (*driving.SyncStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if status, ok := c.activeSync[listID]; ok {
		// Return a copy to avoid race conditions
		return &driving.SyncStatus{
			ListID:         status.ListID,
			Running:        status.Running,
			RecordsApplied: status.RecordsApplied,
			LastError:      status.LastError,
		}, nil
	}

	// Not running - return idle status
	return &driving.SyncStatus{
		ListID: listID,
	}, nil
}

// syncOne runs one engine pass with status tracking.
func (c *Coordinator) syncOne(ctx context.Context, engine ListSyncer) error {
	listID := engine.ListID()
	c.setStatus(listID, &driving.SyncStatus{ListID: listID, Running: true})

	logger.Info("Starting sync for list %s", listID)
	applied, err := engine.SyncOnce(ctx)

	status := &driving.SyncStatus{ListID: listID, RecordsApplied: applied}
	if err != nil {
		status.LastError = err.Error()
		logger.Warn("Sync failed for list %s, cached data is as of last successful sync: %v", listID, err)
	} else {
		logger.Info("Sync complete for list %s: %d records applied", listID, applied)
	}
	c.setStatus(listID, status)

	return err
}

// setStatus records the sync status for a list.
func (c *Coordinator) setStatus(listID string, status *driving.SyncStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeSync[listID] = status
}

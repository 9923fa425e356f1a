package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// Decoder builds a typed item from a feed change record.
type Decoder[T domain.Syncable] func(domain.ChangeRecord) (T, error)

// Engine keeps one list's snapshot consistent with its remote change feed.
//
// The snapshot is owned exclusively by its engine: other components read
// it through Items and write leads back only through SaveItems. A second
// Sync while one is in flight is rejected with domain.ErrSyncInProgress.
type Engine[T domain.Syncable] struct {
	listID   string
	feed     driven.ChangeFeed
	store    driven.SnapshotStore
	decode   Decoder[T]
	notifier driven.Notifier

	mu      sync.Mutex
	syncing bool
	loaded  bool
	items   map[string]T
	cursor  string
}

// NewEngine creates a sync engine for one list.
// The notifier is optional; nil disables change notifications.
func NewEngine[T domain.Syncable](
	listID string,
	feed driven.ChangeFeed,
	store driven.SnapshotStore,
	decode Decoder[T],
	notifier driven.Notifier,
) *Engine[T] {
	return &Engine[T]{
		listID:   listID,
		feed:     feed,
		store:    store,
		decode:   decode,
		notifier: notifier,
		items:    make(map[string]T),
	}
}

// ListID returns the list this engine synchronises.
func (e *Engine[T]) ListID() string {
	return e.listID
}

// Load populates the snapshot and cursor from the persistent store.
// Idempotent: a warm snapshot is left untouched. Storage failures degrade
// to empty state so a broken store never blocks a sync.
func (e *Engine[T]) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.loaded {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	state, err := e.store.Get(ctx, e.listID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("list %s: loading cached state failed, starting empty: %v", e.listID, err)
		}
		e.mu.Lock()
		e.loaded = true
		e.mu.Unlock()
		return nil
	}

	items := make(map[string]T, len(state.Items))
	for _, raw := range state.Items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			logger.Warn("list %s: skipping undecodable cached item: %v", e.listID, err)
			continue
		}
		items[item.ItemID()] = item
	}

	e.mu.Lock()
	if !e.loaded {
		e.items = items
		e.cursor = state.Cursor
		e.loaded = true
	}
	e.mu.Unlock()

	logger.Debug("list %s: loaded %d cached items, cursor %q", e.listID, len(items), state.Cursor)
	return nil
}

// Sync pulls all pending change pages, reconciles them into the snapshot
// and persists the result. Returns the updated snapshot.
//
// The pass is all-or-nothing: a failure on any page commits nothing.
// Cursor expiry discards cursor and snapshot and retries from scratch
// exactly once; a second expiry fails the pass with ErrResyncFailed.
func (e *Engine[T]) Sync(ctx context.Context) ([]T, error) {
	if _, err := e.sync(ctx); err != nil {
		return nil, err
	}
	return e.Items(), nil
}

// SyncOnce is the coordinator's view of Sync: it returns the number of
// change records applied instead of the snapshot.
func (e *Engine[T]) SyncOnce(ctx context.Context) (int, error) {
	return e.sync(ctx)
}

func (e *Engine[T]) sync(ctx context.Context) (int, error) {
	e.mu.Lock()
	if e.syncing {
		e.mu.Unlock()
		return 0, fmt.Errorf("list %s: %w", e.listID, domain.ErrSyncInProgress)
	}
	e.syncing = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
	}()

	if err := e.Load(ctx); err != nil {
		return 0, err
	}

	// Bounded retry: one full resync after cursor expiry, never more.
	for attempt := 0; ; attempt++ {
		records, deltaCursor, err := e.collect(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrCursorExpired) {
				if attempt > 0 {
					return 0, fmt.Errorf("list %s: %w", e.listID, domain.ErrResyncFailed)
				}
				logger.Info("list %s: cursor expired, discarding snapshot for full resync", e.listID)
				e.reset(ctx)
				continue
			}
			return 0, fmt.Errorf("list %s: fetch changes: %w", e.listID, err)
		}

		applied := e.apply(records)
		e.mu.Lock()
		e.cursor = deltaCursor
		e.mu.Unlock()

		if applied > 0 {
			e.persist(ctx)
		}
		logger.Debug("list %s: sync applied %d of %d records", e.listID, applied, len(records))
		return applied, nil
	}
}

// collect fetches pages sequentially until the feed hands out a terminal
// delta cursor. Nothing is committed here; records are only accumulated.
func (e *Engine[T]) collect(ctx context.Context) ([]domain.ChangeRecord, string, error) {
	e.mu.Lock()
	cursor := e.cursor
	e.mu.Unlock()

	var records []domain.ChangeRecord
	for {
		page, err := e.feed.FetchPage(ctx, cursor)
		if err != nil {
			return nil, "", err
		}
		records = append(records, page.Records...)
		if !page.HasNext() {
			return records, page.DeltaCursor, nil
		}
		cursor = page.NextCursor
	}
}

// apply reconciles records into the snapshot in feed order, so a later
// record for the same id supersedes an earlier one within the pass.
// Returns the number of records that changed the snapshot.
func (e *Engine[T]) apply(records []domain.ChangeRecord) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	applied := 0
	for _, rec := range records {
		if rec.Removed {
			if _, ok := e.items[rec.ID]; ok {
				delete(e.items, rec.ID)
				applied++
			}
			continue
		}
		item, err := e.decode(rec)
		if err != nil {
			logger.Warn("list %s: skipping undecodable record %s: %v", e.listID, rec.ID, err)
			continue
		}
		// Full replace, not a merge: the feed record is authoritative.
		e.items[item.ItemID()] = item
		applied++
	}
	return applied
}

// reset discards the snapshot, cursor and persisted state ahead of a
// full resync. An expired cursor makes the snapshot it produced suspect.
func (e *Engine[T]) reset(ctx context.Context) {
	e.mu.Lock()
	e.items = make(map[string]T)
	e.cursor = ""
	e.mu.Unlock()

	if err := e.store.Delete(ctx, e.listID); err != nil {
		logger.Warn("list %s: clearing persisted state failed: %v", e.listID, err)
	}
}

// persist writes the snapshot and cursor as one unit and emits a change
// notification. Storage failure is soft: the in-memory snapshot remains
// authoritative for the session.
func (e *Engine[T]) persist(ctx context.Context) {
	e.mu.Lock()
	state := domain.ListState{
		ListID:   e.listID,
		Cursor:   e.cursor,
		Items:    make([]json.RawMessage, 0, len(e.items)),
		LastSync: time.Now(),
	}
	ids := make([]string, 0, len(e.items))
	for id := range e.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		raw, err := json.Marshal(e.items[id])
		if err != nil {
			logger.Warn("list %s: skipping unmarshallable item %s: %v", e.listID, id, err)
			continue
		}
		state.Items = append(state.Items, raw)
	}
	e.mu.Unlock()

	if err := e.store.Save(ctx, state); err != nil {
		logger.Warn("list %s: persisting snapshot failed, cache stays in memory: %v", e.listID, err)
	}

	if e.notifier != nil {
		e.notifier.Notify(e.listID)
	}
}

// Items returns a copy of the snapshot, sorted by item id.
func (e *Engine[T]) Items() []T {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]T, 0, len(e.items))
	for _, item := range e.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID() < items[j].ItemID() })
	return items
}

// Cursor returns the current delta cursor. Empty means the next sync
// will be a full enumeration.
func (e *Engine[T]) Cursor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// SaveItems writes items back into the snapshot and persists the result.
// This is the evaluator's status write-back path: mutation rights stay
// with the owning engine. Emits one change notification per call.
func (e *Engine[T]) SaveItems(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}

	e.mu.Lock()
	for _, item := range items {
		e.items[item.ItemID()] = item
	}
	e.mu.Unlock()

	e.persist(ctx)
	return nil
}

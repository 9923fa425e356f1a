package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadcache/internal/core/ports/driving"
)

// fakeCoordinator counts SyncAll rounds.
type fakeCoordinator struct {
	rounds atomic.Int32
	err    error
}

func (f *fakeCoordinator) Sync(context.Context, string) error { return nil }

func (f *fakeCoordinator) SyncAll(context.Context) error {
	f.rounds.Add(1)
	return f.err
}

func (f *fakeCoordinator) Status(_ context.Context, listID string) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{ListID: listID}, nil
}

func TestScheduler_RunsImmediatelyThenOnInterval(t *testing.T) {
	coord := &fakeCoordinator{}
	scheduler := NewScheduler(20*time.Millisecond, coord)

	done := make(chan error, 1)
	go func() { done <- scheduler.Start(context.Background()) }()

	// First round fires before the first tick.
	require.Eventually(t, func() bool { return coord.rounds.Load() >= 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return coord.rounds.Load() >= 3 }, time.Second, time.Millisecond)

	require.NoError(t, scheduler.Stop())
	require.NoError(t, <-done)
}

func TestScheduler_RoundErrorsDoNotStopTheLoop(t *testing.T) {
	coord := &fakeCoordinator{err: errors.New("feed down")}
	scheduler := NewScheduler(10*time.Millisecond, coord)

	done := make(chan error, 1)
	go func() { done <- scheduler.Start(context.Background()) }()

	require.Eventually(t, func() bool { return coord.rounds.Load() >= 2 }, time.Second, time.Millisecond)

	require.NoError(t, scheduler.Stop())
	require.NoError(t, <-done)
}

func TestScheduler_ContextCancellationStopsLoop(t *testing.T) {
	coord := &fakeCoordinator{}
	scheduler := NewScheduler(time.Hour, coord)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	require.Eventually(t, func() bool { return coord.rounds.Load() == 1 }, time.Second, time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScheduler_StopIdempotent(t *testing.T) {
	scheduler := NewScheduler(time.Hour, &fakeCoordinator{})

	// Stopping a scheduler that never started is a no-op.
	require.NoError(t, scheduler.Stop())
	require.NoError(t, scheduler.Stop())
}

func TestScheduler_DefaultInterval(t *testing.T) {
	scheduler := NewScheduler(0, &fakeCoordinator{})
	assert.Equal(t, DefaultSyncInterval, scheduler.interval)
}

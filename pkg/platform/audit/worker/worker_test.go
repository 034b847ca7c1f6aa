package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/audit"
	"antygravity/pkg/platform/audit/store/memory"
	"antygravity/pkg/platform/audit/worker"
)

func TestWorker_PersistsEmittedEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewInMemoryStore()
	emitter := audit.NewEmitter(8, logger)
	w := worker.New(store, emitter.Inbox(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	userID := id.UserID(uuid.New())
	emitter.Emit(ctx, userID, audit.EventUserCreated, "user", "registered with password")
	emitter.Emit(ctx, userID, audit.EventDeviceBlocked, "device", "")

	require.Eventually(t, func() bool {
		events, err := store.ListByUser(context.Background(), userID.String())
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByUser(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, string(audit.EventUserCreated), events[0].Action)
	assert.Equal(t, "user", events[0].Subject)
	assert.NotZero(t, events[0].Timestamp)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestEmitter_DropsWhenBufferFull(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	emitter := audit.NewEmitter(1, logger)

	userID := id.UserID(uuid.New())
	// No worker draining: the second emit must not block.
	emitter.Emit(context.Background(), userID, audit.EventUserLoggedIn, "user", "")
	emitter.Emit(context.Background(), userID, audit.EventUserLoggedIn, "user", "")

	assert.Len(t, emitter.Inbox(), 1)
}

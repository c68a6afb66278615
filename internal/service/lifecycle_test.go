package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

// stepClock hands out strictly increasing millisecond timestamps, one
// second apart, so start/finish order follows call order.
type stepClock struct {
	ms atomic.Int64
}

func (c *stepClock) Now() time.Time { return time.UnixMilli(c.NowMs()) }

func (c *stepClock) NowMs() int64 { return c.ms.Add(1000) }

func (c *stepClock) Today() time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func tickingClock() *stepClock { return &stepClock{} }

func TestStartAndFinishBoat(t *testing.T) {
	store := repository.NewMemoryStore()
	event := openEvent(t, store, catOpen)
	registrar := NewRegistrar(store, quietLogger())
	timing := NewTiming(store, tickingClock(), quietLogger())
	ctx := context.Background()

	boat, err := registrar.CreateBoat(ctx, event.ID, catOpen, rower(), "Thames")
	require.NoError(t, err)

	require.NoError(t, timing.StartBoat(ctx, event.ID, boat.ID))
	require.NoError(t, timing.FinishBoat(ctx, event.ID, boat.ID))

	stored, err := store.Boats.GetByID(ctx, boat.ID)
	require.NoError(t, err)
	require.True(t, stored.IsFinished())
	elapsed, err := stored.ElapsedMs()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), elapsed)
}

func TestFinishWithoutStartRejected(t *testing.T) {
	store := repository.NewMemoryStore()
	event := openEvent(t, store, catOpen)
	registrar := NewRegistrar(store, quietLogger())
	timing := NewTiming(store, tickingClock(), quietLogger())
	ctx := context.Background()

	boat, err := registrar.CreateBoat(ctx, event.ID, catOpen, rower(), "Thames")
	require.NoError(t, err)

	err = timing.FinishBoat(ctx, event.ID, boat.ID)
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}

func TestFirstStartMovesClosedEventToRunning(t *testing.T) {
	store := repository.NewMemoryStore()
	event := openEvent(t, store, catOpen)
	registrar := NewRegistrar(store, quietLogger())
	allocator := NewBowAllocator(store, quietLogger())
	lifecycle := NewLifecycle(store, allocator, quietLogger())
	timing := NewTiming(store, tickingClock(), quietLogger())
	ctx := context.Background()

	boat, err := registrar.CreateBoat(ctx, event.ID, catOpen, rower(), "Thames")
	require.NoError(t, err)

	require.NoError(t, lifecycle.CloseRegistration(ctx, event.ID, nil))
	require.NoError(t, timing.StartBoat(ctx, event.ID, boat.ID))

	stored, err := store.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventRunning, stored.Status)
}

func TestCloseRegistrationAssignsBowsThenCloses(t *testing.T) {
	store := repository.NewMemoryStore()
	event := openEvent(t, store, catU19, catOpen)
	allocator := NewBowAllocator(store, quietLogger())
	lifecycle := NewLifecycle(store, allocator, quietLogger())
	ctx := context.Background()

	ids := registerBoats(t, store, event, catOpen, catU19)

	require.NoError(t, lifecycle.CloseRegistration(ctx, event.ID, nil))

	// Default priority is the event's own category order.
	assert.Equal(t, 1, bowOf(t, store, ids[1]))
	assert.Equal(t, 2, bowOf(t, store, ids[0]))

	stored, err := store.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventClosed, stored.Status)

	// Closing twice is rejected, and so are signups afterwards.
	assert.ErrorIs(t, lifecycle.CloseRegistration(ctx, event.ID, nil), models.ErrEventNotOpen)
	registrar := NewRegistrar(store, quietLogger())
	_, err = registrar.CreateBoat(ctx, event.ID, catOpen, rower(), "Thames")
	assert.ErrorIs(t, err, models.ErrEventNotOpen)
}

func TestFinalizeResults(t *testing.T) {
	store := repository.NewMemoryStore()
	event := openEvent(t, store, catOpen)
	registrar := NewRegistrar(store, quietLogger())
	allocator := NewBowAllocator(store, quietLogger())
	lifecycle := NewLifecycle(store, allocator, quietLogger())
	timing := NewTiming(store, tickingClock(), quietLogger())
	ctx := context.Background()

	boat, err := registrar.CreateBoat(ctx, event.ID, catOpen, rower(), "Thames")
	require.NoError(t, err)

	assert.ErrorIs(t, lifecycle.FinalizeResults(ctx, event.ID), models.ErrEventNotOpen,
		"only a running event can finish")

	require.NoError(t, lifecycle.CloseRegistration(ctx, event.ID, nil))
	require.NoError(t, timing.StartBoat(ctx, event.ID, boat.ID))
	require.NoError(t, timing.FinishBoat(ctx, event.ID, boat.ID))
	require.NoError(t, lifecycle.FinalizeResults(ctx, event.ID))

	stored, err := store.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventFinished, stored.Status)
}

func TestCloseDueEvents(t *testing.T) {
	store := repository.NewMemoryStore()
	allocator := NewBowAllocator(store, quietLogger())
	lifecycle := NewLifecycle(store, allocator, quietLogger())
	ctx := context.Background()

	due := openEvent(t, store, catOpen)
	registerBoats(t, store, due, catOpen)

	notDue := &models.Event{
		ID:         uuid.New(),
		Name:       "Autumn Head",
		HostID:     uuid.New(),
		Status:     models.EventOpen,
		Categories: []string{catOpen},
		StartsAt:   due.StartsAt.Add(240 * time.Hour),
		EndsAt:     due.EndsAt.Add(240 * time.Hour),
		ClosesAt:   due.ClosesAt.Add(240 * time.Hour),
	}
	require.NoError(t, store.Events.Create(ctx, notDue))

	cutoff := due.ClosesAt.Add(time.Hour)
	closed, err := lifecycle.CloseDueEvents(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	stored, err := store.Events.GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventClosed, stored.Status)

	skipped, err := store.Events.GetByID(ctx, notDue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventOpen, skipped.Status)
}

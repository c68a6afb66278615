package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func openEvent(t *testing.T, store *repository.Store, categories ...string) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:         uuid.New(),
		Name:       "Spring Regatta",
		HostID:     uuid.New(),
		Status:     models.EventOpen,
		Categories: categories,
		StartsAt:   time.Now().Add(24 * time.Hour),
		EndsAt:     time.Now().Add(48 * time.Hour),
		ClosesAt:   time.Now().Add(12 * time.Hour),
	}
	require.NoError(t, store.Events.Create(context.Background(), event))
	return event
}

func rower() *models.Participant {
	return &models.Participant{ID: uuid.New(), DisplayName: "Test Rower"}
}

func TestCreateBoat(t *testing.T) {
	store := repository.NewMemoryStore()
	registrar := NewRegistrar(store, quietLogger())
	event := openEvent(t, store, "Men • Senior • 4x+")
	p := rower()

	boat, err := registrar.CreateBoat(context.Background(), event.ID, "Men • Senior • 4x+", p, "Thames RC")
	require.NoError(t, err)

	assert.Equal(t, 4, boat.Size)
	assert.Equal(t, []uuid.UUID{p.ID}, boat.CrewIDs)
	assert.Len(t, boat.InviteCodes, 3, "creator takes the first seat")
	assert.Equal(t, "Thames RC", boat.ClubName)
	assert.Nil(t, boat.BowNumber)

	stored, err := store.Boats.GetByID(context.Background(), boat.ID)
	require.NoError(t, err)
	assert.Equal(t, boat.ID, stored.ID)
}

func TestCreateBoatSingleHasNoInvites(t *testing.T) {
	store := repository.NewMemoryStore()
	registrar := NewRegistrar(store, quietLogger())
	event := openEvent(t, store, "Women • Senior • 1x")

	boat, err := registrar.CreateBoat(context.Background(), event.ID, "Women • Senior • 1x", rower(), "Leander")
	require.NoError(t, err)
	assert.Empty(t, boat.InviteCodes)
}

func TestCreateBoatPreconditions(t *testing.T) {
	store := repository.NewMemoryStore()
	registrar := NewRegistrar(store, quietLogger())
	event := openEvent(t, store, "Men • Senior • 2x")
	ctx := context.Background()

	_, err := registrar.CreateBoat(ctx, event.ID, "Men • U19 • 2x", rower(), "Thames RC")
	assert.ErrorIs(t, err, models.ErrInvalidCategory, "category not enabled for the event")

	_, err = registrar.CreateBoat(ctx, event.ID, "Men • Senior • 2x", rower(), "   ")
	assert.ErrorIs(t, err, models.ErrClubRequired)

	require.NoError(t, store.Events.UpdateStatus(ctx, event.ID, models.EventClosed))
	_, err = registrar.CreateBoat(ctx, event.ID, "Men • Senior • 2x", rower(), "Thames RC")
	assert.ErrorIs(t, err, models.ErrEventNotOpen)

	_, err = registrar.CreateBoat(ctx, uuid.New(), "Men • Senior • 2x", rower(), "Thames RC")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDuplicateSignupSequential(t *testing.T) {
	store := repository.NewMemoryStore()
	registrar := NewRegistrar(store, quietLogger())
	event := openEvent(t, store, "Men • Senior • 2x")
	p := rower()
	ctx := context.Background()

	_, err := registrar.CreateBoat(ctx, event.ID, "Men • Senior • 2x", p, "Thames RC")
	require.NoError(t, err)

	_, err = registrar.CreateBoat(ctx, event.ID, "Men • Senior • 2x", p, "Thames RC")
	assert.ErrorIs(t, err, models.ErrDuplicateSignup)

	boats, err := store.Boats.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, boats, 1, "the failed signup must not leave a boat behind")
}

func TestDuplicateSignupConcurrent(t *testing.T) {
	store := repository.NewMemoryStore()
	registrar := NewRegistrar(store, quietLogger())
	event := openEvent(t, store, "Men • Senior • 2x")
	p := rower()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = registrar.CreateBoat(context.Background(), event.ID, "Men • Senior • 2x", p, "Thames RC")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, models.ErrDuplicateSignup))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent signup may win")

	boats, err := store.Boats.ListByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, boats, 1)
}

func TestSameParticipantDifferentCategories(t *testing.T) {
	store := repository.NewMemoryStore()
	registrar := NewRegistrar(store, quietLogger())
	event := openEvent(t, store, "Men • Senior • 1x", "Men • Senior • 2x")
	p := rower()
	ctx := context.Background()

	_, err := registrar.CreateBoat(ctx, event.ID, "Men • Senior • 1x", p, "Thames RC")
	require.NoError(t, err)
	_, err = registrar.CreateBoat(ctx, event.ID, "Men • Senior • 2x", p, "Thames RC")
	require.NoError(t, err, "the guard is per category, not per event")
}

func TestJoinBoatWithInviteCode(t *testing.T) {
	store := repository.NewMemoryStore()
	registrar := NewRegistrar(store, quietLogger())
	event := openEvent(t, store, "Men • Senior • 2x")
	ctx := context.Background()

	boat, err := registrar.CreateBoat(ctx, event.ID, "Men • Senior • 2x", rower(), "Thames RC")
	require.NoError(t, err)
	require.Len(t, boat.InviteCodes, 1)
	code := boat.InviteCodes[0]

	joiner := rower()
	joined, err := registrar.JoinBoatWithInviteCode(ctx, event.ID, code, joiner)
	require.NoError(t, err)
	assert.Contains(t, joined.CrewIDs, joiner.ID)
	assert.Empty(t, joined.InviteCodes)

	// The code is single-use.
	_, err = registrar.JoinBoatWithInviteCode(ctx, event.ID, code, rower())
	assert.ErrorIs(t, err, models.ErrInvalidCode)

	_, err = registrar.JoinBoatWithInviteCode(ctx, event.ID, "BOGUSCODE", rower())
	assert.ErrorIs(t, err, models.ErrInvalidCode)
}

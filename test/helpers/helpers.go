// Package helpers provides shared fixtures for integration and e2e tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

// DefaultCategories is the category set used by test events.
var DefaultCategories = []string{
	"Open • Open • 1x",
	"Women • U19 • 2x",
	"Mixed • Masters C • 4x+",
}

// NewOpenEvent builds an open event accepting signups for an hour.
func NewOpenEvent() *models.Event {
	now := time.Now().UTC()
	return &models.Event{
		ID:         uuid.New(),
		Name:       "Test Regatta",
		HostID:     uuid.New(),
		Status:     models.EventOpen,
		Categories: append([]string(nil), DefaultCategories...),
		StartsAt:   now.Add(24 * time.Hour),
		EndsAt:     now.Add(26 * time.Hour),
		ClosesAt:   now.Add(time.Hour),
	}
}

// NewParticipant builds a participant with the given age as of today.
func NewParticipant(gender models.ParticipantGender, age int) *models.Participant {
	dob := time.Now().UTC().AddDate(-age, 0, -1)
	return &models.Participant{
		ID:          uuid.New(),
		DisplayName: "Test Rower",
		Gender:      gender,
		DateOfBirth: &dob,
	}
}

// NewBoat builds an unregistered boat for the given event and category.
func NewBoat(eventID uuid.UUID, categoryLabel, clubName string, size int, codes []string) *models.Boat {
	return &models.Boat{
		ID:           uuid.New(),
		EventID:      eventID,
		CategoryName: categoryLabel,
		ClubName:     clubName,
		Size:         size,
		CrewIDs:      []uuid.UUID{uuid.New()},
		InviteCodes:  codes,
	}
}

// RegisterBoat persists the boat together with its captain's signup guard.
func RegisterBoat(t *testing.T, ctx context.Context, store *repository.Store, boat *models.Boat) {
	t.Helper()
	guard := &models.SignupGuard{
		EventID:       boat.EventID,
		ParticipantID: boat.CrewIDs[0],
		Category:      boat.CategoryName,
		BoatID:        boat.ID,
	}
	require.NoError(t, store.Signups.CreateBoatWithGuard(ctx, boat, guard))
}

// Package repository defines the store interfaces the core services are
// written against, with a Postgres implementation for production and an
// in-memory implementation for tests. Services never touch a concrete
// store type.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/regatta-hub/internal/models"
)

// EventRepository manages event lifecycle records.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error
	// ListDueForClose returns open events whose close date is behind now.
	ListDueForClose(ctx context.Context, now time.Time) ([]*models.Event, error)
}

// BoatRepository reads boats and writes timing stamps and bow numbers.
type BoatRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Boat, error)
	// ListByEvent returns the event's boats in creation order, which is
	// the registration order bow allocation depends on.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Boat, error)
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]*models.Boat, error)
	SetStarted(ctx context.Context, boatID uuid.UUID, ms int64) error
	SetFinished(ctx context.Context, boatID uuid.UUID, ms int64) error

	// ReassignBows runs assign over the event's boats and persists the
	// returned numbering, all under the event lock so a boat created
	// mid-allocation can be neither skipped nor double-numbered. The
	// numbering replaces whatever was there before.
	ReassignBows(ctx context.Context, eventID uuid.UUID, assign func(boats []*models.Boat) (map[uuid.UUID]int, error)) error
}

// SignupRepository owns the two writes that must be atomic with each other.
type SignupRepository interface {
	// CreateBoatWithGuard persists the boat and its signup guard as one
	// unit. A guard collision fails the whole operation with
	// models.ErrDuplicateSignup and leaves no boat behind.
	CreateBoatWithGuard(ctx context.Context, boat *models.Boat, guard *models.SignupGuard) error
	// RedeemInviteCode consumes one outstanding code on the matching boat
	// and seats the participant. models.ErrInvalidCode when no boat in the
	// event carries the code; models.ErrBoatFull when the crew is already
	// at capacity.
	RedeemInviteCode(ctx context.Context, eventID uuid.UUID, code string, participantID uuid.UUID) (*models.Boat, error)
}

// Store bundles the repositories behind one injection point.
type Store struct {
	Events  EventRepository
	Boats   BoatRepository
	Signups SignupRepository
}

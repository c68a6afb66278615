package models

import (
	"time"

	"github.com/google/uuid"
)

// Boat is a crew entry in one category of one event.
//
// CategoryName is the canonical label; Category and CategoryID are legacy
// columns kept for records written before the label was normalized. Read the
// label through CategoryLabel, never the fields directly.
type Boat struct {
	ID           uuid.UUID   `db:"id" json:"id" validate:"required,uuid4"`
	EventID      uuid.UUID   `db:"event_id" json:"event_id" validate:"required,uuid4"`
	CategoryName string      `db:"category_name" json:"category_name"`
	Category     string      `db:"category" json:"category,omitempty"`
	CategoryID   string      `db:"category_id" json:"category_id,omitempty"`
	ClubName     string      `db:"club_name" json:"club_name" validate:"required"`
	Size         int         `db:"size" json:"size" validate:"required,gt=0"`
	CrewIDs      []uuid.UUID `db:"crew_ids" json:"crew_ids"`
	InviteCodes  []string    `db:"invite_codes" json:"invite_codes"`
	BowNumber    *int        `db:"bow_number" json:"bow_number,omitempty"`
	StartedAt    *int64      `db:"started_at" json:"started_at,omitempty"`
	FinishedAt   *int64      `db:"finished_at" json:"finished_at,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// CategoryLabel returns the boat's category label, resolving the legacy
// fallback chain once at the model boundary.
func (b *Boat) CategoryLabel() string {
	return NormalizeCategoryLabel(b.CategoryName, b.Category, b.CategoryID)
}

// HasStarted reports whether a start timestamp has been captured.
func (b *Boat) HasStarted() bool {
	return b.StartedAt != nil
}

// IsFinished reports whether the boat has both timestamps and is eligible
// for ranking.
func (b *Boat) IsFinished() bool {
	return b.StartedAt != nil && b.FinishedAt != nil
}

// ElapsedMs returns finish minus start in milliseconds, ErrNotFinished
// without both timestamps. A negative value means the timing capture is
// corrupt; callers surface ErrDataIntegrity for that boat and keep computing
// the rest.
func (b *Boat) ElapsedMs() (int64, error) {
	if !b.IsFinished() {
		return 0, ErrNotFinished
	}
	elapsed := *b.FinishedAt - *b.StartedAt
	if elapsed < 0 {
		return 0, ErrDataIntegrity
	}
	return elapsed, nil
}

// OpenSeats returns the number of unclaimed invite codes.
func (b *Boat) OpenSeats() int {
	return len(b.InviteCodes)
}

// SignupGuard is the uniqueness record created in the same transaction as
// its boat. Its (event, participant, category) key is what makes a second
// signup in the same category fail instead of producing a second boat.
type SignupGuard struct {
	ID            uuid.UUID `db:"id" json:"id"`
	EventID       uuid.UUID `db:"event_id" json:"event_id" validate:"required,uuid4"`
	ParticipantID uuid.UUID `db:"participant_id" json:"participant_id" validate:"required,uuid4"`
	Category      string    `db:"category" json:"category" validate:"required"`
	BoatID        uuid.UUID `db:"boat_id" json:"boat_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

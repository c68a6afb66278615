package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft    EventStatus = "draft"
	EventOpen     EventStatus = "open"
	EventClosed   EventStatus = "closed"
	EventRunning  EventStatus = "running"
	EventFinished EventStatus = "finished"
)

// Event represents a regatta hosted on the platform.
type Event struct {
	ID         uuid.UUID   `db:"id" json:"id" validate:"required,uuid4"`
	Name       string      `db:"name" json:"name" validate:"required"`
	HostID     uuid.UUID   `db:"host_id" json:"host_id" validate:"required,uuid4"`
	Status     EventStatus `db:"status" json:"status" validate:"oneof=draft open closed running finished"`
	Categories []string    `db:"categories" json:"categories"`
	StartsAt   time.Time   `db:"starts_at" json:"starts_at" validate:"required"`
	EndsAt     time.Time   `db:"ends_at" json:"ends_at" validate:"required"`
	ClosesAt   time.Time   `db:"closes_at" json:"closes_at" validate:"required"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}

// AcceptsSignups reports whether new boats may register. Only open events do.
func (e *Event) AcceptsSignups() bool {
	return e.Status == EventOpen
}

// HasCategory reports whether the label is one of the event's enabled
// categories.
func (e *Event) HasCategory(label string) bool {
	for _, c := range e.Categories {
		if c == label {
			return true
		}
	}
	return false
}

// RegistrationDue reports whether the close date has passed at the given time.
func (e *Event) RegistrationDue(now time.Time) bool {
	return e.Status == EventOpen && now.After(e.ClosesAt)
}

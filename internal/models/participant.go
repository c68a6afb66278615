package models

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantGender is the profile gender supplied by the identity provider.
type ParticipantGender string

const (
	ParticipantMale   ParticipantGender = "male"
	ParticipantFemale ParticipantGender = "female"
)

// Participant is the slice of an identity-provider profile the core needs:
// gender and date of birth drive eligibility, nothing else is read.
type Participant struct {
	ID          uuid.UUID         `json:"id" validate:"required,uuid4"`
	DisplayName string            `json:"display_name"`
	Gender      ParticipantGender `json:"gender,omitempty"`
	DateOfBirth *time.Time        `json:"date_of_birth,omitempty"`
}

// AgeOn returns the participant's age on the given date, adjusting down one
// year when the date falls before the birthday. ok is false without a date
// of birth.
func (p *Participant) AgeOn(date time.Time) (int, bool) {
	if p.DateOfBirth == nil {
		return 0, false
	}
	dob := *p.DateOfBirth
	age := date.Year() - dob.Year()
	if date.Month() < dob.Month() || (date.Month() == dob.Month() && date.Day() < dob.Day()) {
		age--
	}
	return age, true
}

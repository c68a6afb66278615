package models

import "errors"

// Custom errors
var (
	// ErrUnknownBoatClass means a boat class outside the fixed table reached
	// the crew-size mapping. This is a broken category table, not user input.
	ErrUnknownBoatClass = errors.New("unknown boat class in category table")

	ErrDuplicateSignup = errors.New("you already have a boat registered in this category")
	ErrEventNotOpen    = errors.New("event is not open for registration")
	ErrInvalidCategory = errors.New("category is not enabled for this event")
	ErrInvalidCode     = errors.New("invite code is unknown or already used")
	ErrBoatFull        = errors.New("boat has no remaining seats")
	ErrNotFinished     = errors.New("boat has not finished")
	ErrDataIntegrity   = errors.New("boat finished before it started")

	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrClubRequired = errors.New("club name is required")
)

// Package service implements the domain operations over the store
// interfaces: boat signup, crew joining, bow allocation, timing capture and
// results computation.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	applogger "github.com/yourusername/regatta-hub/internal/logger"
	"github.com/yourusername/regatta-hub/internal/metrics"
	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

// Registrar handles boat signup and crew joining for open events.
type Registrar struct {
	store  *repository.Store
	logger *logrus.Logger
	audit  *applogger.AuditLogger
}

// NewRegistrar creates a new registrar over the given store.
func NewRegistrar(store *repository.Store, logger *logrus.Logger) *Registrar {
	if logger == nil {
		logger = logrus.New()
	}
	return &Registrar{store: store, logger: logger, audit: applogger.NewAuditLogger(logger)}
}

// CreateBoat registers a boat for the participant in the given category.
// The creator takes the first seat; the remaining seats become single-use
// invite codes. The boat and its signup guard are written as one atomic
// unit, so a second signup in the same category fails with
// models.ErrDuplicateSignup no matter how the calls interleave.
func (r *Registrar) CreateBoat(ctx context.Context, eventID uuid.UUID, categoryLabel string, participant *models.Participant, clubName string) (*models.Boat, error) {
	event, err := r.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !event.AcceptsSignups() {
		return nil, models.ErrEventNotOpen
	}
	if !event.HasCategory(categoryLabel) {
		return nil, models.ErrInvalidCategory
	}

	category, ok := models.ParseCategory(categoryLabel)
	if !ok {
		// The label is the direct target of the write, so unlike the
		// eligibility listing this surfaces instead of filtering.
		return nil, models.ErrInvalidCategory
	}

	clubName = strings.TrimSpace(clubName)
	if clubName == "" {
		return nil, models.ErrClubRequired
	}

	size, err := category.CrewSize()
	if err != nil {
		return nil, err
	}

	codes, err := GenerateInviteCodes(size - 1)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite codes: %w", err)
	}

	boat := &models.Boat{
		ID:           uuid.New(),
		EventID:      event.ID,
		CategoryName: categoryLabel,
		ClubName:     clubName,
		Size:         size,
		CrewIDs:      []uuid.UUID{participant.ID},
		InviteCodes:  codes,
	}
	guard := &models.SignupGuard{
		ID:            uuid.New(),
		EventID:       event.ID,
		ParticipantID: participant.ID,
		Category:      categoryLabel,
		BoatID:        boat.ID,
	}

	if err := r.store.Signups.CreateBoatWithGuard(ctx, boat, guard); err != nil {
		if errors.Is(err, models.ErrDuplicateSignup) {
			metrics.RecordDuplicateSignup()
			r.logger.WithFields(logrus.Fields{
				"event_id":       event.ID,
				"participant_id": participant.ID,
				"category":       categoryLabel,
			}).Info("Signup rejected by guard")
		}
		return nil, err
	}

	metrics.RecordBoatRegistered(event.ID.String())
	r.audit.LogSignup(event.ID, boat.ID, participant.ID, categoryLabel, clubName, size)

	return boat, nil
}

// JoinBoatWithInviteCode consumes one outstanding invite code on the
// matching boat and seats the participant.
func (r *Registrar) JoinBoatWithInviteCode(ctx context.Context, eventID uuid.UUID, code string, participant *models.Participant) (*models.Boat, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, models.ErrInvalidCode
	}

	boat, err := r.store.Signups.RedeemInviteCode(ctx, eventID, code, participant.ID)
	if err != nil {
		return nil, err
	}

	metrics.RecordInviteRedeemed()
	r.audit.LogInviteRedemption(boat.ID, participant.ID, boat.OpenSeats())

	return boat, nil
}

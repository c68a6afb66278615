package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/regatta-hub/internal/clock"
	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

// Timing captures start and finish timestamps for boats.
type Timing struct {
	store  *repository.Store
	clock  clock.Clock
	logger *logrus.Logger
}

// NewTiming creates a new timing service. A nil clock falls back to the
// system clock.
func NewTiming(store *repository.Store, clk clock.Clock, logger *logrus.Logger) *Timing {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Timing{store: store, clock: clk, logger: logger}
}

// StartBoat stamps the boat's start time with the clock's now. The first
// start of a closed event moves the event to running.
func (t *Timing) StartBoat(ctx context.Context, eventID, boatID uuid.UUID) error {
	boat, err := t.store.Boats.GetByID(ctx, boatID)
	if err != nil {
		return err
	}
	if boat.EventID != eventID {
		return models.ErrNotFound
	}

	now := t.clock.NowMs()
	if err := t.store.Boats.SetStarted(ctx, boatID, now); err != nil {
		return err
	}

	event, err := t.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status == models.EventClosed {
		if err := t.store.Events.UpdateStatus(ctx, eventID, models.EventRunning); err != nil {
			return err
		}
		t.logger.WithField("event_id", eventID).Info("First boat started, event is running")
	}

	t.logger.WithFields(logrus.Fields{
		"event_id":   eventID,
		"boat_id":    boatID,
		"started_at": now,
	}).Info("Boat started")

	return nil
}

// FinishBoat stamps the boat's finish time. A finish without a start, or a
// clock that would place the finish before the start, is rejected as a
// timing capture fault.
func (t *Timing) FinishBoat(ctx context.Context, eventID, boatID uuid.UUID) error {
	boat, err := t.store.Boats.GetByID(ctx, boatID)
	if err != nil {
		return err
	}
	if boat.EventID != eventID {
		return models.ErrNotFound
	}
	if !boat.HasStarted() {
		return models.ErrDataIntegrity
	}

	now := t.clock.NowMs()
	if now < *boat.StartedAt {
		return models.ErrDataIntegrity
	}

	if err := t.store.Boats.SetFinished(ctx, boatID, now); err != nil {
		return err
	}

	t.logger.WithFields(logrus.Fields{
		"event_id":    eventID,
		"boat_id":     boatID,
		"finished_at": now,
		"elapsed_ms":  now - *boat.StartedAt,
	}).Info("Boat finished")

	return nil
}

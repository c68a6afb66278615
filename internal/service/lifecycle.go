package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	applogger "github.com/yourusername/regatta-hub/internal/logger"
	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

// Lifecycle moves events through their states and runs the close-of-
// registration sequence.
type Lifecycle struct {
	store     *repository.Store
	allocator *BowAllocator
	logger    *logrus.Logger
	audit     *applogger.AuditLogger
}

// NewLifecycle creates a new lifecycle service.
func NewLifecycle(store *repository.Store, allocator *BowAllocator, logger *logrus.Logger) *Lifecycle {
	if logger == nil {
		logger = logrus.New()
	}
	return &Lifecycle{
		store:     store,
		allocator: allocator,
		logger:    logger,
		audit:     applogger.NewAuditLogger(logger),
	}
}

// CloseRegistration assigns bow numbers and then closes the event to new
// signups. Bows go first: assignment holds the event lock, so a signup
// racing the close either lands before numbering and gets a bow, or fails
// the open-event check after. A failed assignment leaves the event open for
// a retry.
func (l *Lifecycle) CloseRegistration(ctx context.Context, eventID uuid.UUID, priorityOrder []string) error {
	event, err := l.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != models.EventOpen {
		return models.ErrEventNotOpen
	}

	if len(priorityOrder) == 0 {
		priorityOrder = event.Categories
	}

	if err := l.allocator.AssignBowNumbers(ctx, eventID, priorityOrder); err != nil {
		return err
	}

	if err := l.store.Events.UpdateStatus(ctx, eventID, models.EventClosed); err != nil {
		return err
	}

	l.audit.LogEventStatusChange(eventID, string(models.EventOpen), string(models.EventClosed), "registration_closed")
	return nil
}

// FinalizeResults marks a running event finished.
func (l *Lifecycle) FinalizeResults(ctx context.Context, eventID uuid.UUID) error {
	event, err := l.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != models.EventRunning {
		return models.ErrEventNotOpen
	}

	if err := l.store.Events.UpdateStatus(ctx, eventID, models.EventFinished); err != nil {
		return err
	}

	l.audit.LogEventStatusChange(eventID, string(models.EventRunning), string(models.EventFinished), "results_finalized")
	return nil
}

// CloseDueEvents closes every open event whose registration window has
// passed, assigning bows in the event's own category order. Called from the
// scheduler; one failing event does not stop the sweep.
func (l *Lifecycle) CloseDueEvents(ctx context.Context, now time.Time) (int, error) {
	due, err := l.store.Events.ListDueForClose(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, event := range due {
		if err := l.CloseRegistration(ctx, event.ID, event.Categories); err != nil {
			l.logger.WithError(err).WithField("event_id", event.ID).Error("Failed to close due event")
			continue
		}
		closed++
	}

	if closed > 0 {
		l.logger.WithField("count", closed).Info("Closed due events")
	}
	return closed, nil
}

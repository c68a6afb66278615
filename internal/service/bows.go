package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	applogger "github.com/yourusername/regatta-hub/internal/logger"
	"github.com/yourusername/regatta-hub/internal/metrics"
	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

// BowAllocator assigns event-wide-unique bow numbers to every boat.
type BowAllocator struct {
	store  *repository.Store
	logger *logrus.Logger
	audit  *applogger.AuditLogger
}

// NewBowAllocator creates a new bow allocator over the given store.
func NewBowAllocator(store *repository.Store, logger *logrus.Logger) *BowAllocator {
	if logger == nil {
		logger = logrus.New()
	}
	return &BowAllocator{store: store, logger: logger, audit: applogger.NewAuditLogger(logger)}
}

// AssignBowNumbers renumbers every boat in the event from scratch: category
// blocks follow priorityOrder, leftover categories follow in lexicographic
// label order, and boats inside a block keep registration order. The run
// holds the event lock from the first read to the last write, so it cannot
// interleave with a concurrent signup or a second run.
//
// Rerunning with the same boats reproduces the same numbering. Rerunning
// after new boats arrive rewrites the numbering wholesale, including boats
// that already raced; that hazard is logged, not prevented.
func (a *BowAllocator) AssignBowNumbers(ctx context.Context, eventID uuid.UUID, priorityOrder []string) error {
	started := time.Now()

	numbered := 0
	err := a.store.Boats.ReassignBows(ctx, eventID, func(boats []*models.Boat) (map[uuid.UUID]int, error) {
		assignments := AllocateBows(boats, priorityOrder)
		numbered = len(assignments)

		for _, boat := range boats {
			if boat.HasStarted() && boat.BowNumber != nil && assignments[boat.ID] != *boat.BowNumber {
				a.logger.WithFields(logrus.Fields{
					"event_id": eventID,
					"boat_id":  boat.ID,
					"old_bow":  *boat.BowNumber,
					"new_bow":  assignments[boat.ID],
				}).Warn("Renumbering a boat that already has timing data")
			}
		}

		return assignments, nil
	})
	if err != nil {
		return err
	}

	metrics.RecordBowAssignment(time.Since(started).Seconds())
	a.audit.LogBowAssignment(eventID, numbered, priorityOrder)

	return nil
}

// AllocateBows computes the full bow numbering for the given boats. Pure:
// same boats and priority order in, same numbering out. Boats must arrive
// in creation order, which is how the repositories list them.
func AllocateBows(boats []*models.Boat, priorityOrder []string) map[uuid.UUID]int {
	grouped := make(map[string][]*models.Boat)
	for _, boat := range boats {
		label := boat.CategoryLabel()
		grouped[label] = append(grouped[label], boat)
	}

	assignments := make(map[uuid.UUID]int, len(boats))
	next := 1

	numberCategory := func(label string) {
		for _, boat := range grouped[label] {
			assignments[boat.ID] = next
			next++
		}
		delete(grouped, label)
	}

	for _, label := range priorityOrder {
		if _, present := grouped[label]; present {
			numberCategory(label)
		}
	}

	// Categories the host left out of the priority list come last, each
	// block fully numbered before the next, in label order.
	remaining := make([]string, 0, len(grouped))
	for label := range grouped {
		remaining = append(remaining, label)
	}
	sort.Strings(remaining)
	for _, label := range remaining {
		numberCategory(label)
	}

	return assignments
}

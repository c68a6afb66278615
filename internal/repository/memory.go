package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/regatta-hub/internal/models"
)

// memoryCore holds the shared state behind the in-memory store used in
// tests and local development. One mutex serializes every write, which
// satisfies the same atomicity contract the Postgres store gets from
// transactions and the event lock.
type memoryCore struct {
	mu     sync.Mutex
	events map[uuid.UUID]*models.Event
	boats  map[uuid.UUID]*models.Boat
	guards map[string]*models.SignupGuard
	seq    int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *Store {
	core := &memoryCore{
		events: make(map[uuid.UUID]*models.Event),
		boats:  make(map[uuid.UUID]*models.Boat),
		guards: make(map[string]*models.SignupGuard),
	}
	return &Store{
		Events:  &memoryEventRepository{core},
		Boats:   &memoryBoatRepository{core},
		Signups: &memorySignupRepository{core},
	}
}

type memoryEventRepository struct{ core *memoryCore }

type memoryBoatRepository struct{ core *memoryCore }

type memorySignupRepository struct{ core *memoryCore }

func guardKey(eventID, participantID uuid.UUID, category string) string {
	return fmt.Sprintf("%s|%s|%s", eventID, participantID, category)
}

// tick returns a strictly increasing creation timestamp so boats created in
// the same millisecond still sort in insertion order.
func (c *memoryCore) tick() time.Time {
	c.seq++
	return time.Unix(0, c.seq*int64(time.Millisecond)).UTC()
}

func cloneBoat(b *models.Boat) *models.Boat {
	copied := *b
	copied.CrewIDs = append([]uuid.UUID(nil), b.CrewIDs...)
	copied.InviteCodes = append([]string(nil), b.InviteCodes...)
	if b.BowNumber != nil {
		bow := *b.BowNumber
		copied.BowNumber = &bow
	}
	if b.StartedAt != nil {
		started := *b.StartedAt
		copied.StartedAt = &started
	}
	if b.FinishedAt != nil {
		finished := *b.FinishedAt
		copied.FinishedAt = &finished
	}
	return &copied
}

func cloneEvent(e *models.Event) *models.Event {
	copied := *e
	copied.Categories = append([]string(nil), e.Categories...)
	return &copied
}

func (c *memoryCore) listEventBoatsLocked(eventID uuid.UUID) []*models.Boat {
	var boats []*models.Boat
	for _, boat := range c.boats {
		if boat.EventID == eventID {
			boats = append(boats, boat)
		}
	}
	sort.Slice(boats, func(i, j int) bool {
		if boats[i].CreatedAt.Equal(boats[j].CreatedAt) {
			return boats[i].ID.String() < boats[j].ID.String()
		}
		return boats[i].CreatedAt.Before(boats[j].CreatedAt)
	})
	return boats
}

// Create inserts a new event
func (r *memoryEventRepository) Create(ctx context.Context, event *models.Event) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	if _, exists := r.core.events[event.ID]; exists {
		return models.ErrDuplicateKey
	}
	stored := cloneEvent(event)
	stored.CreatedAt = r.core.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.core.events[event.ID] = stored
	return nil
}

// GetByID retrieves an event by ID
func (r *memoryEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	event, ok := r.core.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneEvent(event), nil
}

// UpdateStatus moves an event to a new lifecycle state
func (r *memoryEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	event, ok := r.core.events[id]
	if !ok {
		return models.ErrNotFound
	}
	event.Status = status
	event.UpdatedAt = r.core.tick()
	return nil
}

// ListDueForClose retrieves open events whose registration window has passed
func (r *memoryEventRepository) ListDueForClose(ctx context.Context, now time.Time) ([]*models.Event, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	var due []*models.Event
	for _, event := range r.core.events {
		if event.Status == models.EventOpen && event.ClosesAt.Before(now) {
			due = append(due, cloneEvent(event))
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ClosesAt.Before(due[j].ClosesAt) })
	return due, nil
}

// GetByID retrieves a boat by ID
func (r *memoryBoatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Boat, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	boat, ok := r.core.boats[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneBoat(boat), nil
}

// ListByEvent retrieves an event's boats in creation order
func (r *memoryBoatRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Boat, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	var boats []*models.Boat
	for _, boat := range r.core.listEventBoatsLocked(eventID) {
		boats = append(boats, cloneBoat(boat))
	}
	return boats, nil
}

// ListByParticipant retrieves every boat the participant is crewed in,
// newest finish first
func (r *memoryBoatRepository) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]*models.Boat, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	var boats []*models.Boat
	for _, boat := range r.core.boats {
		for _, crew := range boat.CrewIDs {
			if crew == participantID {
				boats = append(boats, cloneBoat(boat))
				break
			}
		}
	}
	sort.Slice(boats, func(i, j int) bool {
		fi, fj := int64(-1), int64(-1)
		if boats[i].FinishedAt != nil {
			fi = *boats[i].FinishedAt
		}
		if boats[j].FinishedAt != nil {
			fj = *boats[j].FinishedAt
		}
		return fi > fj
	})
	return boats, nil
}

// SetStarted stamps the boat's start time
func (r *memoryBoatRepository) SetStarted(ctx context.Context, boatID uuid.UUID, ms int64) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	boat, ok := r.core.boats[boatID]
	if !ok {
		return models.ErrNotFound
	}
	boat.StartedAt = &ms
	boat.UpdatedAt = r.core.tick()
	return nil
}

// SetFinished stamps the boat's finish time
func (r *memoryBoatRepository) SetFinished(ctx context.Context, boatID uuid.UUID, ms int64) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	boat, ok := r.core.boats[boatID]
	if !ok {
		return models.ErrNotFound
	}
	boat.FinishedAt = &ms
	boat.UpdatedAt = r.core.tick()
	return nil
}

// ReassignBows reads, assigns and writes bow numbers under the store lock
func (r *memoryBoatRepository) ReassignBows(ctx context.Context, eventID uuid.UUID, assign func(boats []*models.Boat) (map[uuid.UUID]int, error)) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	stored := r.core.listEventBoatsLocked(eventID)
	view := make([]*models.Boat, len(stored))
	for i, boat := range stored {
		view[i] = cloneBoat(boat)
	}

	assignments, err := assign(view)
	if err != nil {
		return err
	}

	for boatID, bow := range assignments {
		boat, ok := r.core.boats[boatID]
		if !ok {
			return models.ErrNotFound
		}
		number := bow
		boat.BowNumber = &number
		boat.UpdatedAt = r.core.tick()
	}
	return nil
}

// CreateBoatWithGuard persists the boat and its guard as one unit
func (r *memorySignupRepository) CreateBoatWithGuard(ctx context.Context, boat *models.Boat, guard *models.SignupGuard) error {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	key := guardKey(guard.EventID, guard.ParticipantID, guard.Category)
	if _, exists := r.core.guards[key]; exists {
		return models.ErrDuplicateSignup
	}

	stored := cloneBoat(boat)
	stored.CreatedAt = r.core.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.core.boats[boat.ID] = stored

	storedGuard := *guard
	storedGuard.CreatedAt = stored.CreatedAt
	r.core.guards[key] = &storedGuard
	return nil
}

// RedeemInviteCode consumes one outstanding code and seats the participant
func (r *memorySignupRepository) RedeemInviteCode(ctx context.Context, eventID uuid.UUID, code string, participantID uuid.UUID) (*models.Boat, error) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	for _, boat := range r.core.boats {
		if boat.EventID != eventID {
			continue
		}
		for i, candidate := range boat.InviteCodes {
			if candidate != code {
				continue
			}
			if len(boat.CrewIDs) >= boat.Size {
				return nil, models.ErrBoatFull
			}
			boat.InviteCodes = append(boat.InviteCodes[:i], boat.InviteCodes[i+1:]...)
			boat.CrewIDs = append(boat.CrewIDs, participantID)
			boat.UpdatedAt = r.core.tick()
			return cloneBoat(boat), nil
		}
	}

	return nil, models.ErrInvalidCode
}

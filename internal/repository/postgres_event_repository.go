package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/regatta-hub/internal/database"
	"github.com/yourusername/regatta-hub/internal/models"
)

const errScanEvent = "failed to scan event: %w"

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *database.DB
}

// NewPostgresEventRepository creates a new event repository
func NewPostgresEventRepository(db *database.DB) EventRepository {
	return &PostgresEventRepository{db: db}
}

// Create inserts a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (id, name, host_id, status, categories, starts_at, ends_at, closes_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		event.ID, event.Name, event.HostID, event.Status, event.Categories,
		event.StartsAt, event.EndsAt, event.ClosesAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `
		SELECT id, name, host_id, status, categories, starts_at, ends_at, closes_at,
		       created_at, updated_at
		FROM events WHERE id = $1
	`

	event := &models.Event{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&event.ID, &event.Name, &event.HostID, &event.Status, &event.Categories,
		&event.StartsAt, &event.EndsAt, &event.ClosesAt, &event.CreatedAt, &event.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// UpdateStatus moves an event to a new lifecycle state
func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ListDueForClose retrieves open events whose registration window has passed
func (r *PostgresEventRepository) ListDueForClose(ctx context.Context, now time.Time) ([]*models.Event, error) {
	query := `
		SELECT id, name, host_id, status, categories, starts_at, ends_at, closes_at,
		       created_at, updated_at
		FROM events
		WHERE status = 'open' AND closes_at < $1
		ORDER BY closes_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query events due for close: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID, &event.Name, &event.HostID, &event.Status, &event.Categories,
			&event.StartsAt, &event.EndsAt, &event.ClosesAt, &event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanEvent, err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

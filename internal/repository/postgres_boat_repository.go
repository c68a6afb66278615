package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/regatta-hub/internal/database"
	"github.com/yourusername/regatta-hub/internal/models"
)

const (
	errScanBoat = "failed to scan boat: %w"

	boatColumns = `id, event_id, category_name, category, category_id, club_name, size,
		       crew_ids, invite_codes, bow_number, started_at, finished_at,
		       created_at, updated_at`

	// All writers that read-then-write an event's boat set take this
	// transaction-scoped lock, keyed on the event id. It is what keeps
	// bow reassignment and concurrent signups from interleaving.
	lockEventQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
)

// PostgresBoatRepository implements BoatRepository for PostgreSQL
type PostgresBoatRepository struct {
	db *database.DB
}

// NewPostgresBoatRepository creates a new boat repository
func NewPostgresBoatRepository(db *database.DB) BoatRepository {
	return &PostgresBoatRepository{db: db}
}

func scanBoat(row pgx.Row) (*models.Boat, error) {
	boat := &models.Boat{}
	err := row.Scan(
		&boat.ID, &boat.EventID, &boat.CategoryName, &boat.Category, &boat.CategoryID,
		&boat.ClubName, &boat.Size, &boat.CrewIDs, &boat.InviteCodes, &boat.BowNumber,
		&boat.StartedAt, &boat.FinishedAt, &boat.CreatedAt, &boat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return boat, nil
}

// GetByID retrieves a boat by ID
func (r *PostgresBoatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Boat, error) {
	query := `SELECT ` + boatColumns + ` FROM boats WHERE id = $1`

	boat, err := scanBoat(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get boat: %w", err)
	}

	return boat, nil
}

// ListByEvent retrieves an event's boats in creation (registration) order
func (r *PostgresBoatRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Boat, error) {
	query := `SELECT ` + boatColumns + ` FROM boats WHERE event_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.GetPool().Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query boats by event: %w", err)
	}
	defer rows.Close()

	return collectBoats(rows)
}

// ListByParticipant retrieves every boat the participant is crewed in,
// newest finish first
func (r *PostgresBoatRepository) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]*models.Boat, error) {
	query := `SELECT ` + boatColumns + ` FROM boats
		WHERE crew_ids @> ARRAY[$1]::uuid[]
		ORDER BY finished_at DESC NULLS LAST, created_at DESC`

	rows, err := r.db.GetPool().Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query boats by participant: %w", err)
	}
	defer rows.Close()

	return collectBoats(rows)
}

func collectBoats(rows pgx.Rows) ([]*models.Boat, error) {
	var boats []*models.Boat
	for rows.Next() {
		boat, err := scanBoat(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanBoat, err)
		}
		boats = append(boats, boat)
	}
	return boats, rows.Err()
}

// SetStarted stamps the boat's start time
func (r *PostgresBoatRepository) SetStarted(ctx context.Context, boatID uuid.UUID, ms int64) error {
	query := `UPDATE boats SET started_at = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, boatID, ms)
	if err != nil {
		return fmt.Errorf("failed to set boat start time: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetFinished stamps the boat's finish time
func (r *PostgresBoatRepository) SetFinished(ctx context.Context, boatID uuid.UUID, ms int64) error {
	query := `UPDATE boats SET finished_at = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, boatID, ms)
	if err != nil {
		return fmt.Errorf("failed to set boat finish time: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ReassignBows reads the event's boats and persists the numbering returned
// by assign, holding the event lock for the whole read-assign-write window.
func (r *PostgresBoatRepository) ReassignBows(ctx context.Context, eventID uuid.UUID, assign func(boats []*models.Boat) (map[uuid.UUID]int, error)) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockEventQuery, eventID.String()); err != nil {
			return fmt.Errorf("failed to lock event for bow assignment: %w", err)
		}

		query := `SELECT ` + boatColumns + ` FROM boats WHERE event_id = $1 ORDER BY created_at ASC, id ASC FOR UPDATE`
		rows, err := tx.Query(ctx, query, eventID)
		if err != nil {
			return fmt.Errorf("failed to query boats for bow assignment: %w", err)
		}
		boats, err := collectBoats(rows)
		if err != nil {
			return err
		}

		assignments, err := assign(boats)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for boatID, bow := range assignments {
			batch.Queue(`UPDATE boats SET bow_number = $2, updated_at = NOW() WHERE id = $1`, boatID, bow)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range assignments {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to write bow number: %w", err)
			}
		}

		return results.Close()
	})
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/regatta-hub/internal/database"
	"github.com/yourusername/regatta-hub/internal/models"
)

const uniqueViolationCode = "23505"

// PostgresSignupRepository implements SignupRepository for PostgreSQL
type PostgresSignupRepository struct {
	db *database.DB
}

// NewPostgresSignupRepository creates a new signup repository
func NewPostgresSignupRepository(db *database.DB) SignupRepository {
	return &PostgresSignupRepository{db: db}
}

// CreateBoatWithGuard inserts the boat and its guard in one transaction.
// The guard's unique index is the arbiter: when two signups race, the loser
// hits a unique violation at commit and the whole transaction rolls back,
// so a guard without a boat (or the reverse) can never persist.
func (r *PostgresSignupRepository) CreateBoatWithGuard(ctx context.Context, boat *models.Boat, guard *models.SignupGuard) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockEventQuery, boat.EventID.String()); err != nil {
			return fmt.Errorf("failed to lock event for signup: %w", err)
		}

		boatQuery := `
			INSERT INTO boats (id, event_id, category_name, category, category_id, club_name,
			                   size, crew_ids, invite_codes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err := tx.Exec(ctx, boatQuery,
			boat.ID, boat.EventID, boat.CategoryName, boat.Category, boat.CategoryID,
			boat.ClubName, boat.Size, boat.CrewIDs, boat.InviteCodes,
		)
		if err != nil {
			return fmt.Errorf("failed to create boat: %w", err)
		}

		guardQuery := `
			INSERT INTO signup_guards (id, event_id, participant_id, category, boat_id)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err = tx.Exec(ctx, guardQuery,
			guard.ID, guard.EventID, guard.ParticipantID, guard.Category, guard.BoatID,
		)
		if err != nil {
			return fmt.Errorf("failed to create signup guard: %w", err)
		}

		return nil
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return models.ErrDuplicateSignup
	}
	return err
}

// RedeemInviteCode consumes one outstanding code and seats the participant
func (r *PostgresSignupRepository) RedeemInviteCode(ctx context.Context, eventID uuid.UUID, code string, participantID uuid.UUID) (*models.Boat, error) {
	var boat *models.Boat

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + boatColumns + ` FROM boats
			WHERE event_id = $1 AND $2 = ANY(invite_codes)
			FOR UPDATE`

		found, err := scanBoat(tx.QueryRow(ctx, query, eventID, code))
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("failed to look up invite code: %w", err)
		}

		if len(found.CrewIDs) >= found.Size {
			return models.ErrBoatFull
		}

		update := `
			UPDATE boats
			SET invite_codes = array_remove(invite_codes, $2),
			    crew_ids = array_append(crew_ids, $3),
			    updated_at = NOW()
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, update, found.ID, code, participantID); err != nil {
			return fmt.Errorf("failed to redeem invite code: %w", err)
		}

		found.InviteCodes = removeString(found.InviteCodes, code)
		found.CrewIDs = append(found.CrewIDs, participantID)
		boat = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return boat, nil
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

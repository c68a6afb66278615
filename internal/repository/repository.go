package repository

import (
	"fmt"

	"github.com/yourusername/regatta-hub/internal/database"
)

// NewPostgresStore creates the production store over a pgx pool.
func NewPostgresStore(db *database.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Store{
		Events:  NewPostgresEventRepository(db),
		Boats:   NewPostgresBoatRepository(db),
		Signups: NewPostgresSignupRepository(db),
	}, nil
}

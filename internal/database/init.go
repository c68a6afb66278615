package database

import (
	"context"
	"fmt"

	"github.com/yourusername/regatta-hub/internal/config"
)

// Initialize creates a database connection pool and sanity-checks the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// The signup guard's unique index is what makes duplicate-category
	// registration fail instead of double-writing; refuse to start without it.
	var indexName string
	err = db.pool.QueryRow(ctx,
		"SELECT indexname FROM pg_indexes WHERE tablename = 'signup_guards' AND indexname = 'signup_guards_event_participant_category_key'",
	).Scan(&indexName)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf(
			"signup_guards unique index not found; run database migrations before starting: %w", err,
		)
	}

	var migrationCount int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&migrationCount)
	if err != nil {
		// Table might not exist yet, which is OK for initial setup
		return db, nil
	}

	if migrationCount == 0 {
		fmt.Println("Warning: No migrations have been applied. Please run database migrations.")
	}

	return db, nil
}

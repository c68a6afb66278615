package models

import "github.com/google/uuid"

// Result is the derived, never-persisted view of a finished boat's race:
// elapsed time, 1-based placement within its (event, category) group, and
// the display labels the leaderboard renders.
type Result struct {
	BoatID     uuid.UUID `json:"boat_id"`
	EventID    uuid.UUID `json:"event_id"`
	Category   string    `json:"category"`
	ClubName   string    `json:"club_name"`
	CrewLabel  string    `json:"crew_label"`
	BowNumber  *int      `json:"bow_number,omitempty"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	Place      int       `json:"place"`
	FinishedAt int64     `json:"finished_at"`
}

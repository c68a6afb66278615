package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

func finishedBoat(category, club string, size int, startMs, finishMs int64) *models.Boat {
	return &models.Boat{
		ID:           uuid.New(),
		EventID:      uuid.New(),
		CategoryName: category,
		ClubName:     club,
		Size:         size,
		StartedAt:    &startMs,
		FinishedAt:   &finishMs,
	}
}

func TestComputePlacement(t *testing.T) {
	boats := []*models.Boat{
		finishedBoat(catWomen, "Thames", 2, 0, 120000),
		finishedBoat(catWomen, "Leander", 2, 0, 90000),
		finishedBoat(catWomen, "Molesey", 2, 0, 150000),
	}

	results, flagged := Compute(boats)
	require.Empty(t, flagged)
	require.Len(t, results, 3)

	byBoat := make(map[uuid.UUID]models.Result)
	for _, result := range results {
		byBoat[result.BoatID] = result
	}

	assert.Equal(t, 2, byBoat[boats[0].ID].Place)
	assert.Equal(t, 1, byBoat[boats[1].ID].Place)
	assert.Equal(t, 3, byBoat[boats[2].ID].Place)
}

func TestComputeSkipsUnfinishedBoats(t *testing.T) {
	start := int64(1000)
	boats := []*models.Boat{
		finishedBoat(catWomen, "Thames", 2, 0, 90000),
		{ID: uuid.New(), CategoryName: catWomen, ClubName: "Molesey", Size: 2, StartedAt: &start},
		{ID: uuid.New(), CategoryName: catWomen, ClubName: "Leander", Size: 2},
	}

	results, flagged := Compute(boats)
	assert.Empty(t, flagged)
	require.Len(t, results, 1)
	assert.Equal(t, boats[0].ID, results[0].BoatID)
}

func TestComputeFlagsNegativeElapsed(t *testing.T) {
	corrupt := finishedBoat(catWomen, "Thames", 2, 90000, 1000)
	ok := finishedBoat(catWomen, "Leander", 2, 0, 80000)

	results, flagged := Compute([]*models.Boat{corrupt, ok})

	require.Len(t, flagged, 1)
	assert.Equal(t, corrupt.ID, flagged[0].ID)
	require.Len(t, results, 1, "one corrupt boat must not sink the computation")
	assert.Equal(t, ok.ID, results[0].BoatID)
	assert.Equal(t, 1, results[0].Place)
}

func TestComputePlacementIsPerCategory(t *testing.T) {
	boats := []*models.Boat{
		finishedBoat(catWomen, "Thames", 2, 0, 100000),
		finishedBoat(catOpen, "Thames", 1, 0, 90000),
	}

	results, _ := Compute(boats)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, 1, result.Place, "each category ranks independently")
	}
}

func TestCrewLabels(t *testing.T) {
	fast := finishedBoat(catWomen, "Thames", 2, 0, 90000)
	slow := finishedBoat(catWomen, "Thames", 2, 0, 120000)
	other := finishedBoat(catWomen, "Leander", 2, 0, 100000)

	results, _ := Compute([]*models.Boat{slow, other, fast})

	labels := make(map[uuid.UUID]string)
	for _, result := range results {
		labels[result.BoatID] = result.CrewLabel
	}

	assert.Equal(t, "Thames A", labels[fast.ID], "club's fastest crew letters first")
	assert.Equal(t, "Thames B", labels[slow.ID])
	assert.Equal(t, "Leander A", labels[other.ID])
}

func TestCrewLettersPastZ(t *testing.T) {
	assert.Equal(t, "A", crewLetters(0))
	assert.Equal(t, "Z", crewLetters(25))
	assert.Equal(t, "AA", crewLetters(26))
	assert.Equal(t, "AB", crewLetters(27))
	assert.Equal(t, "AZ", crewLetters(51))
	assert.Equal(t, "BA", crewLetters(52))

	boats := make([]*models.Boat, 0, 27)
	for i := 0; i < 27; i++ {
		boats = append(boats, finishedBoat(catWomen, "Thames", 2, 0, int64(90000+i*1000)))
	}

	results, _ := Compute(boats)
	require.Len(t, results, 27)
	assert.Equal(t, "Thames AA", results[26].CrewLabel, "27th crew of a club stays printable")
}

func TestSinglesNeverLettered(t *testing.T) {
	first := finishedBoat(catOpen, "Thames", 1, 0, 90000)
	second := finishedBoat(catOpen, "Thames", 1, 0, 120000)

	results, _ := Compute([]*models.Boat{first, second})

	for _, result := range results {
		assert.Equal(t, "Thames Single", result.CrewLabel)
	}
}

func TestFormatPlace(t *testing.T) {
	tests := []struct {
		place int
		want  string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{101, "101st"},
		{111, "111th"},
		{112, "112th"},
		{113, "113th"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPlace(tt.place), "place %d", tt.place)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0.0"},
		{5000, "5.0"},
		{59999, "59.9"},
		{60000, "1:00.0"},
		{65432, "1:05.4"},
		{90000, "1:30.0"},
		{600000, "10:00.0"},
		{3723400, "62:03.4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.ms), "%dms", tt.ms)
	}
}

func TestLeaderboardOrdersByEventCategories(t *testing.T) {
	store := repository.NewMemoryStore()
	event := openEvent(t, store, catU19, catOpen)
	registrar := NewRegistrar(store, quietLogger())
	timing := NewTiming(store, tickingClock(), quietLogger())
	results := NewResults(store, quietLogger())
	ctx := context.Background()

	for _, label := range []string{catOpen, catU19} {
		boat, err := registrar.CreateBoat(ctx, event.ID, label, rower(), "Thames")
		require.NoError(t, err)
		require.NoError(t, timing.StartBoat(ctx, event.ID, boat.ID))
		require.NoError(t, timing.FinishBoat(ctx, event.ID, boat.ID))
	}

	board, err := results.Leaderboard(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, catU19, board[0].Category, "leaderboard follows the event's category order")
	assert.Equal(t, catOpen, board[1].Category)
}

func TestHistoryForParticipantMostRecentFirst(t *testing.T) {
	store := repository.NewMemoryStore()
	event := openEvent(t, store, catOpen)
	registrar := NewRegistrar(store, quietLogger())
	results := NewResults(store, quietLogger())
	ctx := context.Background()
	p := rower()

	older, err := registrar.CreateBoat(ctx, event.ID, catOpen, p, "Thames")
	require.NoError(t, err)

	event2 := openEvent(t, store, catOpen)
	newer, err := registrar.CreateBoat(ctx, event2.ID, catOpen, p, "Thames")
	require.NoError(t, err)

	require.NoError(t, store.Boats.SetStarted(ctx, older.ID, 1000))
	require.NoError(t, store.Boats.SetFinished(ctx, older.ID, 95000))
	require.NoError(t, store.Boats.SetStarted(ctx, newer.ID, 200000))
	require.NoError(t, store.Boats.SetFinished(ctx, newer.ID, 290000))

	history, err := results.HistoryForParticipant(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newer.ID, history[0].BoatID, "most recent finish first")
	assert.Equal(t, older.ID, history[1].BoatID)
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	applogger "github.com/yourusername/regatta-hub/internal/logger"
	"github.com/yourusername/regatta-hub/internal/metrics"
	"github.com/yourusername/regatta-hub/internal/models"
	"github.com/yourusername/regatta-hub/internal/repository"
)

// Results computes placements and display labels from recorded timing data.
type Results struct {
	store  *repository.Store
	logger *logrus.Logger
	audit  *applogger.AuditLogger
}

// NewResults creates a new results engine over the given store.
func NewResults(store *repository.Store, logger *logrus.Logger) *Results {
	if logger == nil {
		logger = logrus.New()
	}
	return &Results{store: store, logger: logger, audit: applogger.NewAuditLogger(logger)}
}

// CategoryResults is one category's block on the leaderboard, fastest first.
type CategoryResults struct {
	Category string          `json:"category"`
	Results  []models.Result `json:"results"`
}

// ComputeResults computes results for every finished boat in the event.
// A boat with corrupt timing data is dropped and counted, never allowed to
// sink the rest of the computation.
func (r *Results) ComputeResults(ctx context.Context, eventID uuid.UUID) ([]models.Result, error) {
	started := time.Now()

	boats, err := r.store.Boats.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	results, flagged := Compute(boats)
	for _, boat := range flagged {
		metrics.RecordTimingIntegrityError()
		r.audit.LogTimingIntegrityError(eventID, boat.ID, *boat.StartedAt, *boat.FinishedAt)
	}

	metrics.RecordResultsComputed(time.Since(started).Seconds())
	return results, nil
}

// ComputeCategoryResults computes results for one category of the event.
func (r *Results) ComputeCategoryResults(ctx context.Context, eventID uuid.UUID, categoryLabel string) ([]models.Result, error) {
	all, err := r.ComputeResults(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var results []models.Result
	for _, result := range all {
		if result.Category == categoryLabel {
			results = append(results, result)
		}
	}
	return results, nil
}

// Leaderboard groups the event's results per category, in the event's
// category order with any stragglers appended in label order.
func (r *Results) Leaderboard(ctx context.Context, eventID uuid.UUID) ([]CategoryResults, error) {
	event, err := r.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	all, err := r.ComputeResults(ctx, eventID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Result)
	for _, result := range all {
		grouped[result.Category] = append(grouped[result.Category], result)
	}

	var board []CategoryResults
	appendBlock := func(label string) {
		if results, present := grouped[label]; present {
			board = append(board, CategoryResults{Category: label, Results: results})
			delete(grouped, label)
		}
	}

	for _, label := range event.Categories {
		appendBlock(label)
	}
	remaining := make([]string, 0, len(grouped))
	for label := range grouped {
		remaining = append(remaining, label)
	}
	sort.Strings(remaining)
	for _, label := range remaining {
		appendBlock(label)
	}

	return board, nil
}

// HistoryForParticipant returns the participant's finished races, most
// recent finish first, across every event they rowed in.
func (r *Results) HistoryForParticipant(ctx context.Context, participantID uuid.UUID) ([]models.Result, error) {
	boats, err := r.store.Boats.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	byEvent := make(map[uuid.UUID][]*models.Boat)
	for _, boat := range boats {
		byEvent[boat.EventID] = append(byEvent[boat.EventID], boat)
	}

	var history []models.Result
	for eventID := range byEvent {
		// Placement is relative to the whole category group, so compute
		// against every boat in the event, then keep the participant's.
		eventBoats, err := r.store.Boats.ListByEvent(ctx, eventID)
		if err != nil {
			return nil, err
		}
		results, _ := Compute(eventBoats)
		for _, result := range results {
			for _, boat := range byEvent[eventID] {
				if result.BoatID == boat.ID {
					history = append(history, result)
				}
			}
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].FinishedAt > history[j].FinishedAt
	})
	return history, nil
}

// Compute derives results from raw boats: finished boats only, placed
// 1-based by ascending elapsed time within their category, with club crew
// labels attached. Boats whose finish precedes their start come back in
// flagged and are excluded. Pure and deterministic.
func Compute(boats []*models.Boat) (results []models.Result, flagged []*models.Boat) {
	byCategory := make(map[string][]*models.Boat)
	for _, boat := range boats {
		if !boat.IsFinished() {
			continue
		}
		if _, err := boat.ElapsedMs(); err != nil {
			flagged = append(flagged, boat)
			continue
		}
		byCategory[boat.CategoryLabel()] = append(byCategory[boat.CategoryLabel()], boat)
	}

	labels := make([]string, 0, len(byCategory))
	for label := range byCategory {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		group := byCategory[label]
		sort.SliceStable(group, func(i, j int) bool {
			ei, _ := group[i].ElapsedMs()
			ej, _ := group[j].ElapsedMs()
			return ei < ej
		})

		crewLabels := assignCrewLabels(group)
		for place, boat := range group {
			elapsed, _ := boat.ElapsedMs()
			results = append(results, models.Result{
				BoatID:     boat.ID,
				EventID:    boat.EventID,
				Category:   label,
				ClubName:   boat.ClubName,
				CrewLabel:  crewLabels[boat.ID],
				BowNumber:  boat.BowNumber,
				ElapsedMs:  elapsed,
				Place:      place + 1,
				FinishedAt: *boat.FinishedAt,
			})
		}
	}

	return results, flagged
}

// assignCrewLabels letters a club's crews within a category by ascending
// elapsed time, so the fastest crew of a club is "Club A". Single-seat boats
// are always "{club} Single", letters never apply.
func assignCrewLabels(group []*models.Boat) map[uuid.UUID]string {
	labels := make(map[uuid.UUID]string, len(group))
	countByClub := make(map[string]int)

	// group is already sorted by elapsed ascending.
	for _, boat := range group {
		if boat.Size == 1 {
			labels[boat.ID] = boat.ClubName + " Single"
			continue
		}
		letters := crewLetters(countByClub[boat.ClubName])
		countByClub[boat.ClubName]++
		labels[boat.ID] = boat.ClubName + " " + letters
	}

	return labels
}

// crewLetters maps a zero-based crew index to A..Z then AA, AB, ... like
// spreadsheet columns, so a club's 27th crew stays printable.
func crewLetters(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

// FormatPlace renders a 1-based placement as an ordinal: 1st, 2nd, 3rd,
// 4th... with 11-13 always taking "th".
func FormatPlace(place int) string {
	if v := place % 100; v >= 11 && v <= 13 {
		return fmt.Sprintf("%dth", place)
	}
	switch place % 10 {
	case 1:
		return fmt.Sprintf("%dst", place)
	case 2:
		return fmt.Sprintf("%dnd", place)
	case 3:
		return fmt.Sprintf("%drd", place)
	default:
		return fmt.Sprintf("%dth", place)
	}
}

// FormatElapsed renders elapsed milliseconds as "M:SS.s" at a minute or
// more, bare "SS.s" under a minute. The decile digit truncates.
func FormatElapsed(ms int64) string {
	deciles := ms / 100
	seconds := deciles / 10
	decile := deciles % 10

	if seconds >= 60 {
		return fmt.Sprintf("%d:%02d.%d", seconds/60, seconds%60, decile)
	}
	return fmt.Sprintf("%d.%d", seconds, decile)
}

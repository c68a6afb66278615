// Package logger provides audit logging.
package logger

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for registration
// and race-day events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSignup logs a boat registration event.
func (al *AuditLogger) LogSignup(eventID, boatID, participantID uuid.UUID, category, clubName string, crewSize int) {
	al.WithFields(logrus.Fields{
		"event_id":       eventID,
		"boat_id":        boatID,
		"participant_id": participantID,
		"category":       category,
		"club_name":      clubName,
		"crew_size":      crewSize,
	}).Info("Boat registered")
}

// LogInviteRedemption logs an invite code redemption.
func (al *AuditLogger) LogInviteRedemption(boatID, participantID uuid.UUID, seatsRemaining int) {
	al.WithFields(logrus.Fields{
		"boat_id":         boatID,
		"participant_id":  participantID,
		"seats_remaining": seatsRemaining,
	}).Info("Invite code redeemed")
}

// LogBowAssignment logs a bow number assignment run.
func (al *AuditLogger) LogBowAssignment(eventID uuid.UUID, boatsNumbered int, priorityOrder []string) {
	al.WithFields(logrus.Fields{
		"event_id":       eventID,
		"boats_numbered": boatsNumbered,
		"priority_order": priorityOrder,
	}).Info("Bow numbers assigned")
}

// LogEventStatusChange logs an event lifecycle transition.
func (al *AuditLogger) LogEventStatusChange(eventID uuid.UUID, oldStatus, newStatus, reason string) {
	al.WithFields(logrus.Fields{
		"event_id":   eventID,
		"old_status": oldStatus,
		"new_status": newStatus,
		"reason":     reason,
	}).Info("Event status changed")
}

// LogTimingIntegrityError logs a boat excluded from results because of
// corrupt timing data.
func (al *AuditLogger) LogTimingIntegrityError(eventID, boatID uuid.UUID, startedAt, finishedAt int64) {
	al.WithFields(logrus.Fields{
		"event_id":    eventID,
		"boat_id":     boatID,
		"started_at":  startedAt,
		"finished_at": finishedAt,
	}).Warn("Timing integrity error recorded")
}

package id

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Namespace UUIDs for the deterministic identifiers (UUIDv5 requires a namespace)
var (
	ReminderNamespace = uuid.MustParse("3f1c7a52-0b4e-5d1a-9c2e-7a4b6d8e1f01")
	FireNamespace     = uuid.MustParse("3f1c7a52-0b4e-5d1a-9c2e-7a4b6d8e1f02")
)

// NewSessionID returns a random identifier for one countdown session.
// Sessions can start within the same instant, so the ID is not derived from
// the start time.
func NewSessionID() string {
	return fmt.Sprintf("session_%s", uuid.New().String())
}

// GenerateReminderID generates a deterministic ID for a reminder based on its name
func GenerateReminderID(name string) string {
	id := uuid.NewSHA1(ReminderNamespace, []byte(name))
	return fmt.Sprintf("reminder_%s", id.String())
}

// GenerateFireID generates a deterministic ID for one trigger fire of a reminder
// based on the reminder ID and the scheduled time
func GenerateFireID(reminderID string, scheduledTime time.Time) string {
	// RFC3339 keeps the representation stable across time zones
	timeStr := scheduledTime.UTC().Format(time.RFC3339)
	combined := fmt.Sprintf("%s:%s", reminderID, timeStr)
	id := uuid.NewSHA1(FireNamespace, []byte(combined))
	return fmt.Sprintf("fire_%s", id.String())
}

// IsSessionID reports whether s looks like a value produced by NewSessionID
func IsSessionID(s string) bool {
	const prefix = "session_"
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return false
	}
	_, err := uuid.Parse(s[len(prefix):])
	return err == nil
}

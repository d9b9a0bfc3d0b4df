package services

import (
	"fmt"
	"time"

	"rental-backend/models"
)

// cleanerAllowedFields is the update allowlist for the cleaner role.
var cleanerAllowedFields = map[string]bool{
	"status": true,
	"notes":  true,
}

// ValidateCleanerUpdate rejects any payload key a cleaner is not allowed to
// touch.
func ValidateCleanerUpdate(payload map[string]interface{}) error {
	for key := range payload {
		if !cleanerAllowedFields[key] {
			return fmt.Errorf("field %q not allowed for cleaner updates", key)
		}
	}
	return nil
}

// ApplyStatusTransition stamps CompletedAt exactly once on the first move to
// completed; repeat submissions of "completed" keep the original timestamp.
// Moving away from completed clears it so a later re-completion restamps.
func ApplyStatusTransition(task *models.CleaningTask, newStatus string, now time.Time) {
	switch {
	case newStatus == models.TaskStatusCompleted && task.CompletedAt == nil:
		t := now
		task.CompletedAt = &t
	case newStatus != models.TaskStatusCompleted && task.CompletedAt != nil:
		task.CompletedAt = nil
	}
	task.Status = newStatus
}

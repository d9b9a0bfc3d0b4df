package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

type CleaningTask struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID    uint  `gorm:"index;column:property_id" json:"propertyId"`
	ReservationID *uint `gorm:"index;column:reservation_id" json:"reservationId,omitempty"`
	AssigneeID    *uint `gorm:"index;column:assignee_id" json:"assigneeId,omitempty"`
	CreatedByID   uint  `gorm:"column:created_by_id" json:"createdById"`

	ScheduledDate time.Time `gorm:"column:scheduled_date" json:"scheduledDate"`
	Status        string    `gorm:"size:32;default:'pending'" json:"status"`
	Notes         string    `gorm:"type:text" json:"notes"`

	// Stamped exactly once on the first transition to completed.
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`

	Property    Property     `gorm:"foreignKey:PropertyID;references:ID" json:"property,omitempty"`
	Reservation *Reservation `gorm:"foreignKey:ReservationID;references:ID" json:"reservation,omitempty"`
	Assignee    *User        `gorm:"foreignKey:AssigneeID;references:ID" json:"assignee,omitempty"`
}

func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

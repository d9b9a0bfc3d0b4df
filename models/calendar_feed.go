package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// CalendarFeed is one external iCal subscription for a property
// (Airbnb/VRBO/Booking export URL).
type CalendarFeed struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID uint   `gorm:"index;column:property_id" json:"propertyId"`
	Name       string `gorm:"size:255" json:"name"`
	URL        string `gorm:"size:1024" json:"url"`
	Source     string `gorm:"size:32;default:'other'" json:"source"`

	Enabled             bool `gorm:"default:true" json:"enabled"`
	SyncIntervalMinutes int  `gorm:"column:sync_interval_minutes;default:30" json:"syncIntervalMinutes"`

	LastSyncAt     *time.Time `gorm:"column:last_sync_at" json:"lastSyncAt,omitempty"`
	LastSyncStatus string     `gorm:"column:last_sync_status;size:32;default:'pending'" json:"lastSyncStatus"`
	LastSyncError  string     `gorm:"column:last_sync_error;type:text" json:"lastSyncError,omitempty"`

	Property Property `gorm:"foreignKey:PropertyID;references:ID" json:"-"`
}

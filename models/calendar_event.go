package models

import (
	"time"
)

// CalendarEvent is one synced VEVENT from a feed. Rows are hard-deleted when
// their external id disappears from the feed; (feed_id, external_id) is unique
// so re-syncs upsert instead of duplicating.
type CalendarEvent struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FeedID     uint   `gorm:"index;column:feed_id;uniqueIndex:idx_feed_external" json:"feedId"`
	PropertyID uint   `gorm:"index;column:property_id" json:"propertyId"`
	ExternalID string `gorm:"column:external_id;size:255;uniqueIndex:idx_feed_external;type:varchar(255)" json:"externalId"`

	Title     string    `gorm:"size:255" json:"title"`
	StartDate time.Time `gorm:"column:start_date" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date" json:"endDate"`

	GuestName  string `gorm:"size:255" json:"guestName,omitempty"`
	GuestCount int    `gorm:"column:guest_count" json:"guestCount,omitempty"`

	// "reserved" or "blocked" depending on what the feed exposes.
	BookingStatus string `gorm:"column:booking_status;size:32" json:"bookingStatus"`

	Feed CalendarFeed `gorm:"foreignKey:FeedID;references:ID" json:"-"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation sources. "manual" covers bookings entered by the owner or
// submitted through the guest booking-request form.
const (
	SourceAirbnb = "airbnb"
	SourceZillow = "zillow"
	SourceManual = "manual"
	SourceOther  = "other"
)

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID uint `gorm:"index;column:property_id" json:"propertyId"`

	CheckIn  time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out" json:"checkOut"`

	GuestName  string `gorm:"size:255" json:"guestName"`
	GuestEmail string `gorm:"size:150" json:"guestEmail,omitempty"`
	GuestPhone string `gorm:"size:50" json:"guestPhone,omitempty"`
	GuestCount int    `gorm:"column:guest_count;default:1" json:"guestCount"`

	Source string `gorm:"size:32;default:'manual'" json:"source"`
	Status string `gorm:"size:32;default:'confirmed'" json:"status"`

	ReferenceCode string `gorm:"column:reference_code;size:64" json:"referenceCode,omitempty"`

	// Identifier/url from the external platform, when imported.
	ExternalID  string `gorm:"column:external_id;size:255" json:"externalId,omitempty"`
	ExternalURL string `gorm:"column:external_url;size:512" json:"externalUrl,omitempty"`

	// Raw import payload kept for debugging imports.
	RawPayload datatypes.JSON `gorm:"column:raw_payload" json:"-"`

	Property Property `gorm:"foreignKey:PropertyID;references:ID" json:"property,omitempty"`
}

func IsValidSource(s string) bool {
	switch s {
	case SourceAirbnb, SourceZillow, SourceManual, SourceOther:
		return true
	}
	return false
}

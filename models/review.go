package models

import (
	"time"
)

type PropertyReview struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`

	PropertyID uint `gorm:"index;column:property_id" json:"propertyId"`

	GuestName string `gorm:"size:255" json:"guestName"`
	Rating    int    `json:"rating"`

	// Per-category ratings as shown on the listing page.
	Cleanliness   int `json:"cleanliness,omitempty"`
	Accuracy      int `json:"accuracy,omitempty"`
	Communication int `json:"communication,omitempty"`
	Location      int `json:"location,omitempty"`
	Value         int `json:"value,omitempty"`

	Comment  string     `gorm:"type:text" json:"comment"`
	StayDate *time.Time `gorm:"column:stay_date" json:"stayDate,omitempty"`

	Property Property `gorm:"foreignKey:PropertyID;references:ID" json:"-"`
}

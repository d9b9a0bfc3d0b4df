package models

import (
	"time"

	"gorm.io/datatypes"
)

type GuidebookSection struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PropertyID uint `gorm:"index;column:property_id" json:"propertyId"`

	Title     string `gorm:"size:255" json:"title"`
	Body      string `gorm:"type:text" json:"body"`
	Icon      string `gorm:"size:100" json:"icon,omitempty"`
	SortOrder int    `gorm:"column:sort_order;default:0" json:"sortOrder"`

	Property Property `gorm:"foreignKey:PropertyID;references:ID" json:"-"`
}

type GuidebookRecommendation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PropertyID uint `gorm:"index;column:property_id" json:"propertyId"`

	Name        string  `gorm:"size:255" json:"name"`
	Category    string  `gorm:"size:100" json:"category"`
	Description string  `gorm:"type:text" json:"description"`
	Address     string  `gorm:"size:512" json:"address,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`

	// Typed JSON array column instead of ad hoc text-encoded tags.
	Tags datatypes.JSON `json:"tags,omitempty"`

	Property Property `gorm:"foreignKey:PropertyID;references:ID" json:"-"`
}

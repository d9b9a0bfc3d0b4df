package models

import (
	"gorm.io/gorm"
)

// Property types accepted from the frontend form.
const (
	PropertyTypeHouse     = "house"
	PropertyTypeApartment = "apartment"
	PropertyTypeCondo     = "condo"
	PropertyTypeCabin     = "cabin"
	PropertyTypeOther     = "other"
)

type Property struct {
	gorm.Model

	OwnerID uint `gorm:"index;column:owner_id" json:"ownerId"`

	Name        string `json:"name" gorm:"size:255"`
	Slug        string `json:"slug" gorm:"size:255;uniqueIndex;type:varchar(255)"`
	Description string `json:"description" gorm:"type:text"`

	PropertyType string `json:"propertyType" gorm:"column:property_type;size:50"`

	// Address sub-document flattened into columns.
	Street  string `json:"street" gorm:"size:255"`
	City    string `json:"city" gorm:"size:100"`
	State   string `json:"state" gorm:"size:100"`
	Zip     string `json:"zip" gorm:"size:20"`
	Country string `json:"country" gorm:"size:100"`

	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	MaxGuests    int     `json:"maxGuests" gorm:"column:max_guests"`
	NightlyPrice float64 `json:"nightlyPrice" gorm:"column:nightly_price"`

	Owner User `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
}

func IsValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCondo, PropertyTypeCabin, PropertyTypeOther:
		return true
	}
	return false
}

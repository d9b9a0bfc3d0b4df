package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleOwner   = "owner"
	RoleCleaner = "cleaner"
	RoleGuest   = "guest"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FullName string `gorm:"size:255" json:"fullName"`
	Email    string `gorm:"size:150;uniqueIndex" json:"email"`
	Password string `gorm:"size:255" json:"-"`
	Role     string `gorm:"size:32;default:'owner'" json:"role"`
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
}

package services

import (
	"testing"

	"rental-backend/config"
	"rental-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}

	// A second pool connection would see an empty database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestProperty(t *testing.T, db *gorm.DB, ownerID uint) models.Property {
	t.Helper()

	prop := models.Property{
		OwnerID:      ownerID,
		Name:         "Test Cabin",
		Slug:         "test-cabin",
		PropertyType: models.PropertyTypeCabin,
		MaxGuests:    4,
	}
	if err := db.Create(&prop).Error; err != nil {
		t.Fatalf("creating property: %v", err)
	}
	return prop
}

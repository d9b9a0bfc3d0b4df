package services

import (
	"errors"

	"rental-backend/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrNotAllowed = errors.New("not allowed")
)

// RequirePropertyOwner is the single ownership check used by every mutating
// handler: load the property, 404 if absent, 403 if the caller is not the
// owner. Returns the property so callers don't reload it.
func RequirePropertyOwner(db *gorm.DB, propertyID, userID uint) (*models.Property, error) {
	var prop models.Property
	if err := db.First(&prop, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if prop.OwnerID != userID {
		return nil, ErrNotAllowed
	}
	return &prop, nil
}

// RequireTaskAccess resolves a cleaning task and decides what the caller may
// do with it: the property owner gets full access, the assigned cleaner gets
// restricted access (status/notes only), everyone else gets ErrNotAllowed.
func RequireTaskAccess(db *gorm.DB, taskID, userID uint) (*models.CleaningTask, bool, error) {
	var task models.CleaningTask
	if err := db.Preload("Property").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	if task.Property.OwnerID == userID {
		return &task, true, nil
	}
	if task.AssigneeID != nil && *task.AssigneeID == userID {
		return &task, false, nil
	}
	return nil, false, ErrNotAllowed
}

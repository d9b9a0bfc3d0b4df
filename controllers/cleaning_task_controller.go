package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rental-backend/config"
	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type cleaningTaskPayload struct {
	PropertyID    uint   `json:"propertyId" binding:"required"`
	ReservationID *uint  `json:"reservationId"`
	AssigneeID    *uint  `json:"assigneeId"`
	ScheduledDate string `json:"scheduledDate" binding:"required"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// ----------------------------------------------------
// 1. Create (POST /api/cleaning-tasks) — owner only
// ----------------------------------------------------

func CreateCleaningTask(c *gin.Context) {
	var payload cleaningTaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, payload.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	scheduled, err := time.Parse(services.DateLayout, payload.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid scheduledDate, expected YYYY-MM-DD"})
		return
	}

	status := payload.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !models.IsValidTaskStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid status."})
		return
	}

	task := models.CleaningTask{
		PropertyID:    payload.PropertyID,
		ReservationID: payload.ReservationID,
		AssigneeID:    payload.AssigneeID,
		CreatedByID:   userID,
		ScheduledDate: scheduled,
		Notes:         strings.TrimSpace(payload.Notes),
	}
	services.ApplyStatusTransition(&task, status, time.Now().UTC())

	if err := config.DB.Create(&task).Error; err != nil {
		log.Printf("DB error creating cleaning task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ----------------------------------------------------
// 2. List (GET /api/cleaning-tasks)
// ----------------------------------------------------

// GetCleaningTasks lists tasks for the caller: owners see tasks on their
// properties (optionally filtered by propertyId/status), cleaners see only
// tasks assigned to them.
func GetCleaningTasks(c *gin.Context) {
	userID, role := middleware.CurrentUser(c)

	query := config.DB.Model(&models.CleaningTask{}).
		Preload("Property").
		Preload("Reservation").
		Order("scheduled_date ASC")

	if role == models.RoleCleaner {
		query = query.Where("assignee_id = ?", userID)
	} else {
		query = query.Joins("JOIN properties ON properties.id = cleaning_tasks.property_id").
			Where("properties.owner_id = ?", userID)
	}

	if raw := c.Query("propertyId"); raw != "" {
		propertyID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid propertyId"})
			return
		}
		query = query.Where("cleaning_tasks.property_id = ?", propertyID)
	}
	if status := c.Query("status"); status != "" {
		if !models.IsValidTaskStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid status filter"})
			return
		}
		query = query.Where("cleaning_tasks.status = ?", status)
	}

	var tasks []models.CleaningTask
	if err := query.Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// ----------------------------------------------------
// 3. Get one (GET /api/cleaning-tasks/:id)
// ----------------------------------------------------

func GetCleaningTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	task, _, err := services.RequireTaskAccess(config.DB, id, userID)
	if err != nil {
		respondOwnershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ----------------------------------------------------
// 4. Update (PUT /api/cleaning-tasks/:id)
// ----------------------------------------------------

// UpdateCleaningTask applies a partial update. Property owners may touch any
// field; the assigned cleaner is restricted to status and notes by the field
// allowlist — anything else in the payload is a 400.
func UpdateCleaningTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	task, isOwner, err := services.RequireTaskAccess(config.DB, id, userID)
	if err != nil {
		respondOwnershipError(c, err)
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if !isOwner {
		if err := services.ValidateCleanerUpdate(payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
	}

	if raw, ok := payload["status"]; ok {
		status, isString := raw.(string)
		if !isString || !models.IsValidTaskStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid status."})
			return
		}
		services.ApplyStatusTransition(task, status, time.Now().UTC())
	}
	if raw, ok := payload["notes"]; ok {
		notes, isString := raw.(string)
		if !isString {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid notes."})
			return
		}
		task.Notes = notes
	}

	if isOwner {
		if raw, ok := payload["scheduledDate"]; ok {
			dateStr, isString := raw.(string)
			if !isString {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid scheduledDate."})
				return
			}
			scheduled, err := time.Parse(services.DateLayout, dateStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid scheduledDate, expected YYYY-MM-DD"})
				return
			}
			task.ScheduledDate = scheduled
		}
		if raw, ok := payload["assigneeId"]; ok {
			switch v := raw.(type) {
			case nil:
				task.AssigneeID = nil
			case float64:
				assignee := uint(v)
				task.AssigneeID = &assignee
			default:
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid assigneeId."})
				return
			}
		}
	}

	if err := config.DB.Omit(clause.Associations).Save(task).Error; err != nil {
		log.Printf("update error for cleaning task %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, task)
}

// ----------------------------------------------------
// 5. Delete (DELETE /api/cleaning-tasks/:id) — owner only
// ----------------------------------------------------

func DeleteCleaningTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	_, isOwner, err := services.RequireTaskAccess(config.DB, id, userID)
	if err != nil {
		respondOwnershipError(c, err)
		return
	}
	if !isOwner {
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Not authorized for this resource"})
		return
	}

	if err := config.DB.Delete(&models.CleaningTask{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete task."})
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Task deleted successfully")
}

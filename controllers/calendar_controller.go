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
	"gorm.io/gorm"
)

type CalendarController struct {
	sync      *services.SyncService
	scheduler *services.SyncScheduler
}

func NewCalendarController(sync *services.SyncService, scheduler *services.SyncScheduler) *CalendarController {
	return &CalendarController{sync: sync, scheduler: scheduler}
}

type importReservation struct {
	CheckIn     string `json:"checkIn" binding:"required"`
	CheckOut    string `json:"checkOut" binding:"required"`
	GuestName   string `json:"guestName"`
	GuestEmail  string `json:"guestEmail"`
	GuestPhone  string `json:"guestPhone"`
	GuestCount  int    `json:"guestCount"`
	ExternalID  string `json:"externalId"`
	ExternalURL string `json:"externalUrl"`
}

type importPayload struct {
	PropertyID   uint                `json:"propertyId" binding:"required"`
	Source       string              `json:"source" binding:"required"`
	Reservations []importReservation `json:"reservations" binding:"required"`
}

// ----------------------------------------------------
// 1. Bulk import (POST /api/calendar/import)
// ----------------------------------------------------

// ImportCalendarData inserts reservations in bulk and creates one cleaning
// task per reservation, dated at checkout. The whole batch runs in a single
// transaction so a mid-batch failure leaves nothing half-imported.
func (cc *CalendarController) ImportCalendarData(c *gin.Context) {
	var payload importPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if !models.IsValidSource(payload.Source) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid source."})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, payload.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	imported := make([]models.Reservation, 0, len(payload.Reservations))

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for i, item := range payload.Reservations {
			checkIn, err := time.Parse(services.DateLayout, item.CheckIn)
			if err != nil {
				return &importError{index: i, message: "invalid checkIn date"}
			}
			checkOut, err := time.Parse(services.DateLayout, item.CheckOut)
			if err != nil {
				return &importError{index: i, message: "invalid checkOut date"}
			}
			if !checkOut.After(checkIn) {
				return &importError{index: i, message: "checkOut must be after checkIn"}
			}

			ref, err := utils.GenerateReferenceCode(8)
			if err != nil {
				return err
			}
			guestCount := item.GuestCount
			if guestCount <= 0 {
				guestCount = 1
			}

			res := models.Reservation{
				PropertyID:    payload.PropertyID,
				CheckIn:       checkIn,
				CheckOut:      checkOut,
				GuestName:     strings.TrimSpace(item.GuestName),
				GuestEmail:    strings.TrimSpace(item.GuestEmail),
				GuestPhone:    strings.TrimSpace(item.GuestPhone),
				GuestCount:    guestCount,
				Source:        payload.Source,
				Status:        models.ReservationStatusConfirmed,
				ReferenceCode: ref,
				ExternalID:    strings.TrimSpace(item.ExternalID),
				ExternalURL:   strings.TrimSpace(item.ExternalURL),
			}
			if err := tx.Create(&res).Error; err != nil {
				return err
			}

			task := models.CleaningTask{
				PropertyID:    payload.PropertyID,
				ReservationID: &res.ID,
				CreatedByID:   userID,
				ScheduledDate: checkOut,
				Status:        models.TaskStatusPending,
				Notes:         "Turnover cleaning after " + res.GuestName,
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}

			imported = append(imported, res)
		}
		return nil
	})
	if err != nil {
		if ie, ok := err.(*importError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": ie.message,
				"index":   ie.index,
			})
			return
		}
		log.Printf("calendar import failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Import failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":       "success",
		"imported":     len(imported),
		"reservations": imported,
	})
}

type importError struct {
	index   int
	message string
}

func (e *importError) Error() string { return e.message }

// ----------------------------------------------------
// 2. Reservations (GET /api/calendar/reservations/:propertyId)
// ----------------------------------------------------

func (cc *CalendarController) GetReservations(c *gin.Context) {
	propertyID, ok := paramID(c, "propertyId")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, propertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	var reservations []models.Reservation
	if err := config.DB.Where("property_id = ?", propertyID).Order("check_in ASC").Find(&reservations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// ----------------------------------------------------
// 3. Feed CRUD
// ----------------------------------------------------

type feedPayload struct {
	PropertyID          uint   `json:"propertyId" binding:"required"`
	Name                string `json:"name"`
	URL                 string `json:"url" binding:"required,url"`
	Source              string `json:"source"`
	Enabled             *bool  `json:"enabled"`
	SyncIntervalMinutes int    `json:"syncIntervalMinutes"`
}

func (cc *CalendarController) CreateFeed(c *gin.Context) {
	var payload feedPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	source := payload.Source
	if source == "" {
		source = models.SourceOther
	}
	if !models.IsValidSource(source) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid source."})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, payload.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	feed := models.CalendarFeed{
		PropertyID:          payload.PropertyID,
		Name:                strings.TrimSpace(payload.Name),
		URL:                 strings.TrimSpace(payload.URL),
		Source:              source,
		Enabled:             true,
		SyncIntervalMinutes: payload.SyncIntervalMinutes,
		LastSyncStatus:      models.SyncStatusPending,
	}
	if payload.Enabled != nil {
		feed.Enabled = *payload.Enabled
	}
	if feed.SyncIntervalMinutes <= 0 {
		feed.SyncIntervalMinutes = 30
	}

	if err := config.DB.Create(&feed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}

	if cc.scheduler != nil {
		cc.scheduler.ScheduleFeed(feed)
	}

	c.JSON(http.StatusCreated, feed)
}

func (cc *CalendarController) GetFeeds(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Query("propertyId"), 10, 32)
	if err != nil || propertyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "propertyId query param required"})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, uint(propertyID), userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	var feeds []models.CalendarFeed
	if err := config.DB.Where("property_id = ?", propertyID).Find(&feeds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, feeds)
}

func (cc *CalendarController) UpdateFeed(c *gin.Context) {
	feed, ok := cc.loadOwnedFeed(c)
	if !ok {
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	delete(updateData, "id")
	delete(updateData, "propertyId")
	delete(updateData, "property_id")
	delete(updateData, "createdAt")
	delete(updateData, "created_at")
	delete(updateData, "lastSyncAt")
	delete(updateData, "lastSyncStatus")
	delete(updateData, "lastSyncError")

	if v, ok := updateData["syncIntervalMinutes"]; ok {
		updateData["sync_interval_minutes"] = v
		delete(updateData, "syncIntervalMinutes")
	}

	if err := config.DB.Model(&models.CalendarFeed{}).Where("id = ?", feed.ID).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}

	var updated models.CalendarFeed
	config.DB.First(&updated, feed.ID)

	if cc.scheduler != nil {
		cc.scheduler.ScheduleFeed(updated)
	}

	c.JSON(http.StatusOK, updated)
}

func (cc *CalendarController) DeleteFeed(c *gin.Context) {
	feed, ok := cc.loadOwnedFeed(c)
	if !ok {
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feed_id = ?", feed.ID).Delete(&models.CalendarEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CalendarFeed{}, feed.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete feed."})
		return
	}

	if cc.scheduler != nil {
		cc.scheduler.UnscheduleFeed(feed.ID)
	}

	utils.JSONSuccess(c, http.StatusOK, "Feed deleted successfully")
}

// ----------------------------------------------------
// 4. Manual sync (POST /api/calendar/feeds/:id/sync)
// ----------------------------------------------------

func (cc *CalendarController) SyncFeedNow(c *gin.Context) {
	feed, ok := cc.loadOwnedFeed(c)
	if !ok {
		return
	}

	result, err := cc.sync.SyncFeed(c.Request.Context(), feed.ID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "Sync failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "result": result})
}

// ----------------------------------------------------
// 5. Synced events (GET /api/calendar/events/:propertyId)
// ----------------------------------------------------

func (cc *CalendarController) GetCalendarEvents(c *gin.Context) {
	propertyID, ok := paramID(c, "propertyId")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, propertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	var events []models.CalendarEvent
	if err := config.DB.Where("property_id = ?", propertyID).Order("start_date ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// loadOwnedFeed resolves :id to a feed owned by the caller.
func (cc *CalendarController) loadOwnedFeed(c *gin.Context) (*models.CalendarFeed, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var feed models.CalendarFeed
	if err := config.DB.First(&feed, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Feed not found"})
		return nil, false
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, feed.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return nil, false
	}

	return &feed, true
}

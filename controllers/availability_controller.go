package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rental-backend/config"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ----------------------------------------------------
// 1. Month availability (GET /api/availability/:propertyId)
// ----------------------------------------------------

// GetAvailability returns the blocked-date map and synced events for one
// month. Public: the guest portal calendar reads this.
func GetAvailability(c *gin.Context) {
	propertyID, ok := paramID(c, "propertyId")
	if !ok {
		return
	}

	var prop models.Property
	if err := config.DB.First(&prop, propertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Property not found"})
		return
	}

	now := time.Now().UTC()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid month"})
		return
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	blocked, err := services.BlockedDateMap(config.DB, propertyID, from, to)
	if err != nil {
		log.Printf("availability load failed for property %d: %v", propertyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	var events []models.CalendarEvent
	if err := config.DB.Where("property_id = ? AND start_date < ? AND end_date > ?", propertyID, to, from).
		Order("start_date ASC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blockedDates": blocked,
		"events":       events,
	})
}

// ----------------------------------------------------
// 2. Checkout window (GET /api/availability/:propertyId/checkout-window)
// ----------------------------------------------------

func GetCheckoutWindow(c *gin.Context) {
	propertyID, ok := paramID(c, "propertyId")
	if !ok {
		return
	}

	checkIn, err := time.Parse(services.DateLayout, c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "checkIn query param required, expected YYYY-MM-DD"})
		return
	}

	dates, err := services.CheckoutWindowForProperty(config.DB, propertyID, checkIn, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	if dates == nil {
		dates = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"checkIn": checkIn.Format(services.DateLayout), "checkoutDates": dates})
}

// ----------------------------------------------------
// 3. Booking request (POST /api/booking-requests)
// ----------------------------------------------------

type bookingRequestPayload struct {
	PropertyID uint   `json:"propertyId" binding:"required"`
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Guests     int    `json:"guests"`
}

// CreateBookingRequest accepts a guest booking request. The requested range
// is validated server-side against the current checkout window, so a date
// selection raced by another booking between render and submit is rejected
// here rather than silently double-booked.
func CreateBookingRequest(c *gin.Context) {
	var payload bookingRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	checkIn, err := time.Parse(services.DateLayout, payload.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid checkIn, expected YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse(services.DateLayout, payload.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid checkOut, expected YYYY-MM-DD"})
		return
	}
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "checkOut must be after checkIn"})
		return
	}

	var prop models.Property
	if err := config.DB.First(&prop, payload.PropertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Property not found"})
		return
	}

	guests := payload.Guests
	if guests <= 0 {
		guests = 1
	}
	if prop.MaxGuests > 0 && guests > prop.MaxGuests {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Guest count exceeds property maximum"})
		return
	}

	var created models.Reservation

	// Re-validate right before the insert so a stale client-side selection
	// is rejected. This narrows the race window between two concurrent
	// requests but does not serialize them; overlaps that slip through are
	// surfaced when the owner reviews pending requests.
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		dates, err := services.CheckoutWindowForProperty(tx, payload.PropertyID, checkIn, time.Now().UTC())
		if err != nil {
			return err
		}
		if !containsDate(dates, checkOut.Format(services.DateLayout)) {
			return services.ErrNotAllowed
		}

		ref, err := utils.GenerateReferenceCode(8)
		if err != nil {
			return err
		}
		created = models.Reservation{
			PropertyID:    payload.PropertyID,
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			GuestName:     strings.TrimSpace(payload.Name),
			GuestEmail:    strings.ToLower(strings.TrimSpace(payload.Email)),
			GuestPhone:    strings.TrimSpace(payload.Phone),
			GuestCount:    guests,
			Source:        models.SourceManual,
			Status:        models.ReservationStatusPending,
			ReferenceCode: ref,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		if err == services.ErrNotAllowed {
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "Requested dates are no longer available"})
			return
		}
		log.Printf("booking request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":        "success",
		"referenceCode": created.ReferenceCode,
		"reservation":   created,
	})
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rental-backend/config"
	"rental-backend/controllers"
	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/routes"
	"rental-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	require.NoError(t, config.Migrate(db))
	config.DB = db

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		config.DB = nil
	})

	cc := controllers.NewCalendarController(services.NewSyncService(db), nil)
	return routes.SetupRouter(cc)
}

var userSeq atomic.Uint64

func createUser(t *testing.T, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		FullName: "Test " + role,
		Email:    fmt.Sprintf("%s-%d@test.local", role, userSeq.Add(1)),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, config.DB.Create(&user).Error)

	token, err := middleware.IssueToken(user.ID, user.Role)
	require.NoError(t, err)

	return user, token
}

func createProperty(t *testing.T, ownerID uint, slug string) models.Property {
	t.Helper()

	prop := models.Property{
		OwnerID:      ownerID,
		Name:         "Cabin " + slug,
		Slug:         slug,
		PropertyType: models.PropertyTypeCabin,
		MaxGuests:    4,
	}
	require.NoError(t, config.DB.Create(&prop).Error)
	return prop
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPropertyMutationsRequireOwnership(t *testing.T) {
	router := setupTestAPI(t)

	owner, _ := createUser(t, models.RoleOwner)
	_, intruderToken := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "owned-cabin")

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPut, fmt.Sprintf("/api/properties/%d", prop.ID), gin.H{"name": "Hijacked"}},
		{http.MethodDelete, fmt.Sprintf("/api/properties/%d", prop.ID), nil},
		{http.MethodPost, "/api/calendar/import", gin.H{
			"propertyId": prop.ID,
			"source":     "manual",
			"reservations": []gin.H{
				{"checkIn": "2026-09-10", "checkOut": "2026-09-12", "guestName": "X"},
			},
		}},
		{http.MethodPost, "/api/cleaning-tasks", gin.H{
			"propertyId":    prop.ID,
			"scheduledDate": "2026-09-12",
		}},
		{http.MethodGet, fmt.Sprintf("/api/calendar/reservations/%d", prop.ID), nil},
		{http.MethodPost, "/api/guidebook/sections", gin.H{"propertyId": prop.ID, "title": "Wifi"}},
		{http.MethodPost, "/api/reviews", gin.H{"propertyId": prop.ID, "rating": 5}},
	}

	for _, tc := range cases {
		w := doJSON(router, tc.method, tc.path, intruderToken, tc.body)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPropertyMutationsUnauthenticated(t *testing.T) {
	router := setupTestAPI(t)

	owner, _ := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "cabin-unauth")

	w := doJSON(router, http.MethodPut, fmt.Sprintf("/api/properties/%d", prop.ID), "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCalendarImportCascadesCleaningTasks(t *testing.T) {
	router := setupTestAPI(t)

	owner, token := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "import-cabin")

	w := doJSON(router, http.MethodPost, "/api/calendar/import", token, gin.H{
		"propertyId": prop.ID,
		"source":     "airbnb",
		"reservations": []gin.H{
			{"checkIn": "2026-09-10", "checkOut": "2026-09-13", "guestName": "John Smith", "guestCount": 2},
			{"checkIn": "2026-09-20", "checkOut": "2026-09-22", "guestName": "Maria Garcia"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reservations []models.Reservation
	require.NoError(t, config.DB.Where("property_id = ?", prop.ID).Order("check_in ASC").Find(&reservations).Error)
	require.Len(t, reservations, 2)
	assert.Equal(t, models.SourceAirbnb, reservations[0].Source)
	for _, res := range reservations {
		assert.Len(t, res.ReferenceCode, 8)
	}

	// One cleaning task per imported reservation, dated at checkout.
	var tasks []models.CleaningTask
	require.NoError(t, config.DB.Where("property_id = ?", prop.ID).Order("scheduled_date ASC").Find(&tasks).Error)
	require.Len(t, tasks, 2)
	assert.Equal(t, "2026-09-13", tasks[0].ScheduledDate.Format(services.DateLayout))
	assert.Equal(t, "2026-09-22", tasks[1].ScheduledDate.Format(services.DateLayout))
	require.NotNil(t, tasks[0].ReservationID)
	assert.Equal(t, reservations[0].ID, *tasks[0].ReservationID)
}

func TestCalendarImportRejectsBadDates(t *testing.T) {
	router := setupTestAPI(t)

	owner, token := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "import-bad")

	w := doJSON(router, http.MethodPost, "/api/calendar/import", token, gin.H{
		"propertyId": prop.ID,
		"source":     "manual",
		"reservations": []gin.H{
			{"checkIn": "2026-09-10", "checkOut": "2026-09-12"},
			{"checkIn": "2026-09-15", "checkOut": "2026-09-15"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Transaction rolled everything back, including the first item.
	var count int64
	config.DB.Model(&models.Reservation{}).Where("property_id = ?", prop.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCleanerFieldAllowlist(t *testing.T) {
	router := setupTestAPI(t)

	owner, _ := createUser(t, models.RoleOwner)
	cleaner, cleanerToken := createUser(t, models.RoleCleaner)
	prop := createProperty(t, owner.ID, "cleaner-cabin")

	task := models.CleaningTask{
		PropertyID:    prop.ID,
		AssigneeID:    &cleaner.ID,
		CreatedByID:   owner.ID,
		ScheduledDate: time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		Status:        models.TaskStatusPending,
	}
	require.NoError(t, config.DB.Create(&task).Error)

	path := fmt.Sprintf("/api/cleaning-tasks/%d", task.ID)

	// Any field beyond status/notes is rejected for cleaners.
	w := doJSON(router, http.MethodPut, path, cleanerToken, gin.H{"status": "completed", "scheduledDate": "2026-09-14"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, path, cleanerToken, gin.H{"status": "completed", "notes": "done"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.CleaningTask
	require.NoError(t, config.DB.First(&updated, task.ID).Error)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	firstStamp := *updated.CompletedAt

	// Re-submitting completed keeps the original timestamp.
	w = doJSON(router, http.MethodPut, path, cleanerToken, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, config.DB.First(&updated, task.ID).Error)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, firstStamp.Unix(), updated.CompletedAt.Unix())

	// Cleaners cannot delete tasks.
	w = doJSON(router, http.MethodDelete, path, cleanerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingRequestValidation(t *testing.T) {
	router := setupTestAPI(t)

	owner, _ := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "booking-cabin")

	checkIn := time.Now().UTC().AddDate(0, 0, 10)
	existing := models.Reservation{
		PropertyID: prop.ID,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 3),
		Status:     models.ReservationStatusConfirmed,
		Source:     models.SourceManual,
	}
	require.NoError(t, config.DB.Create(&existing).Error)

	// Overlapping request: check-in lands inside the existing stay.
	w := doJSON(router, http.MethodPost, "/api/booking-requests", "", gin.H{
		"propertyId": prop.ID,
		"checkIn":    checkIn.AddDate(0, 0, 1).Format(services.DateLayout),
		"checkOut":   checkIn.AddDate(0, 0, 5).Format(services.DateLayout),
		"name":       "Jane Doe",
		"email":      "jane@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Free range after the stay ends works; same-day turnover allowed.
	w = doJSON(router, http.MethodPost, "/api/booking-requests", "", gin.H{
		"propertyId": prop.ID,
		"checkIn":    checkIn.AddDate(0, 0, 3).Format(services.DateLayout),
		"checkOut":   checkIn.AddDate(0, 0, 6).Format(services.DateLayout),
		"name":       "Jane Doe",
		"email":      "jane@example.com",
		"guests":     2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ReferenceCode string `json:"referenceCode"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.ReferenceCode, 8)
}

func TestBookingRequestGuestLimit(t *testing.T) {
	router := setupTestAPI(t)

	owner, _ := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "small-cabin")

	checkIn := time.Now().UTC().AddDate(0, 0, 5)
	w := doJSON(router, http.MethodPost, "/api/booking-requests", "", gin.H{
		"propertyId": prop.ID,
		"checkIn":    checkIn.Format(services.DateLayout),
		"checkOut":   checkIn.AddDate(0, 0, 2).Format(services.DateLayout),
		"name":       "Big Group",
		"email":      "group@example.com",
		"guests":     9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	router := setupTestAPI(t)

	owner, _ := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "avail-cabin")

	res := models.Reservation{
		PropertyID: prop.ID,
		CheckIn:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		Status:     models.ReservationStatusConfirmed,
		Source:     models.SourceManual,
	}
	require.NoError(t, config.DB.Create(&res).Error)

	w := doJSON(router, http.MethodGet, fmt.Sprintf("/api/availability/%d?year=2026&month=9", prop.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		BlockedDates map[string]bool `json:"blockedDates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.BlockedDates["2026-09-10"])
	assert.True(t, resp.BlockedDates["2026-09-12"])
	assert.False(t, resp.BlockedDates["2026-09-13"])
}

func TestGuidebookPublicRead(t *testing.T) {
	router := setupTestAPI(t)

	owner, token := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "guide-cabin")

	w := doJSON(router, http.MethodPost, "/api/guidebook/sections", token, gin.H{
		"propertyId": prop.ID,
		"title":      "Check-in",
		"body":       "Lockbox code sent on arrival day.",
		"sortOrder":  1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/guidebook/guide-cabin", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))

	var resp struct {
		Sections []models.GuidebookSection `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, "Check-in", resp.Sections[0].Title)
}

func TestReviewAggregation(t *testing.T) {
	router := setupTestAPI(t)

	owner, _ := createUser(t, models.RoleOwner)
	prop := createProperty(t, owner.ID, "review-cabin")

	reviews := []models.PropertyReview{
		{PropertyID: prop.ID, GuestName: "A", Rating: 5, Cleanliness: 5, Value: 4},
		{PropertyID: prop.ID, GuestName: "B", Rating: 4, Cleanliness: 3, Value: 4},
		{PropertyID: prop.ID, GuestName: "C", Rating: 5},
	}
	require.NoError(t, config.DB.Create(&reviews).Error)

	w := doJSON(router, http.MethodGet, "/api/reviews/review-cabin", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count            int                `json:"count"`
		AverageRating    float64            `json:"averageRating"`
		CategoryAverages map[string]float64 `json:"categoryAverages"`
		Distribution     map[string]int     `json:"distribution"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.Count)
	assert.InDelta(t, 14.0/3.0, resp.AverageRating, 0.001)
	assert.InDelta(t, 4.0, resp.CategoryAverages["cleanliness"], 0.001)
	assert.InDelta(t, 4.0, resp.CategoryAverages["value"], 0.001)
	assert.Equal(t, 2, resp.Distribution["5"])
	assert.Equal(t, 1, resp.Distribution["4"])
	assert.Equal(t, 0, resp.Distribution["1"])
}

package controllers

import (
	"net/http"
	"strings"

	"rental-backend/config"
	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"

	"github.com/gin-gonic/gin"
)

// ----------------------------------------------------
// 1. Public reviews (GET /api/reviews/:slug)
// ----------------------------------------------------

// GetReviews returns all reviews for a property plus in-memory aggregates:
// overall average, per-category averages, and the 1-5 rating distribution.
func GetReviews(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	var prop models.Property
	if err := config.DB.Where("slug = ?", slug).First(&prop).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Property not found"})
		return
	}

	var reviews []models.PropertyReview
	if err := config.DB.Where("property_id = ?", prop.ID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	var ratingSum int
	categorySums := map[string]int{}
	categoryCounts := map[string]int{}

	addCategory := func(name string, value int) {
		if value > 0 {
			categorySums[name] += value
			categoryCounts[name]++
		}
	}

	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			distribution[r.Rating]++
			ratingSum += r.Rating
		}
		addCategory("cleanliness", r.Cleanliness)
		addCategory("accuracy", r.Accuracy)
		addCategory("communication", r.Communication)
		addCategory("location", r.Location)
		addCategory("value", r.Value)
	}

	averages := gin.H{}
	for name, sum := range categorySums {
		averages[name] = float64(sum) / float64(categoryCounts[name])
	}

	var overall float64
	if len(reviews) > 0 {
		overall = float64(ratingSum) / float64(len(reviews))
	}

	c.Header("Cache-Control", guidebookCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"reviews":          reviews,
		"count":            len(reviews),
		"averageRating":    overall,
		"categoryAverages": averages,
		"distribution":     distribution,
	})
}

// ----------------------------------------------------
// 2. Create (POST /api/reviews) — owner backfill of imported reviews
// ----------------------------------------------------

func CreateReview(c *gin.Context) {
	var review models.PropertyReview
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if review.PropertyID == 0 || review.Rating < 1 || review.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "propertyId and rating 1-5 are required."})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, review.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	if err := config.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, review)
}

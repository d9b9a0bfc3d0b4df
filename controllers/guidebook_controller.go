package controllers

import (
	"net/http"
	"strings"

	"rental-backend/config"
	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

const guidebookCacheControl = "public, max-age=300"

// ----------------------------------------------------
// 1. Public guidebook (GET /api/guidebook/:slug)
// ----------------------------------------------------

func GetGuidebook(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	var prop models.Property
	if err := config.DB.Where("slug = ?", slug).First(&prop).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Property not found"})
		return
	}

	var sections []models.GuidebookSection
	if err := config.DB.Where("property_id = ?", prop.ID).Order("sort_order ASC, id ASC").Find(&sections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	var recommendations []models.GuidebookRecommendation
	if err := config.DB.Where("property_id = ?", prop.ID).Order("category ASC, name ASC").Find(&recommendations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.Header("Cache-Control", guidebookCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"property":        gin.H{"id": prop.ID, "name": prop.Name, "slug": prop.Slug, "city": prop.City, "state": prop.State},
		"sections":        sections,
		"recommendations": recommendations,
	})
}

// ----------------------------------------------------
// 2. Sections (POST/PUT/DELETE /api/guidebook/sections)
// ----------------------------------------------------

func CreateGuidebookSection(c *gin.Context) {
	var section models.GuidebookSection
	if err := c.ShouldBindJSON(&section); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if section.PropertyID == 0 || strings.TrimSpace(section.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "propertyId and title are required."})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, section.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	if err := config.DB.Create(&section).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, section)
}

func UpdateGuidebookSection(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var section models.GuidebookSection
	if err := config.DB.First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Section not found"})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, section.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
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

	if v, ok := updateData["sortOrder"]; ok {
		updateData["sort_order"] = v
		delete(updateData, "sortOrder")
	}

	if err := config.DB.Model(&models.GuidebookSection{}).Where("id = ?", id).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}

	config.DB.First(&section, id)
	c.JSON(http.StatusOK, section)
}

func DeleteGuidebookSection(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var section models.GuidebookSection
	if err := config.DB.First(&section, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Section not found"})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, section.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	if err := config.DB.Delete(&models.GuidebookSection{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete section."})
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Section deleted successfully")
}

// ----------------------------------------------------
// 3. Recommendations (POST/PUT/DELETE /api/guidebook/recommendations)
// ----------------------------------------------------

func CreateGuidebookRecommendation(c *gin.Context) {
	var rec models.GuidebookRecommendation
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request payload", "details": err.Error()})
		return
	}

	if rec.PropertyID == 0 || strings.TrimSpace(rec.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "propertyId and name are required."})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, rec.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	if err := config.DB.Create(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func UpdateGuidebookRecommendation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var rec models.GuidebookRecommendation
	if err := config.DB.First(&rec, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Recommendation not found"})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, rec.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
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

	if err := config.DB.Model(&models.GuidebookRecommendation{}).Where("id = ?", id).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed", "details": err.Error()})
		return
	}

	config.DB.First(&rec, id)
	c.JSON(http.StatusOK, rec)
}

func DeleteGuidebookRecommendation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var rec models.GuidebookRecommendation
	if err := config.DB.First(&rec, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Recommendation not found"})
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, rec.PropertyID, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	if err := config.DB.Delete(&models.GuidebookRecommendation{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete recommendation."})
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Recommendation deleted successfully")
}

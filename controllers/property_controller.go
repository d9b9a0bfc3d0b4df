package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"rental-backend/config"
	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// ----------------------------------------------------
// 1. Create Property (POST /api/properties)
// ----------------------------------------------------

func CreateProperty(c *gin.Context) {
	var prop models.Property
	if err := c.ShouldBindJSON(&prop); err != nil {
		log.Printf("JSON binding error (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	prop.Name = strings.TrimSpace(prop.Name)
	if prop.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Property name is required."})
		return
	}

	if prop.PropertyType != "" && !models.IsValidPropertyType(prop.PropertyType) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid property type."})
		return
	}

	prop.Slug = strings.TrimSpace(prop.Slug)
	if prop.Slug == "" {
		prop.Slug = slugify(prop.Name)
	}

	userID, _ := middleware.CurrentUser(c)
	prop.OwnerID = userID

	if result := config.DB.Create(&prop); result.Error != nil {
		if isDuplicateEntry(result.Error) {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Property slug '%s' already exists.", prop.Slug),
			})
			return
		}
		log.Printf("DB error creating property: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": result.Error.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, prop)
}

// ----------------------------------------------------
// 2. List Properties (GET /api/properties) — owner scoped
// ----------------------------------------------------

func GetProperties(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	var props []models.Property
	if err := config.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&props).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, props)
}

// ----------------------------------------------------
// 3. Get Property (GET /api/properties/:id)
// ----------------------------------------------------

func GetProperty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var prop models.Property
	if err := config.DB.First(&prop, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, prop)
}

// ----------------------------------------------------
// 4. Update Property (PUT /api/properties/:id)
// ----------------------------------------------------

func UpdateProperty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, id, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	// Strip immutable fields.
	delete(updateData, "id")
	delete(updateData, "ownerId")
	delete(updateData, "owner_id")
	delete(updateData, "createdAt")
	delete(updateData, "created_at")
	delete(updateData, "updatedAt")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")

	if t, ok := updateData["propertyType"].(string); ok {
		if !models.IsValidPropertyType(t) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid property type."})
			return
		}
		updateData["property_type"] = t
		delete(updateData, "propertyType")
	}

	if err := config.DB.Model(&models.Property{}).Where("id = ?", id).Updates(updateData).Error; err != nil {
		log.Printf("update error for property %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Update failed",
			"details": err.Error(),
		})
		return
	}

	var prop models.Property
	config.DB.First(&prop, id)
	c.JSON(http.StatusOK, prop)
}

// ----------------------------------------------------
// 5. Delete Property (DELETE /api/properties/:id)
// ----------------------------------------------------

func DeleteProperty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.CurrentUser(c)
	if _, err := services.RequirePropertyOwner(config.DB, id, userID); err != nil {
		respondOwnershipError(c, err)
		return
	}

	result := config.DB.Delete(&models.Property{}, id)
	if result.Error != nil {
		log.Printf("DB error deleting property %d: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete property."})
		return
	}

	utils.JSONSuccess(c, http.StatusOK, "Property deleted successfully")
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var sb strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && sb.Len() > 0 {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}

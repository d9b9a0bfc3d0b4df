package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
)

// respondOwnershipError maps the ownership guard's sentinel errors onto the
// 403/404/500 taxonomy every handler shares.
func respondOwnershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrNotAllowed):
		utils.JSONError(c, http.StatusForbidden, "Not authorized for this resource")
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error", "details": err.Error()})
	}
}

// isDuplicateEntry reports whether err is a unique-constraint violation.
// The string fallback covers drivers that do not expose a typed error.
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate entry") || strings.Contains(lower, "unique constraint failed")
}

func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

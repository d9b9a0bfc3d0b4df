package utils

import "github.com/gin-gonic/gin"

// JSONError writes the shared status/message error envelope.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// JSONSuccess writes a status/message body for mutations that return no
// payload of their own.
func JSONSuccess(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "success", "message": message})
}

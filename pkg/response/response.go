package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes the standard response envelope. Every payload carries a success
// flag and a human readable message; extra fields are merged in alongside.
func JSON(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": status < http.StatusBadRequest,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func OK(c *gin.Context, message string, payload gin.H) {
	JSON(c, http.StatusOK, message, payload)
}

func Created(c *gin.Context, message string, payload gin.H) {
	JSON(c, http.StatusCreated, message, payload)
}

// Error aborts the request with an envelope carrying only the message.
// Internal detail never reaches the client; callers log it themselves.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// Package response holds the shared JSON envelope helpers for handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes an arbitrary payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error writes the uniform error body.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK writes a 200 payload.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Package httpx renders the JSON response envelope and maps taxonomy errors
// to HTTP status codes.
package httpx

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK writes a 200 envelope with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 envelope with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a 200 envelope carrying only a message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// Error maps a taxonomy error onto a non-2xx envelope.
func Error(c *gin.Context, err error) {
	status := statusFor(apperrors.KindOf(err))
	message := apperrors.MessageOf(err)
	if status == http.StatusInternalServerError && !debugEnabled() {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindIllegalTransition:
		return http.StatusConflict
	case apperrors.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func debugEnabled() bool {
	return os.Getenv("ENVIRONMENT") != "production"
}

package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	swipe "go-matchmate/internal/pkg/swipe/application/domain"
)

// statusFor maps swipe errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, swipe.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, swipe.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, swipe.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

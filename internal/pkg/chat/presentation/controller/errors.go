package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "go-matchmate/internal/pkg/chat/application/domain"
)

// classify maps a use case error to an HTTP status and a socket error code.
// Unknown errors are reported without detail.
func classify(err error) (status int, code string, message string) {
	switch {
	case errors.Is(err, chat.ErrInvalidArgument):
		return http.StatusBadRequest, "bad_request", err.Error()
	case errors.Is(err, chat.ErrNotFound):
		return http.StatusNotFound, "not_found", "chat not found"
	case errors.Is(err, chat.ErrBlocked):
		return http.StatusForbidden, "blocked", "message not delivered: one of the parties is blocked"
	case errors.Is(err, chat.ErrForbidden):
		return http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, chat.ErrCaretakerLocked):
		return http.StatusConflict, "caretaker_locked", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "internal error"
	}
}

func writeError(c *gin.Context, err error) {
	status, _, msg := classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

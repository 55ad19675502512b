package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/identity/presentation/middleware"
	"go-matchmate/internal/pkg/swipe/application/usecase"
)

// RejectController handles POST /swipe/reject.
type RejectController struct {
	UC *usecase.RejectUseCase
}

func NewRejectController(uc *usecase.RejectUseCase) *RejectController {
	return &RejectController{UC: uc}
}

type rejectRequest struct {
	RejectedUserID string `json:"rejected_user_id" binding:"required"`
}

func (h *RejectController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		var req rejectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.UC.Execute(ctx, usecase.RejectInput{ActorID: actor.ID, TargetID: req.RejectedUserID, Caretaker: actor.IsCaretaker()}); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User rejected successfully"})
	}
}

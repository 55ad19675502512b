package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
)

// SetBlockedController handles PUT /chat/:chatId/block, toggling the block
// state of one participant.
type SetBlockedController struct {
	UC *usecase.SetBlockedUseCase
}

func NewSetBlockedController(uc *usecase.SetBlockedUseCase) *SetBlockedController {
	return &SetBlockedController{UC: uc}
}

type setBlockedRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
}

func (h *SetBlockedController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		var req setBlockedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.SetBlockedInput{Actor: actor, ChatID: c.Param("chatId"), TargetID: req.TargetUserID})
		if err != nil {
			writeError(c, err)
			return
		}
		msg := "User unblocked successfully"
		if res.Blocked {
			msg = "User blocked successfully"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg, "blocked": res.Blocked, "chat": res.Chat})
	}
}

package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/identity/presentation/middleware"
	"go-matchmate/internal/pkg/swipe/application/usecase"
)

// LikeController handles POST /swipe/like.
type LikeController struct {
	UC *usecase.LikeUseCase
}

func NewLikeController(uc *usecase.LikeUseCase) *LikeController {
	return &LikeController{UC: uc}
}

type likeRequest struct {
	LikedUserID string `json:"liked_user_id" binding:"required"`
}

func (h *LikeController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		var req likeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.LikeInput{ActorID: actor.ID, TargetID: req.LikedUserID, Caretaker: actor.IsCaretaker()})
		if err != nil {
			writeError(c, err)
			return
		}

		body := gin.H{"message": "Like sent successfully", "matched": res.Reciprocal}
		if res.ChatID != "" {
			body["chat_id"] = res.ChatID
		}
		c.JSON(http.StatusOK, body)
	}
}

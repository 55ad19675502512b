package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
)

// ListBlockedController handles GET /chat/blocked.
type ListBlockedController struct {
	UC *usecase.ListBlockedUseCase
}

func NewListBlockedController(uc *usecase.ListBlockedUseCase) *ListBlockedController {
	return &ListBlockedController{UC: uc}
}

func (h *ListBlockedController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		chats, err := h.UC.Execute(ctx, actor)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chats": chats, "count": len(chats)})
	}
}

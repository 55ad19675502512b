package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
)

// ListMatchesController handles GET /chat.
type ListMatchesController struct {
	UC *usecase.ListMatchesUseCase
}

func NewListMatchesController(uc *usecase.ListMatchesUseCase) *ListMatchesController {
	return &ListMatchesController{UC: uc}
}

func (h *ListMatchesController) Handle() gin.HandlerFunc {
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

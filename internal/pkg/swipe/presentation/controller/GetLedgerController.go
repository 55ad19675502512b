package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/identity/presentation/middleware"
	"go-matchmate/internal/pkg/swipe/application/usecase"
)

// GetLedgerController handles GET /swipe/ledger[?userId=ward].
type GetLedgerController struct {
	UC *usecase.GetLedgerUseCase
}

func NewGetLedgerController(uc *usecase.GetLedgerUseCase) *GetLedgerController {
	return &GetLedgerController{UC: uc}
}

func (h *GetLedgerController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ledger, err := h.UC.Execute(ctx, usecase.GetLedgerInput{Actor: actor, OwnerID: c.Query("userId")})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"owner_id":       ledger.OwnerID,
			"like_sent":      nonNil(ledger.LikeSent),
			"received_likes": nonNil(ledger.ReceivedLikes),
			"rejected":       nonNil(ledger.Rejected),
		})
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/identity/presentation/middleware"
	"go-matchmate/internal/pkg/swipe/application/usecase"
)

// ListLikesController handles GET /swipe/likes?likeSent=true&page=N.
type ListLikesController struct {
	UC *usecase.ListLikesUseCase
}

func NewListLikesController(uc *usecase.ListLikesUseCase) *ListLikesController {
	return &ListLikesController{UC: uc}
}

func (h *ListLikesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		page := 1
		if v := c.Query("page"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				page = n
			}
		}
		likeSent, _ := strconv.ParseBool(c.DefaultQuery("likeSent", "false"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.ListLikesInput{Actor: actor, LikeSent: likeSent, Page: page})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": res.Likes,
			"pagination": gin.H{
				"page":       res.Page,
				"limit":      res.Limit,
				"total":      res.Total,
				"totalPages": res.TotalPages,
			},
		})
	}
}

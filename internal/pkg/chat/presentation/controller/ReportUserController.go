package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
)

// ReportUserController handles POST /chat/report.
type ReportUserController struct {
	UC *usecase.ReportUserUseCase
}

func NewReportUserController(uc *usecase.ReportUserUseCase) *ReportUserController {
	return &ReportUserController{UC: uc}
}

type reportUserRequest struct {
	ChatID      string `json:"chat_id" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

func (h *ReportUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		var req reportUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		rep, err := h.UC.Execute(ctx, usecase.ReportUserInput{
			Actor:       actor,
			ChatID:      req.ChatID,
			Type:        req.Type,
			Description: req.Description,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User reported successfully", "report": rep})
	}
}

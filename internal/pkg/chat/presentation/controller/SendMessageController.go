package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	queueport "go-matchmate/internal/infrastructure/queue/port"
	"go-matchmate/internal/pkg/chat/application/task"
	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
)

// SendMessageController handles the send-message endpoint only (one controller per endpoint).
// With a queue client the send is checked, then relayed by a worker; without
// one it is relayed inline.
type SendMessageController struct {
	Q      queueport.Client
	UC     *usecase.SendMessageUseCase
	Logger *zap.Logger
}

func NewSendMessageController(client queueport.Client, uc *usecase.SendMessageUseCase, logger *zap.Logger) *SendMessageController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendMessageController{Q: client, UC: uc, Logger: logger}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
	Kind string `json:"kind"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		in := usecase.SendMessageInput{ChatID: chatID, SenderID: actor.ID, Body: req.Body, Kind: req.Kind}
		if h.Q == nil {
			res, err := h.UC.Execute(ctx, in)
			if err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"message": res.Message, "delivered": res.Delivered})
			return
		}

		// Rejections known now are reported now; the worker reports the rest
		// to the sender's live connection.
		if err := h.UC.Check(ctx, in); err != nil {
			writeError(c, err)
			return
		}

		t, err := task.NewSendMessageTask(task.SendMessageTaskPayload{
			ChatID:   chatID,
			SenderID: actor.ID,
			Body:     req.Body,
			Kind:     req.Kind,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}
		id, err := h.Q.Enqueue(ctx, t, queueport.EnqueueOption{Queue: task.SendMessageQueue, MaxRetry: 20})
		if err != nil {
			h.Logger.Error("enqueue send message", zap.String("chat_id", chatID), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":    "queued",
			"task_id":   id,
			"chat_id":   chatID,
			"sender_id": actor.ID,
		})
	}
}

package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	qport "go-matchmate/internal/infrastructure/queue/port"
	"go-matchmate/internal/pkg/chat/application/usecase"
)

// SendMessageTaskType is the queue task name for sending a message within the chat domain.
const SendMessageTaskType = "chat:send_message"

// SendMessageQueue is the asynq queue the task is enqueued on.
const SendMessageQueue = "chat"

// SendMessageTaskPayload is the JSON payload transported via the queue.
type SendMessageTaskPayload struct {
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Body     string `json:"body"`
	Kind     string `json:"kind"`
}

// NewSendMessageTask encodes p as a queue task.
func NewSendMessageTask(p SendMessageTaskPayload) (qport.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: SendMessageTaskType, Payload: b}, nil
}

// RejectionNotifier tells a connected sender that a queued message was
// refused. It reports false when the sender is unreachable.
type RejectionNotifier interface {
	NotifyRejected(senderID, chatID string, err error) bool
}

// HandleSendMessage runs the relay for one task. Only persistence failures
// are retried; a domain rejection is final and is reported to the sender
// through notifier when one is given.
func HandleSendMessage(uc *usecase.SendMessageUseCase, notifier RejectionNotifier, logger *zap.Logger) qport.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, t qport.Task) error {
		var p SendMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return fmt.Errorf("%w: decode payload: %v", qport.ErrSkipRetry, err)
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		res, err := uc.Execute(ctx, usecase.SendMessageInput{
			ChatID:   p.ChatID,
			SenderID: p.SenderID,
			Body:     p.Body,
			Kind:     p.Kind,
		})
		if err != nil {
			if errors.Is(err, usecase.ErrPersistence) {
				return err
			}
			notified := false
			if notifier != nil {
				notified = notifier.NotifyRejected(p.SenderID, p.ChatID, err)
			}
			logger.Info("queued message rejected",
				zap.String("chat_id", p.ChatID), zap.String("sender_id", p.SenderID),
				zap.Bool("sender_notified", notified), zap.Error(err))
			return fmt.Errorf("%w: %v", qport.ErrSkipRetry, err)
		}
		logger.Debug("queued message sent",
			zap.String("message_id", res.Message.ID), zap.Bool("delivered", res.Delivered))
		return nil
	}
}

// RegisterSendMessageTask binds the task handler to the provided server.
func RegisterSendMessageTask(srv qport.Server, uc *usecase.SendMessageUseCase, notifier RejectionNotifier, logger *zap.Logger) {
	srv.Register(SendMessageTaskType, HandleSendMessage(uc, notifier, logger))
}

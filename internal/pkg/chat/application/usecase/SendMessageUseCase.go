package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-matchmate/internal/infrastructure/metrics"
	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
)

// MessageForwarder pushes a stored message to the receiver's live
// connection. It reports false when the receiver is unreachable.
type MessageForwarder interface {
	Forward(receiverID string, m chat.Message) bool
}

// SendMessageInput carries the data needed to send a new message
type SendMessageInput struct {
	ChatID   string
	SenderID string
	Body     string
	Kind     string
}

type SendMessageResult struct {
	Message    chat.Message
	ReceiverID string
	// Delivered is true when the message reached a live connection.
	Delivered bool
}

// SendMessageUseCase relays a message between matched users: it checks the
// block state, stores the message with the chat summary, then forwards it
// to the receiver if connected. An unreachable receiver fetches the message
// later.
type SendMessageUseCase struct {
	Repo      repository.ChatRepository
	Forwarder MessageForwarder
	Metrics   *metrics.Collector
}

func NewSendMessageUseCase(repo repository.ChatRepository, fwd MessageForwarder, m *metrics.Collector) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Forwarder: fwd, Metrics: m}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (SendMessageResult, error) {
	res, err := uc.execute(ctx, in)
	switch {
	case err == nil:
		uc.Metrics.RecordMessage("sent")
	case errors.Is(err, chat.ErrBlocked):
		uc.Metrics.RecordMessage("blocked")
	case errors.Is(err, ErrPersistence):
		uc.Metrics.RecordMessage("error")
	default:
		uc.Metrics.RecordMessage("rejected")
	}
	return res, err
}

// Check runs every validation of Execute against the current chat state
// without storing anything. Callers that defer the send to a worker use it
// to report rejections synchronously; the worker still re-checks.
func (uc *SendMessageUseCase) Check(ctx context.Context, in SendMessageInput) error {
	_, _, err := uc.prepare(ctx, in)
	return err
}

func (uc *SendMessageUseCase) prepare(ctx context.Context, in SendMessageInput) (chat.Message, string, error) {
	if strings.TrimSpace(in.ChatID) == "" || strings.TrimSpace(in.SenderID) == "" {
		return chat.Message{}, "", fmt.Errorf("%w: chat_id and sender_id are required", chat.ErrInvalidArgument)
	}

	c, err := uc.Repo.GetChat(ctx, in.ChatID)
	if err != nil {
		return chat.Message{}, "", repoErr(err)
	}
	return c.PostMessage(in.SenderID, in.Body, chat.Kind(in.Kind), time.Now())
}

func (uc *SendMessageUseCase) execute(ctx context.Context, in SendMessageInput) (SendMessageResult, error) {
	m, receiverID, err := uc.prepare(ctx, in)
	if err != nil {
		return SendMessageResult{}, err
	}

	if _, err := uc.Repo.AppendMessage(ctx, m); err != nil {
		return SendMessageResult{}, repoErr(err)
	}

	res := SendMessageResult{Message: m, ReceiverID: receiverID}
	if uc.Forwarder != nil {
		res.Delivered = uc.Forwarder.Forward(receiverID, m)
		uc.Metrics.RecordForward(res.Delivered)
	}
	return res, nil
}

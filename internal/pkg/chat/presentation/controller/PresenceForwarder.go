package controller

import (
	"go.uber.org/zap"

	"go-matchmate/internal/infrastructure/realtime"
	chat "go-matchmate/internal/pkg/chat/application/domain"
	"go-matchmate/internal/pkg/chat/application/task"
	"go-matchmate/internal/pkg/chat/application/usecase"
)

// PresenceForwarder delivers relayed messages as receiveMessage frames to
// the receiver's registered connection, and queued-send rejections as error
// frames to the sender's.
type PresenceForwarder struct {
	Registry *realtime.Registry
	Logger   *zap.Logger
}

func NewPresenceForwarder(registry *realtime.Registry, logger *zap.Logger) *PresenceForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceForwarder{Registry: registry, Logger: logger}
}

var (
	_ usecase.MessageForwarder = (*PresenceForwarder)(nil)
	_ task.RejectionNotifier   = (*PresenceForwarder)(nil)
)

func (f *PresenceForwarder) Forward(receiverID string, m chat.Message) bool {
	if _, ok := f.Registry.Lookup(receiverID); !ok {
		return false
	}
	payload, err := encodeMessage(frameReceiveMessage, m)
	if err != nil {
		f.Logger.Error("encode receiveMessage frame", zap.String("message_id", m.ID), zap.Error(err))
		return false
	}
	return f.Registry.Deliver(receiverID, payload)
}

func (f *PresenceForwarder) NotifyRejected(senderID, chatID string, err error) bool {
	_, code, msg := classify(err)
	return f.Registry.Deliver(senderID, encodeChatError(chatID, code, msg))
}

package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	qport "go-matchmate/internal/infrastructure/queue/port"
	chat "go-matchmate/internal/pkg/chat/application/domain"
	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/chat/persistence/repository/adapter"
)

func TestHandleSendMessage(t *testing.T) {
	ctx := context.Background()
	repo := adapter.NewMemoryChatRepository()
	c, err := chat.NewMatch("a", "b", time.Time{})
	require.NoError(t, err)
	_, _, err = repo.CreateMatch(ctx, c)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	h := HandleSendMessage(usecase.NewSendMessageUseCase(repo, nil, nil), notifier, zaptest.NewLogger(t))

	task, err := NewSendMessageTask(SendMessageTaskPayload{ChatID: c.ID, SenderID: "a", Body: "hello", Kind: "text"})
	require.NoError(t, err)
	assert.Equal(t, SendMessageTaskType, task.Type)
	require.NoError(t, h(ctx, task))
	assert.Equal(t, 1, repo.MessageCount(c.ID))

	err = h(ctx, qport.Task{Type: SendMessageTaskType, Payload: []byte("{")})
	assert.ErrorIs(t, err, qport.ErrSkipRetry)

	task, err = NewSendMessageTask(SendMessageTaskPayload{ChatID: c.ID, SenderID: "z", Body: "hello"})
	require.NoError(t, err)
	err = h(ctx, task)
	assert.ErrorIs(t, err, qport.ErrSkipRetry)
	assert.Equal(t, 1, repo.MessageCount(c.ID))
	require.Len(t, notifier.rejected, 1)
	assert.Equal(t, "z", notifier.rejected[0].senderID)
	assert.ErrorIs(t, notifier.rejected[0].err, chat.ErrNotParticipant)
}

func TestHandleSendMessageReportsBlockedSend(t *testing.T) {
	ctx := context.Background()
	repo := adapter.NewMemoryChatRepository()
	c, err := chat.NewMatch("a", "b", time.Time{})
	require.NoError(t, err)
	_, _, err = repo.CreateMatch(ctx, c)
	require.NoError(t, err)
	_, err = repo.UpdateParticipant(ctx, c.ID, "a", func(p *chat.Participant) error {
		_, err := p.ToggleBlock(false)
		return err
	})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	h := HandleSendMessage(usecase.NewSendMessageUseCase(repo, nil, nil), notifier, zaptest.NewLogger(t))
	task, err := NewSendMessageTask(SendMessageTaskPayload{ChatID: c.ID, SenderID: "a", Body: "hello"})
	require.NoError(t, err)

	assert.ErrorIs(t, h(ctx, task), qport.ErrSkipRetry)
	assert.Zero(t, repo.MessageCount(c.ID))
	require.Len(t, notifier.rejected, 1)
	assert.Equal(t, c.ID, notifier.rejected[0].chatID)
	assert.ErrorIs(t, notifier.rejected[0].err, chat.ErrBlocked)
}

type rejection struct {
	senderID, chatID string
	err              error
}

type recordingNotifier struct {
	rejected []rejection
}

func (n *recordingNotifier) NotifyRejected(senderID, chatID string, err error) bool {
	n.rejected = append(n.rejected, rejection{senderID: senderID, chatID: chatID, err: err})
	return true
}

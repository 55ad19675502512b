package usecase

import (
	"context"
	"fmt"

	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
	identity "go-matchmate/internal/pkg/identity/application/domain"
)

// GetMessageInput carries parameters to fetch messages of a chat
type GetMessageInput struct {
	Actor  identity.Actor
	ChatID string
	Limit  int
	Offset int
}

// GetMessageUseCase fetches messages for a chat. When the actor is itself a
// participant the fetch counts as reading the chat; a caretaker viewing a
// ward's chat leaves read state alone.
type GetMessageUseCase struct {
	Repo     repository.ChatRepository
	MarkRead *MarkReadUseCase
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo, MarkRead: NewMarkReadUseCase(repo)}
}

// Execute returns messages for the chat honoring limit/offset
func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]chat.Message, error) {
	if in.ChatID == "" {
		return nil, fmt.Errorf("%w: chat_id is required", chat.ErrInvalidArgument)
	}
	c, err := uc.Repo.GetChat(ctx, in.ChatID)
	if err != nil {
		return nil, repoErr(err)
	}
	if _, err := actingParticipant(in.Actor, c); err != nil {
		return nil, err
	}

	if c.HasParticipant(in.Actor.ID) {
		if _, err := uc.MarkRead.Execute(ctx, MarkReadInput{ChatID: c.ID, ReaderID: in.Actor.ID}); err != nil {
			return nil, err
		}
	}

	msgs, err := uc.Repo.GetMessagesByChat(ctx, c.ID, in.Limit, in.Offset)
	if err != nil {
		return nil, repoErr(err)
	}
	return msgs, nil
}

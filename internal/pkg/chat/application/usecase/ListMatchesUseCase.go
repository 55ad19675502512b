package usecase

import (
	"context"

	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
	identity "go-matchmate/internal/pkg/identity/application/domain"
)

// ListMatchesUseCase returns every chat of the identities the actor acts for.
type ListMatchesUseCase struct {
	Repo repository.ChatRepository
}

func NewListMatchesUseCase(repo repository.ChatRepository) *ListMatchesUseCase {
	return &ListMatchesUseCase{Repo: repo}
}

func (uc *ListMatchesUseCase) Execute(ctx context.Context, actor identity.Actor) ([]chat.Chat, error) {
	chats, err := uc.Repo.ListChatsByParticipants(ctx, actor.Identities())
	if err != nil {
		return nil, repoErr(err)
	}
	return chats, nil
}

package usecase

import (
	"context"

	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
	identity "go-matchmate/internal/pkg/identity/application/domain"
)

// ListBlockedUseCase returns the chats in which the counterparty of an
// identity the actor acts for is blocked.
type ListBlockedUseCase struct {
	Repo repository.ChatRepository
}

func NewListBlockedUseCase(repo repository.ChatRepository) *ListBlockedUseCase {
	return &ListBlockedUseCase{Repo: repo}
}

func (uc *ListBlockedUseCase) Execute(ctx context.Context, actor identity.Actor) ([]chat.Chat, error) {
	ids := actor.Identities()
	chats, err := uc.Repo.ListChatsByParticipants(ctx, ids)
	if err != nil {
		return nil, repoErr(err)
	}
	out := []chat.Chat{}
	for _, c := range chats {
		for _, id := range ids {
			if c.HasParticipant(id) && c.BlockedCounterparty(id) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

package usecase

import (
	"context"

	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
)

type MarkReadInput struct {
	ChatID   string
	ReaderID string
}

// MarkReadUseCase marks the counterparty's messages as read for the reader.
// The reader's own messages are left untouched.
type MarkReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkReadUseCase(repo repository.ChatRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

// Execute returns the number of messages that became read.
func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) (int, error) {
	c, err := uc.Repo.GetChat(ctx, in.ChatID)
	if err != nil {
		return 0, repoErr(err)
	}
	if !c.HasParticipant(in.ReaderID) {
		return 0, chat.ErrNotParticipant
	}
	n, err := uc.Repo.MarkRead(ctx, in.ChatID, in.ReaderID)
	if err != nil {
		return 0, repoErr(err)
	}
	return n, nil
}

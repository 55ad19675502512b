package usecase

import (
	"context"
	"fmt"

	"go-matchmate/internal/infrastructure/metrics"
	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
	identity "go-matchmate/internal/pkg/identity/application/domain"
)

type SetBlockedInput struct {
	Actor    identity.Actor
	ChatID   string
	TargetID string
}

type SetBlockedResult struct {
	Chat    chat.Chat
	Blocked bool
}

// SetBlockedUseCase toggles the block flag of one participant. The actor
// must act for a participant of the chat; a user blocks its counterparty,
// a caretaker may block either side and its blocks are sticky.
type SetBlockedUseCase struct {
	Repo    repository.ChatRepository
	Metrics *metrics.Collector
}

func NewSetBlockedUseCase(repo repository.ChatRepository, m *metrics.Collector) *SetBlockedUseCase {
	return &SetBlockedUseCase{Repo: repo, Metrics: m}
}

func (uc *SetBlockedUseCase) Execute(ctx context.Context, in SetBlockedInput) (SetBlockedResult, error) {
	if in.ChatID == "" || in.TargetID == "" {
		return SetBlockedResult{}, fmt.Errorf("%w: chat_id and target user id are required", chat.ErrInvalidArgument)
	}
	c, err := uc.Repo.GetChat(ctx, in.ChatID)
	if err != nil {
		return SetBlockedResult{}, repoErr(err)
	}
	if _, err := actingParticipant(in.Actor, c); err != nil {
		return SetBlockedResult{}, err
	}
	if !c.HasParticipant(in.TargetID) {
		return SetBlockedResult{}, chat.ErrNotParticipant
	}
	byCaretaker := in.Actor.IsCaretaker()
	if !byCaretaker && in.TargetID == in.Actor.ID {
		return SetBlockedResult{}, chat.ErrSelfBlock
	}

	var blocked bool
	updated, err := uc.Repo.UpdateParticipant(ctx, in.ChatID, in.TargetID, func(p *chat.Participant) error {
		var terr error
		blocked, terr = p.ToggleBlock(byCaretaker)
		return terr
	})
	if err != nil {
		return SetBlockedResult{}, repoErr(err)
	}
	uc.Metrics.RecordBlockToggle(blocked, byCaretaker)
	return SetBlockedResult{Chat: updated, Blocked: blocked}, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"go-matchmate/internal/infrastructure/metrics"
	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
)

// ReciprocityChecker answers whether two users like each other.
type ReciprocityChecker interface {
	IsReciprocal(ctx context.Context, a, b string) (bool, error)
}

type CreateMatchInput struct {
	ActorID  string
	TargetID string
}

type CreateMatchResult struct {
	Matched bool
	Chat    chat.Chat
	Created bool
}

// CreateMatchUseCase is the only place chats are created. It re-checks
// reciprocity against committed likes and relies on the repository's pair
// uniqueness, so racing likes from both sides yield one chat.
type CreateMatchUseCase struct {
	Repo    repository.ChatRepository
	Likes   ReciprocityChecker
	Metrics *metrics.Collector
}

func NewCreateMatchUseCase(repo repository.ChatRepository, likes ReciprocityChecker, m *metrics.Collector) *CreateMatchUseCase {
	return &CreateMatchUseCase{Repo: repo, Likes: likes, Metrics: m}
}

func (uc *CreateMatchUseCase) Execute(ctx context.Context, in CreateMatchInput) (CreateMatchResult, error) {
	reciprocal, err := uc.Likes.IsReciprocal(ctx, in.ActorID, in.TargetID)
	if err != nil {
		return CreateMatchResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !reciprocal {
		return CreateMatchResult{}, nil
	}

	c, err := chat.NewMatch(in.ActorID, in.TargetID, time.Now())
	if err != nil {
		return CreateMatchResult{}, err
	}
	stored, created, err := uc.Repo.CreateMatch(ctx, c)
	if err != nil {
		uc.Metrics.RecordMatch("error")
		return CreateMatchResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if created {
		uc.Metrics.RecordMatch("created")
	} else {
		uc.Metrics.RecordMatch("existing")
	}
	return CreateMatchResult{Matched: true, Chat: stored, Created: created}, nil
}

// OnLikeRecorded runs after a like commits. Losing the creation race is not
// an error; it returns the winner's chat with created=false.
func (uc *CreateMatchUseCase) OnLikeRecorded(ctx context.Context, actorID, targetID string) (string, bool, error) {
	res, err := uc.Execute(ctx, CreateMatchInput{ActorID: actorID, TargetID: targetID})
	if err != nil || !res.Matched {
		return "", false, err
	}
	return res.Chat.ID, res.Created, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-matchmate/internal/infrastructure/metrics"
	swipe "go-matchmate/internal/pkg/swipe/application/domain"
	repository "go-matchmate/internal/pkg/swipe/persistence/repository/port"
)

// MatchCoordinator turns a reciprocal like into a chat. It must be
// idempotent: for an already matched pair it returns the existing chat with
// created=false.
type MatchCoordinator interface {
	OnLikeRecorded(ctx context.Context, actorID, targetID string) (chatID string, created bool, err error)
}

type LikeInput struct {
	ActorID  string
	TargetID string
	// Caretaker is set when the actor is a caretaker. Caretakers supervise
	// their wards' chats and never take part in matching themselves.
	Caretaker bool
}

// LikeResult reports whether the like completed reciprocity and, if so, the
// chat of the pair. Created is true only for the call that created the chat.
type LikeResult struct {
	Reciprocal bool
	ChatID     string
	Created    bool
}

type LikeUseCase struct {
	Repo    repository.SwipeRepository
	Matches MatchCoordinator
	Metrics *metrics.Collector
}

func NewLikeUseCase(repo repository.SwipeRepository, matches MatchCoordinator, m *metrics.Collector) *LikeUseCase {
	return &LikeUseCase{Repo: repo, Matches: matches, Metrics: m}
}

// Execute records the like, then checks reciprocity against committed state
// and hands a reciprocal pair to the coordinator.
//
// A repeated like still fails with ErrAlreadyLiked, but the pair is first
// reconciled so a match lost to an earlier storage failure is recreated.
func (uc *LikeUseCase) Execute(ctx context.Context, in LikeInput) (LikeResult, error) {
	if in.Caretaker {
		uc.Metrics.RecordSwipe(string(swipe.DecisionLike), "forbidden")
		return LikeResult{}, swipe.ErrCaretakerSwipe
	}
	s, err := swipe.NewSwipe(in.ActorID, in.TargetID, swipe.DecisionLike)
	if err != nil {
		uc.Metrics.RecordSwipe(string(swipe.DecisionLike), "invalid")
		return LikeResult{}, err
	}

	recordErr := uc.Repo.RecordDecision(ctx, s)
	switch {
	case recordErr == nil:
	case errors.Is(recordErr, swipe.ErrAlreadyLiked):
		uc.Metrics.RecordSwipe(string(swipe.DecisionLike), "conflict")
		if _, err := uc.match(ctx, s); err != nil {
			return LikeResult{}, err
		}
		return LikeResult{}, recordErr
	case errors.Is(recordErr, swipe.ErrConflict):
		uc.Metrics.RecordSwipe(string(swipe.DecisionLike), "conflict")
		return LikeResult{}, recordErr
	default:
		uc.Metrics.RecordSwipe(string(swipe.DecisionLike), "error")
		return LikeResult{}, fmt.Errorf("%w: %v", ErrPersistence, recordErr)
	}
	uc.Metrics.RecordSwipe(string(swipe.DecisionLike), "ok")
	return uc.match(ctx, s)
}

func (uc *LikeUseCase) match(ctx context.Context, s swipe.Swipe) (LikeResult, error) {
	reciprocal, err := uc.Repo.IsReciprocal(ctx, s.ActorID, s.TargetID)
	if err != nil {
		return LikeResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !reciprocal || uc.Matches == nil {
		return LikeResult{Reciprocal: reciprocal}, nil
	}
	chatID, created, err := uc.Matches.OnLikeRecorded(ctx, s.ActorID, s.TargetID)
	if err != nil {
		return LikeResult{Reciprocal: true}, err
	}
	return LikeResult{Reciprocal: true, ChatID: chatID, Created: created}, nil
}

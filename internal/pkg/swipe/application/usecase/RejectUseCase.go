package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-matchmate/internal/infrastructure/metrics"
	swipe "go-matchmate/internal/pkg/swipe/application/domain"
	repository "go-matchmate/internal/pkg/swipe/persistence/repository/port"
)

type RejectInput struct {
	ActorID   string
	TargetID  string
	Caretaker bool
}

type RejectUseCase struct {
	Repo    repository.SwipeRepository
	Metrics *metrics.Collector
}

func NewRejectUseCase(repo repository.SwipeRepository, m *metrics.Collector) *RejectUseCase {
	return &RejectUseCase{Repo: repo, Metrics: m}
}

// Execute records a reject. Rejecting an already liked or rejected target
// fails with a swipe.ErrConflict error and leaves the ledger unchanged.
// Caretakers cannot reject.
func (uc *RejectUseCase) Execute(ctx context.Context, in RejectInput) error {
	if in.Caretaker {
		uc.Metrics.RecordSwipe(string(swipe.DecisionReject), "forbidden")
		return swipe.ErrCaretakerSwipe
	}
	s, err := swipe.NewSwipe(in.ActorID, in.TargetID, swipe.DecisionReject)
	if err != nil {
		uc.Metrics.RecordSwipe(string(swipe.DecisionReject), "invalid")
		return err
	}
	if err := uc.Repo.RecordDecision(ctx, s); err != nil {
		if errors.Is(err, swipe.ErrConflict) {
			uc.Metrics.RecordSwipe(string(swipe.DecisionReject), "conflict")
			return err
		}
		uc.Metrics.RecordSwipe(string(swipe.DecisionReject), "error")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	uc.Metrics.RecordSwipe(string(swipe.DecisionReject), "ok")
	return nil
}

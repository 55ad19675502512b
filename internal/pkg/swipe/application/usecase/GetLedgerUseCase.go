package usecase

import (
	"context"
	"fmt"

	identity "go-matchmate/internal/pkg/identity/application/domain"
	swipe "go-matchmate/internal/pkg/swipe/application/domain"
	repository "go-matchmate/internal/pkg/swipe/persistence/repository/port"
)

type GetLedgerInput struct {
	Actor identity.Actor
	// OwnerID defaults to the actor itself.
	OwnerID string
}

type GetLedgerUseCase struct {
	Repo repository.SwipeRepository
}

func NewGetLedgerUseCase(repo repository.SwipeRepository) *GetLedgerUseCase {
	return &GetLedgerUseCase{Repo: repo}
}

func (uc *GetLedgerUseCase) Execute(ctx context.Context, in GetLedgerInput) (swipe.Ledger, error) {
	owner := in.OwnerID
	if owner == "" {
		owner = in.Actor.ID
	}
	if owner != in.Actor.ID && !in.Actor.ActsFor(owner) {
		return swipe.Ledger{}, swipe.ErrForbidden
	}
	ledger, err := uc.Repo.GetLedger(ctx, owner)
	if err != nil {
		return swipe.Ledger{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ledger, nil
}

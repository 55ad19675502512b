package usecase

import (
	"context"
	"fmt"
	"strings"

	identity "go-matchmate/internal/pkg/identity/application/domain"
	repository "go-matchmate/internal/pkg/identity/persistence/repository/port"
)

// ErrMissingUserID is returned for a blank authenticated user id.
var ErrMissingUserID = fmt.Errorf("user id is required")

type ResolveActorUseCase struct {
	Repo repository.ActorDirectory
}

func NewResolveActorUseCase(repo repository.ActorDirectory) *ResolveActorUseCase {
	return &ResolveActorUseCase{Repo: repo}
}

// Execute turns a verified user id into an Actor with its delegated identities.
func (uc *ResolveActorUseCase) Execute(ctx context.Context, userID string) (identity.Actor, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return identity.Actor{}, ErrMissingUserID
	}
	actor, err := uc.Repo.FindActor(ctx, userID)
	if err != nil {
		return identity.Actor{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return actor, nil
}

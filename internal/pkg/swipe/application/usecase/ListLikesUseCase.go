package usecase

import (
	"context"
	"fmt"

	identity "go-matchmate/internal/pkg/identity/application/domain"
	swipe "go-matchmate/internal/pkg/swipe/application/domain"
	repository "go-matchmate/internal/pkg/swipe/persistence/repository/port"
)

// LikesPageSize is the fixed page size of likes listings.
const LikesPageSize = 10

type ListLikesInput struct {
	Actor    identity.Actor
	LikeSent bool
	Page     int
}

type LikesPage struct {
	Likes      []swipe.Like
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

type ListLikesUseCase struct {
	Repo repository.SwipeRepository
}

func NewListLikesUseCase(repo repository.SwipeRepository) *ListLikesUseCase {
	return &ListLikesUseCase{Repo: repo}
}

// Execute lists likes sent or received by every identity the actor acts for,
// so a caretaker sees the likes of all wards.
func (uc *ListLikesUseCase) Execute(ctx context.Context, in ListLikesInput) (LikesPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	dir := swipe.DirectionReceived
	if in.LikeSent {
		dir = swipe.DirectionSent
	}

	likes, total, err := uc.Repo.ListLikes(ctx, in.Actor.Identities(), dir, LikesPageSize, (page-1)*LikesPageSize)
	if err != nil {
		return LikesPage{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return LikesPage{
		Likes:      likes,
		Page:       page,
		Limit:      LikesPageSize,
		Total:      total,
		TotalPages: (total + LikesPageSize - 1) / LikesPageSize,
	}, nil
}

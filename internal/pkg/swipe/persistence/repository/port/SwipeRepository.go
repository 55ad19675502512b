package repository

import (
	"context"

	swipe "go-matchmate/internal/pkg/swipe/application/domain"
)

// SwipeRepository stores swipe decisions.
//
// RecordDecision must be an atomic add-if-absent: when any decision already
// exists for (actor, target) it returns swipe.ErrAlreadyLiked or
// swipe.ErrAlreadyRejected and changes nothing.
type SwipeRepository interface {
	RecordDecision(ctx context.Context, s swipe.Swipe) error
	IsReciprocal(ctx context.Context, a, b string) (bool, error)
	GetLedger(ctx context.Context, ownerID string) (swipe.Ledger, error)
	// ListLikes pages through likes for any of ownerIDs, newest first, and
	// returns the total number of matching likes.
	ListLikes(ctx context.Context, ownerIDs []string, dir swipe.Direction, limit, offset int) ([]swipe.Like, int, error)
}

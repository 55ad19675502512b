package repository

import (
	"context"

	identity "go-matchmate/internal/pkg/identity/application/domain"
)

// ActorDirectory resolves the role and wards of a user id. Unknown ids are
// returned as ordinary users, not as errors.
type ActorDirectory interface {
	FindActor(ctx context.Context, userID string) (identity.Actor, error)
}

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	cache "go-matchmate/internal/infrastructure/cache/port"
	identity "go-matchmate/internal/pkg/identity/application/domain"
	repository "go-matchmate/internal/pkg/identity/persistence/repository/port"
)

const actorKeyPrefix = "actor:"

type cachedActor struct {
	Role  string   `json:"role"`
	Wards []string `json:"wards,omitempty"`
}

// CachedActorDirectory is a read-through cache in front of another
// directory. Cache failures degrade to the inner directory.
type CachedActorDirectory struct {
	inner  repository.ActorDirectory
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedActorDirectory(inner repository.ActorDirectory, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedActorDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedActorDirectory{inner: inner, cache: c, ttl: ttl, logger: logger}
}

func (r *CachedActorDirectory) FindActor(ctx context.Context, userID string) (identity.Actor, error) {
	raw, err := r.cache.Get(ctx, actorKeyPrefix+userID)
	switch {
	case err == nil:
		var ca cachedActor
		if jerr := json.Unmarshal([]byte(raw), &ca); jerr == nil {
			if identity.Role(ca.Role) == identity.RoleCaretaker {
				return identity.NewCaretaker(userID, ca.Wards), nil
			}
			return identity.NewUser(userID), nil
		}
		r.logger.Warn("discarding malformed cached actor", zap.String("user_id", userID))
	case !errors.Is(err, cache.ErrMiss):
		r.logger.Warn("actor cache get failed", zap.String("user_id", userID), zap.Error(err))
	}

	actor, err := r.inner.FindActor(ctx, userID)
	if err != nil {
		return identity.Actor{}, err
	}
	payload, _ := json.Marshal(cachedActor{Role: string(actor.Role), Wards: actor.Wards})
	if err := r.cache.Set(ctx, actorKeyPrefix+userID, string(payload), r.ttl); err != nil {
		r.logger.Warn("actor cache set failed", zap.String("user_id", userID), zap.Error(err))
	}
	return actor, nil
}

// Invalidate drops the cached entry for userID.
func (r *CachedActorDirectory) Invalidate(ctx context.Context, userID string) error {
	_, err := r.cache.Del(ctx, actorKeyPrefix+userID)
	return err
}

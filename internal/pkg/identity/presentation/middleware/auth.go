package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-matchmate/internal/infrastructure/auth"
	identity "go-matchmate/internal/pkg/identity/application/domain"
	"go-matchmate/internal/pkg/identity/application/usecase"
)

const actorKey = "matchmate.actor"

// RequireActor authenticates the bearer token and stores the resolved Actor
// on the gin context. Requests without a valid token stop with 401, which also
// refuses a websocket handshake before the upgrade.
func RequireActor(verifier auth.TokenVerifier, resolver *usecase.ResolveActorUseCase, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		userID, err := verifier.Verify(auth.TokenFromRequest(c.Request))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		actor, err := resolver.Execute(ctx, userID)
		if err != nil {
			logger.Error("resolve actor", zap.String("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the Actor stored by RequireActor.
func ActorFrom(c *gin.Context) (identity.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return identity.Actor{}, false
	}
	actor, ok := v.(identity.Actor)
	return actor, ok
}

// WithActor stores actor on c. Tests use it to bypass token verification.
func WithActor(actor identity.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(actorKey, actor)
		c.Next()
	}
}

package http

import (
	"github.com/gin-gonic/gin"

	"go-matchmate/internal/pkg/swipe/application/usecase"
	"go-matchmate/internal/pkg/swipe/presentation/controller"
)

// UseCases bundles the swipe use cases exposed over HTTP.
type UseCases struct {
	Like      *usecase.LikeUseCase
	Reject    *usecase.RejectUseCase
	ListLikes *usecase.ListLikesUseCase
	GetLedger *usecase.GetLedgerUseCase
}

// RegisterRoutes binds the swipe endpoints. g must already authenticate the actor.
func RegisterRoutes(g *gin.RouterGroup, uc UseCases) {
	// POST /api/v1/swipe/like -> like a user; may create a match
	g.POST("/swipe/like", controller.NewLikeController(uc.Like).Handle())

	// POST /api/v1/swipe/reject -> reject a user
	g.POST("/swipe/reject", controller.NewRejectController(uc.Reject).Handle())

	// GET /api/v1/swipe/likes -> likes received (or sent with likeSent=true)
	g.GET("/swipe/likes", controller.NewListLikesController(uc.ListLikes).Handle())

	// GET /api/v1/swipe/ledger -> full swipe ledger of the actor or a ward
	g.GET("/swipe/ledger", controller.NewGetLedgerController(uc.GetLedger).Handle())
}

package v1

import (
	"github.com/gin-gonic/gin"

	chathttp "go-matchmate/internal/pkg/chat/presentation/http"
	swipehttp "go-matchmate/internal/pkg/swipe/presentation/http"
)

// Deps bundles what the version 1 routes need. Auth runs before every
// route, the websocket handshake included.
type Deps struct {
	Auth  gin.HandlerFunc
	Swipe swipehttp.UseCases
	Chat  chathttp.Deps
}

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/api/v1", d.Auth)
	swipehttp.RegisterRoutes(v1, d.Swipe)
	chathttp.RegisterRoutes(v1, d.Chat)
}

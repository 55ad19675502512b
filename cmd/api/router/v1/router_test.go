package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-matchmate/internal/infrastructure/realtime"
	chatusecase "go-matchmate/internal/pkg/chat/application/usecase"
	chatadapter "go-matchmate/internal/pkg/chat/persistence/repository/adapter"
	chathttp "go-matchmate/internal/pkg/chat/presentation/http"
	identity "go-matchmate/internal/pkg/identity/application/domain"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
	swipeusecase "go-matchmate/internal/pkg/swipe/application/usecase"
	swipeadapter "go-matchmate/internal/pkg/swipe/persistence/repository/adapter"
	swipehttp "go-matchmate/internal/pkg/swipe/presentation/http"
)

func TestLikeToMatchThroughRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	swipes := swipeadapter.NewMemorySwipeRepository()
	chats := chatadapter.NewMemoryChatRepository()
	match := chatusecase.NewCreateMatchUseCase(chats, swipes, nil)

	build := func(actor identity.Actor) *gin.Engine {
		r := gin.New()
		RegisterRoutes(r, Deps{
			Auth: middleware.WithActor(actor),
			Swipe: swipehttp.UseCases{
				Like:      swipeusecase.NewLikeUseCase(swipes, match, nil),
				Reject:    swipeusecase.NewRejectUseCase(swipes, nil),
				ListLikes: swipeusecase.NewListLikesUseCase(swipes),
				GetLedger: swipeusecase.NewGetLedgerUseCase(swipes),
			},
			Chat: chathttp.Deps{
				Registry:    realtime.NewRegistry(nil),
				SendMessage: chatusecase.NewSendMessageUseCase(chats, nil, nil),
				GetMessages: chatusecase.NewGetMessageUseCase(chats),
				MarkRead:    chatusecase.NewMarkReadUseCase(chats),
				SetBlocked:  chatusecase.NewSetBlockedUseCase(chats, nil),
				ListMatches: chatusecase.NewListMatchesUseCase(chats),
				ListBlocked: chatusecase.NewListBlockedUseCase(chats),
				ReportUser:  chatusecase.NewReportUserUseCase(chats),
			},
		})
		return r
	}
	alice := build(identity.NewUser("alice"))
	bob := build(identity.NewUser("bob"))

	post := func(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(alice, "/api/v1/swipe/like", `{"liked_user_id":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = post(bob, "/api/v1/swipe/like", `{"liked_user_id":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"matched":true`)

	w = httptest.NewRecorder()
	alice.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chat", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

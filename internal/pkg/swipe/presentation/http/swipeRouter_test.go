package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identity "go-matchmate/internal/pkg/identity/application/domain"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
	"go-matchmate/internal/pkg/swipe/application/usecase"
	"go-matchmate/internal/pkg/swipe/persistence/repository/adapter"
)

func newSwipeEngine(actor identity.Actor, uc UseCases) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1", middleware.WithActor(actor))
	RegisterRoutes(g, uc)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSwipeEndpoints(t *testing.T) {
	repo := adapter.NewMemorySwipeRepository()
	uc := UseCases{
		Like:      usecase.NewLikeUseCase(repo, nil, nil),
		Reject:    usecase.NewRejectUseCase(repo, nil),
		ListLikes: usecase.NewListLikesUseCase(repo),
		GetLedger: usecase.NewGetLedgerUseCase(repo),
	}
	alice := newSwipeEngine(identity.NewUser("alice"), uc)
	bob := newSwipeEngine(identity.NewUser("bob"), uc)

	w := do(alice, http.MethodPost, "/api/v1/swipe/like", `{"liked_user_id":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Like sent successfully","matched":false}`, w.Body.String())

	w = do(alice, http.MethodPost, "/api/v1/swipe/reject", `{"rejected_user_id":"bob"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(alice, http.MethodPost, "/api/v1/swipe/like", `{"liked_user_id":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(alice, http.MethodPost, "/api/v1/swipe/like", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(bob, http.MethodGet, "/api/v1/swipe/likes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"alice"`)
	assert.Contains(t, w.Body.String(), `"totalPages":1`)

	w = do(bob, http.MethodGet, "/api/v1/swipe/ledger", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owner_id":"bob","like_sent":[],"received_likes":["alice"],"rejected":[]}`, w.Body.String())

	w = do(bob, http.MethodGet, "/api/v1/swipe/ledger?userId=alice", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	carol := newSwipeEngine(identity.NewCaretaker("carol", []string{"bob"}), uc)
	w = do(carol, http.MethodPost, "/api/v1/swipe/like", `{"liked_user_id":"alice"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(carol, http.MethodPost, "/api/v1/swipe/reject", `{"rejected_user_id":"alice"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

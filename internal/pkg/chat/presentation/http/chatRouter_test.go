package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-matchmate/internal/infrastructure/auth"
	qport "go-matchmate/internal/infrastructure/queue/port"
	"go-matchmate/internal/infrastructure/realtime"
	"go-matchmate/internal/pkg/chat/application/task"
	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/chat/persistence/repository/adapter"
	"go-matchmate/internal/pkg/chat/presentation/controller"
	identityusecase "go-matchmate/internal/pkg/identity/application/usecase"
	identityadapter "go-matchmate/internal/pkg/identity/persistence/repository/adapter"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
	swipeusecase "go-matchmate/internal/pkg/swipe/application/usecase"
	swipeadapter "go-matchmate/internal/pkg/swipe/persistence/repository/adapter"
)

const testSecret = "test-secret"

type testServer struct {
	srv       *httptest.Server
	verifier  *auth.JWTVerifier
	like      *swipeusecase.LikeUseCase
	registry  *realtime.Registry
	chats     *adapter.MemoryChatRepository
	send      *usecase.SendMessageUseCase
	forwarder *controller.PresenceForwarder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newQueuedTestServer(t, nil)
}

// newQueuedTestServer routes HTTP sends through q when it is not nil.
func newQueuedTestServer(t *testing.T, q qport.Client) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	swipes := swipeadapter.NewMemorySwipeRepository()
	chats := adapter.NewMemoryChatRepository()
	actors := identityadapter.NewMemoryActorDirectory()
	actors.AddCaretaker("carol", "bob")

	registry := realtime.NewRegistry(nil)
	fwd := controller.NewPresenceForwarder(registry, nil)
	match := usecase.NewCreateMatchUseCase(chats, swipes, nil)
	getMsgs := usecase.NewGetMessageUseCase(chats)
	getMsgs.MarkRead = usecase.NewMarkReadUseCase(chats)

	send := usecase.NewSendMessageUseCase(chats, fwd, nil)

	verifier := auth.NewJWTVerifier(testSecret)
	r := gin.New()
	g := r.Group("/api/v1", middleware.RequireActor(verifier, identityusecase.NewResolveActorUseCase(actors), nil))
	RegisterRoutes(g, Deps{
		Registry:    registry,
		Queue:       q,
		SendMessage: send,
		GetMessages: getMsgs,
		MarkRead:    usecase.NewMarkReadUseCase(chats),
		SetBlocked:  usecase.NewSetBlockedUseCase(chats, nil),
		ListMatches: usecase.NewListMatchesUseCase(chats),
		ListBlocked: usecase.NewListBlockedUseCase(chats),
		ReportUser:  usecase.NewReportUserUseCase(chats),
	})

	ts := &testServer{
		srv:       httptest.NewServer(r),
		verifier:  verifier,
		like:      swipeusecase.NewLikeUseCase(swipes, match, nil),
		registry:  registry,
		chats:     chats,
		send:      send,
		forwarder: fwd,
	}
	t.Cleanup(func() {
		registry.Drain()
		ts.srv.Close()
	})
	return ts
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := ts.verifier.Issue(userID, time.Hour)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) match(t *testing.T, a, b string) string {
	t.Helper()
	ctx := context.Background()
	_, err := ts.like.Execute(ctx, swipeusecase.LikeInput{ActorID: a, TargetID: b})
	require.NoError(t, err)
	res, err := ts.like.Execute(ctx, swipeusecase.LikeInput{ActorID: b, TargetID: a})
	require.NoError(t, err)
	require.True(t, res.Created)
	return res.ChatID
}

func (ts *testServer) do(t *testing.T, userID, method, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token(t, userID))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (ts *testServer) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/api/v1/chat/ws"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+ts.token(t, userID))
	ws, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = ws.Close() })

	f := readFrame(t, ws)
	require.Equal(t, "connected", f["type"])
	require.Equal(t, userID, f["user_id"])
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func sendFrame(t *testing.T, ws *websocket.Conn, chatID, body string) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(map[string]string{
		"type":    "sendMessage",
		"chat_id": chatID,
		"body":    body,
	}))
}

func TestSocketRelay(t *testing.T) {
	ts := newTestServer(t)
	chatID := ts.match(t, "alice", "bob")

	alice := ts.dial(t, "alice")
	bob := ts.dial(t, "bob")

	sendFrame(t, alice, chatID, "hi bob")

	got := readFrame(t, bob)
	assert.Equal(t, "receiveMessage", got["type"])
	msg := got["message"].(map[string]any)
	assert.Equal(t, "hi bob", msg["body"])
	assert.Equal(t, "alice", msg["sender_id"])
	assert.Equal(t, "text", msg["kind"])

	ack := readFrame(t, alice)
	assert.Equal(t, "messageSent", ack["type"])
	assert.Equal(t, msg["id"], ack["message"].(map[string]any)["id"])

	// Unknown chat.
	sendFrame(t, alice, "no-such-chat", "hello?")
	f := readFrame(t, alice)
	assert.Equal(t, "error", f["type"])
	assert.Equal(t, "not_found", f["code"])

	// Empty body.
	sendFrame(t, alice, chatID, "")
	f = readFrame(t, alice)
	assert.Equal(t, "bad_request", f["code"])

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("not json")))
	f = readFrame(t, alice)
	assert.Equal(t, "bad_request", f["code"])

	require.NoError(t, alice.WriteJSON(map[string]string{"type": "typing"}))
	f = readFrame(t, alice)
	assert.Equal(t, "unsupported_type", f["code"])
}

func TestSocketBlockedSendIsRefused(t *testing.T) {
	ts := newTestServer(t)
	chatID := ts.match(t, "alice", "bob")

	status, body := ts.do(t, "bob", http.MethodPut, "/api/v1/chat/"+chatID+"/block", `{"target_user_id":"alice"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["blocked"])

	alice := ts.dial(t, "alice")
	sendFrame(t, alice, chatID, "let me in")
	f := readFrame(t, alice)
	assert.Equal(t, "error", f["type"])
	assert.Equal(t, "blocked", f["code"])
	assert.Equal(t, 0, ts.chats.MessageCount(chatID))
}

func TestSocketHandshakeRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/api/v1/chat/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, websocket.ErrBadHandshake))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer not-a-token")
	_, resp, err = websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSocketReconnectReplacesSession(t *testing.T) {
	ts := newTestServer(t)
	chatID := ts.match(t, "alice", "bob")

	first := ts.dial(t, "bob")
	second := ts.dial(t, "bob")

	require.NoError(t, first.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := first.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, realtime.CloseSessionReplaced), err.Error())

	alice := ts.dial(t, "alice")
	sendFrame(t, alice, chatID, "still there?")
	got := readFrame(t, second)
	assert.Equal(t, "receiveMessage", got["type"])
	assert.Equal(t, 2, ts.registry.Len())
}

func TestChatEndpoints(t *testing.T) {
	ts := newTestServer(t)
	chatID := ts.match(t, "alice", "bob")

	status, _ := ts.do(t, "", http.MethodGet, "/api/v1/chat", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := ts.do(t, "alice", http.MethodGet, "/api/v1/chat", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	// Inline relay without a queue.
	status, body = ts.do(t, "alice", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"hello","kind":"text"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, false, body["delivered"])

	status, _ = ts.do(t, "alice", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"hello","kind":"gif"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, "mallory", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"hello"}`)
	assert.Equal(t, http.StatusNotFound, status)

	// The caretaker reads without clearing the unread state.
	status, body = ts.do(t, "carol", http.MethodGet, "/api/v1/chat/"+chatID+"/messages", "")
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 1, body["count"])
	msgs := body["messages"].([]any)
	assert.Equal(t, false, msgs[0].(map[string]any)["is_read"])

	status, body = ts.do(t, "bob", http.MethodGet, "/api/v1/chat/"+chatID+"/messages?limit=10", "")
	require.Equal(t, http.StatusOK, status, body)
	msgs = body["messages"].([]any)
	assert.Equal(t, true, msgs[0].(map[string]any)["is_read"])

	status, body = ts.do(t, "bob", http.MethodPost, "/api/v1/chat/"+chatID+"/read", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["marked"])

	// Caretaker block on behalf of bob is sticky for bob.
	status, body = ts.do(t, "carol", http.MethodPut, "/api/v1/chat/"+chatID+"/block", `{"target_user_id":"alice"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["blocked"])

	status, _ = ts.do(t, "bob", http.MethodPut, "/api/v1/chat/"+chatID+"/block", `{"target_user_id":"alice"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, body = ts.do(t, "bob", http.MethodGet, "/api/v1/chat/blocked", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, _ = ts.do(t, "alice", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"anyone?"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = ts.do(t, "bob", http.MethodPost, "/api/v1/chat/report", `{"chat_id":"`+chatID+`","type":"harassment","description":"rude"}`)
	require.Equal(t, http.StatusCreated, status, body)
	rep := body["report"].(map[string]any)
	assert.Equal(t, "alice", rep["reported_user_id"])

	status, _ = ts.do(t, "bob", http.MethodPost, "/api/v1/chat/report", `{"chat_id":"`+chatID+`","type":"boring"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []qport.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, t qport.Task, _ ...qport.EnqueueOption) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return fmt.Sprintf("task-%d", len(q.tasks)), nil
}

func (q *fakeQueue) Close() error { return nil }

func (q *fakeQueue) drain() []qport.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.tasks
	q.tasks = nil
	return out
}

func TestQueuedSendReportsRejections(t *testing.T) {
	q := &fakeQueue{}
	ts := newQueuedTestServer(t, q)
	chatID := ts.match(t, "alice", "bob")

	status, body := ts.do(t, "alice", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"hello"}`)
	require.Equal(t, http.StatusAccepted, status, body)
	assert.Equal(t, "queued", body["status"])
	require.Len(t, q.drain(), 1)

	status, _ = ts.do(t, "alice", http.MethodPost, "/api/v1/chat/does-not-exist/messages", `{"body":"hello"}`)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = ts.do(t, "mallory", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"hello"}`)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = ts.do(t, "alice", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"hello","kind":"gif"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, q.drain())

	status, _ = ts.do(t, "bob", http.MethodPut, "/api/v1/chat/"+chatID+"/block", `{"target_user_id":"alice"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, "alice", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"let me in"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Empty(t, q.drain())
	assert.Zero(t, ts.chats.MessageCount(chatID))
}

func TestQueuedSendBlockedAfterEnqueueNotifiesSender(t *testing.T) {
	q := &fakeQueue{}
	ts := newQueuedTestServer(t, q)
	chatID := ts.match(t, "alice", "bob")
	alice := ts.dial(t, "alice")

	status, body := ts.do(t, "alice", http.MethodPost, "/api/v1/chat/"+chatID+"/messages", `{"body":"hello"}`)
	require.Equal(t, http.StatusAccepted, status, body)
	queued := q.drain()
	require.Len(t, queued, 1)

	// The block lands between enqueue and the worker run.
	status, _ = ts.do(t, "bob", http.MethodPut, "/api/v1/chat/"+chatID+"/block", `{"target_user_id":"alice"}`)
	require.Equal(t, http.StatusOK, status)

	h := task.HandleSendMessage(ts.send, ts.forwarder, nil)
	err := h(context.Background(), queued[0])
	assert.ErrorIs(t, err, qport.ErrSkipRetry)
	assert.Zero(t, ts.chats.MessageCount(chatID))

	f := readFrame(t, alice)
	assert.Equal(t, "error", f["type"])
	assert.Equal(t, "blocked", f["code"])
	assert.Equal(t, chatID, f["chat_id"])
}

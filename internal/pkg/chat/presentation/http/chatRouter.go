package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-matchmate/internal/infrastructure/metrics"
	qport "go-matchmate/internal/infrastructure/queue/port"
	"go-matchmate/internal/infrastructure/realtime"
	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/chat/presentation/controller"
)

// Deps carries what the chat routes need. Queue may be nil, in which case
// messages posted over HTTP are relayed inline.
type Deps struct {
	Registry   *realtime.Registry
	Queue      qport.Client
	Metrics    *metrics.Collector
	Logger     *zap.Logger
	SendBuffer int

	SendMessage *usecase.SendMessageUseCase
	GetMessages *usecase.GetMessageUseCase
	MarkRead    *usecase.MarkReadUseCase
	SetBlocked  *usecase.SetBlockedUseCase
	ListMatches *usecase.ListMatchesUseCase
	ListBlocked *usecase.ListBlockedUseCase
	ReportUser  *usecase.ReportUserUseCase
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	socketCtl := controller.NewChatSocketController(d.Registry, d.SendMessage, d.Metrics, d.Logger, d.SendBuffer)
	sendMsgCtl := controller.NewSendMessageController(d.Queue, d.SendMessage, d.Logger)
	getMsgCtl := controller.NewGetMessageController(d.GetMessages)
	markReadCtl := controller.NewMarkReadController(d.MarkRead)
	blockCtl := controller.NewSetBlockedController(d.SetBlocked)
	listCtl := controller.NewListMatchesController(d.ListMatches)
	blockedCtl := controller.NewListBlockedController(d.ListBlocked)
	reportCtl := controller.NewReportUserController(d.ReportUser)

	// GET /api/v1/chat/ws -> websocket endpoint for realtime chat
	g.GET("/chat/ws", socketCtl.Handle())

	// GET /api/v1/chat -> matches of the caller (or their wards)
	g.GET("/chat", listCtl.Handle())
	g.GET("/chat/blocked", blockedCtl.Handle())
	g.POST("/chat/report", reportCtl.Handle())

	// POST /api/v1/chat/:chatId/messages -> send a message into a chat
	g.POST("/chat/:chatId/messages", sendMsgCtl.Handle())

	// GET /api/v1/chat/:chatId/messages -> fetch messages by chat id
	g.GET("/chat/:chatId/messages", getMsgCtl.Handle())
	g.POST("/chat/:chatId/read", markReadCtl.Handle())
	g.PUT("/chat/:chatId/block", blockCtl.Handle())
}

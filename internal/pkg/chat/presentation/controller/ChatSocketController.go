package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"go-matchmate/internal/infrastructure/metrics"
	"go-matchmate/internal/infrastructure/realtime"
	"go-matchmate/internal/pkg/chat/application/usecase"
	"go-matchmate/internal/pkg/identity/presentation/middleware"
)

const (
	defaultReadTimeout = 60 * time.Second
	maxFrameBytes      = 1 << 20
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic. The route must sit behind the actor middleware so that a bad
// token is refused before the upgrade.
type ChatSocketController struct {
	registry        *realtime.Registry
	sendMessageUC   *usecase.SendMessageUseCase
	metrics         *metrics.Collector
	logger          *zap.Logger
	sendBuffer      int
	inflightTimeout time.Duration
}

func NewChatSocketController(registry *realtime.Registry, send *usecase.SendMessageUseCase, m *metrics.Collector, logger *zap.Logger, sendBuffer int) *ChatSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatSocketController{
		registry:        registry,
		sendMessageUC:   send,
		metrics:         m,
		logger:          logger,
		sendBuffer:      sendBuffer,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Clients are mobile apps authenticated by token, not browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			unauthorized(c)
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			ctl.logger.Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		conn := realtime.NewConnection(actor.ID, ws, ctl.sendBuffer)
		conn.Start()
		if previous := ctl.registry.Register(actor.ID, conn); previous != nil {
			previous.Close(realtime.CloseSessionReplaced, "session replaced")
		}
		ctl.metrics.IncSessions()
		log := ctl.logger.With(zap.String("user_id", actor.ID), zap.String("session_id", conn.ID))
		log.Debug("session opened")

		defer func() {
			ctl.registry.Unregister(conn.ID)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			log.Debug("session closed")
		}()

		ws.SetReadLimit(maxFrameBytes)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(connectedFrame{Type: frameConnected, UserID: actor.ID}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					log.Debug("websocket read ended", zap.Error(err))
				}
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				_ = conn.Send(encodeError("bad_request", "invalid payload"))
				continue
			}

			switch frame.Type {
			case frameSendMessage:
				ctl.handleSendMessage(c.Request.Context(), conn, log, frame)
			default:
				_ = conn.Send(encodeError("unsupported_type", "unknown frame type"))
			}
		}
	}
}

// handleSendMessage runs the relay for one frame. Failures go back to the
// sender only; the receiver is reached through the relay's forwarder.
func (ctl *ChatSocketController) handleSendMessage(parent context.Context, conn *realtime.Connection, log *zap.Logger, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(parent, ctl.inflightTimeout)
	defer cancel()

	res, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ChatID:   frame.ChatID,
		SenderID: conn.UserID,
		Body:     frame.Body,
		Kind:     frame.Kind,
	})
	if err != nil {
		status, code, msg := classify(err)
		if status == http.StatusInternalServerError {
			log.Error("send message", zap.String("chat_id", frame.ChatID), zap.Error(err))
		}
		_ = conn.Send(encodeError(code, msg))
		return
	}

	payload, err := encodeMessage(frameMessageSent, res.Message)
	if err != nil {
		log.Error("encode messageSent frame", zap.Error(err))
		return
	}
	_ = conn.Send(payload)
}

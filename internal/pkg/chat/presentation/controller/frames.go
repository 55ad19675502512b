package controller

import (
	"encoding/json"

	chat "go-matchmate/internal/pkg/chat/application/domain"
)

// Socket frame types.
const (
	frameConnected      = "connected"
	frameSendMessage    = "sendMessage"
	frameReceiveMessage = "receiveMessage"
	frameMessageSent    = "messageSent"
	frameError          = "error"
)

type inboundFrame struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id"`
	Body   string `json:"body"`
	Kind   string `json:"kind"`
}

type connectedFrame struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	ChatID  string `json:"chat_id,omitempty"`
}

type messageFrame struct {
	Type    string       `json:"type"`
	Message chat.Message `json:"message"`
}

func encodeMessage(frameType string, m chat.Message) ([]byte, error) {
	return json.Marshal(messageFrame{Type: frameType, Message: m})
}

func encodeError(code, message string) []byte {
	return encodeChatError("", code, message)
}

func encodeChatError(chatID, code, message string) []byte {
	b, _ := json.Marshal(errorFrame{Type: frameError, Code: code, Message: message, ChatID: chatID})
	return b
}

package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the media kind of a message body. Non-text bodies carry a URL.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// ParseKind accepts the four known kinds; an empty kind means text.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindText, nil
	case KindText, KindImage, KindVideo, KindAudio:
		return k, nil
	}
	return "", ErrInvalidKind
}

// Message is an immutable entry of a chat except for IsRead, which only
// moves from false to true.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	Kind      Kind      `json:"kind"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessage(chatID, senderID, body string, kind Kind, now time.Time) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyMessage
	}
	k, err := ParseKind(string(kind))
	if err != nil {
		return Message{}, err
	}
	if now.IsZero() {
		now = time.Now()
	}
	return Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Body:      body,
		Kind:      k,
		CreatedAt: now.UTC(),
	}, nil
}

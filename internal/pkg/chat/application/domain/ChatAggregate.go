package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Domain-level errors for chat behaviors
var (
	ErrNotFound       = errors.New("chat: not found")
	ErrNotParticipant = fmt.Errorf("%w: user is not a participant", ErrNotFound)
	ErrBlocked        = errors.New("chat: delivery blocked")
	ErrForbidden      = errors.New("chat: actor may not act for this participant")

	ErrCaretakerLocked = errors.New("chat: block was set by a caretaker and can only be lifted by one")

	ErrInvalidArgument = errors.New("chat: invalid argument")
	ErrEmptyMessage    = fmt.Errorf("%w: message body is empty", ErrInvalidArgument)
	ErrInvalidKind     = fmt.Errorf("%w: unknown message kind", ErrInvalidArgument)
	ErrInvalidPair     = fmt.Errorf("%w: a match needs two distinct users", ErrInvalidArgument)
	ErrSelfBlock       = fmt.Errorf("%w: cannot block yourself", ErrInvalidArgument)
)

// Chat is the aggregate of a matched pair. Exactly one Chat exists per
// unordered pair; Participants are kept in PairKey order.
type Chat struct {
	ID                string         `json:"id"`
	Participants      [2]Participant `json:"participants"`
	LastMessageID     *string        `json:"last_message_id"`
	HasUnreadMessages bool           `json:"has_unread_messages"`
	CreatedAt         time.Time      `json:"created_at"`
}

// NewMatch builds the chat for a reciprocal pair with both sides unblocked.
func NewMatch(a, b string, now time.Time) (Chat, error) {
	if a == "" || b == "" || a == b {
		return Chat{}, ErrInvalidPair
	}
	first, second := orderPair(a, b)
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Chat{
		ID:           uuid.NewString(),
		Participants: [2]Participant{{UserID: first}, {UserID: second}},
		CreatedAt:    now.UTC(),
	}, nil
}

func (c Chat) PairKey() string {
	return PairKey(c.Participants[0].UserID, c.Participants[1].UserID)
}

func (c Chat) HasParticipant(userID string) bool {
	return userID != "" && (c.Participants[0].UserID == userID || c.Participants[1].UserID == userID)
}

// Participant returns the slot of userID for in-place mutation.
func (c *Chat) Participant(userID string) (*Participant, error) {
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			return &c.Participants[i], nil
		}
	}
	return nil, ErrNotParticipant
}

// Counterparty returns the other participant of userID.
func (c Chat) Counterparty(userID string) (string, error) {
	switch userID {
	case "":
	case c.Participants[0].UserID:
		return c.Participants[1].UserID, nil
	case c.Participants[1].UserID:
		return c.Participants[0].UserID, nil
	}
	return "", ErrNotParticipant
}

// PostMessage validates a send from senderID and returns the message to
// persist together with its receiver. It does not mutate the chat; call
// ApplyMessage once the message is stored.
func (c Chat) PostMessage(senderID, body string, kind Kind, now time.Time) (Message, string, error) {
	receiverID, err := c.Counterparty(senderID)
	if err != nil {
		return Message{}, "", err
	}
	if !c.CanDeliver(senderID, receiverID) {
		return Message{}, "", ErrBlocked
	}
	m, err := NewMessage(c.ID, senderID, body, kind, now)
	if err != nil {
		return Message{}, "", err
	}
	return m, receiverID, nil
}

// ApplyMessage advances the chat summary to m.
func (c *Chat) ApplyMessage(m Message) {
	id := m.ID
	c.LastMessageID = &id
	c.HasUnreadMessages = true
}

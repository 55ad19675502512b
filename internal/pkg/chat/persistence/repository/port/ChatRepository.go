package repository

import (
	"context"

	chat "go-matchmate/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
// Lookups of unknown chats return chat.ErrNotFound.
type ChatRepository interface {
	// CreateMatch stores c unless a chat for the same pair already exists. It
	// returns the stored chat and whether this call created it. Concurrent
	// calls for one pair create exactly one chat.
	CreateMatch(ctx context.Context, c chat.Chat) (chat.Chat, bool, error)
	GetChat(ctx context.Context, chatID string) (chat.Chat, error)
	FindChatByPair(ctx context.Context, a, b string) (chat.Chat, error)
	ListChatsByParticipants(ctx context.Context, userIDs []string) ([]chat.Chat, error)

	// UpdateParticipant applies fn to the slot of userID while holding the
	// chat's participant lock and persists the result. An error from fn
	// aborts without changes.
	UpdateParticipant(ctx context.Context, chatID, userID string, fn func(*chat.Participant) error) (chat.Chat, error)

	// AppendMessage stores m and advances the chat summary as one unit. The
	// block flags are re-checked inside the unit; chat.ErrBlocked means
	// nothing was written.
	AppendMessage(ctx context.Context, m chat.Message) (chat.Chat, error)
	GetMessagesByChat(ctx context.Context, chatID string, limit int, offset int) ([]chat.Message, error)

	// MarkRead flags every message of chatID not authored by readerID as read
	// and clears HasUnreadMessages when the last message is not the reader's.
	// It returns the number of messages that changed.
	MarkRead(ctx context.Context, chatID, readerID string) (int, error)

	SaveReport(ctx context.Context, r chat.Report) error
}

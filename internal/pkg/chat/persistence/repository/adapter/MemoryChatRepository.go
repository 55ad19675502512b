package adapter

import (
	"context"
	"slices"
	"sort"
	"sync"

	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
)

// MemoryChatRepository is a process-local ChatRepository. One mutex guards
// all state, which makes every method a single atomic unit.
type MemoryChatRepository struct {
	mu       sync.RWMutex
	chats    map[string]chat.Chat
	pairs    map[string]string
	messages map[string][]chat.Message
	reports  []chat.Report
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		chats:    make(map[string]chat.Chat),
		pairs:    make(map[string]string),
		messages: make(map[string][]chat.Message),
	}
}

var _ repository.ChatRepository = (*MemoryChatRepository)(nil)

func (r *MemoryChatRepository) CreateMatch(_ context.Context, c chat.Chat) (chat.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := c.PairKey()
	if id, ok := r.pairs[key]; ok {
		return r.chats[id], false, nil
	}
	r.pairs[key] = c.ID
	r.chats[c.ID] = c
	return c, true, nil
}

func (r *MemoryChatRepository) GetChat(_ context.Context, chatID string) (chat.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chats[chatID]
	if !ok {
		return chat.Chat{}, chat.ErrNotFound
	}
	return c, nil
}

func (r *MemoryChatRepository) FindChatByPair(_ context.Context, a, b string) (chat.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairs[chat.PairKey(a, b)]
	if !ok {
		return chat.Chat{}, chat.ErrNotFound
	}
	return r.chats[id], nil
}

func (r *MemoryChatRepository) ListChatsByParticipants(_ context.Context, userIDs []string) ([]chat.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []chat.Chat{}
	for _, c := range r.chats {
		if slices.ContainsFunc(userIDs, c.HasParticipant) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryChatRepository) UpdateParticipant(_ context.Context, chatID, userID string, fn func(*chat.Participant) error) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok {
		return chat.Chat{}, chat.ErrNotFound
	}
	p, err := c.Participant(userID)
	if err != nil {
		return chat.Chat{}, err
	}
	if err := fn(p); err != nil {
		return chat.Chat{}, err
	}
	r.chats[chatID] = c
	return c, nil
}

func (r *MemoryChatRepository) AppendMessage(_ context.Context, m chat.Message) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[m.ChatID]
	if !ok {
		return chat.Chat{}, chat.ErrNotFound
	}
	receiver, err := c.Counterparty(m.SenderID)
	if err != nil {
		return chat.Chat{}, err
	}
	if !c.CanDeliver(m.SenderID, receiver) {
		return chat.Chat{}, chat.ErrBlocked
	}
	r.messages[m.ChatID] = append(r.messages[m.ChatID], m)
	c.ApplyMessage(m)
	r.chats[m.ChatID] = c
	return c, nil
}

func (r *MemoryChatRepository) GetMessagesByChat(_ context.Context, chatID string, limit int, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.chats[chatID]; !ok {
		return nil, chat.ErrNotFound
	}
	msgs := r.messages[chatID]
	if offset >= len(msgs) {
		return []chat.Message{}, nil
	}
	end := min(offset+limit, len(msgs))
	return slices.Clone(msgs[offset:end]), nil
}

func (r *MemoryChatRepository) MarkRead(_ context.Context, chatID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok {
		return 0, chat.ErrNotFound
	}
	changed := 0
	msgs := r.messages[chatID]
	var last *chat.Message
	for i := range msgs {
		if msgs[i].SenderID != readerID && !msgs[i].IsRead {
			msgs[i].IsRead = true
			changed++
		}
		if c.LastMessageID != nil && msgs[i].ID == *c.LastMessageID {
			last = &msgs[i]
		}
	}
	if c.HasUnreadMessages && last != nil && last.SenderID != readerID {
		c.HasUnreadMessages = false
		r.chats[chatID] = c
	}
	return changed, nil
}

func (r *MemoryChatRepository) SaveReport(_ context.Context, rep chat.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[rep.ChatID]; !ok {
		return chat.ErrNotFound
	}
	r.reports = append(r.reports, rep)
	return nil
}

// Reports returns a copy of the stored reports.
func (r *MemoryChatRepository) Reports() []chat.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.reports)
}

// MessageCount returns the number of stored messages of chatID.
func (r *MemoryChatRepository) MessageCount(chatID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages[chatID])
}

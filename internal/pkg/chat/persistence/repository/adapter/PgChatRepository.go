package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-matchmate/internal/pkg/chat/application/domain"
	repository "go-matchmate/internal/pkg/chat/persistence/repository/port"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectChat = `
	SELECT c.id::text, c.last_message_id::text, c.has_unread_messages, c.created_at,
	       p.user_id, p.is_blocked, p.is_blocked_by_caretaker
	FROM chat.chat c
	JOIN chat.participant p ON p.chat_id = c.id
`

func (r *PgChatRepository) check() error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	return nil
}

// validID reports whether id can address a uuid column. Anything else can
// never match a row and is treated as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PgChatRepository) CreateMatch(ctx context.Context, c chat.Chat) (chat.Chat, bool, error) {
	if err := r.check(); err != nil {
		return chat.Chat{}, false, err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Chat{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// A concurrent insert of the same pair_key blocks here until the other
	// transaction finishes, then inserts nothing.
	ct, err := tx.Exec(ctx, `
		INSERT INTO chat.chat (id, pair_key, has_unread_messages, created_at)
		VALUES ($1::uuid, $2, false, $3)
		ON CONFLICT (pair_key) DO NOTHING
	`, c.ID, c.PairKey(), c.CreatedAt)
	if err != nil {
		return chat.Chat{}, false, err
	}
	if ct.RowsAffected() == 0 {
		if err := tx.Rollback(ctx); err != nil {
			return chat.Chat{}, false, err
		}
		existing, err := r.FindChatByPair(ctx, c.Participants[0].UserID, c.Participants[1].UserID)
		return existing, false, err
	}

	for i, p := range c.Participants {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.participant (chat_id, user_id, position, is_blocked, is_blocked_by_caretaker)
			VALUES ($1::uuid, $2, $3, $4, $5)
		`, c.ID, p.UserID, i, p.IsBlocked, p.IsBlockedByCaretaker); err != nil {
			return chat.Chat{}, false, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return chat.Chat{}, false, err
	}
	return c, true, nil
}

func (r *PgChatRepository) GetChat(ctx context.Context, chatID string) (chat.Chat, error) {
	if err := r.check(); err != nil {
		return chat.Chat{}, err
	}
	if !validID(chatID) {
		return chat.Chat{}, chat.ErrNotFound
	}
	return loadChat(ctx, r.pool, "WHERE c.id = $1::uuid", chatID)
}

func (r *PgChatRepository) FindChatByPair(ctx context.Context, a, b string) (chat.Chat, error) {
	if err := r.check(); err != nil {
		return chat.Chat{}, err
	}
	return loadChat(ctx, r.pool, "WHERE c.pair_key = $1", chat.PairKey(a, b))
}

func (r *PgChatRepository) ListChatsByParticipants(ctx context.Context, userIDs []string) ([]chat.Chat, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []chat.Chat{}, nil
	}
	rows, err := r.pool.Query(ctx, selectChat+`
		WHERE c.id IN (SELECT chat_id FROM chat.participant WHERE user_id = ANY($1))
		ORDER BY c.created_at DESC, c.id, p.position
	`, userIDs)
	if err != nil {
		return nil, err
	}
	return scanChats(rows)
}

func (r *PgChatRepository) UpdateParticipant(ctx context.Context, chatID, userID string, fn func(*chat.Participant) error) (chat.Chat, error) {
	if err := r.check(); err != nil {
		return chat.Chat{}, err
	}
	if !validID(chatID) {
		return chat.Chat{}, chat.ErrNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Chat{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := chat.Participant{UserID: userID}
	err = tx.QueryRow(ctx, `
		SELECT is_blocked, is_blocked_by_caretaker
		FROM chat.participant
		WHERE chat_id = $1::uuid AND user_id = $2
		FOR UPDATE
	`, chatID, userID).Scan(&p.IsBlocked, &p.IsBlockedByCaretaker)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, gerr := loadChat(ctx, tx, "WHERE c.id = $1::uuid", chatID); gerr != nil {
			return chat.Chat{}, gerr
		}
		return chat.Chat{}, chat.ErrNotParticipant
	}
	if err != nil {
		return chat.Chat{}, err
	}

	if err := fn(&p); err != nil {
		return chat.Chat{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE chat.participant
		SET is_blocked = $3, is_blocked_by_caretaker = $4
		WHERE chat_id = $1::uuid AND user_id = $2
	`, chatID, userID, p.IsBlocked, p.IsBlockedByCaretaker); err != nil {
		return chat.Chat{}, err
	}
	c, err := loadChat(ctx, tx, "WHERE c.id = $1::uuid", chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	return c, tx.Commit(ctx)
}

func (r *PgChatRepository) AppendMessage(ctx context.Context, m chat.Message) (chat.Chat, error) {
	if err := r.check(); err != nil {
		return chat.Chat{}, err
	}
	if !validID(m.ChatID) {
		return chat.Chat{}, chat.ErrNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Chat{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// FOR SHARE waits for any in-flight block toggle on this chat.
	rows, err := tx.Query(ctx, `
		SELECT user_id, is_blocked FROM chat.participant
		WHERE chat_id = $1::uuid
		FOR SHARE
	`, m.ChatID)
	if err != nil {
		return chat.Chat{}, err
	}
	var (
		seen, isSender, blocked bool
	)
	for rows.Next() {
		var (
			uid string
			b   bool
		)
		if err := rows.Scan(&uid, &b); err != nil {
			rows.Close()
			return chat.Chat{}, err
		}
		seen = true
		isSender = isSender || uid == m.SenderID
		blocked = blocked || b
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return chat.Chat{}, err
	}
	switch {
	case !seen:
		return chat.Chat{}, chat.ErrNotFound
	case !isSender:
		return chat.Chat{}, chat.ErrNotParticipant
	case blocked:
		return chat.Chat{}, chat.ErrBlocked
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat.message (id, chat_id, sender_id, body, kind, is_read, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, false, $6)
	`, m.ID, m.ChatID, m.SenderID, m.Body, string(m.Kind), m.CreatedAt); err != nil {
		return chat.Chat{}, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE chat.chat SET last_message_id = $2::uuid, has_unread_messages = true
		WHERE id = $1::uuid
	`, m.ChatID, m.ID); err != nil {
		return chat.Chat{}, err
	}
	c, err := loadChat(ctx, tx, "WHERE c.id = $1::uuid", m.ChatID)
	if err != nil {
		return chat.Chat{}, err
	}
	return c, tx.Commit(ctx)
}

func (r *PgChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit int, offset int) ([]chat.Message, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if !validID(chatID) {
		return nil, chat.ErrNotFound
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, chat_id::text, sender_id, body, kind, is_read, created_at
		FROM chat.message
		WHERE chat_id = $1::uuid
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []chat.Message{}
	for rows.Next() {
		var (
			m    chat.Message
			kind string
		)
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &kind, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Kind = chat.Kind(kind)
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgChatRepository) MarkRead(ctx context.Context, chatID, readerID string) (int, error) {
	if err := r.check(); err != nil {
		return 0, err
	}
	if !validID(chatID) {
		return 0, chat.ErrNotFound
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE chat.message SET is_read = true
		WHERE chat_id = $1::uuid AND sender_id <> $2 AND NOT is_read
	`, chatID, readerID)
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE chat.chat c SET has_unread_messages = false
		WHERE c.id = $1::uuid AND c.has_unread_messages
		  AND EXISTS (
		      SELECT 1 FROM chat.message m
		      WHERE m.id = c.last_message_id AND m.sender_id <> $2
		  )
	`, chatID, readerID); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *PgChatRepository) SaveReport(ctx context.Context, rep chat.Report) error {
	if err := r.check(); err != nil {
		return err
	}
	if !validID(rep.ChatID) {
		return chat.ErrNotFound
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.report (id, chat_id, reported_user_id, reported_by, type, description, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
	`, rep.ID, rep.ChatID, rep.ReportedUserID, rep.ReportedBy, string(rep.Type), rep.Description, rep.CreatedAt)
	return err
}

func loadChat(ctx context.Context, q querier, where string, args ...any) (chat.Chat, error) {
	rows, err := q.Query(ctx, selectChat+where+" ORDER BY p.position", args...)
	if err != nil {
		return chat.Chat{}, err
	}
	chats, err := scanChats(rows)
	if err != nil {
		return chat.Chat{}, err
	}
	if len(chats) == 0 {
		return chat.Chat{}, chat.ErrNotFound
	}
	return chats[0], nil
}

// scanChats folds participant rows into chats. Rows of one chat must be
// adjacent and ordered by position.
func scanChats(rows pgx.Rows) ([]chat.Chat, error) {
	defer rows.Close()
	chats := []chat.Chat{}
	slot := 0
	for rows.Next() {
		var (
			c chat.Chat
			p chat.Participant
		)
		if err := rows.Scan(&c.ID, &c.LastMessageID, &c.HasUnreadMessages, &c.CreatedAt,
			&p.UserID, &p.IsBlocked, &p.IsBlockedByCaretaker); err != nil {
			return nil, err
		}
		if n := len(chats); n == 0 || chats[n-1].ID != c.ID {
			chats = append(chats, c)
			slot = 0
		}
		if slot > 1 {
			return nil, fmt.Errorf("chat %s has more than two participants", c.ID)
		}
		chats[len(chats)-1].Participants[slot] = p
		slot++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chats, nil
}

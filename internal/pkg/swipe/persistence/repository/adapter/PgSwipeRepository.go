package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	swipe "go-matchmate/internal/pkg/swipe/application/domain"
	repository "go-matchmate/internal/pkg/swipe/persistence/repository/port"
)

type PgSwipeRepository struct {
	pool *pgxpool.Pool
}

func NewPgSwipeRepository(pool *pgxpool.Pool) *PgSwipeRepository {
	return &PgSwipeRepository{pool: pool}
}

var _ repository.SwipeRepository = (*PgSwipeRepository)(nil)

// RecordDecision relies on the (actor_id, target_id) primary key: a second
// decision for the same pair inserts nothing and the stored one is reported.
func (r *PgSwipeRepository) RecordDecision(ctx context.Context, s swipe.Swipe) error {
	if r == nil || r.pool == nil {
		return errors.New("PgSwipeRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO swipe.decision (actor_id, target_id, kind, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (actor_id, target_id) DO NOTHING
	`, s.ActorID, s.TargetID, string(s.Decision), s.CreatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	var existing string
	err = r.pool.QueryRow(ctx,
		"SELECT kind FROM swipe.decision WHERE actor_id = $1 AND target_id = $2",
		s.ActorID, s.TargetID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("read conflicting decision: %w", err)
	}
	return swipe.ConflictFor(swipe.Decision(existing))
}

func (r *PgSwipeRepository) IsReciprocal(ctx context.Context, a, b string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgSwipeRepository: nil pool")
	}
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM swipe.decision
		WHERE kind = 'like'
		  AND ((actor_id = $1 AND target_id = $2) OR (actor_id = $2 AND target_id = $1))
	`, a, b).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 2, nil
}

func (r *PgSwipeRepository) GetLedger(ctx context.Context, ownerID string) (swipe.Ledger, error) {
	if r == nil || r.pool == nil {
		return swipe.Ledger{}, errors.New("PgSwipeRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT 'sent' AS side, target_id, kind FROM swipe.decision WHERE actor_id = $1
		UNION ALL
		SELECT 'received', actor_id, kind FROM swipe.decision WHERE target_id = $1 AND kind = 'like'
	`, ownerID)
	if err != nil {
		return swipe.Ledger{}, err
	}
	defer rows.Close()

	ledger := swipe.Ledger{OwnerID: ownerID}
	for rows.Next() {
		var side, other, kind string
		if err := rows.Scan(&side, &other, &kind); err != nil {
			return swipe.Ledger{}, err
		}
		switch {
		case side == "received":
			ledger.ReceivedLikes = append(ledger.ReceivedLikes, other)
		case swipe.Decision(kind) == swipe.DecisionLike:
			ledger.LikeSent = append(ledger.LikeSent, other)
		default:
			ledger.Rejected = append(ledger.Rejected, other)
		}
	}
	return ledger, rows.Err()
}

func (r *PgSwipeRepository) ListLikes(ctx context.Context, ownerIDs []string, dir swipe.Direction, limit, offset int) ([]swipe.Like, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, errors.New("PgSwipeRepository: nil pool")
	}
	if len(ownerIDs) == 0 {
		return []swipe.Like{}, 0, nil
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	// owner is the side the listing was requested for.
	owner, other := "actor_id", "target_id"
	if dir == swipe.DirectionReceived {
		owner, other = "target_id", "actor_id"
	}
	query := fmt.Sprintf(`
		SELECT %[1]s, %[2]s, created_at, count(*) OVER ()
		FROM swipe.decision
		WHERE kind = 'like' AND %[1]s = ANY($1)
		ORDER BY created_at DESC, %[2]s
		LIMIT $2 OFFSET $3
	`, owner, other)

	rows, err := r.pool.Query(ctx, query, ownerIDs, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	likes := []swipe.Like{}
	total := 0
	for rows.Next() {
		var (
			l  swipe.Like
			at time.Time
		)
		if err := rows.Scan(&l.OwnerID, &l.UserID, &at, &total); err != nil {
			return nil, 0, err
		}
		l.CreatedAt = at
		likes = append(likes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(likes) == 0 && offset > 0 {
		// The window count is unavailable past the last page.
		if err := r.pool.QueryRow(ctx,
			fmt.Sprintf("SELECT count(*) FROM swipe.decision WHERE kind = 'like' AND %s = ANY($1)", owner),
			ownerIDs,
		).Scan(&total); err != nil {
			return nil, 0, err
		}
	}
	return likes, total, nil
}

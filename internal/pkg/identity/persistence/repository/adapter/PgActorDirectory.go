package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	identity "go-matchmate/internal/pkg/identity/application/domain"
)

type PgActorDirectory struct {
	pool *pgxpool.Pool
}

func NewPgActorDirectory(pool *pgxpool.Pool) *PgActorDirectory {
	return &PgActorDirectory{pool: pool}
}

func (r *PgActorDirectory) FindActor(ctx context.Context, userID string) (identity.Actor, error) {
	if r == nil || r.pool == nil {
		return identity.Actor{}, errors.New("PgActorDirectory: nil pool")
	}
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM identity.account WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return identity.NewUser(userID), nil
	}
	if err != nil {
		return identity.Actor{}, err
	}
	parsed, err := identity.ParseRole(role)
	if err != nil {
		return identity.Actor{}, err
	}
	if parsed != identity.RoleCaretaker {
		return identity.NewUser(userID), nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ward_id FROM identity.caretaker_link
		WHERE caretaker_id = $1
		ORDER BY ward_id
	`, userID)
	if err != nil {
		return identity.Actor{}, err
	}
	wards, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return identity.Actor{}, err
	}
	return identity.NewCaretaker(userID, wards), nil
}

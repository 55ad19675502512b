package adapter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"go-matchmate/internal/infrastructure/database/dbtest"
	swipe "go-matchmate/internal/pkg/swipe/application/domain"
)

func userIDs(n int) []string {
	run := uuid.NewString()[:8]
	out := make([]string, n)
	for i := range out {
		out[i] = run + "-u" + string(rune('a'+i))
	}
	return out
}

func TestPgRecordDecisionIsAddIfAbsent(t *testing.T) {
	ctx := context.Background()
	r := NewPgSwipeRepository(dbtest.Pool(t))
	u := userIDs(2)

	require.NoError(t, r.RecordDecision(ctx, mustSwipe(t, u[0], u[1], swipe.DecisionLike)))
	err := r.RecordDecision(ctx, mustSwipe(t, u[0], u[1], swipe.DecisionLike))
	assert.ErrorIs(t, err, swipe.ErrAlreadyLiked)
	err = r.RecordDecision(ctx, mustSwipe(t, u[0], u[1], swipe.DecisionReject))
	assert.ErrorIs(t, err, swipe.ErrAlreadyLiked)

	ledger, err := r.GetLedger(ctx, u[0])
	require.NoError(t, err)
	assert.Equal(t, []string{u[1]}, ledger.LikeSent)
	assert.Empty(t, ledger.Rejected)
}

func TestPgConcurrentLikeAndRejectStayExclusive(t *testing.T) {
	ctx := context.Background()
	r := NewPgSwipeRepository(dbtest.Pool(t))
	u := userIDs(2)

	var wins atomic.Int32
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		d := swipe.DecisionLike
		if i%2 == 1 {
			d = swipe.DecisionReject
		}
		s := mustSwipe(t, u[0], u[1], d)
		g.Go(func() error {
			err := r.RecordDecision(ctx, s)
			if err == nil {
				wins.Add(1)
				return nil
			}
			if errors.Is(err, swipe.ErrConflict) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), wins.Load())

	ledger, err := r.GetLedger(ctx, u[0])
	require.NoError(t, err)
	assert.Equal(t, 1, len(ledger.LikeSent)+len(ledger.Rejected))
}

func TestPgReciprocityAndListLikes(t *testing.T) {
	ctx := context.Background()
	r := NewPgSwipeRepository(dbtest.Pool(t))
	u := userIDs(4)
	target := u[0]

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, actor := range u[1:] {
		s := mustSwipe(t, actor, target, swipe.DecisionLike)
		s.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, r.RecordDecision(ctx, s))
	}
	ok, err := r.IsReciprocal(ctx, target, u[1])
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.RecordDecision(ctx, mustSwipe(t, target, u[1], swipe.DecisionLike)))
	ok, err = r.IsReciprocal(ctx, u[1], target)
	require.NoError(t, err)
	assert.True(t, ok)

	page, total, err := r.ListLikes(ctx, []string{target}, swipe.DirectionReceived, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, u[3], page[0].UserID)

	page, _, err = r.ListLikes(ctx, []string{target}, swipe.DirectionReceived, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, u[1], page[0].UserID)

	sent, total, err := r.ListLikes(ctx, []string{u[2]}, swipe.DirectionSent, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sent, 1)
	assert.Equal(t, target, sent[0].UserID)
}

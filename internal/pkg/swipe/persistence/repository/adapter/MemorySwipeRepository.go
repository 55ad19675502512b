package adapter

import (
	"context"
	"slices"
	"sort"
	"sync"

	swipe "go-matchmate/internal/pkg/swipe/application/domain"
	repository "go-matchmate/internal/pkg/swipe/persistence/repository/port"
)

type pairKey struct{ actor, target string }

// MemorySwipeRepository keeps decisions in a mutex-guarded map. Every
// operation holds the lock for its whole duration, so RecordDecision is an
// atomic add-if-absent.
type MemorySwipeRepository struct {
	mu        sync.RWMutex
	decisions map[pairKey]swipe.Swipe
}

func NewMemorySwipeRepository() *MemorySwipeRepository {
	return &MemorySwipeRepository{decisions: make(map[pairKey]swipe.Swipe)}
}

var _ repository.SwipeRepository = (*MemorySwipeRepository)(nil)

func (r *MemorySwipeRepository) RecordDecision(_ context.Context, s swipe.Swipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pairKey{s.ActorID, s.TargetID}
	if existing, ok := r.decisions[k]; ok {
		return swipe.ConflictFor(existing.Decision)
	}
	r.decisions[k] = s
	return nil
}

func (r *MemorySwipeRepository) IsReciprocal(_ context.Context, a, b string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ab, ok1 := r.decisions[pairKey{a, b}]
	ba, ok2 := r.decisions[pairKey{b, a}]
	return ok1 && ok2 && ab.Decision == swipe.DecisionLike && ba.Decision == swipe.DecisionLike, nil
}

func (r *MemorySwipeRepository) GetLedger(_ context.Context, ownerID string) (swipe.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ledger := swipe.Ledger{OwnerID: ownerID}
	for _, s := range r.sortedLocked() {
		switch {
		case s.ActorID == ownerID && s.Decision == swipe.DecisionLike:
			ledger.LikeSent = append(ledger.LikeSent, s.TargetID)
		case s.ActorID == ownerID:
			ledger.Rejected = append(ledger.Rejected, s.TargetID)
		case s.TargetID == ownerID && s.Decision == swipe.DecisionLike:
			ledger.ReceivedLikes = append(ledger.ReceivedLikes, s.ActorID)
		}
	}
	return ledger, nil
}

func (r *MemorySwipeRepository) ListLikes(_ context.Context, ownerIDs []string, dir swipe.Direction, limit, offset int) ([]swipe.Like, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []swipe.Like{}
	sorted := r.sortedLocked()
	for i := len(sorted) - 1; i >= 0; i-- {
		s := sorted[i]
		if s.Decision != swipe.DecisionLike {
			continue
		}
		owner, other := s.ActorID, s.TargetID
		if dir == swipe.DirectionReceived {
			owner, other = s.TargetID, s.ActorID
		}
		if slices.Contains(ownerIDs, owner) {
			all = append(all, swipe.Like{OwnerID: owner, UserID: other, CreatedAt: s.CreatedAt})
		}
	}
	total := len(all)
	if offset >= total {
		return []swipe.Like{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

// sortedLocked returns decisions oldest first.
func (r *MemorySwipeRepository) sortedLocked() []swipe.Swipe {
	out := make([]swipe.Swipe, 0, len(r.decisions))
	for _, s := range r.decisions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if out[i].ActorID != out[j].ActorID {
			return out[i].ActorID < out[j].ActorID
		}
		return out[i].TargetID < out[j].TargetID
	})
	return out
}

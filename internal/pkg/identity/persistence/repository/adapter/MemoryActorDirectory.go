package adapter

import (
	"context"
	"sync"

	identity "go-matchmate/internal/pkg/identity/application/domain"
)

// MemoryActorDirectory keeps caretaker links in process memory. It backs the
// memory storage driver and tests.
type MemoryActorDirectory struct {
	mu    sync.RWMutex
	wards map[string][]string
}

func NewMemoryActorDirectory() *MemoryActorDirectory {
	return &MemoryActorDirectory{wards: make(map[string][]string)}
}

// AddCaretaker marks caretakerID as a caretaker of wards.
func (r *MemoryActorDirectory) AddCaretaker(caretakerID string, wards ...string) {
	r.mu.Lock()
	r.wards[caretakerID] = append(r.wards[caretakerID], wards...)
	r.mu.Unlock()
}

func (r *MemoryActorDirectory) FindActor(_ context.Context, userID string) (identity.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if wards, ok := r.wards[userID]; ok {
		return identity.NewCaretaker(userID, wards), nil
	}
	return identity.NewUser(userID), nil
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identity "go-matchmate/internal/pkg/identity/application/domain"
	"go-matchmate/internal/pkg/identity/persistence/repository/adapter"
)

type brokenDirectory struct{}

func (brokenDirectory) FindActor(context.Context, string) (identity.Actor, error) {
	return identity.Actor{}, errors.New("db down")
}

func TestResolveActor(t *testing.T) {
	dir := adapter.NewMemoryActorDirectory()
	dir.AddCaretaker("carol", "alice")
	uc := NewResolveActorUseCase(dir)
	ctx := context.Background()

	actor, err := uc.Execute(ctx, " alice ")
	require.NoError(t, err)
	assert.Equal(t, identity.NewUser("alice"), actor)

	actor, err = uc.Execute(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, actor.IsCaretaker())
	assert.True(t, actor.ActsFor("alice"))

	_, err = uc.Execute(ctx, "  ")
	assert.ErrorIs(t, err, ErrMissingUserID)

	_, err = NewResolveActorUseCase(brokenDirectory{}).Execute(ctx, "alice")
	assert.ErrorIs(t, err, ErrPersistence)
}

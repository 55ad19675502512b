package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchOrdersParticipants(t *testing.T) {
	c, err := NewMatch("bob", "alice", time.Time{})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "alice", c.Participants[0].UserID)
	assert.Equal(t, "bob", c.Participants[1].UserID)
	assert.Equal(t, "alice:bob", c.PairKey())
	assert.Equal(t, PairKey("bob", "alice"), c.PairKey())
	assert.False(t, c.HasUnreadMessages)

	_, err = NewMatch("alice", "alice", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidPair)
}

func TestPostMessage(t *testing.T) {
	c, err := NewMatch("alice", "bob", time.Time{})
	require.NoError(t, err)

	m, receiver, err := c.PostMessage("alice", "  hi  ", "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "bob", receiver)
	assert.Equal(t, "hi", m.Body)
	assert.Equal(t, KindText, m.Kind)
	assert.False(t, m.IsRead)
	assert.Nil(t, c.LastMessageID, "PostMessage must not mutate the chat")

	c.ApplyMessage(m)
	require.NotNil(t, c.LastMessageID)
	assert.Equal(t, m.ID, *c.LastMessageID)
	assert.True(t, c.HasUnreadMessages)

	_, _, err = c.PostMessage("mallory", "hi", KindText, time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = c.PostMessage("alice", "   ", KindText, time.Time{})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, _, err = c.PostMessage("alice", "x", Kind("gif"), time.Time{})
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestBlockSuppressesBothDirections(t *testing.T) {
	c, err := NewMatch("alice", "bob", time.Time{})
	require.NoError(t, err)
	p, err := c.Participant("alice")
	require.NoError(t, err)
	_, err = p.ToggleBlock(false)
	require.NoError(t, err)

	assert.False(t, c.CanDeliver("alice", "bob"))
	assert.False(t, c.CanDeliver("bob", "alice"))
	assert.True(t, c.BlockedCounterparty("bob"))
	assert.False(t, c.BlockedCounterparty("alice"))

	_, _, err = c.PostMessage("bob", "hi", KindText, time.Time{})
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestToggleBlockCaretakerIsSticky(t *testing.T) {
	var p Participant

	blocked, err := p.ToggleBlock(true)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.True(t, p.IsBlockedByCaretaker)

	blocked, err = p.ToggleBlock(false)
	assert.ErrorIs(t, err, ErrCaretakerLocked)
	assert.True(t, blocked)
	assert.True(t, p.IsBlocked)
	assert.True(t, p.IsBlockedByCaretaker)

	blocked, err = p.ToggleBlock(true)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Equal(t, Participant{}, p)
}

func TestToggleBlockOrdinary(t *testing.T) {
	p := Participant{UserID: "u"}
	blocked, err := p.ToggleBlock(false)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.False(t, p.IsBlockedByCaretaker)

	blocked, err = p.ToggleBlock(false)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestParseKindAndReportType(t *testing.T) {
	k, err := ParseKind("IMAGE")
	require.NoError(t, err)
	assert.Equal(t, KindImage, k)
	_, err = ParseKind("sticker")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	rt, err := ParseReportType("fake_profile")
	require.NoError(t, err)
	assert.Equal(t, ReportFakeProfile, rt)
	_, err = ParseReportType("rude")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

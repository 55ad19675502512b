package swipe

import (
	"slices"
	"time"
)

// Ledger is the per-user view of swipe state. It is derived from stored
// decisions; receivedLikes is the set of actors whose like targets OwnerID.
type Ledger struct {
	OwnerID       string
	LikeSent      []string
	ReceivedLikes []string
	Rejected      []string
}

func (l Ledger) HasLiked(userID string) bool    { return slices.Contains(l.LikeSent, userID) }
func (l Ledger) HasRejected(userID string) bool { return slices.Contains(l.Rejected, userID) }
func (l Ledger) LikedBy(userID string) bool     { return slices.Contains(l.ReceivedLikes, userID) }

// Direction selects which side of the like relation a listing returns.
type Direction int

const (
	DirectionReceived Direction = iota
	DirectionSent
)

// Like is one entry of a likes listing: OwnerID is the identity the listing
// was requested for and UserID the counterparty.
type Like struct {
	OwnerID   string    `json:"owner_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

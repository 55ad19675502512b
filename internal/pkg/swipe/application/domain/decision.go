package swipe

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Decision is an actor's verdict about a target. At most one decision exists
// per (actor, target) pair, so a like and a reject exclude each other.
type Decision string

const (
	DecisionLike   Decision = "like"
	DecisionReject Decision = "reject"
)

var (
	ErrConflict        = errors.New("swipe conflict")
	ErrAlreadyLiked    = fmt.Errorf("%w: user already liked", ErrConflict)
	ErrAlreadyRejected = fmt.Errorf("%w: user already rejected", ErrConflict)

	ErrInvalidArgument = errors.New("invalid swipe argument")
	ErrSelfSwipe       = fmt.Errorf("%w: cannot swipe on yourself", ErrInvalidArgument)
	ErrMissingTarget   = fmt.Errorf("%w: target user id is required", ErrInvalidArgument)

	ErrForbidden      = errors.New("actor may not act for this user")
	ErrCaretakerSwipe = fmt.Errorf("%w: caretakers cannot swipe", ErrForbidden)
)

// ConflictFor maps an existing decision to the error a new swipe must return.
func ConflictFor(existing Decision) error {
	if existing == DecisionReject {
		return ErrAlreadyRejected
	}
	return ErrAlreadyLiked
}

// Swipe is a validated request to record a decision.
type Swipe struct {
	ActorID   string
	TargetID  string
	Decision  Decision
	CreatedAt time.Time
}

func NewSwipe(actorID, targetID string, d Decision) (Swipe, error) {
	actorID = strings.TrimSpace(actorID)
	targetID = strings.TrimSpace(targetID)
	if actorID == "" || targetID == "" {
		return Swipe{}, ErrMissingTarget
	}
	if actorID == targetID {
		return Swipe{}, ErrSelfSwipe
	}
	if d != DecisionLike && d != DecisionReject {
		return Swipe{}, fmt.Errorf("%w: unknown decision %q", ErrInvalidArgument, d)
	}
	return Swipe{ActorID: actorID, TargetID: targetID, Decision: d, CreatedAt: time.Now().UTC()}, nil
}

package usecase

import (
	chat "go-matchmate/internal/pkg/chat/application/domain"
	identity "go-matchmate/internal/pkg/identity/application/domain"
)

// actingParticipant returns the participant of c the actor acts for. A
// caretaker of both participants acts for the first one.
func actingParticipant(actor identity.Actor, c chat.Chat) (string, error) {
	for _, p := range c.Participants {
		if actor.ActsFor(p.UserID) {
			return p.UserID, nil
		}
	}
	return "", chat.ErrNotParticipant
}

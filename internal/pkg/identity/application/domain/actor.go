package identity

import (
	"errors"
	"slices"
)

// Role distinguishes an ordinary user from a caretaker acting for wards.
type Role string

const (
	RoleUser      Role = "user"
	RoleCaretaker Role = "caretaker"
)

var ErrInvalidRole = errors.New("invalid role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleCaretaker:
		return Role(s), nil
	case "":
		return RoleUser, nil
	}
	return "", ErrInvalidRole
}

// Actor is the authenticated principal behind a request. An ordinary user
// acts only for itself; a caretaker acts for its wards and never for itself.
type Actor struct {
	ID    string
	Role  Role
	Wards []string
}

func NewUser(id string) Actor {
	return Actor{ID: id, Role: RoleUser}
}

func NewCaretaker(id string, wards []string) Actor {
	return Actor{ID: id, Role: RoleCaretaker, Wards: slices.Clone(wards)}
}

func (a Actor) IsCaretaker() bool { return a.Role == RoleCaretaker }

// Identities returns every user id this actor may act for.
func (a Actor) Identities() []string {
	if a.IsCaretaker() {
		return slices.Clone(a.Wards)
	}
	return []string{a.ID}
}

// ActsFor reports whether the actor may act on behalf of userID.
func (a Actor) ActsFor(userID string) bool {
	if userID == "" {
		return false
	}
	if a.IsCaretaker() {
		return slices.Contains(a.Wards, userID)
	}
	return a.ID == userID
}

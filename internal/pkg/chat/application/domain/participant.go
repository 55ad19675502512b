package chat

// Participant is one side of a chat and its block state. IsBlockedByCaretaker
// marks a block placed by a caretaker; only a caretaker can lift it.
type Participant struct {
	UserID               string `json:"user_id"`
	IsBlocked            bool   `json:"is_blocked"`
	IsBlockedByCaretaker bool   `json:"is_blocked_by_caretaker"`
}

// ToggleBlock flips IsBlocked and returns the resulting state.
func (p *Participant) ToggleBlock(byCaretaker bool) (blocked bool, err error) {
	if !p.IsBlocked {
		p.IsBlocked = true
		if byCaretaker {
			p.IsBlockedByCaretaker = true
		}
		return true, nil
	}
	if p.IsBlockedByCaretaker && !byCaretaker {
		return true, ErrCaretakerLocked
	}
	p.IsBlocked = false
	p.IsBlockedByCaretaker = false
	return false, nil
}

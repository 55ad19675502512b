package chat

// CanDeliver reports whether a message may flow between sender and receiver.
// A block on either side stops delivery in both directions.
func (c Chat) CanDeliver(senderID, receiverID string) bool {
	for _, p := range c.Participants {
		if (p.UserID == senderID || p.UserID == receiverID) && p.IsBlocked {
			return false
		}
	}
	return true
}

// BlockedCounterparty reports whether the other side of userID is blocked.
func (c Chat) BlockedCounterparty(userID string) bool {
	other, err := c.Counterparty(userID)
	if err != nil {
		return false
	}
	p, err := c.Participant(other)
	return err == nil && p.IsBlocked
}

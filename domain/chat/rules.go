package chat

import "time"

const (
	// GroupWindow is the maximum gap between two consecutive messages of the
	// same author for the second one to be displayed without a header.
	GroupWindow = 5 * time.Minute

	// RevealThreshold is the message count a match room must exceed before
	// identities may be revealed.
	RevealThreshold = 50
)

// IsGrouped reports whether current continues the group started by previous.
func IsGrouped(previous, current Message) bool {
	if previous.AuthorID != current.AuthorID {
		return false
	}
	return current.CreatedAt.Sub(previous.CreatedAt) < GroupWindow
}

// CanReveal is a pure predicate over the number of messages observed in a room.
func CanReveal(room Room, count int) bool {
	return room.IsMatch() && count > RevealThreshold
}

package chat

import "time"

type MessageID string

type MessageStatus string

const (
	StatusSending MessageStatus = "sending"
	StatusSent    MessageStatus = "sent"
	StatusError   MessageStatus = "error"
)

// Message is a chat message as seen by both the store and the client.
// AuthorID is always the real user id, even when the message is anonymous.
// ClientID carries the provisional id assigned by the sender before the store
// acknowledged the message; it is empty for messages sent without one.
type Message struct {
	ID          MessageID
	ClientID    MessageID
	RoomID      RoomID
	AuthorID    string
	Content     string
	CreatedAt   time.Time
	Status      MessageStatus
	IsAnonymous bool
	DisplayName string
}

func (m Message) IsPending() bool {
	return m.Status == StatusSending
}

// IsLocal reports whether the message only exists on the client side.
func (m Message) IsLocal() bool {
	return m.Status == StatusSending || m.Status == StatusError
}

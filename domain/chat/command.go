package chat

// SendMessageCommand is the intent to persist a message in a room.
type SendMessageCommand struct {
	RoomID      RoomID    `validate:"required,max=64"`
	AuthorID    string    `validate:"required,max=128"`
	Content     string    `validate:"required"`
	ClientID    MessageID `validate:"max=128"`
	IsAnonymous bool
	DisplayName string `validate:"max=64"`
}

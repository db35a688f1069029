// Package chat contains the core concepts of the chat system:
// rooms, memberships, queue entries and messages.
// No runtime, network, or storage logic should be added here.
package chat

import "time"

type RoomID string

type RoomKind string

const (
	Broadcast RoomKind = "broadcast"
	Match     RoomKind = "match"
)

// MatchRoomSize is the fixed membership of a match room.
const MatchRoomSize = 2

type Room struct {
	ID        RoomID
	Kind      RoomKind
	Name      string // broadcast rooms only
	CreatedAt time.Time
}

func (r Room) IsMatch() bool {
	return r.Kind == Match
}

// Membership relates a user to a room. Immutable once set for match rooms.
type Membership struct {
	RoomID   RoomID
	UserID   string
	JoinedAt time.Time
}

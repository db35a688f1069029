// Package event defines what flows through the change feed.
package event

import (
	"cinechat/domain/chat"
)

type Type string

const (
	MessageCommittedType Type = "message_committed"
	RoomMatchedType      Type = "room_matched"
	MatchCancelledType   Type = "match_cancelled"
)

type DomainEvent interface {
	Type() Type
}

// MessageCommitted is emitted once a message has been durably stored.
type MessageCommitted struct {
	Message chat.Message
}

func (MessageCommitted) Type() Type { return MessageCommittedType }

func (m MessageCommitted) RoomID() chat.RoomID { return m.Message.RoomID }

// RoomMatched tells a waiting user that a partner consumed their queue entry.
type RoomMatched struct {
	UserID string
	Ticket string
	Room   chat.Room
}

func (RoomMatched) Type() Type { return RoomMatchedType }

// MatchCancelled tells a waiting request that its queue entry was removed.
type MatchCancelled struct {
	UserID string
	Ticket string
}

func (MatchCancelled) Type() Type { return MatchCancelledType }

package sink

import (
	"cinechat/domain/chat"
	"cinechat/domain/event"
	"cinechat/errors"
	"context"
	"fmt"
	"sync"
)

// SubscriptionSink buffers the messages of one room subscription.
// Consume never waits: when the buffer is full the sink closes its channel and
// reports ErrSubscriptionOverflow. A consumer never silently misses a message,
// it loses the whole subscription instead, and a stalled reader cannot hold up
// delivery to other rooms.
type SubscriptionSink struct {
	mu     sync.Mutex
	roomID chat.RoomID
	out    chan chat.Message
	closed bool
}

func NewSubscriptionSink(roomID chat.RoomID, bufferSize int) *SubscriptionSink {
	return &SubscriptionSink{roomID: roomID, out: make(chan chat.Message, bufferSize)}
}

// Messages is closed on overflow or Close.
func (s *SubscriptionSink) Messages() <-chan chat.Message {
	return s.out
}

func (s *SubscriptionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	committed, ok := e.(event.MessageCommitted)
	if !ok || committed.RoomID() != s.roomID {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	select {
	case s.out <- committed.Message:
		return nil
	default:
		s.closeLocked()
		return fmt.Errorf("%w: room %s", errors.ErrSubscriptionOverflow, s.roomID)
	}
}

func (s *SubscriptionSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *SubscriptionSink) closeLocked() {
	if !s.closed {
		s.closed = true
		close(s.out)
	}
}

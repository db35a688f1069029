package sink

import (
	"cinechat/domain/chat"
	"cinechat/domain/event"
	"cinechat/errors"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func committed(roomID chat.RoomID, id chat.MessageID) event.MessageCommitted {
	return event.MessageCommitted{Message: chat.Message{ID: id, RoomID: roomID, Status: chat.StatusSent}}
}

func TestSubscriptionSink_Buffers(t *testing.T) {
	req := require.New(t)
	s := NewSubscriptionSink("room-1", 2)

	req.NoError(s.Consume(context.Background(), committed("room-1", "m1")))
	req.NoError(s.Consume(context.Background(), committed("room-1", "m2")))

	req.Equal(chat.MessageID("m1"), (<-s.Messages()).ID)
	req.Equal(chat.MessageID("m2"), (<-s.Messages()).ID)
}

func TestSubscriptionSink_IgnoresOtherRooms(t *testing.T) {
	req := require.New(t)
	s := NewSubscriptionSink("room-1", 1)

	req.NoError(s.Consume(context.Background(), committed("room-2", "m1")))
	req.NoError(s.Consume(context.Background(), event.MatchCancelled{UserID: "alice"}))
	req.Empty(s.Messages())
}

func TestSubscriptionSink_OverflowClosesChannel(t *testing.T) {
	req := require.New(t)
	s := NewSubscriptionSink("room-1", 1)

	// Given a full buffer
	req.NoError(s.Consume(context.Background(), committed("room-1", "m1")))

	// When another message arrives before the consumer reads
	start := time.Now()
	err := s.Consume(context.Background(), committed("room-1", "m2"))

	// Then the sink gives up at once
	req.Less(time.Since(start), 100*time.Millisecond)

	// And the subscription is closed after the buffered message
	req.ErrorIs(err, errors.ErrSubscriptionOverflow)
	msg, ok := <-s.Messages()
	req.True(ok)
	req.Equal(chat.MessageID("m1"), msg.ID)
	_, ok = <-s.Messages()
	req.False(ok)

	// And later events are ignored too
	req.NoError(s.Consume(context.Background(), committed("room-1", "m3")))
}

func TestSubscriptionSink_CloseTwice(t *testing.T) {
	s := NewSubscriptionSink("room-1", 1)
	s.Close()
	s.Close()
	_, ok := <-s.Messages()
	require.False(t, ok)
}

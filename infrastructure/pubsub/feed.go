// Package pubsub carries domain events between the services and the
// delivery workers on top of a watermill in-process pub/sub.
package pubsub

import (
	"cinechat/domain/event"
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
)

const (
	// MessagesTopic receives every committed message, in commit order.
	MessagesTopic = "chat.messages"

	eventTypeKey = "event_type"
)

// QueueTopic is the private topic on which a waiting user hears about its match.
func QueueTopic(userID string) string {
	return "chat.queue." + userID
}

type Feed struct {
	pubSub *gochannel.GoChannel
	log    *slog.Logger
}

// NewFeed builds a feed whose Publish blocks until every subscriber acked,
// so a topic is consumed in publish order.
func NewFeed(log *slog.Logger, bufferSize int) *Feed {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            int64(bufferSize),
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NewSlogLogger(log))
	return &Feed{pubSub: pubSub, log: log}
}

func (f *Feed) Publish(topic string, evt event.DomainEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", evt.Type(), err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(eventTypeKey, string(evt.Type()))
	return f.pubSub.Publish(topic, msg)
}

// Subscribe decodes the topic into domain events. The returned channel is
// closed when ctx is done or the feed is closed.
func (f *Feed) Subscribe(ctx context.Context, topic string) (<-chan event.DomainEvent, error) {
	messages, err := f.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	out := make(chan event.DomainEvent)
	go func() {
		defer close(out)
		for msg := range messages {
			evt, err := decode(msg)
			if err != nil {
				f.log.Error("Dropping undecodable event", "topic", topic, "message_uuid", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
			}
			msg.Ack()
		}
	}()
	return out, nil
}

func (f *Feed) Close() error {
	return f.pubSub.Close()
}

func decode(msg *message.Message) (event.DomainEvent, error) {
	switch event.Type(msg.Metadata.Get(eventTypeKey)) {
	case event.MessageCommittedType:
		return unmarshal[event.MessageCommitted](msg.Payload)
	case event.RoomMatchedType:
		return unmarshal[event.RoomMatched](msg.Payload)
	case event.MatchCancelledType:
		return unmarshal[event.MatchCancelled](msg.Payload)
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Metadata.Get(eventTypeKey))
	}
}

func unmarshal[T event.DomainEvent](payload []byte) (event.DomainEvent, error) {
	var evt T
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, err
	}
	return evt, nil
}

package workers

import (
	"cinechat/contract"
	"cinechat/domain/event"
	"cinechat/errors"
	"cinechat/infrastructure/pubsub"
	"cinechat/observability"
	"context"
	stderrors "errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// EventFanout consumes the committed-message topic and pushes each message
// to the permanent sinks and to every live subscription of its room.
//
// Sinks are consumed one after the other, so every subscription sees a room's
// messages in commit order. A subscription that overflows is unregistered;
// the sink has already closed itself and the client is expected to
// resubscribe and reload history. The same goes for every subscription when
// the worker is restarted, since events published while it was down are lost.
type EventFanout struct {
	log            *slog.Logger
	feed           contract.ChangeFeed
	registry       contract.IRegistry
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
	runs           atomic.Int32
}

func NewEventFanout(log *slog.Logger, feed contract.ChangeFeed, registry contract.IRegistry,
	sinkTimeout time.Duration, permanentSinks ...contract.EventSink) *EventFanout {
	return &EventFanout{
		log:            log,
		feed:           feed,
		registry:       registry,
		permanentSinks: permanentSinks,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	events, err := w.feed.Subscribe(ctx, pubsub.MessagesTopic)
	if err != nil {
		return err
	}
	if w.runs.Add(1) > 1 {
		w.closeSubscriptions()
	}
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				// Feed closed under us, let the supervisor restart the worker
				return errors.ErrUnavailable
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

// Fanout delivers one event to the permanent sinks then to the room's subscriptions.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.permanentSinks {
		w.consume(ctx, sink, evt)
	}
	committed, ok := evt.(event.MessageCommitted)
	if !ok {
		return
	}
	for subscriptionID, sink := range w.registry.GetSinksForRoom(committed.RoomID()) {
		err := w.consume(ctx, sink, evt)
		if stderrors.Is(err, errors.ErrSubscriptionOverflow) {
			w.log.Warn("Subscription fell behind, closing it",
				"subscription_id", subscriptionID, "room_id", committed.RoomID())
			observability.SubscriptionOverflows.Inc()
			w.registry.Unsubscribe(subscriptionID, committed.RoomID())
			continue
		}
		if err == nil {
			observability.MessagesDelivered.Inc()
		}
	}
}

// closeSubscriptions drops every live subscription so clients reconnect and
// reload the history they may have missed.
func (w *EventFanout) closeSubscriptions() {
	closed := 0
	for _, sink := range w.registry.UnsubscribeAll() {
		if c, ok := sink.(interface{ Close() }); ok {
			c.Close()
			closed++
		}
	}
	w.log.Warn("Fanout restarted, subscriptions closed", "count", closed)
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) error {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	err := sink.Consume(sinkCtx, evt)
	if err != nil && !stderrors.Is(err, errors.ErrSubscriptionOverflow) {
		w.log.Debug("Sink failed to consume event", "type", evt.Type(), "error", err)
	}
	return err
}

//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"cinechat/domain/chat"
	"cinechat/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks live subscriptions per room.
type IRegistry interface {
	GetSinksForRoom(roomID chat.RoomID) map[string]EventSink
	Subscribe(subscriptionID string, roomID chat.RoomID, sink EventSink)
	Unsubscribe(subscriptionID string, roomID chat.RoomID)
	UnsubscribeAll() map[string]EventSink
	Count() int
}

// ChangeFeed is the publish/subscribe transport behind real-time delivery.
// Subscribe returns a channel closed once ctx is done or the feed is closed.
type ChangeFeed interface {
	Publish(topic string, evt event.DomainEvent) error
	Subscribe(ctx context.Context, topic string) (<-chan event.DomainEvent, error)
	Close() error
}

// MessageChannel is what a client session needs from the server side:
// history, live delivery and sending.
type MessageChannel interface {
	History(ctx context.Context, roomID chat.RoomID) ([]chat.Message, error)
	Subscribe(ctx context.Context, roomID chat.RoomID) (<-chan chat.Message, error)
	Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error)
}

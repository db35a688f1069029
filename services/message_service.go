//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"cinechat/contract"
	"cinechat/domain/chat"
	"cinechat/domain/event"
	"cinechat/domain/identity"
	"cinechat/errors"
	"cinechat/infrastructure/pubsub"
	"cinechat/infrastructure/storage"
	"cinechat/observability"
	"cinechat/sink"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type IMessageService interface {
	contract.MessageChannel
	CheckAccess(ctx context.Context, roomID chat.RoomID, userID string) error
}

type roomLock struct {
	mu   sync.Mutex
	last time.Time
}

type MessageService struct {
	log              *slog.Logger
	rooms            storage.IRoomRepository
	messages         storage.IMessageRepository
	feed             contract.ChangeFeed
	registry         contract.IRegistry
	validate         *validator.Validate
	locks            sync.Map // chat.RoomID -> *roomLock
	maxContentLength int
	bufferSize       int
	now              func() time.Time
}

func NewMessageService(log *slog.Logger, rooms storage.IRoomRepository, messages storage.IMessageRepository,
	feed contract.ChangeFeed, registry contract.IRegistry, maxContentLength, bufferSize int) *MessageService {
	return &MessageService{
		log:              log,
		rooms:            rooms,
		messages:         messages,
		feed:             feed,
		registry:         registry,
		validate:         validator.New(),
		maxContentLength: maxContentLength,
		bufferSize:       bufferSize,
		now:              time.Now,
	}
}

// History returns the room's messages in ascending creation order.
func (s *MessageService) History(_ context.Context, roomID chat.RoomID) ([]chat.Message, error) {
	return s.messages.GetMessages(roomID)
}

// Subscribe delivers every message committed after the call returns.
// The channel is closed when ctx ends or when the consumer falls behind.
func (s *MessageService) Subscribe(ctx context.Context, roomID chat.RoomID) (<-chan chat.Message, error) {
	if _, err := s.rooms.GetRoom(roomID); err != nil {
		return nil, err
	}
	subscription := sink.NewSubscriptionSink(roomID, s.bufferSize)
	subscriptionID := uuid.NewString()
	s.registry.Subscribe(subscriptionID, roomID, subscription)
	s.log.Debug("Subscription opened", "room_id", roomID, "subscription_id", subscriptionID)

	go func() {
		<-ctx.Done()
		s.registry.Unsubscribe(subscriptionID, roomID)
		subscription.Close()
		s.log.Debug("Subscription closed", "room_id", roomID, "subscription_id", subscriptionID)
	}()
	return subscription.Messages(), nil
}

// Send validates and persists a message then publishes it to the room.
// Store and publish happen under the room lock so the push order is the commit order.
func (s *MessageService) Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error) {
	if err := s.validateCommand(cmd); err != nil {
		return chat.Message{}, err
	}
	room, err := s.access(cmd.RoomID, cmd.AuthorID)
	if err != nil {
		return chat.Message{}, err
	}

	msg := chat.Message{
		ID:          chat.MessageID(uuid.NewString()),
		ClientID:    cmd.ClientID,
		RoomID:      cmd.RoomID,
		AuthorID:    cmd.AuthorID,
		Content:     cmd.Content,
		Status:      chat.StatusSent,
		IsAnonymous: cmd.IsAnonymous,
		DisplayName: cmd.DisplayName,
	}
	// Match rooms are anonymous whatever the client asked for
	if room.IsMatch() {
		msg.IsAnonymous = true
		msg.DisplayName = identity.DisplayName(msg.AuthorID, msg.RoomID)
	} else if msg.IsAnonymous && msg.DisplayName == "" {
		msg.DisplayName = identity.DisplayName(msg.AuthorID, msg.RoomID)
	}

	lock := s.lockFor(cmd.RoomID)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	// Timestamps strictly increase within a room
	msg.CreatedAt = s.now().UTC()
	if !msg.CreatedAt.After(lock.last) {
		msg.CreatedAt = lock.last.Add(time.Nanosecond)
	}
	if err := s.messages.StoreMessage(msg); err != nil {
		observability.SendFailures.Inc()
		s.log.Warn("Unable to store message", "room_id", msg.RoomID, "error", err)
		return chat.Message{}, fmt.Errorf("%w: %w", errors.ErrSendFailed, err)
	}
	lock.last = msg.CreatedAt
	observability.MessagesSent.WithLabelValues(kindOf(msg)).Inc()

	if err := s.feed.Publish(pubsub.MessagesTopic, event.MessageCommitted{Message: msg}); err != nil {
		// Stored anyway, subscribers will see it on their next history load
		s.log.Error("Unable to publish committed message", "message_id", msg.ID, "error", err)
	}
	return msg, nil
}

// CheckAccess fails with ErrNotFound for an unknown room and ErrNotMember
// when userID is outside a match room. Broadcast rooms are open to everyone.
func (s *MessageService) CheckAccess(_ context.Context, roomID chat.RoomID, userID string) error {
	_, err := s.access(roomID, userID)
	return err
}

func (s *MessageService) access(roomID chat.RoomID, userID string) (chat.Room, error) {
	room, err := s.rooms.GetRoom(roomID)
	if err != nil {
		return chat.Room{}, err
	}
	if !room.IsMatch() {
		return room, nil
	}
	member, err := s.rooms.IsMember(roomID, userID)
	if err != nil {
		return chat.Room{}, err
	}
	if !member {
		return chat.Room{}, fmt.Errorf("%w: %s", errors.ErrNotMember, roomID)
	}
	return room, nil
}

func (s *MessageService) validateCommand(cmd chat.SendMessageCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	if strings.TrimSpace(cmd.Content) == "" {
		return fmt.Errorf("%w: empty content", errors.ErrInvalidCommand)
	}
	if s.maxContentLength > 0 && utf8.RuneCountInString(cmd.Content) > s.maxContentLength {
		return fmt.Errorf("%w: content longer than %d characters", errors.ErrInvalidCommand, s.maxContentLength)
	}
	return nil
}

func (s *MessageService) lockFor(roomID chat.RoomID) *roomLock {
	lock, _ := s.locks.LoadOrStore(roomID, &roomLock{})
	return lock.(*roomLock)
}

func kindOf(msg chat.Message) string {
	if msg.IsAnonymous {
		return "anonymous"
	}
	return "named"
}

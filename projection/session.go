package projection

import (
	"cinechat/contract"
	"cinechat/domain/chat"
	"cinechat/errors"
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RoomSession keeps a Timeline in sync with a room. A single goroutine,
// the one calling Run, applies pushes, send results and reloads in the
// order they arrive. Send may be called from anywhere.
type RoomSession struct {
	log      *slog.Logger
	channel  contract.MessageChannel
	timeline *Timeline
	events   chan sessionEvent
	done     chan struct{}
	stopOnce sync.Once
	backOff  func() backoff.BackOff
	now      func() time.Time
}

type sessionEvent interface {
	apply(ctx context.Context, s *RoomSession) error
}

type sendResult struct {
	provisionalID chat.MessageID
	confirmed     chat.Message
	err           error
}

type reloadRequest struct{}

func NewRoomSession(log *slog.Logger, channel contract.MessageChannel, room chat.Room, selfID string) *RoomSession {
	return &RoomSession{
		log:      log,
		channel:  channel,
		timeline: NewTimeline(room, selfID, DefaultTolerance),
		events:   make(chan sessionEvent, 16),
		done:     make(chan struct{}),
		backOff:  reconnectBackOff,
		now:      time.Now,
	}
}

func (s *RoomSession) Timeline() *Timeline {
	return s.timeline
}

// Send appends the optimistic entry before returning it, then sends in the
// background. The outcome reaches the timeline through the session loop.
func (s *RoomSession) Send(ctx context.Context, content string) (chat.Message, error) {
	if strings.TrimSpace(content) == "" {
		return chat.Message{}, errors.ErrInvalidCommand
	}
	pending := s.timeline.Submit(content, s.now().UTC())

	go func() {
		confirmed, err := s.channel.Send(ctx, chat.SendMessageCommand{
			RoomID:      pending.RoomID,
			AuthorID:    pending.AuthorID,
			Content:     pending.Content,
			ClientID:    pending.ID,
			IsAnonymous: pending.IsAnonymous,
			DisplayName: pending.DisplayName,
		})
		s.enqueue(ctx, sendResult{provisionalID: pending.ID, confirmed: confirmed, err: err})
	}()
	return pending, nil
}

// Reload asks the loop to fetch the history again and merge it.
func (s *RoomSession) Reload(ctx context.Context) {
	s.enqueue(ctx, reloadRequest{})
}

// Run blocks until ctx is done or the room becomes unreachable for good
// (unknown room, not a member). A dropped subscription is reopened with
// exponential backoff and followed by a history reload.
func (s *RoomSession) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.done) })
	for {
		sub, err := s.connect(ctx)
		if err != nil {
			return err
		}
		err = s.loop(ctx, sub.pushes)
		sub.cancel()
		if err != nil {
			return err
		}
		s.log.Info("Subscription lost, reconnecting", "room_id", s.timeline.Room().ID)
	}
}

type subscription struct {
	pushes <-chan chat.Message
	cancel context.CancelFunc
}

// connect subscribes before loading history so nothing committed in between is missed.
func (s *RoomSession) connect(ctx context.Context) (subscription, error) {
	roomID := s.timeline.Room().ID
	return backoff.Retry(ctx, func() (subscription, error) {
		subCtx, cancel := context.WithCancel(ctx)
		pushes, err := s.channel.Subscribe(subCtx, roomID)
		if err != nil {
			cancel()
			return subscription{}, retryable(err)
		}
		history, err := s.channel.History(ctx, roomID)
		if err != nil {
			cancel()
			return subscription{}, retryable(err)
		}
		s.timeline.LoadHistory(history)
		return subscription{pushes: pushes, cancel: cancel}, nil
	}, backoff.WithBackOff(s.backOff()), backoff.WithMaxElapsedTime(0))
}

func (s *RoomSession) loop(ctx context.Context, pushes <-chan chat.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-pushes:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			s.timeline.Apply(msg)
		case evt := <-s.events:
			if err := evt.apply(ctx, s); err != nil {
				return err
			}
		}
	}
}

// enqueue drops evt once Run has returned, nobody is left to apply it.
func (s *RoomSession) enqueue(ctx context.Context, evt sessionEvent) {
	select {
	case s.events <- evt:
	case <-s.done:
	case <-ctx.Done():
	}
}

func (r sendResult) apply(_ context.Context, s *RoomSession) error {
	if r.err != nil {
		s.log.Warn("Message send failed",
			"room_id", s.timeline.Room().ID,
			"provisional_id", r.provisionalID,
			"error", r.err)
		s.timeline.Fail(r.provisionalID)
		return nil
	}
	s.timeline.Confirm(r.provisionalID, r.confirmed)
	return nil
}

func (reloadRequest) apply(ctx context.Context, s *RoomSession) error {
	history, err := s.channel.History(ctx, s.timeline.Room().ID)
	if err != nil {
		if isPermanent(err) {
			return err
		}
		s.log.Warn("History reload failed", "room_id", s.timeline.Room().ID, "error", err)
		return nil
	}
	s.timeline.LoadHistory(history)
	return nil
}

func retryable(err error) error {
	if isPermanent(err) {
		return backoff.Permanent(err)
	}
	return err
}

func isPermanent(err error) bool {
	return stderrors.Is(err, errors.ErrNotFound) ||
		stderrors.Is(err, errors.ErrNotMember) ||
		stderrors.Is(err, errors.ErrInvalidToken)
}

func reconnectBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return b
}

//go:generate go run go.uber.org/mock/mockgen -source=match_service.go -destination=../mocks/mock_match_service.go -package=mocks
package services

import (
	"cinechat/contract"
	"cinechat/domain/chat"
	"cinechat/domain/event"
	"cinechat/errors"
	"cinechat/infrastructure/pubsub"
	"cinechat/infrastructure/storage"
	"cinechat/observability"
	"context"
	"fmt"
	"log/slog"
	"time"
)

type IMatchService interface {
	RequestMatch(ctx context.Context, userID string) (chat.RoomID, error)
	CancelMatch(ctx context.Context, userID string) error
	QueueDepth(ctx context.Context) (int, error)
}

// MatchService pairs waiting users into private match rooms.
// The pairing decision is a single queue transaction; the feed only carries
// the outcome to the user that was waiting.
type MatchService struct {
	log   *slog.Logger
	queue storage.IQueueRepository
	feed  contract.ChangeFeed
	now   func() time.Time
}

func NewMatchService(log *slog.Logger, queue storage.IQueueRepository, feed contract.ChangeFeed) *MatchService {
	return &MatchService{log: log, queue: queue, feed: feed, now: time.Now}
}

// RequestMatch returns the id of the match room the user ends up in.
// With a partner already waiting it returns at once, otherwise it blocks until
// someone takes the entry or the request is cancelled. When ctx ends first the
// entry stays in the queue and ctx.Err() is returned.
func (s *MatchService) RequestMatch(ctx context.Context, userID string) (chat.RoomID, error) {
	// Listen before enqueuing so a partner arriving right after the commit is never missed
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	notifications, err := s.feed.Subscribe(subCtx, pubsub.QueueTopic(userID))
	if err != nil {
		observability.MatchRequests.WithLabelValues(observability.OutcomeFailed).Inc()
		return "", fmt.Errorf("%w: %v", errors.ErrUnavailable, err)
	}

	result, err := s.queue.Pair(ctx, userID, s.now())
	if err != nil {
		observability.MatchRequests.WithLabelValues(observability.OutcomeFailed).Inc()
		return "", err
	}

	if result.Matched() {
		observability.Pairings.Inc()
		observability.MatchRequests.WithLabelValues(observability.OutcomeMatched).Inc()
		s.log.Info("Users matched", "room_id", result.Room.ID, "user_id", userID, "partner_id", result.Partner.UserID)
		notice := event.RoomMatched{UserID: result.Partner.UserID, Ticket: result.Partner.Ticket, Room: *result.Room}
		if err := s.feed.Publish(pubsub.QueueTopic(result.Partner.UserID), notice); err != nil {
			// The room and memberships are committed, the partner will find it by listing its rooms
			s.log.Error("Unable to notify partner", "partner_id", result.Partner.UserID, "error", err)
		}
		return result.Room.ID, nil
	}

	ticket := result.Waiting.Ticket
	s.log.Debug("Waiting for a partner", "user_id", userID, "ticket", ticket)
	for {
		select {
		case <-ctx.Done():
			observability.MatchRequests.WithLabelValues(observability.OutcomeAbandoned).Inc()
			return "", ctx.Err()
		case evt, ok := <-notifications:
			if !ok {
				if ctx.Err() != nil {
					observability.MatchRequests.WithLabelValues(observability.OutcomeAbandoned).Inc()
					return "", ctx.Err()
				}
				observability.MatchRequests.WithLabelValues(observability.OutcomeFailed).Inc()
				return "", fmt.Errorf("%w: queue notifications closed", errors.ErrUnavailable)
			}
			switch e := evt.(type) {
			case event.RoomMatched:
				if e.Ticket == ticket {
					observability.MatchRequests.WithLabelValues(observability.OutcomeWaited).Inc()
					return e.Room.ID, nil
				}
			case event.MatchCancelled:
				if e.Ticket == ticket {
					observability.MatchRequests.WithLabelValues(observability.OutcomeCancelled).Inc()
					return "", errors.ErrMatchCancelled
				}
			}
			s.log.Debug("Ignoring stale queue notification", "user_id", userID, "type", evt.Type())
		}
	}
}

// CancelMatch withdraws the user's pending request. Cancelling nothing is not an error.
func (s *MatchService) CancelMatch(ctx context.Context, userID string) error {
	removed, err := s.queue.Cancel(ctx, userID)
	if err != nil {
		return err
	}
	if removed == nil {
		return nil
	}
	notice := event.MatchCancelled{UserID: userID, Ticket: removed.Ticket}
	if err := s.feed.Publish(pubsub.QueueTopic(userID), notice); err != nil {
		s.log.Error("Unable to notify cancellation", "user_id", userID, "error", err)
	}
	return nil
}

func (s *MatchService) QueueDepth(_ context.Context) (int, error) {
	return s.queue.Depth()
}

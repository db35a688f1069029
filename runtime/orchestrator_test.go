package runtime_test

import (
	"cinechat/domain/chat"
	"cinechat/domain/event"
	"cinechat/infrastructure/pubsub"
	"cinechat/mocks"
	"cinechat/runtime"
	"cinechat/runtime/workers"
	"cinechat/sink"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_Orchestrator_Delivers_Committed_Messages_To_Subscriptions(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	queue := mocks.NewMockIQueueRepository(ctrl)
	queue.EXPECT().Depth().Return(0, nil).AnyTimes()

	feed := pubsub.NewFeed(log, 0)
	defer feed.Close()
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 0), registry,
		feed, queue, time.Second, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan struct{})
	go func() {
		orchestrator.Start(ctx)
		close(stopped)
	}()

	// Given two subscriptions in different rooms
	movieNight := sink.NewSubscriptionSink("movie-night", 4)
	elsewhere := sink.NewSubscriptionSink("elsewhere", 4)
	registry.Subscribe("s1", "movie-night", movieNight)
	registry.Subscribe("s2", "elsewhere", elsewhere)

	// When messages are committed, the fanout may not be subscribed yet
	req.Eventually(func() bool {
		_ = feed.Publish(pubsub.MessagesTopic, event.MessageCommitted{Message: chat.Message{ID: "m1", RoomID: "movie-night"}})
		select {
		case msg := <-movieNight.Messages():
			return msg.ID == "m1"
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// Then only the room's subscription receives it
	req.Empty(elsewhere.Messages())
	req.Equal(2, registry.Count())

	orchestrator.Stop()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		req.Fail("orchestrator did not stop")
	}
}

func Test_Orchestrator_Starts_Workers_Once(t *testing.T) {
	log := slog.Default()
	ctrl := gomock.NewController(t)
	sup := mocks.NewMockISupervisor(ctrl)
	feed := mocks.NewMockChangeFeed(ctrl)
	queue := mocks.NewMockIQueueRepository(ctrl)

	// Given a supervisor expecting the fanout and the queue monitor
	sup.EXPECT().Add(gomock.Any(), gomock.Any()).Return(sup)
	sup.EXPECT().Run(gomock.Any())
	sup.EXPECT().Stop()

	orchestrator := runtime.NewOrchestrator(log, sup, runtime.NewRegistry(), feed, queue, time.Second, time.Hour)

	// When started twice, then the second start is a no-op
	orchestrator.Start(context.Background())
	orchestrator.Start(context.Background())
	orchestrator.Stop()
}

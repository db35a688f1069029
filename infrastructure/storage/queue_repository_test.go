package storage

import (
	"cinechat/domain/chat"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestQueueRepository_Pair_FIFO(t *testing.T) {
	req := require.New(t)
	queue := NewQueueRepository(openTestDB(t), slog.Default(), 5)
	ctx := context.Background()
	at := time.Now().UTC()

	// Given alice waiting
	first, err := queue.Pair(ctx, "alice", at)
	req.NoError(err)
	req.False(first.Matched())
	req.Equal("alice", first.Waiting.UserID)
	req.NotEmpty(first.Waiting.Ticket)

	// When bob requests
	second, err := queue.Pair(ctx, "bob", at.Add(time.Second))
	req.NoError(err)

	// Then bob takes alice's entry and the queue is empty
	req.True(second.Matched())
	req.Equal("alice", second.Partner.UserID)
	req.Equal(first.Waiting.Ticket, second.Partner.Ticket)
	req.Equal(chat.Match, second.Room.Kind)
	depth, err := queue.Depth()
	req.NoError(err)
	req.Zero(depth)
}

func TestQueueRepository_Pair_ReusesOwnEntry(t *testing.T) {
	req := require.New(t)
	queue := NewQueueRepository(openTestDB(t), slog.Default(), 5)
	ctx := context.Background()
	at := time.Now().UTC()

	first, err := queue.Pair(ctx, "alice", at)
	req.NoError(err)
	again, err := queue.Pair(ctx, "alice", at.Add(time.Second))
	req.NoError(err)

	req.False(again.Matched())
	req.Equal(first.Waiting.Ticket, again.Waiting.Ticket)
	depth, err := queue.Depth()
	req.NoError(err)
	req.Equal(1, depth)
}

func TestQueueRepository_Cancel(t *testing.T) {
	req := require.New(t)
	queue := NewQueueRepository(openTestDB(t), slog.Default(), 5)
	ctx := context.Background()

	first, err := queue.Pair(ctx, "alice", time.Now())
	req.NoError(err)

	removed, err := queue.Cancel(ctx, "alice")
	req.NoError(err)
	req.NotNil(removed)
	req.Equal(first.Waiting.Ticket, removed.Ticket)

	// Second cancel is a no-op
	removed, err = queue.Cancel(ctx, "alice")
	req.NoError(err)
	req.Nil(removed)

	// A cancelled user can no longer be taken
	result, err := queue.Pair(ctx, "bob", time.Now())
	req.NoError(err)
	req.False(result.Matched())
}

func TestQueueRepository_ConcurrentRequesters_DisjointPairs(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	queue := NewQueueRepository(db, slog.Default(), 200)
	ctx := context.Background()

	const requesters = 16
	var mu sync.Mutex
	var results []chat.PairResult

	// When many users request at the same time
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < requesters; i++ {
		user := fmt.Sprintf("user-%02d", i)
		g.Go(func() error {
			res, err := queue.Pair(gCtx, user, time.Now())
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	req.NoError(g.Wait())

	// Then every pairing is disjoint and nobody is left alone
	seen := map[string]chat.RoomID{}
	matched := 0
	for _, res := range results {
		if !res.Matched() {
			continue
		}
		matched++
		members := membersOf(t, db, res.Room.ID)
		req.Len(members, chat.MatchRoomSize)
		for _, m := range members {
			_, dup := seen[m]
			req.False(dup, "user %s paired twice", m)
			seen[m] = res.Room.ID
		}
	}
	req.Equal(requesters/2, matched)
	depth, err := queue.Depth()
	req.NoError(err)
	req.Zero(depth)
}

func TestQueueRepository_CancelPairRace(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		queue := NewQueueRepository(db, slog.Default(), 200)
		waiter := fmt.Sprintf("waiter-%d", i)
		_, err := queue.Pair(ctx, waiter, time.Now())
		req.NoError(err)

		var removed *chat.QueueEntry
		var paired chat.PairResult
		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			removed, err = queue.Cancel(gCtx, waiter)
			return err
		})
		g.Go(func() error {
			var err error
			paired, err = queue.Pair(gCtx, fmt.Sprintf("taker-%d", i), time.Now())
			return err
		})
		req.NoError(g.Wait())

		// Exactly one of cancel and pairing wins
		req.NotEqual(removed != nil, paired.Matched())
		list, err := rooms.ListRoomsFor(waiter)
		req.NoError(err)
		if removed != nil {
			req.Empty(list)
			_, err = queue.Cancel(ctx, fmt.Sprintf("taker-%d", i))
			req.NoError(err)
		} else {
			req.Len(list, 1)
		}
	}
}

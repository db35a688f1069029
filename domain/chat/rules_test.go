package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsGrouped(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	alice := Message{AuthorID: "alice", CreatedAt: at}

	t.Run("same author within window", func(t *testing.T) {
		next := Message{AuthorID: "alice", CreatedAt: at.Add(4*time.Minute + 59*time.Second)}
		require.True(t, IsGrouped(alice, next))
	})

	t.Run("same author at window boundary", func(t *testing.T) {
		next := Message{AuthorID: "alice", CreatedAt: at.Add(GroupWindow)}
		require.False(t, IsGrouped(alice, next))
	})

	t.Run("different author", func(t *testing.T) {
		next := Message{AuthorID: "bob", CreatedAt: at.Add(time.Second)}
		require.False(t, IsGrouped(alice, next))
	})
}

func TestCanReveal(t *testing.T) {
	req := require.New(t)
	match := Room{ID: "r1", Kind: Match}
	broadcast := Room{ID: "r2", Kind: Broadcast}

	req.False(CanReveal(match, 49))
	req.False(CanReveal(match, 50))
	req.True(CanReveal(match, 51))

	// Broadcast rooms never reveal anything
	req.False(CanReveal(broadcast, 1000))
}

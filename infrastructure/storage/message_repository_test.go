package storage

import (
	"cinechat/domain/chat"
	"cinechat/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedMessages(t *testing.T, repo *MessageRepository, roomID chat.RoomID, at time.Time) []chat.Message {
	messages := []chat.Message{
		{ID: "m1", RoomID: roomID, AuthorID: "Alice", Content: "did you see it?", CreatedAt: at, Status: chat.StatusSent},
		{ID: "m2", ClientID: "temp-1", RoomID: roomID, AuthorID: "Bob", Content: "yes", CreatedAt: at.Add(time.Minute), Status: chat.StatusSent},
		{ID: "m3", RoomID: roomID, AuthorID: "Clara", Content: "no spoilers", CreatedAt: at.Add(2 * time.Minute), Status: chat.StatusSent, IsAnonymous: true, DisplayName: "Anonymous Fox"},
	}
	// Stored out of order on purpose
	for _, i := range []int{2, 0, 1} {
		require.NoError(t, repo.StoreMessage(messages[i]))
	}
	return messages
}

func TestMessageRepository_GetMessages_Ascending(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	room, err := NewRoomRepository(db, slog.Default()).EnsureBroadcastRoom("general", time.Now())
	req.NoError(err)
	repo := NewMessageRepository(db, slog.Default(), nil)

	at := time.Now().UTC()
	messages := seedMessages(t, repo, room.ID, at)

	fetched, err := repo.GetMessages(room.ID)
	req.NoError(err)
	req.Equal(messages, fetched)
}

func TestMessageRepository_GetMessages_LimitKeepsLatest(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	room, err := NewRoomRepository(db, slog.Default()).EnsureBroadcastRoom("general", time.Now())
	req.NoError(err)
	limit := 2
	repo := NewMessageRepository(db, slog.Default(), &limit)

	messages := seedMessages(t, repo, room.ID, time.Now().UTC())

	fetched, err := repo.GetMessages(room.ID)
	req.NoError(err)
	req.Equal(messages[1:], fetched)
}

func TestMessageRepository_EmptyAndUnknownRoom(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	room, err := NewRoomRepository(db, slog.Default()).EnsureBroadcastRoom("general", time.Now())
	req.NoError(err)
	repo := NewMessageRepository(db, slog.Default(), nil)

	fetched, err := repo.GetMessages(room.ID)
	req.NoError(err)
	req.NotNil(fetched)
	req.Empty(fetched)

	_, err = repo.GetMessages("nowhere")
	req.ErrorIs(err, errors.ErrNotFound)

	err = repo.StoreMessage(chat.Message{ID: "x", RoomID: "nowhere", AuthorID: "a", Content: "c", CreatedAt: time.Now()})
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestMessageRepository_RoomsAreIsolated(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	general, err := rooms.EnsureBroadcastRoom("general", time.Now())
	req.NoError(err)
	other, err := rooms.EnsureBroadcastRoom("other", time.Now())
	req.NoError(err)
	repo := NewMessageRepository(db, slog.Default(), nil)

	seedMessages(t, repo, general.ID, time.Now().UTC())

	fetched, err := repo.GetMessages(other.ID)
	req.NoError(err)
	req.Empty(fetched)
}

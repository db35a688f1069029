package storage

import (
	"cinechat/domain/chat"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestDescribeRecord_Covers_Every_Record(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	at := time.Now().UTC()
	rooms := NewRoomRepository(db, slog.Default())
	messages := NewMessageRepository(db, slog.Default(), nil)
	queue := NewQueueRepository(db, slog.Default(), 5)

	// Given one record of each kind
	room, err := rooms.EnsureBroadcastRoom("general", at)
	req.NoError(err)
	req.NoError(messages.StoreMessage(chat.Message{
		ID: "m1", RoomID: room.ID, AuthorID: "alice", Content: "boo",
		CreatedAt: at, IsAnonymous: true, DisplayName: "Anonymous Owl",
	}))
	_, err = queue.Pair(context.Background(), "carol", at)
	req.NoError(err)

	// When every key is described
	details := map[string][]string{}
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			kind, detail := DescribeRecord(string(it.Item().Key()), val)
			details[kind] = append(details[kind], detail)
		}
		return nil
	})
	req.NoError(err)

	// Then nothing falls back to raw
	req.NotContains(details, KindRaw)
	req.Equal([]string{"Anonymous Owl (alice): boo"}, details[KindMessage])
	req.Equal([]string{"broadcast general"}, details[KindRoom])
	req.Len(details[KindQueue], 1)
	req.True(strings.HasPrefix(details[KindQueue][0], "carol ticket="))
	req.Contains(details, KindLock)
	req.Contains(details, KindIndex)
}

func TestDescribeRecord_Unknown_And_Broken(t *testing.T) {
	req := require.New(t)

	kind, detail := DescribeRecord("something:else", []byte("abc"))
	req.Equal(KindRaw, kind)
	req.Equal("Size: 3 bytes", detail)

	kind, detail = DescribeRecord("msg:general:0000000000000000001:m1", []byte("{not json"))
	req.Equal(KindMessage, kind)
	req.Contains(detail, "unmarshal failed")
}

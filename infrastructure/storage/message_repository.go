//go:generate go run go.uber.org/mock/mockgen -source=message_repository.go -destination=../../mocks/mock_message_repository.go -package=mocks
package storage

import (
	"cinechat/domain/chat"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	StoreMessage(message chat.Message) error
	GetMessages(roomID chat.RoomID) ([]chat.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Keep two messages of the same nanosecond apart thanks to the id suffix.
//
// The room must exist, otherwise ErrNotFound is returned and nothing is written.
func (m *MessageRepository) StoreMessage(message chat.Message) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		if _, err := getRoom(txn, message.RoomID); err != nil {
			return err
		}
		return setJSON(txn, messageKey(message), fromMessage(message))
	})
	return unavailable(err)
}

// GetMessages returns the messages of a room in ascending creation order.
// When limitMessages is set only the latest ones are kept.
func (m *MessageRepository) GetMessages(roomID chat.RoomID) ([]chat.Message, error) {
	var diskMessages []diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		if _, err := getRoom(txn, roomID); err != nil {
			return err
		}
		prefix := []byte(fmt.Sprintf("%s%s:", msgPrefix, roomID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Start past the newest possible key and walk back in time
		for it.Seek(append(prefix, []byte("9999999999999999999")...)); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(diskMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			var d diskMessage
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &d)
			})
			if err != nil {
				return err
			}
			diskMessages = append(diskMessages, d)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	messages := lo.Map(lo.Reverse(diskMessages), func(d diskMessage, _ int) chat.Message {
		return d.toMessage()
	})
	return messages, nil
}

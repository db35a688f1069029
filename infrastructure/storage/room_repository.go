//go:generate go run go.uber.org/mock/mockgen -source=room_repository.go -destination=../../mocks/mock_room_repository.go -package=mocks
package storage

import (
	"cinechat/domain/chat"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IRoomRepository interface {
	EnsureBroadcastRoom(name string, at time.Time) (chat.Room, error)
	GetRoom(roomID chat.RoomID) (chat.Room, error)
	ListRooms(kind chat.RoomKind) ([]chat.Room, error)
	ListRoomsFor(userID string) ([]chat.Room, error)
	IsMember(roomID chat.RoomID, userID string) (bool, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) *RoomRepository {
	return &RoomRepository{db: db, log: log}
}

// EnsureBroadcastRoom returns the broadcast room with this name, creating it first if needed.
func (r *RoomRepository) EnsureBroadcastRoom(name string, at time.Time) (chat.Room, error) {
	var room chat.Room
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(roomNameKey(name))
		switch err {
		case nil:
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			room, err = getRoom(txn, chat.RoomID(id))
			return err
		case badger.ErrKeyNotFound:
			room = chat.Room{
				ID:        chat.RoomID(uuid.NewString()),
				Kind:      chat.Broadcast,
				Name:      name,
				CreatedAt: at.UTC(),
			}
			r.log.Info("Provisioning broadcast room", "name", name, "room_id", room.ID)
			return putRoom(txn, room)
		default:
			return err
		}
	})
	if err != nil {
		return chat.Room{}, unavailable(err)
	}
	return room, nil
}

func (r *RoomRepository) GetRoom(roomID chat.RoomID) (chat.Room, error) {
	var room chat.Room
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		room, err = getRoom(txn, roomID)
		return err
	})
	if err != nil {
		return chat.Room{}, unavailable(err)
	}
	return room, nil
}

// ListRooms returns every room of one kind ordered by creation time.
func (r *RoomRepository) ListRooms(kind chat.RoomKind) ([]chat.Room, error) {
	rooms := []chat.Room{}
	prefix := []byte(fmt.Sprintf("%s%s:", roomKindPrefix, kind))
	err := r.db.View(func(txn *badger.Txn) error {
		ids, err := scanValues(txn, prefix)
		if err != nil {
			return err
		}
		for _, id := range ids {
			room, err := getRoom(txn, chat.RoomID(id))
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return rooms, nil
}

// ListRoomsFor returns the rooms a user is a member of, ordered by join time.
func (r *RoomRepository) ListRoomsFor(userID string) ([]chat.Room, error) {
	rooms := []chat.Room{}
	prefix := []byte(memberUserPrefix(userID))
	err := r.db.View(func(txn *badger.Txn) error {
		ids, err := scanValues(txn, prefix)
		if err != nil {
			return err
		}
		for _, id := range ids {
			room, err := getRoom(txn, chat.RoomID(id))
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return rooms, nil
}

func (r *RoomRepository) IsMember(roomID chat.RoomID, userID string) (bool, error) {
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(roomMemberKey(roomID, userID))
		switch err {
		case nil:
			found = true
			return nil
		case badger.ErrKeyNotFound:
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return false, unavailable(err)
	}
	return found, nil
}

// scanValues collects the values of every key under prefix, in key order.
func scanValues(txn *badger.Txn, prefix []byte) ([]string, error) {
	var values []string
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		v, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		values = append(values, string(v))
	}
	return values, nil
}

package storage

import (
	"cinechat/domain/chat"
	"cinechat/errors"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout. Timestamps are zero padded to 19 digits so lexicographical
// order in badger equals chronological order.
const (
	roomPrefix       = "room:"
	roomKindPrefix   = "roomkind:"
	roomNamePrefix   = "roomname:"
	memberPrefix     = "member:"
	roomMemberPrefix = "roommember:"
	msgPrefix        = "msg:"
	queueEntryPrefix = "queue:entry:"
	queueOrderPrefix = "queue:order:"
	queueLockKey     = "queue:lock"
)

func roomKey(id chat.RoomID) []byte {
	return []byte(roomPrefix + string(id))
}

func roomKindKey(room chat.Room) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", roomKindPrefix, room.Kind, room.CreatedAt.UnixNano(), room.ID))
}

func roomNameKey(name string) []byte {
	return []byte(roomNamePrefix + name)
}

// User ids are opaque and may contain ':', so the user segment of the member
// index ends with a NUL byte. Scanning memberUserPrefix("a") never reaches "a:b".
func memberKey(m chat.Membership) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", memberUserPrefix(m.UserID), m.JoinedAt.UnixNano(), m.RoomID))
}

func memberUserPrefix(userID string) string {
	return memberPrefix + userID + "\x00"
}

func roomMemberKey(roomID chat.RoomID, userID string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", roomMemberPrefix, roomID, userID))
}

func messageKey(m chat.Message) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", msgPrefix, m.RoomID, m.CreatedAt.UnixNano(), m.ID))
}

func queueEntryKey(userID string) []byte {
	return []byte(queueEntryPrefix + userID)
}

func queueOrderKey(e chat.QueueEntry) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", queueOrderPrefix, e.EnqueuedAt.UnixNano(), e.UserID))
}

type diskRoom struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type diskMembership struct {
	RoomID   string `json:"room_id"`
	UserID   string `json:"user_id"`
	JoinedAt int64  `json:"joined_at"`
}

type diskMessage struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id,omitempty"`
	RoomID      string `json:"room_id"`
	AuthorID    string `json:"author_id"`
	Content     string `json:"content"`
	CreatedAt   int64  `json:"created_at"`
	IsAnonymous bool   `json:"is_anonymous"`
	DisplayName string `json:"display_name,omitempty"`
}

type diskQueueEntry struct {
	UserID     string `json:"user_id"`
	Ticket     string `json:"ticket"`
	EnqueuedAt int64  `json:"enqueued_at"`
}

func fromRoom(r chat.Room) diskRoom {
	return diskRoom{ID: string(r.ID), Kind: string(r.Kind), Name: r.Name, CreatedAt: r.CreatedAt.UnixNano()}
}

func (d diskRoom) toRoom() chat.Room {
	return chat.Room{
		ID:        chat.RoomID(d.ID),
		Kind:      chat.RoomKind(d.Kind),
		Name:      d.Name,
		CreatedAt: time.Unix(0, d.CreatedAt).UTC(),
	}
}

func fromMembership(m chat.Membership) diskMembership {
	return diskMembership{RoomID: string(m.RoomID), UserID: m.UserID, JoinedAt: m.JoinedAt.UnixNano()}
}

func fromMessage(m chat.Message) diskMessage {
	return diskMessage{
		ID:          string(m.ID),
		ClientID:    string(m.ClientID),
		RoomID:      string(m.RoomID),
		AuthorID:    m.AuthorID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt.UnixNano(),
		IsAnonymous: m.IsAnonymous,
		DisplayName: m.DisplayName,
	}
}

// toMessage only ever sees committed messages, so the status is always sent.
func (d diskMessage) toMessage() chat.Message {
	return chat.Message{
		ID:          chat.MessageID(d.ID),
		ClientID:    chat.MessageID(d.ClientID),
		RoomID:      chat.RoomID(d.RoomID),
		AuthorID:    d.AuthorID,
		Content:     d.Content,
		CreatedAt:   time.Unix(0, d.CreatedAt).UTC(),
		Status:      chat.StatusSent,
		IsAnonymous: d.IsAnonymous,
		DisplayName: d.DisplayName,
	}
}

func fromQueueEntry(e chat.QueueEntry) diskQueueEntry {
	return diskQueueEntry{UserID: e.UserID, Ticket: e.Ticket, EnqueuedAt: e.EnqueuedAt.UnixNano()}
}

func (d diskQueueEntry) toQueueEntry() chat.QueueEntry {
	return chat.QueueEntry{UserID: d.UserID, Ticket: d.Ticket, EnqueuedAt: time.Unix(0, d.EnqueuedAt).UTC()}
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

// getJSON returns false when the key does not exist.
func getJSON(txn *badger.Txn, key []byte, v any) (bool, error) {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func putRoom(txn *badger.Txn, room chat.Room) error {
	if err := setJSON(txn, roomKey(room.ID), fromRoom(room)); err != nil {
		return err
	}
	if err := txn.Set(roomKindKey(room), []byte(room.ID)); err != nil {
		return err
	}
	if room.Kind == chat.Broadcast && room.Name != "" {
		return txn.Set(roomNameKey(room.Name), []byte(room.ID))
	}
	return nil
}

func getRoom(txn *badger.Txn, id chat.RoomID) (chat.Room, error) {
	var d diskRoom
	found, err := getJSON(txn, roomKey(id), &d)
	if err != nil {
		return chat.Room{}, err
	}
	if !found {
		return chat.Room{}, fmt.Errorf("%w: %s", errors.ErrNotFound, id)
	}
	return d.toRoom(), nil
}

func putMembership(txn *badger.Txn, m chat.Membership) error {
	if err := setJSON(txn, roomMemberKey(m.RoomID, m.UserID), fromMembership(m)); err != nil {
		return err
	}
	return txn.Set(memberKey(m), []byte(m.RoomID))
}

// unavailable tags raw store failures. Domain errors pass through.
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, errors.ErrNotFound) || stderrors.Is(err, errors.ErrNotMember) {
		return err
	}
	return fmt.Errorf("%w: %w", errors.ErrUnavailable, err)
}

//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"cinechat/domain/chat"
	"cinechat/infrastructure/storage"
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
)

type IRoomService interface {
	ListBroadcastRooms(ctx context.Context) ([]chat.Room, error)
	ListMatchRoomsFor(ctx context.Context, userID string) ([]chat.Room, error)
	GetRoom(ctx context.Context, roomID chat.RoomID) (chat.Room, error)
	IsMember(ctx context.Context, roomID chat.RoomID, userID string) (bool, error)
	EnsureBroadcastRooms(ctx context.Context, names []string) ([]chat.Room, error)
}

type RoomService struct {
	rooms storage.IRoomRepository
	now   func() time.Time
}

func NewRoomService(rooms storage.IRoomRepository) *RoomService {
	return &RoomService{rooms: rooms, now: time.Now}
}

func (s *RoomService) ListBroadcastRooms(_ context.Context) ([]chat.Room, error) {
	return s.rooms.ListRooms(chat.Broadcast)
}

// ListMatchRoomsFor returns the match rooms of a user ordered by join time.
func (s *RoomService) ListMatchRoomsFor(_ context.Context, userID string) ([]chat.Room, error) {
	rooms, err := s.rooms.ListRoomsFor(userID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(rooms, func(r chat.Room, _ int) bool { return r.IsMatch() }), nil
}

func (s *RoomService) GetRoom(_ context.Context, roomID chat.RoomID) (chat.Room, error) {
	return s.rooms.GetRoom(roomID)
}

func (s *RoomService) IsMember(_ context.Context, roomID chat.RoomID, userID string) (bool, error) {
	return s.rooms.IsMember(roomID, userID)
}

// EnsureBroadcastRooms provisions broadcast rooms by name. Blank and repeated names are skipped.
func (s *RoomService) EnsureBroadcastRooms(ctx context.Context, names []string) ([]chat.Room, error) {
	names = lo.Uniq(lo.Compact(lo.Map(names, func(n string, _ int) string { return strings.TrimSpace(n) })))
	rooms := make([]chat.Room, 0, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Creation times follow the configured order
		room, err := s.rooms.EnsureBroadcastRoom(name, s.now().Add(time.Duration(i)))
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

package server

import (
	pb "cinechat/api/chat"
	"cinechat/auth"
	"cinechat/domain/chat"
	"cinechat/errors"
	"cinechat/services"
	"context"
	"log/slog"

	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	log      *slog.Logger
	rooms    services.IRoomService
	match    services.IMatchService
	messages services.IMessageService
}

func NewChatServer(log *slog.Logger, rooms services.IRoomService, match services.IMatchService,
	messages services.IMessageService) *ChatServer {
	return &ChatServer{log: log, rooms: rooms, match: match, messages: messages}
}

func (s *ChatServer) ListBroadcastRooms(ctx context.Context, _ *pb.ListBroadcastRoomsRequest) (*pb.ListRoomsResponse, error) {
	rooms, err := s.rooms.ListBroadcastRooms(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ListRoomsResponse{Rooms: lo.Map(rooms, toPbRoom)}, nil
}

func (s *ChatServer) ListMatchRooms(ctx context.Context, _ *pb.ListMatchRoomsRequest) (*pb.ListRoomsResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListMatchRoomsFor(ctx, userID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ListRoomsResponse{Rooms: lo.Map(rooms, toPbRoom)}, nil
}

func (s *ChatServer) GetRoom(ctx context.Context, req *pb.GetRoomRequest) (*pb.GetRoomResponse, error) {
	room, err := s.rooms.GetRoom(ctx, chat.RoomID(req.RoomID))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.GetRoomResponse{Room: toPbRoom(room, 0)}, nil
}

// RequestMatch blocks until the caller is paired, cancelled or gone.
func (s *ChatServer) RequestMatch(ctx context.Context, _ *pb.RequestMatchRequest) (*pb.RequestMatchResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	roomID, err := s.match.RequestMatch(ctx, userID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.RequestMatchResponse{RoomID: string(roomID)}, nil
}

func (s *ChatServer) CancelMatch(ctx context.Context, _ *pb.CancelMatchRequest) (*pb.CancelMatchResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.match.CancelMatch(ctx, userID); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.CancelMatchResponse{}, nil
}

func (s *ChatServer) History(ctx context.Context, req *pb.HistoryRequest) (*pb.HistoryResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	roomID := chat.RoomID(req.RoomID)
	if err := s.messages.CheckAccess(ctx, roomID, userID); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	messages, err := s.messages.History(ctx, roomID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.HistoryResponse{Messages: lo.Map(messages, toPbMessage)}, nil
}

// Send persists a message authored by the caller. The committed message is
// returned and also pushed to every subscription, the sender's included.
func (s *ChatServer) Send(ctx context.Context, req *pb.SendRequest) (*pb.SendResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := s.messages.Send(ctx, chat.SendMessageCommand{
		RoomID:      chat.RoomID(req.RoomID),
		AuthorID:    userID,
		Content:     req.Content,
		ClientID:    chat.MessageID(req.ClientID),
		IsAnonymous: req.IsAnonymous,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.SendResponse{Message: toPbMessage(msg, 0)}, nil
}

// Subscribe streams the room's committed messages until the client leaves.
// When the subscription overflows the stream ends with ResourceExhausted and
// the client is expected to subscribe again and reload history.
func (s *ChatServer) Subscribe(req *pb.SubscribeRequest, stream grpc.ServerStreamingServer[pb.Message]) error {
	ctx := stream.Context()
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	roomID := chat.RoomID(req.RoomID)
	if err := s.messages.CheckAccess(ctx, roomID, userID); err != nil {
		return errors.MapToGRPCError(err)
	}
	pushes, err := s.messages.Subscribe(ctx, roomID)
	if err != nil {
		return errors.MapToGRPCError(err)
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Client left the room", "user_id", userID, "room_id", roomID)
			return nil
		case msg, ok := <-pushes:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.MapToGRPCError(errors.ErrSubscriptionOverflow)
			}
			if err := stream.Send(lo.ToPtr(toPbMessage(msg, 0))); err != nil {
				s.log.Error("failed to push message to stream",
					"user_id", userID,
					"room_id", roomID,
					"error", err)
				return err
			}
		}
	}
}

func callerID(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "caller identity is missing")
	}
	return userID, nil
}

func toPbRoom(r chat.Room, _ int) pb.Room {
	return pb.Room{ID: string(r.ID), Kind: string(r.Kind), Name: r.Name, CreatedAt: r.CreatedAt}
}

func toPbMessage(m chat.Message, _ int) pb.Message {
	return pb.Message{
		ID:          string(m.ID),
		ClientID:    string(m.ClientID),
		RoomID:      string(m.RoomID),
		AuthorID:    m.AuthorID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		IsAnonymous: m.IsAnonymous,
		DisplayName: m.DisplayName,
	}
}

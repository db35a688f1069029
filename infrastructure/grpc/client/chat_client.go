package client

import (
	pb "cinechat/api/chat"
	"cinechat/domain/chat"
	"cinechat/errors"
	"context"
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// ChatClient is the remote counterpart of the chat services. It satisfies
// contract.MessageChannel so a client session can run against it.
// Errors coming back from the server are turned into domain sentinels.
type ChatClient struct {
	log    *slog.Logger
	client pb.ChatServiceClient
}

func NewChatClient(log *slog.Logger, cc grpc.ClientConnInterface) *ChatClient {
	return &ChatClient{log: log, client: pb.NewChatServiceClient(cc)}
}

func (c *ChatClient) ListBroadcastRooms(ctx context.Context) ([]chat.Room, error) {
	res, err := c.client.ListBroadcastRooms(ctx, &pb.ListBroadcastRoomsRequest{})
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}
	return lo.Map(res.Rooms, fromPbRoom), nil
}

func (c *ChatClient) ListMatchRooms(ctx context.Context) ([]chat.Room, error) {
	res, err := c.client.ListMatchRooms(ctx, &pb.ListMatchRoomsRequest{})
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}
	return lo.Map(res.Rooms, fromPbRoom), nil
}

func (c *ChatClient) GetRoom(ctx context.Context, roomID chat.RoomID) (chat.Room, error) {
	res, err := c.client.GetRoom(ctx, &pb.GetRoomRequest{RoomID: string(roomID)})
	if err != nil {
		return chat.Room{}, errors.FromGRPCError(err)
	}
	return fromPbRoom(res.Room, 0), nil
}

// RequestMatch blocks until the server pairs the caller or the request is cancelled.
func (c *ChatClient) RequestMatch(ctx context.Context) (chat.RoomID, error) {
	res, err := c.client.RequestMatch(ctx, &pb.RequestMatchRequest{})
	if err != nil {
		return "", errors.FromGRPCError(err)
	}
	return chat.RoomID(res.RoomID), nil
}

func (c *ChatClient) CancelMatch(ctx context.Context) error {
	_, err := c.client.CancelMatch(ctx, &pb.CancelMatchRequest{})
	return errors.FromGRPCError(err)
}

func (c *ChatClient) History(ctx context.Context, roomID chat.RoomID) ([]chat.Message, error) {
	res, err := c.client.History(ctx, &pb.HistoryRequest{RoomID: string(roomID)})
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}
	return lo.Map(res.Messages, fromPbMessage), nil
}

// Send ignores cmd.AuthorID: the server takes the author from the token.
func (c *ChatClient) Send(ctx context.Context, cmd chat.SendMessageCommand) (chat.Message, error) {
	res, err := c.client.Send(ctx, &pb.SendRequest{
		RoomID:      string(cmd.RoomID),
		Content:     cmd.Content,
		ClientID:    string(cmd.ClientID),
		IsAnonymous: cmd.IsAnonymous,
		DisplayName: cmd.DisplayName,
	})
	if err != nil {
		return chat.Message{}, errors.FromGRPCError(err)
	}
	return fromPbMessage(res.Message, 0), nil
}

// Subscribe opens the server stream and relays it on a channel.
// The channel is closed when ctx is done or the stream ends for any reason,
// an overflow on the server side included.
func (c *ChatClient) Subscribe(ctx context.Context, roomID chat.RoomID) (<-chan chat.Message, error) {
	stream, err := c.client.Subscribe(ctx, &pb.SubscribeRequest{RoomID: string(roomID)})
	if err != nil {
		return nil, errors.FromGRPCError(err)
	}

	out := make(chan chat.Message)
	go func() {
		defer close(out)
		for {
			msg, err := stream.Recv()
			if err != nil {
				if !stderrors.Is(err, io.EOF) && ctx.Err() == nil {
					c.log.Debug("Subscription stream ended",
						"room_id", roomID,
						"error", errors.FromGRPCError(err))
				}
				return
			}
			select {
			case out <- fromPbMessage(*msg, 0):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// BearerToken attaches the token to every call made on the connection.
func BearerToken(token string) credentials.PerRPCCredentials {
	return bearer(token)
}

type bearer string

func (b bearer) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + string(b)}, nil
}

// RequireTransportSecurity is false so the token also travels over local plaintext connections.
func (bearer) RequireTransportSecurity() bool {
	return false
}

func fromPbRoom(r pb.Room, _ int) chat.Room {
	return chat.Room{ID: chat.RoomID(r.ID), Kind: chat.RoomKind(r.Kind), Name: r.Name, CreatedAt: r.CreatedAt}
}

func fromPbMessage(m pb.Message, _ int) chat.Message {
	return chat.Message{
		ID:          chat.MessageID(m.ID),
		ClientID:    chat.MessageID(m.ClientID),
		RoomID:      chat.RoomID(m.RoomID),
		AuthorID:    m.AuthorID,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		Status:      chat.StatusSent,
		IsAnonymous: m.IsAnonymous,
		DisplayName: m.DisplayName,
	}
}

// Package chat holds the wire contract of the chat.v1.ChatService gRPC
// service. Messages travel as JSON through the codec registered in codec.go.
package chat

import "time"

type Room struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id,omitempty"`
	RoomID      string    `json:"room_id"`
	AuthorID    string    `json:"author_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	IsAnonymous bool      `json:"is_anonymous,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
}

type ListBroadcastRoomsRequest struct{}

type ListMatchRoomsRequest struct{}

type ListRoomsResponse struct {
	Rooms []Room `json:"rooms"`
}

type GetRoomRequest struct {
	RoomID string `json:"room_id"`
}

type GetRoomResponse struct {
	Room Room `json:"room"`
}

type RequestMatchRequest struct{}

type RequestMatchResponse struct {
	RoomID string `json:"room_id"`
}

type CancelMatchRequest struct{}

type CancelMatchResponse struct{}

type HistoryRequest struct {
	RoomID string `json:"room_id"`
}

type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

// SendRequest carries no author: the caller identity comes from its token.
type SendRequest struct {
	RoomID      string `json:"room_id"`
	Content     string `json:"content"`
	ClientID    string `json:"client_id,omitempty"`
	IsAnonymous bool   `json:"is_anonymous,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type SendResponse struct {
	Message Message `json:"message"`
}

type SubscribeRequest struct {
	RoomID string `json:"room_id"`
}

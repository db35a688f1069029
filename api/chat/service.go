package chat

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "chat.v1.ChatService"

	ChatService_ListBroadcastRooms_FullMethodName = "/chat.v1.ChatService/ListBroadcastRooms"
	ChatService_ListMatchRooms_FullMethodName     = "/chat.v1.ChatService/ListMatchRooms"
	ChatService_GetRoom_FullMethodName            = "/chat.v1.ChatService/GetRoom"
	ChatService_RequestMatch_FullMethodName       = "/chat.v1.ChatService/RequestMatch"
	ChatService_CancelMatch_FullMethodName        = "/chat.v1.ChatService/CancelMatch"
	ChatService_History_FullMethodName            = "/chat.v1.ChatService/History"
	ChatService_Send_FullMethodName               = "/chat.v1.ChatService/Send"
	ChatService_Subscribe_FullMethodName          = "/chat.v1.ChatService/Subscribe"
)

// ChatServiceServer is the server API for ChatService.
type ChatServiceServer interface {
	ListBroadcastRooms(context.Context, *ListBroadcastRoomsRequest) (*ListRoomsResponse, error)
	ListMatchRooms(context.Context, *ListMatchRoomsRequest) (*ListRoomsResponse, error)
	GetRoom(context.Context, *GetRoomRequest) (*GetRoomResponse, error)
	RequestMatch(context.Context, *RequestMatchRequest) (*RequestMatchResponse, error)
	CancelMatch(context.Context, *CancelMatchRequest) (*CancelMatchResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	Send(context.Context, *SendRequest) (*SendResponse, error)
	Subscribe(*SubscribeRequest, grpc.ServerStreamingServer[Message]) error
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

// ChatService_ServiceDesc is the grpc.ServiceDesc for ChatService.
var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListBroadcastRooms", Handler: unaryHandler(ChatService_ListBroadcastRooms_FullMethodName, ChatServiceServer.ListBroadcastRooms)},
		{MethodName: "ListMatchRooms", Handler: unaryHandler(ChatService_ListMatchRooms_FullMethodName, ChatServiceServer.ListMatchRooms)},
		{MethodName: "GetRoom", Handler: unaryHandler(ChatService_GetRoom_FullMethodName, ChatServiceServer.GetRoom)},
		{MethodName: "RequestMatch", Handler: unaryHandler(ChatService_RequestMatch_FullMethodName, ChatServiceServer.RequestMatch)},
		{MethodName: "CancelMatch", Handler: unaryHandler(ChatService_CancelMatch_FullMethodName, ChatServiceServer.CancelMatch)},
		{MethodName: "History", Handler: unaryHandler(ChatService_History_FullMethodName, ChatServiceServer.History)},
		{MethodName: "Send", Handler: unaryHandler(ChatService_Send_FullMethodName, ChatServiceServer.Send)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: "chat/v1/chat.proto",
}

func unaryHandler[Req, Res any](fullMethod string,
	call func(ChatServiceServer, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChatServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChatServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ChatServiceServer).Subscribe(m, &grpc.GenericServerStream[SubscribeRequest, Message]{ServerStream: stream})
}

// ChatServiceClient is the client API for ChatService.
type ChatServiceClient interface {
	ListBroadcastRooms(ctx context.Context, in *ListBroadcastRoomsRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error)
	ListMatchRooms(ctx context.Context, in *ListMatchRoomsRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error)
	GetRoom(ctx context.Context, in *GetRoomRequest, opts ...grpc.CallOption) (*GetRoomResponse, error)
	RequestMatch(ctx context.Context, in *RequestMatchRequest, opts ...grpc.CallOption) (*RequestMatchResponse, error)
	CancelMatch(ctx context.Context, in *CancelMatchRequest, opts ...grpc.CallOption) (*CancelMatchResponse, error)
	History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error)
	Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Message], error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewChatServiceClient always talks JSON, whatever the connection defaults are.
func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc}
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) ListBroadcastRooms(ctx context.Context, in *ListBroadcastRoomsRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error) {
	return invoke[ListRoomsResponse](ctx, c.cc, ChatService_ListBroadcastRooms_FullMethodName, in, opts)
}

func (c *chatServiceClient) ListMatchRooms(ctx context.Context, in *ListMatchRoomsRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error) {
	return invoke[ListRoomsResponse](ctx, c.cc, ChatService_ListMatchRooms_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetRoom(ctx context.Context, in *GetRoomRequest, opts ...grpc.CallOption) (*GetRoomResponse, error) {
	return invoke[GetRoomResponse](ctx, c.cc, ChatService_GetRoom_FullMethodName, in, opts)
}

func (c *chatServiceClient) RequestMatch(ctx context.Context, in *RequestMatchRequest, opts ...grpc.CallOption) (*RequestMatchResponse, error) {
	return invoke[RequestMatchResponse](ctx, c.cc, ChatService_RequestMatch_FullMethodName, in, opts)
}

func (c *chatServiceClient) CancelMatch(ctx context.Context, in *CancelMatchRequest, opts ...grpc.CallOption) (*CancelMatchResponse, error) {
	return invoke[CancelMatchResponse](ctx, c.cc, ChatService_CancelMatch_FullMethodName, in, opts)
}

func (c *chatServiceClient) History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c.cc, ChatService_History_FullMethodName, in, opts)
}

func (c *chatServiceClient) Send(ctx context.Context, in *SendRequest, opts ...grpc.CallOption) (*SendResponse, error) {
	return invoke[SendResponse](ctx, c.cc, ChatService_Send_FullMethodName, in, opts)
}

func (c *chatServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Message], error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[0], ChatService_Subscribe_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SubscribeRequest, Message]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

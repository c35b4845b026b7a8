package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified DraftService name
const ServiceName = "hockeydraft.v1.DraftService"

// DraftServiceServer is the DraftService API. Requests and responses are
// google.protobuf.Struct documents shaped like the JSON API.
type DraftServiceServer interface {
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListRankings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartDraft(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SelectPlayer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetDraft(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	StopDraft(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	GetRoster(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStandings(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ExpectedPicks(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ReorderTeams(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchEvents(*emptypb.Empty, grpc.ServerStream) error
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor for a request/response call
func unary[Req proto.Message, Resp proto.Message](name string, newReq func() Req, call func(DraftServiceServer, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DraftServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(DraftServiceServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newEmpty() *emptypb.Empty    { return new(emptypb.Empty) }
func newStruct() *structpb.Struct { return new(structpb.Struct) }

// DraftServiceDesc describes DraftService for grpc.Server.RegisterService
var DraftServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DraftServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetState", newEmpty, DraftServiceServer.GetState),
		unary("ListRankings", newStruct, DraftServiceServer.ListRankings),
		unary("StartDraft", newEmpty, DraftServiceServer.StartDraft),
		unary("SelectPlayer", newStruct, DraftServiceServer.SelectPlayer),
		unary("ResetDraft", newEmpty, DraftServiceServer.ResetDraft),
		unary("StopDraft", newEmpty, DraftServiceServer.StopDraft),
		unary("GetRoster", newStruct, DraftServiceServer.GetRoster),
		unary("GetStandings", newEmpty, DraftServiceServer.GetStandings),
		unary("ExpectedPicks", newEmpty, DraftServiceServer.ExpectedPicks),
		unary("ReorderTeams", newStruct, DraftServiceServer.ReorderTeams),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchEvents",
			ServerStreams: true,
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				in := new(emptypb.Empty)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(DraftServiceServer).WatchEvents(in, stream)
			},
		},
	},
	Metadata: "hockeydraft/v1/draft.proto",
}

// RegisterDraftServiceServer registers srv on s
func RegisterDraftServiceServer(s grpc.ServiceRegistrar, srv DraftServiceServer) {
	s.RegisterService(&DraftServiceDesc, srv)
}

// Client calls DraftService over a client connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp proto.Message](ctx context.Context, c *Client, name string, in proto.Message, out Resp, opts ...grpc.CallOption) (Resp, error) {
	if err := c.cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}

func (c *Client) GetState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "GetState", &emptypb.Empty{}, newStruct(), opts...)
}

func (c *Client) ListRankings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "ListRankings", in, newStruct(), opts...)
}

func (c *Client) StartDraft(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "StartDraft", &emptypb.Empty{}, newStruct(), opts...)
}

func (c *Client) SelectPlayer(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "SelectPlayer", in, newStruct(), opts...)
}

func (c *Client) ResetDraft(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke(ctx, c, "ResetDraft", &emptypb.Empty{}, newEmpty(), opts...)
	return err
}

func (c *Client) StopDraft(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke(ctx, c, "StopDraft", &emptypb.Empty{}, newEmpty(), opts...)
	return err
}

func (c *Client) GetRoster(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "GetRoster", in, newStruct(), opts...)
}

func (c *Client) GetStandings(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "GetStandings", &emptypb.Empty{}, newStruct(), opts...)
}

func (c *Client) ExpectedPicks(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "ExpectedPicks", &emptypb.Empty{}, newStruct(), opts...)
}

func (c *Client) ReorderTeams(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c, "ReorderTeams", in, newStruct(), opts...)
}

// EventStream receives events from WatchEvents
type EventStream struct {
	grpc.ClientStream
}

// Recv blocks for the next event
func (s *EventStream) Recv() (*structpb.Struct, error) {
	m := newStruct()
	if err := s.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// WatchEvents streams every league event until ctx ends
func (c *Client) WatchEvents(ctx context.Context, opts ...grpc.CallOption) (*EventStream, error) {
	stream, err := c.cc.NewStream(ctx, &DraftServiceDesc.Streams[0], fullMethod("WatchEvents"), opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EventStream{ClientStream: stream}, nil
}

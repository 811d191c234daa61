package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "timecheck.v1.TimeCheckService"

// Full method names, as seen by interceptors.
const (
	RegisterMethod     = "/" + ServiceName + "/Register"
	LoginMethod        = "/" + ServiceName + "/Login"
	RefreshTokenMethod = "/" + ServiceName + "/RefreshToken"
	PingMethod         = "/" + ServiceName + "/Ping"
	SyncMethod         = "/" + ServiceName + "/Sync"
	ExportMethod       = "/" + ServiceName + "/Export"
)

// TimeCheckServiceServer is implemented by the server transport.
type TimeCheckServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Sync(context.Context, *SyncRequest) (*SyncResponse, error)
	Export(context.Context, *ExportRequest) (*ExportResponse, error)
}

func unary[Req, Resp any](method string, call func(TimeCheckServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TimeCheckServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TimeCheckServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes TimeCheckService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TimeCheckServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(RegisterMethod, TimeCheckServiceServer.Register)},
		{MethodName: "Login", Handler: unary(LoginMethod, TimeCheckServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unary(RefreshTokenMethod, TimeCheckServiceServer.RefreshToken)},
		{MethodName: "Ping", Handler: unary(PingMethod, TimeCheckServiceServer.Ping)},
		{MethodName: "Sync", Handler: unary(SyncMethod, TimeCheckServiceServer.Sync)},
		{MethodName: "Export", Handler: unary(ExportMethod, TimeCheckServiceServer.Export)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "timecheck/v1/timecheck.proto",
}

func RegisterTimeCheckServiceServer(s grpc.ServiceRegistrar, srv TimeCheckServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// TimeCheckServiceClient is the client side of TimeCheckService.
type TimeCheckServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Sync(ctx context.Context, in *SyncRequest, opts ...grpc.CallOption) (*SyncResponse, error)
	Export(ctx context.Context, in *ExportRequest, opts ...grpc.CallOption) (*ExportResponse, error)
}

type timeCheckServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTimeCheckServiceClient returns a client that always speaks the JSON codec.
func NewTimeCheckServiceClient(cc grpc.ClientConnInterface) TimeCheckServiceClient {
	return &timeCheckServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *timeCheckServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, RegisterMethod, in, opts)
}

func (c *timeCheckServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, LoginMethod, in, opts)
}

func (c *timeCheckServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, RefreshTokenMethod, in, opts)
}

func (c *timeCheckServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, PingMethod, in, opts)
}

func (c *timeCheckServiceClient) Sync(ctx context.Context, in *SyncRequest, opts ...grpc.CallOption) (*SyncResponse, error) {
	return invoke[SyncResponse](ctx, c.cc, SyncMethod, in, opts)
}

func (c *timeCheckServiceClient) Export(ctx context.Context, in *ExportRequest, opts ...grpc.CallOption) (*ExportResponse, error) {
	return invoke[ExportResponse](ctx, c.cc, ExportMethod, in, opts)
}

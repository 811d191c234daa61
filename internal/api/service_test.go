package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type echoServer struct {
	lastSync *SyncRequest
}

func (e *echoServer) Register(_ context.Context, in *RegisterRequest) (*RegisterResponse, error) {
	return &RegisterResponse{UserID: "id-" + in.Email}, nil
}

func (e *echoServer) Login(context.Context, *LoginRequest) (*TokenResponse, error) {
	return &TokenResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (e *echoServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unauthenticated, "unauthorized")
}

func (e *echoServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (e *echoServer) Sync(_ context.Context, in *SyncRequest) (*SyncResponse, error) {
	e.lastSync = in
	return &SyncResponse{ServerTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}, nil
}

func (e *echoServer) Export(_ context.Context, in *ExportRequest) (*ExportResponse, error) {
	return &ExportResponse{URL: "https://x/" + in.Format}, nil
}

func dial(t *testing.T, srv TimeCheckServiceServer, opts ...grpc.ServerOption) TimeCheckServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterTimeCheckServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewTimeCheckServiceClient(conn)
}

func TestClientServerRoundTrip(t *testing.T) {
	srv := &echoServer{}
	c := dial(t, srv)
	ctx := context.Background()

	reg, err := c.Register(ctx, &RegisterRequest{Email: "a@b.co", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "id-a@b.co", reg.UserID)

	ping, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	resp, err := c.Sync(ctx, &SyncRequest{LastSyncAt: &since, Changes: Changes{
		TimeEntries: []TimeEntryChange{{Op: "delete", Data: TimeEntryPayload{ID: "e1", TaskID: "t1"}}},
	}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), resp.ServerTime.UTC())
	require.NotNil(t, srv.lastSync)
	assert.True(t, srv.lastSync.LastSyncAt.Equal(since))
	assert.Equal(t, "e1", srv.lastSync.Changes.TimeEntries[0].Data.ID)

	exp, err := c.Export(ctx, &ExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "https://x/csv", exp.URL)

	_, err = c.RefreshToken(ctx, &RefreshTokenRequest{RefreshToken: "r"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	intercept := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	c := dial(t, &echoServer{}, grpc.UnaryInterceptor(intercept))

	_, err := c.Login(context.Background(), &LoginRequest{})
	require.NoError(t, err)
	_, err = c.Sync(context.Background(), &SyncRequest{})
	require.NoError(t, err)

	assert.Equal(t, []string{LoginMethod, SyncMethod}, seen)
	assert.Equal(t, "/timecheck.v1.TimeCheckService/Sync", SyncMethod)
}

package grpc

import (
	"context"

	"github.com/dmitrijs2005/timecheck/internal/logging"
	"github.com/dmitrijs2005/timecheck/internal/server/auth"
	"github.com/dmitrijs2005/timecheck/internal/server/models"
	"github.com/dmitrijs2005/timecheck/internal/server/services"
)

var testSecret = []byte("secret")

type fakeUsers struct {
	regResp *models.User
	regErr  error

	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error
}

func (f *fakeUsers) Register(ctx context.Context, email, password string) (*models.User, error) {
	return f.regResp, f.regErr
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeUsers) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, testSecret)
}

type fakeSync struct {
	gotUser string
	gotReq  services.SyncRequest
	resp    *services.SyncResult
	err     error
}

func (f *fakeSync) Sync(ctx context.Context, userID string, req services.SyncRequest) (*services.SyncResult, error) {
	f.gotUser, f.gotReq = userID, req
	return f.resp, f.err
}

type fakeExports struct {
	gotUser, gotFormat string
	resp               *services.ExportResult
	err                error
}

func (f *fakeExports) Export(ctx context.Context, userID, format string) (*services.ExportResult, error) {
	f.gotUser, f.gotFormat = userID, format
	return f.resp, f.err
}

func newTestServer(u *fakeUsers, s *fakeSync, e *fakeExports) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, u, s, e)
}

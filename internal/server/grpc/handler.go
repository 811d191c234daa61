package grpc

import (
	"context"

	"github.com/dmitrijs2005/timecheck/internal/api"
	"github.com/dmitrijs2005/timecheck/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, ToStatus(ctx, s.logger, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &api.RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, ToStatus(ctx, s.logger, err)
	}
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, ToStatus(ctx, s.logger, err)
	}
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Sync(ctx context.Context, req *api.SyncRequest) (*api.SyncResponse, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	res, err := s.sync.Sync(ctx, userID, SyncRequestFromAPI(req))
	if err != nil {
		return nil, ToStatus(ctx, s.logger, err)
	}
	return SyncResponseToAPI(res), nil
}

func (s *GRPCServer) Export(ctx context.Context, req *api.ExportRequest) (*api.ExportResponse, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	res, err := s.exports.Export(ctx, userID, req.Format)
	if err != nil {
		return nil, ToStatus(ctx, s.logger, err)
	}
	return &api.ExportResponse{URL: res.URL, Key: res.Key, ExpiresAt: res.ExpiresAt}, nil
}

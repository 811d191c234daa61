package client

import (
	"context"

	"github.com/dmitrijs2005/timecheck/internal/api"
)

// Tokens is the credential pair issued by the server on login.
type Tokens struct {
	Access  string
	Refresh string
}

type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (string, error)
	// Login stores the issued tokens for subsequent calls and returns them.
	Login(ctx context.Context, email, password string) (Tokens, error)
	Ping(ctx context.Context) error
	Sync(ctx context.Context, req *api.SyncRequest) (*api.SyncResponse, error)
	Export(ctx context.Context, format string) (*api.ExportResponse, error)
	SetTokens(t Tokens)
	// Tokens reflects any refresh performed transparently during a call.
	Tokens() Tokens
}

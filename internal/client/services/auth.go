// Package services contains application services for the timecheck client.
// This file defines the authentication service: register, login, logout and
// restoring a saved session on startup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timecheck/internal/client/client"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/timecheck/internal/client/repositories/timeentries"
	"github.com/dmitrijs2005/timecheck/internal/dbx"
)

var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new user on the server.
//   - Login: authenticate against the server and persist the session locally.
//     Logging in as a different user discards the previous user's replica.
//   - Logout: forget the session but keep the replica.
//   - Restore: load a saved session into the client, returning its email.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) Register(ctx context.Context, email, password string) (string, error) {
	return a.client.Register(ctx, email, password)
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	tokens, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := metadata.NewSQLiteRepository(tx)

		prev, err := meta.Get(ctx, metadata.KeyEmail)
		if err != nil {
			return err
		}
		if prev != nil && string(prev) != email {
			if err := clearReplica(ctx, tx); err != nil {
				return err
			}
		}

		if err := meta.Set(ctx, metadata.KeyEmail, []byte(email)); err != nil {
			return err
		}
		return storeTokens(ctx, meta, tokens)
	})
	if err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetTokens(client.Tokens{})
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return storeTokens(ctx, metadata.NewSQLiteRepository(tx), client.Tokens{})
	})
}

func (a *authService) Restore(ctx context.Context) (string, error) {
	meta := metadata.NewSQLiteRepository(a.db)

	values, err := meta.List(ctx)
	if err != nil {
		return "", err
	}
	access, refresh := values[metadata.KeyAccessToken], values[metadata.KeyRefreshToken]
	if len(access) == 0 && len(refresh) == 0 {
		return "", ErrNotLoggedIn
	}

	a.client.SetTokens(client.Tokens{Access: string(access), Refresh: string(refresh)})
	return string(values[metadata.KeyEmail]), nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// storeTokens saves t, deleting the keys when t is empty.
func storeTokens(ctx context.Context, meta metadata.Repository, t client.Tokens) error {
	for key, value := range map[string]string{
		metadata.KeyAccessToken:  t.Access,
		metadata.KeyRefreshToken: t.Refresh,
	} {
		if value == "" {
			if err := meta.Delete(ctx, key); err != nil {
				return err
			}
			continue
		}
		if err := meta.Set(ctx, key, []byte(value)); err != nil {
			return err
		}
	}
	return nil
}

// clearReplica drops every local record and all session metadata.
func clearReplica(ctx context.Context, tx dbx.DBTX) error {
	if err := timeentries.NewSQLiteRepository(tx).Clear(ctx); err != nil {
		return err
	}
	if err := tasks.NewSQLiteRepository(tx).Clear(ctx); err != nil {
		return err
	}
	return metadata.NewSQLiteRepository(tx).Clear(ctx)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/timecheck/internal/client/client"
	"github.com/dmitrijs2005/timecheck/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	if email = strings.TrimSpace(email); email == "" {
		return "", nil, errors.New("email must not be empty")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for an email and password and creates the account on the
// server. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if _, err := a.authService.Register(ctx, email, string(password)); err != nil {
		if errors.Is(err, client.ErrAlreadyExists) {
			return fmt.Errorf("user %s already exists", email)
		}
		return err
	}

	fmt.Fprintln(a.out, "Registered. Use 'login' to sign in.")
	return nil
}

// Login prompts for credentials and signs in. Logging in as a different user
// than the one who owns the local replica discards that replica.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	a.email, a.loggedIn = email, true
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Logged in as", email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.loggedIn = false
	fmt.Fprintln(a.out, "Logged out. Local data is kept until another user logs in.")
	return nil
}

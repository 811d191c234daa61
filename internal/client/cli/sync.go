package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timecheck/internal/client/client"
	"github.com/dmitrijs2005/timecheck/internal/netx"
)

// downloadFn is a test seam for fetching a finished export.
var downloadFn = netx.DownloadToFile

func (a *App) Sync(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.syncService.Sync(ctx)
	if err != nil {
		a.noteFailure(ctx, err)
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Synced: sent %d task(s), %d entr(ies); received %d task(s), %d entr(ies)\n",
		res.SentTasks, res.SentEntries, res.ReceivedTasks, res.ReceivedEntries)
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	format := "json"
	if len(args) > 0 {
		format = args[0]
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.syncService.Export(ctx, format)
	if err != nil {
		a.noteFailure(ctx, err)
		return err
	}

	fmt.Fprintln(a.out, "Export ready:", resp.URL)
	fmt.Fprintln(a.out, "Link expires at", resp.ExpiresAt.Local().Format("2006-01-02 15:04:05"))

	if len(args) > 1 {
		n, err := downloadFn(ctx, resp.URL, args[1])
		if err != nil {
			return fmt.Errorf("download export: %w", err)
		}
		fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, args[1])
	}
	return nil
}

// noteFailure reacts to a failed server call: an unreachable server flips the
// indicator offline, a rejected session requires a new login.
func (a *App) noteFailure(ctx context.Context, err error) {
	a.logger.Warn(ctx, "server call failed", "error", err)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable, local changes are kept for the next sync.")
	case errors.Is(err, client.ErrUnauthorized):
		a.loggedIn = false
		fmt.Fprintln(a.out, "Session expired, please login again.")
	}
}

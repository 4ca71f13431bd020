package app

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Server is the HTTP front end run by Serve.
type Server interface {
	Start(addr string) error
	WaitForImports(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Serve runs srv and the autosaver until ctx is done or either fails.
//
// Shutdown waits for running imports and stops the listener before the
// autosaver is stopped, so its final flush includes every accepted change.
func (a *App) Serve(ctx context.Context, srv Server) error {
	saveCtx, stopSaving := context.WithCancel(context.WithoutCancel(ctx))
	defer stopSaving()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Autosaver.Run(saveCtx)
	})

	g.Go(func() error {
		return srv.Start(a.Config.Server.Addr())
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		defer stopSaving()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.WaitForImports(shutdownCtx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

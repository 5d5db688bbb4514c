package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexiconlab/babelex/internal/api"
	"github.com/lexiconlab/babelex/internal/config"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve ontology lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.close()

			handler := api.NewRouter(&api.RouterDeps{
				Log:           a.log,
				Ontology:      b.ontology,
				Health:        b.health,
				Backend:       a.cfg.Backend,
				Version:       config.Version,
				SchemaVersion: b.schemaVersion,
				APIKey:        a.cfg.APIKey.Value(),
				CORSOrigins:   a.cfg.CORSOrigins,
			})

			ln, err := net.Listen("tcp", a.cfg.Addr())
			if err != nil {
				return fmt.Errorf("binding %s: %w", a.cfg.Addr(), err)
			}

			return a.serve(ctx, ln, handler)
		},
	}
}

// serve runs the HTTP server on ln until ctx is done, then shuts it down.
func (a *app) serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	a.log.WithField("addr", ln.Addr().String()).Info("HTTP server started")

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	return nil
}

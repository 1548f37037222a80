// ABOUTME: serve subcommand
// ABOUTME: Runs the HTTP gateway and dashboard until interrupted
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/reicrm/logging"
	"github.com/harperreed/reicrm/web"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the record gateway and web dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return ServeCommand(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// ServeCommand serves the gateway until ctx is cancelled, then drains
// in-flight requests.
func ServeCommand(ctx context.Context, a *app) error {
	gw, err := a.gateway()
	if err != nil {
		return err
	}

	engine, err := web.NewRouter(gw, a.cfg.Airtable.PublicBaseID).Setup(a.cfg.Server.Mode)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.L.Info("gateway listening", "addr", a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gateway stopped: %w", err)
	case <-ctx.Done():
	}

	logging.L.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gateway: %w", err)
	}
	return nil
}

// Package serve implements the serve command, which runs the HTTP server.
package serve

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/wildsnap/wildsnap-go/internal/api"
	"github.com/wildsnap/wildsnap-go/internal/conf"
	"github.com/wildsnap/wildsnap-go/internal/datastore"
	"github.com/wildsnap/wildsnap-go/internal/errors"
	"github.com/wildsnap/wildsnap-go/internal/logging"
	"github.com/wildsnap/wildsnap-go/internal/observability"
	"github.com/wildsnap/wildsnap-go/internal/vision"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the WildSnap HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServer(settings)
		},
	}
}

// RunServer wires the datastore, vision client and API together and blocks
// until the process is signalled to stop.
func RunServer(settings *conf.Settings) error {
	if err := conf.ValidateSettings(settings); err != nil {
		return err
	}

	store := datastore.New(settings)
	if store == nil {
		return errors.Newf("no database output is enabled in the configuration").
			Category(errors.CategoryConfiguration).
			Component("serve").
			Build()
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("Failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	visionClient := vision.NewClient(vision.ConfigFromSettings(settings), metrics)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	controller, err := api.New(e, store, settings, visionClient, metrics)
	if err != nil {
		return err
	}
	defer controller.Shutdown()

	addr := net.JoinHostPort(settings.Server.Host, settings.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logging.Info("Starting HTTP server", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Newf("HTTP server failed: %w", err).
			Category(errors.CategoryNetwork).
			Component("serve").
			Build()
	case sig := <-quit:
		logging.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return errors.Newf("server shutdown failed: %w", err).
			Category(errors.CategoryNetwork).
			Component("serve").
			Build()
	}
	return nil
}

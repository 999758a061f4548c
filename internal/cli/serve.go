package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ironsheep/shilavakya/internal/httpapi"
	"github.com/ironsheep/shilavakya/internal/logger"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the HTTP API used by the browser interface.

Photos are uploaded as multipart form data; the other endpoints take JSON.`,
		Example: `  # Listen on the configured address (SHILAVAKYA_HOST:SHILAVAKYA_PORT)
  shilavakya serve

  # Override the port
  shilavakya serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Port = port
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			addr := a.cfg.ServerAddress()
			server := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewHandler(svc, a.cfg, logger.Logger, a.build.Version),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				logger.WithField("addr", addr).Info("HTTP API available")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				logger.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.WithError(err).Error("Server shutdown failed")
					return err
				}
				logger.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides SHILAVAKYA_PORT)")

	return cmd
}

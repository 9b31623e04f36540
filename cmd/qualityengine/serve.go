package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/slipstream/qualityengine/internal/api"
	"github.com/slipstream/qualityengine/internal/config"
	"github.com/slipstream/qualityengine/internal/logger"
	"github.com/slipstream/qualityengine/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(runCtx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override the configured listen port")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := logger.New(logger.Config{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		Path:            cfg.Logging.Path,
		MaxSizeMB:       cfg.Logging.MaxSizeMB,
		MaxBackups:      cfg.Logging.MaxBackups,
		MaxAgeDays:      cfg.Logging.MaxAgeDays,
		Compress:        cfg.Logging.Compress,
		EnableStreaming: true,
		BufferSize:      cfg.Logging.BufferSize,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting quality engine")

	db, err := openDatabase(ctx, cfg.Database.Path, &log.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		return err
	}

	hub := websocket.NewHub(log.Logger)
	hub.SetSnapshot(func() any { return log.GetRecentLogs() })
	go hub.Run()
	defer hub.Stop()

	// Stream log entries to websocket clients now that the hub is running.
	log.SetBroadcastHub(hub)

	server := api.NewServer(db, hub, cfg, log.Logger)
	server.SetLogsProvider(log)

	if err := server.EnsureDefaults(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure default profiles")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
	return nil
}

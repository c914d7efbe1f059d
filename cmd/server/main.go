package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/dominoes-go/internal/api"
	"github.com/mcoot/dominoes-go/internal/config"
	"github.com/mcoot/dominoes-go/internal/factory"
	"github.com/mcoot/dominoes-go/internal/logging"
	"github.com/mcoot/dominoes-go/internal/realtime"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "dominoes-server",
		Short:        "Run the dominoes API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.dominoes/config.yaml, then configs/config.yaml)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(factory.FromConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		Commands:        app.Commands,
		GameController:  app.GameController,
		RoundController: app.RoundController,
		HubManager:      app.HubManager,
	})

	server := api.NewServer(router, cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go cleanupHubs(ctx, app.HubManager, cfg.Server.HubCleanupInterval, logger)

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
		slog.Int("target_score", cfg.Rules.TargetScore),
	)
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

// cleanupHubs drops hubs whose last client has gone until ctx ends
func cleanupHubs(ctx context.Context, hubs *realtime.HubManager, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := hubs.CleanupEmptyHubs(); removed > 0 {
				logger.Debug("removed idle realtime hubs", slog.Int("count", removed))
			}
		}
	}
}

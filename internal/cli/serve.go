package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rzclan/warbot/internal/config"
	"github.com/rzclan/warbot/internal/factory"
	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/messaging/bridge"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot: event stream, dispatcher and ops server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", slog.String("error", err.Error()))
		return err
	}

	client := bridge.NewClient(cfg.BridgeURL, cfg.BridgeToken, logger)
	app, err := factory.New(cfg, client, logger)
	if err != nil {
		logger.Error("failed to build application", slog.String("error", err.Error()))
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	opsErrCh := make(chan error, 1)
	go func() {
		opsErrCh <- app.OpsServer.Start()
	}()

	app.Notifier.Notify(ctx, "startup", "bot starting")
	logger.Info("bot started",
		slog.String("group", cfg.AllowedGroupID),
		slog.String("storage", cfg.StorageType),
	)

	streamErrCh := make(chan error, 1)
	go func() {
		streamErrCh <- client.Stream(ctx, func(ev messaging.Event) {
			app.Dispatcher.HandleEvent(ctx, ev)
		})
	}()

	select {
	case err := <-opsErrCh:
		if err != nil {
			logger.Error("ops server error", slog.String("error", err.Error()))
			return err
		}
	case err := <-streamErrCh:
		if err != nil && ctx.Err() == nil {
			logger.Error("event stream error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	app.Notifier.Notify(context.Background(), "shutdown", "bot stopping")
	if err := app.OpsServer.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("bot stopped")
	return nil
}

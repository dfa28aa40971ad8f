package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/i2p-business/i2p/internal/config"
	"github.com/i2p-business/i2p/internal/initialization"
	"github.com/i2p-business/i2p/internal/server"
	"github.com/i2p-business/i2p/internal/version"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the advisor HTTP service",
		Long:  `Start the HTTP service that serves the chat page and answers POST /chat requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return runServe(addr)
		},
	}

	cmd.Flags().String("addr", "", "Override HTTP listen address")

	return cmd
}

func runServe(addr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if addr != "" {
		cfg.HTTPAddress = addr
	}

	log.Info().
		Str("version", version.GetVersion()).
		Str("provider", cfg.InferenceProvider).
		Str("session_store", cfg.SessionStore).
		Msg("Starting advisor service")

	deps, err := initialization.BuildDependencies(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()

		if err := deps.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("Failed to close session store")
		}
	}()

	sweeper, err := initialization.NewSessionSweeper(deps.Store, cfg.SessionSweepSchedule, cfg.SessionTTL)
	if err != nil {
		return err
	}

	if sweeper != nil {
		sweeper.Start()
		defer sweeper.Stop()
	}

	app := server.NewHTTPServer(ctx, server.HTTPServerDependencies{
		StaticDir:         cfg.StaticDir,
		IndexFile:         cfg.IndexFile,
		ChatController:    deps.ChatController,
		SessionController: deps.SessionController,
		TokenIssuer:       deps.TokenIssuer,
	})

	log.Info().Str("address", cfg.HTTPAddress).Msg("HTTP server listening")

	if err := app.Listen(cfg.HTTPAddress, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	}); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}

	log.Info().Msg("Advisor service stopped")
	return nil
}

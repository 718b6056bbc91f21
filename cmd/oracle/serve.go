package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MJE43/roulette-oracle-desktop/internal/applog"
	"github.com/MJE43/roulette-oracle-desktop/internal/config"
	"github.com/MJE43/roulette-oracle-desktop/internal/livehttp"
	"github.com/MJE43/roulette-oracle-desktop/internal/session"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ingest and prediction HTTP server without the desktop UI",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "Listen port (overrides config)")
	cmd.Flags().String("token", "", "Required X-Ingest-Token (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Ingest.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("token") {
		cfg.Ingest.Token, _ = cmd.Flags().GetString("token")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	applog.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := livehttp.New(session.NewHistory(cfg.MaxSpins), cfg.Ingest.Port, cfg.Ingest.Token, nil)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

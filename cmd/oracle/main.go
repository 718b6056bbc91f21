package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MJE43/roulette-oracle-desktop/internal/applog"
	"github.com/MJE43/roulette-oracle-desktop/internal/config"
	"github.com/MJE43/roulette-oracle-desktop/internal/version"
)

func main() {
	applog.Setup(config.DefaultLogLevel, true)

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oracle",
		Short:         "Roulette spin analyzer",
		Long:          "Analyze roulette spin histories, simulate provably-fair spins, or run the ingest server headless.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath()+")")

	root.AddCommand(newAnalyzeCmd(), newSimulateCmd(), newServeCmd())
	return root
}

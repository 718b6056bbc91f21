package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MJE43/roulette-oracle-desktop/internal/games"
	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate provably-fair spins and analyze them",
		Long: `Draws spins from the HMAC-SHA256 stream for the given seed pair, starting
at nonce 1, then prints the recommendation for the resulting history. Fresh
random seeds are used when none are given and revealed at the end.`,
		Args: cobra.NoArgs,
		RunE: runSimulate,
	}
	cmd.Flags().Int("count", 10, "Number of spins to draw")
	cmd.Flags().String("server-seed", "", "Server seed (random if empty)")
	cmd.Flags().String("client-seed", "", "Client seed (random if empty)")
	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	count, _ := cmd.Flags().GetInt("count")
	server, _ := cmd.Flags().GetString("server-seed")
	client, _ := cmd.Flags().GetString("client-seed")
	if count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", count)
	}

	if server == "" || client == "" {
		fresh, err := games.NewSeeds()
		if err != nil {
			return err
		}
		if server == "" {
			server = fresh.Server
		}
		if client == "" {
			client = fresh.Client
		}
	}

	sim := games.NewSimulator(games.Seeds{Server: server, Client: client})
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "server seed hash: %s\nclient seed: %s\n", sim.ServerSeedHash(), client)

	history := make([]predictor.SpinResult, 0, count)
	for i := 0; i < count; i++ {
		o := sim.Next()
		fmt.Fprintf(out, "#%-4d %2d %-5s %.8f\n", o.Nonce, o.Result.Value, o.Result.Color, o.RawFloat)
		history = append([]predictor.SpinResult{o.Result}, history...)
	}

	fmt.Fprintf(out, "server seed: %s\n", server)
	fmt.Fprintln(out, predictor.Analyze(history))
	return nil
}

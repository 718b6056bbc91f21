package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MJE43/roulette-oracle-desktop/internal/predictor"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Print the recommendation for a spin history",
		Long: `Reads a JSON spin history, most recent first, either as a bare array
or as {"history": [...]}, and prints the recommendation. Reads stdin when
the file is "-" or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().Bool("explain", false, "Also print the rule that matched")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	explain, _ := cmd.Flags().GetBool("explain")

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer f.Close()
		in = f
	}

	history, err := readHistory(in)
	if err != nil {
		return err
	}

	v := predictor.Evaluate(history)
	out := cmd.OutOrStdout()
	if explain {
		fmt.Fprintf(out, "rule: %s\nspins: %d\n", v.Rule, len(history))
	}
	fmt.Fprintln(out, v.Message)
	return nil
}

// readHistory accepts a bare array or a {"history": [...]} object.
func readHistory(r io.Reader) ([]predictor.SpinResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var history []predictor.SpinResult
	if data[0] == '[' {
		err = json.Unmarshal(data, &history)
	} else {
		var body struct {
			History []predictor.SpinResult `json:"history"`
		}
		err = json.Unmarshal(data, &body)
		history = body.History
	}
	if err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}

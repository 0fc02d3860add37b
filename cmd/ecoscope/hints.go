package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/ecoscope/internal/config"
	"github.com/jask/ecoscope/internal/prefs"
)

func hintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hints",
		Short: "Manage the suggested queries on the query screen",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the current hints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			for _, h := range resolveHints(cfg) {
				fmt.Fprintln(cmd.OutOrStdout(), h)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Append a hint",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			hints, err := prefs.AddHint(cfg.UI.Hints, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d hints saved\n", len(hints))
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Return to the configured hints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prefs.ResetHints(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "hints reset")
			return nil
		},
	}

	cmd.AddCommand(list, add, reset)
	return cmd
}

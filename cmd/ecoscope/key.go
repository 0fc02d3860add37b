package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/ecoscope/internal/secrets"
)

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Store provider API keys outside the config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set PROVIDER KEY",
			Short: "Store a key (e.g. geocoder)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := secrets.StoreProviderKey(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s key stored\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete PROVIDER",
			Short: "Remove a stored key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := secrets.DeleteProviderKey(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s key deleted\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

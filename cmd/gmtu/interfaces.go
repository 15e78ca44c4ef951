package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewInterfacesCmd creates the `gmtu interfaces` subcommand.
func NewInterfacesCmd(r *runner) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "interfaces",
		Short: "List local network interfaces and their MTU",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ifaces, err := r.manager().List()
			if err != nil {
				return fmt.Errorf("failed to list interfaces: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ifaces)
			}

			for _, i := range ifaces {
				fmt.Fprintln(cmd.OutOrStdout(), i.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

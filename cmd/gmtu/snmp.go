package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/snmp"
	"github.com/spf13/cobra"
)

// NewSNMPCmd creates the `gmtu snmp` subcommand.
func NewSNMPCmd() *cobra.Command {
	var (
		community  string
		port       uint16
		timeout    time.Duration
		ifaceName  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "snmp <host>",
		Short: "Show the interface MTUs configured on a remote device",
		Long: `Walk the IF-MIB interface table of a router or switch over SNMP v2c and
print each interface's configured MTU. Useful to compare a gateway's settings
with the path MTU gmtu discovers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := snmp.DefaultConfig(args[0])
			cfg.Community = community
			cfg.Port = port
			cfg.Timeout = timeout

			ctx, cancel := context.WithTimeout(context.Background(), 4*timeout)
			defer cancel()

			ifaces, err := snmp.ListInterfaces(ctx, cfg)
			if err != nil {
				return err
			}

			if ifaceName != "" {
				found, ok := snmp.Lookup(ifaces, ifaceName)
				if !ok {
					return fmt.Errorf("interface %q not found on %s", ifaceName, args[0])
				}
				ifaces = []snmp.RemoteInterface{found}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ifaces)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-28s %-6s %s\n", "Index", "Interface", "MTU", "Status")
			for _, i := range ifaces {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-28s %-6d %s\n", i.Index, i.Name, i.MTU, i.OperStatus)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&community, "community", "c", "public", "SNMP v2c community")
	cmd.Flags().Uint16Var(&port, "port", 161, "SNMP port")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "SNMP request timeout")
	cmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "Only show this interface")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

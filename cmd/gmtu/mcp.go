package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hervehildenbrand/gmtu/internal/config"
	"github.com/hervehildenbrand/gmtu/internal/export"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewMCPCmd creates the `gmtu mcp` subcommand.
func NewMCPCmd(version string, r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve MTU discovery tools over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
discover_mtu and list_interfaces tools. No tool changes interface settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s := newMCPServer(version, r)
			return server.NewStdioServer(s).Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// newMCPServer registers the gmtu tools.
func newMCPServer(version string, r *runner) *server.MCPServer {
	s := server.NewMCPServer("gmtu", version, server.WithToolCapabilities(false))

	discover := mcp.NewTool("discover_mtu",
		mcp.WithDescription("Discover the path MTU to an IPv4 target by binary search over Don't Fragment pings."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Hostname or IPv4 address")),
		mcp.WithNumber("floor", mcp.Description("Smallest payload size to consider")),
		mcp.WithNumber("ceiling", mcp.Description("Largest payload size to consider")),
		mcp.WithNumber("overhead", mcp.Description("Header bytes added to the payload to get the MTU")),
		mcp.WithString("mechanism", mcp.Description("Probe mechanism"), mcp.Enum("command", "socket")),
	)
	s.AddTool(discover, r.handleDiscover)

	list := mcp.NewTool("list_interfaces",
		mcp.WithDescription("List local network interfaces with their current MTU."),
	)
	s.AddTool(list, r.handleListInterfaces)

	return s
}

func (r *runner) handleDiscover(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := config.DefaultConfig()
	cfg.Target = target
	cfg.Floor = req.GetInt("floor", cfg.Floor)
	cfg.Ceiling = req.GetInt("ceiling", cfg.Ceiling)
	cfg.Overhead = req.GetInt("overhead", cfg.Overhead)
	cfg.Mechanism = req.GetString("mechanism", cfg.Mechanism)
	if err := cfg.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := r.prepare(cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// A failed search still returns its probes; the error is in the report.
	if err := s.run(ctx, nil); err != nil {
		logrus.WithError(err).WithField("target", target).Debug("mcp discovery failed")
	}

	return jsonResult(export.Convert(s.report))
}

func (r *runner) handleListInterfaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ifaces, err := r.manager().List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list interfaces: %v", err)), nil
	}
	return jsonResult(ifaces)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/fyrsmithlabs/addup/internal/mcp"
	"github.com/fyrsmithlabs/addup/internal/metrics"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Serve the sum_numbers and check_token tools over the Model Context Protocol
on stdin/stdout. Logs go to stderr.

Example client configuration:
  {"command": "addup", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := mcpserver.NewServer(&mcpserver.Config{
				Name:      "addup",
				Version:   version,
				Logger:    a.logger.Underlying().Named("mcp"),
				Telemetry: a.tel,
				Metrics:   metrics.New(),
			}, a.settings(cmd))
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	addSettingsFlags(cmd)
	return cmd
}

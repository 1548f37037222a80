// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the gateway operations as MCP tools on stdio
package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/harperreed/reicrm/logging"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gw, err := a.gateway()
			if err != nil {
				return err
			}

			server := mcp.NewServer(&mcp.Implementation{
				Name:    "reicrm",
				Version: Version,
			}, nil)
			gw.MCPTools().Register(server)

			logging.L.Info("starting MCP server")
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

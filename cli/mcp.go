// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, svc *crm.Service, logger *log.Logger, version string) error {
	logger.Info("Starting CRM MCP Server...", "version", version)

	server := handlers.NewServer(svc, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}

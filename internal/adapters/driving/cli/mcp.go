package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes interview tools (start_interview, answer_question,
end_interview), resolve_treatment and rank_symptoms, plus the disease,
symptom and session resources.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start a streamable HTTP server instead.

Examples:
  # Stdio mode (default)
  medexpert mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  medexpert mcp serve --port 8080

  # Abandon interviews left unanswered for ten minutes
  medexpert mcp serve --idle-timeout 10m

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "medexpert": {
        "command": "/path/to/medexpert",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Duration("idle-timeout", mcp.DefaultIdleTimeout, "abandon interviews idle this long (0 = never)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer(idle time.Duration) (*mcp.Server, error) {
	ports := &mcp.Ports{
		Interview: interviewService,
		Treatment: treatmentService,
		Catalog:   catalogService,
		History:   historyService,
	}
	return mcp.NewServer(ports, mcp.WithIdleTimeout(idle))
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	idle, err := cmd.Flags().GetDuration("idle-timeout")
	if err != nil {
		return fmt.Errorf("getting idle-timeout flag: %w", err)
	}

	server, err := newMCPServer(idle)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

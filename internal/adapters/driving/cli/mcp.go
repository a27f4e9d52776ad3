package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/mcp"
)

const maxPort = 65535

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose documents to AI assistants over MCP",
	Long:  `Run docchat as a Model Context Protocol server for assistants such as Claude Desktop.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Serve the retrieve, ask, list_documents and upload_document tools plus
document resources. Every call acts as the user logged in with 'docchat login'.

Stdio is the default transport. With --port the server speaks streamable
HTTP on that port instead; the listen address is printed to stderr.

Examples:
  docchat mcp serve
  docchat mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "docchat": {
        "command": "/path/to/docchat",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port (0 serves stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > maxPort {
		return fmt.Errorf("invalid port %d: must be between 1 and %d", mcpPort, maxPort)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Auth:      authService,
		Retrieval: retrievalService,
		Chat:      chatService,
		Document:  documentService,
		Ingestion: ingestionService,
		Settings:  settingsService,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mcpPort == 0 {
		return server.Run(ctx)
	}
	return serveMCPHTTP(ctx, cmd, server)
}

// serveMCPHTTP keeps stdout clean; only the address goes to stderr.
func serveMCPHTTP(ctx context.Context, cmd *cobra.Command, server *mcp.Server) error {
	addr := fmt.Sprintf("127.0.0.1:%d", mcpPort)
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server (%s) listening on http://%s with tools: %v\n",
		server.Version(), addr, server.Tools())
	return server.RunHTTP(ctx, addr)
}

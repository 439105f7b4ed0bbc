package cli

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve proofcheck to MCP clients",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose compare and locate to Model Context Protocol clients.

Tools: compare_documents, locate_terms, resolve_location, list_runs.
Resources: proofcheck://runs.

Without --port the server speaks JSON-RPC on stdio, which is what desktop
clients launch:

  {"mcpServers": {"proofcheck": {"command": "proofcheck", "args": ["mcp", "serve"]}}}

With --port it serves streamable HTTP, bound to localhost unless --host says
otherwise:

  proofcheck mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "127.0.0.1", "HTTP bind address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if compareService == nil {
		return errors.New("compare service not configured")
	}
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("invalid port %d", mcpPort)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Compare:      compareService,
		Locate:       locateService,
		History:      historyService,
		Capabilities: capabilityService,
	})
	if err != nil {
		return err
	}

	if mcpPort == 0 {
		return server.Run(cmd.Context())
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort)))
	if err != nil {
		server.Close()
		return fmt.Errorf("listening: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", ln.Addr())
	return server.Serve(cmd.Context(), ln)
}

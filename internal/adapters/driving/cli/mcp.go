package cli

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curricula/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus to MCP clients",
	Long: `Serve the corpus to AI assistants over the Model Context Protocol.

The server offers the read-only tools search, smart_search,
compare_programs and status, and the resources curricula://status,
curricula://runs and curricula://programs/{name}.

Without --port it talks JSON-RPC on stdin/stdout, which is what desktop
assistants expect:

  {"mcpServers": {"curricula": {"command": "curricula", "args": ["mcp", "serve"]}}}

With --port it serves streamable HTTP on that port, e.g. for the MCP
Inspector:

  curricula mcp serve --port 8080`,
	RunE: runMCPServe,
}

var errPortRange = errors.New("port must be between 0 and 65535")

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().String("host", "localhost", "interface to bind with --port")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	port, _ := flags.GetInt("port")
	host, _ := flags.GetString("host")
	if port < 0 || port > 65535 {
		return errPortRange
	}

	server, err := mcp.NewServer(&mcp.Ports{Search: searchService, Ingest: ingestService})
	if err != nil {
		return err
	}

	if port == 0 {
		return server.Run(cmd.Context())
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

// dexd MCP server.
// Exposes the dexd API tools over MCP stdio transport.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcptools "github.com/Selora-Finance/interface-sub000/internal/mcp"
)

func main() {
	dexdURL := os.Getenv("DEXD_URL")
	if dexdURL == "" {
		dexdURL = "http://localhost:3001"
	}

	s := server.NewMCPServer(
		"dexd",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	client := mcptools.NewClient(dexdURL)
	mcptools.RegisterTools(s, client)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

package cli

import (
	"fmt"

	"github.com/driftline/collective/internal/config"
	"github.com/driftline/collective/internal/mcptools"
	"github.com/driftline/collective/internal/memory"
	"github.com/driftline/collective/internal/persist"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server (stdio transport)",
	Long:  "Exposes collective memory as MCP tools (echo_remember, echo_recall, echo_wisdom, echo_health) so AI agents can use it directly.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	store, err := memory.New(cfg.MemoryOptions())
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	svc := memory.NewService(store, persist.LogSink{})
	svc.Start()
	defer svc.Stop()

	s := server.NewMCPServer(
		"collective",
		VersionString(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	remember := mcptools.NewRememberTool(store)
	s.AddTool(remember.Definition(), remember.Handle)

	recall := mcptools.NewRecallTool(store)
	s.AddTool(recall.Definition(), recall.Handle)

	wisdom := mcptools.NewWisdomTool(store)
	s.AddTool(wisdom.Definition(), wisdom.Handle)

	health := mcptools.NewHealthTool(store)
	s.AddTool(health.Definition(), health.Handle)

	return server.ServeStdio(s)
}

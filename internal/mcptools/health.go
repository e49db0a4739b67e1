package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftline/collective/internal/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// HealthTool handles the echo_health MCP tool.
type HealthTool struct {
	store *memory.Store
}

// NewHealthTool creates a HealthTool over the given store.
func NewHealthTool(store *memory.Store) *HealthTool {
	return &HealthTool{store: store}
}

// Definition returns the MCP tool definition for echo_health.
func (t *HealthTool) Definition() mcp.Tool {
	return mcp.NewTool("echo_health",
		mcp.WithDescription(
			"Report collective-memory health: echo counts, per-tier membership, and the empty-content ratio.",
		),
	)
}

// Handle processes the echo_health tool call.
func (t *HealthTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h := t.store.Health()

	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", h.Health)
	fmt.Fprintf(&b, "Total echoes: %d (%d empty, %.1f%%)\n", h.TotalEchoes, h.EmptyEchoes, h.EmptyPct)
	fmt.Fprintf(&b, "Unique authors: %d\n", h.UniqueAuthors)
	b.WriteString("Tiers:\n")
	for _, tier := range memory.Tiers {
		fmt.Fprintf(&b, "  %-9s %d\n", tier.String(), h.Tiers[tier.String()])
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Package mcptools exposes the collective-memory store as MCP tools so
// AI agents can remember and recall echoes over stdio.
package mcptools

import (
	"context"
	"fmt"

	"github.com/driftline/collective/internal/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// RememberTool handles the echo_remember MCP tool.
type RememberTool struct {
	store *memory.Store
}

// NewRememberTool creates a RememberTool over the given store.
func NewRememberTool(store *memory.Store) *RememberTool {
	return &RememberTool{store: store}
}

// Definition returns the MCP tool definition for echo_remember.
func (t *RememberTool) Definition() mcp.Tool {
	return mcp.NewTool("echo_remember",
		mcp.WithDescription(
			"Record an echo in collective memory. Echoes age through retention tiers and "+
				"the least significant are forgotten under capacity pressure, so weight matters.",
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Text to remember"),
		),
		mcp.WithString("author_id",
			mcp.Required(),
			mcp.Description("Identifier of whoever produced the echo"),
		),
		mcp.WithString("type",
			mcp.Description("Echo type: interaction, emotion, wisdom, memory, dream, question, revelation (default: memory)"),
		),
		mcp.WithNumber("weight",
			mcp.Description("Initial significance weight, capped at 10.0 (default: 1.0)"),
		),
	)
}

// Handle processes the echo_remember tool call.
func (t *RememberTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	authorID := req.GetString("author_id", "")
	if authorID == "" {
		return mcp.NewToolResultError("'author_id' is required"), nil
	}

	typ := memory.TypeMemory
	if v := req.GetString("type", ""); v != "" {
		parsed, err := memory.ParseEchoType(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		typ = parsed
	}

	echo := t.store.Add(
		req.GetString("content", ""),
		authorID,
		typ,
		req.GetFloat("weight", 1.0),
		nil,
	)

	return mcp.NewToolResultText(fmt.Sprintf("Echo recorded (%s)\nID: %s", echo.Type, echo.ID)), nil
}

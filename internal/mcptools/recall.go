package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftline/collective/internal/memory"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecallTool handles the echo_recall MCP tool.
type RecallTool struct {
	store *memory.Store
}

// NewRecallTool creates a RecallTool over the given store.
func NewRecallTool(store *memory.Store) *RecallTool {
	return &RecallTool{store: store}
}

// Definition returns the MCP tool definition for echo_recall.
func (t *RecallTool) Definition() mcp.Tool {
	return mcp.NewTool("echo_recall",
		mcp.WithDescription(
			"Search collective memory. Results come back most significant first. "+
				"Scope narrows to a tier if given, else to an author if given, else the whole store.",
		),
		mcp.WithString("query",
			mcp.Description("Substring to match against echo content"),
		),
		mcp.WithString("author_id",
			mcp.Description("Restrict to one author's echoes"),
		),
		mcp.WithString("type",
			mcp.Description("Filter by echo type"),
		),
		mcp.WithString("tier",
			mcp.Description("Restrict to one tier: immediate, recent, deep, ancient, eternal"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results (default: 10)"),
		),
	)
}

// Handle processes the echo_recall tool call.
func (t *RecallTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := memory.SearchOpts{
		Query:    req.GetString("query", ""),
		AuthorID: req.GetString("author_id", ""),
		Limit:    int(req.GetFloat("limit", 0)),
	}

	if v := req.GetString("type", ""); v != "" {
		typ, err := memory.ParseEchoType(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Type = typ
	}
	if v := req.GetString("tier", ""); v != "" {
		tier, err := memory.ParseTier(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Tier = tier
	}

	echoes := t.store.Search(opts)
	if len(echoes) == 0 {
		return mcp.NewToolResultText("No echoes found."), nil
	}
	return mcp.NewToolResultText(formatEchoes(echoes)), nil
}

// WisdomTool handles the echo_wisdom MCP tool.
type WisdomTool struct {
	store *memory.Store
}

// NewWisdomTool creates a WisdomTool over the given store.
func NewWisdomTool(store *memory.Store) *WisdomTool {
	return &WisdomTool{store: store}
}

// Definition returns the MCP tool definition for echo_wisdom.
func (t *WisdomTool) Definition() mcp.Tool {
	return mcp.NewTool("echo_wisdom",
		mcp.WithDescription(
			"Crystallize wisdom: the most significant wisdom and revelation echoes across all tiers.",
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum echoes to return (default: 5)"),
		),
	)
}

// Handle processes the echo_wisdom tool call.
func (t *WisdomTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wisdom := t.store.CrystallizeWisdom(int(req.GetFloat("count", 5)))
	if len(wisdom) == 0 {
		return mcp.NewToolResultText("No wisdom has crystallized yet."), nil
	}
	return mcp.NewToolResultText(formatEchoes(wisdom)), nil
}

func formatEchoes(echoes []memory.Echo) string {
	var b strings.Builder
	for i, e := range echoes {
		fmt.Fprintf(&b, "%d. [%s] %s\n   id=%s author=%s weight=%.2f resonance=%d\n",
			i+1, e.Type, e.Content, e.ID, e.AuthorID, e.Weight, e.Resonance)
	}
	return b.String()
}

package memtools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// ContextTool handles the get_context MCP tool.
type ContextTool struct {
	store *memory.Store
}

// NewContextTool creates a ContextTool.
func NewContextTool(store *memory.Store) *ContextTool {
	return &ContextTool{store: store}
}

// Definition returns the MCP tool definition for get_context.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("get_context",
		mcp.WithDescription(
			"Get the full memory context for this session: every problem trail with its complete "+
				"approach history, plus this session's decisions. Call at the start of work to "+
				"recover where things stand.",
		),
	)
}

// Handle processes the get_context tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(t.store.FormatContext()), nil
}

package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// StatsTool handles the memory_stats MCP tool.
type StatsTool struct {
	store *memory.Store
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(store *memory.Store) *StatsTool {
	return &StatsTool{store: store}
}

// Definition returns the MCP tool definition for memory_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("memory_stats",
		mcp.WithDescription(
			"Show aggregate memory statistics for this project: decision count, session count, "+
				"and open/resolved problem counts across all sessions.",
		),
	)
}

// Handle processes the memory_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := t.store.SessionIDs()

	var open, resolved int
	for _, id := range sessions {
		for _, p := range t.store.ProblemsFor(id) {
			if p.Status == memory.StatusResolved {
				resolved++
			} else {
				open++
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project %s\n", t.store.ProjectKey())
	fmt.Fprintf(&b, "- Decisions: %d\n", len(t.store.Decisions()))
	fmt.Fprintf(&b, "- Sessions: %d\n", len(sessions))
	fmt.Fprintf(&b, "- Problems: %d open, %d resolved\n", open, resolved)

	return mcp.NewToolResultText(b.String()), nil
}

package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// SearchDecisionsTool handles the search_decisions MCP tool.
type SearchDecisionsTool struct {
	store *memory.Store
}

// NewSearchDecisionsTool creates a SearchDecisionsTool.
func NewSearchDecisionsTool(store *memory.Store) *SearchDecisionsTool {
	return &SearchDecisionsTool{store: store}
}

// Definition returns the MCP tool definition for search_decisions.
func (t *SearchDecisionsTool) Definition() mcp.Tool {
	return mcp.NewTool("search_decisions",
		mcp.WithDescription(
			"Search the project's recorded decisions across all sessions. Matches a substring "+
				"against topic, chosen option, rationale, and option names/descriptions; an optional "+
				"tag filter keeps decisions sharing at least one tag. Call before making an "+
				"architectural choice — the decision may already exist.",
		),
		mcp.WithString("query",
			mcp.Description("Free-text substring to match (omit to match everything)"),
		),
		mcp.WithString("tags",
			mcp.Description(`Optional JSON array of tags, e.g. ["storage"]`),
		),
	)
}

// Handle processes the search_decisions tool call.
func (t *SearchDecisionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	tags, err := stringSlice(req.GetString("tags", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'tags' must be a JSON array of strings: %v", err)), nil
	}

	matches := t.store.SearchDecisions(query, tags)
	if len(matches) == 0 {
		return mcp.NewToolResultText("No decisions matched."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d decision(s):\n\n", len(matches))
	for _, d := range matches {
		fmt.Fprintf(&b, "- %s: %s — %s", d.Topic, d.Chosen, d.Rationale)
		if len(d.Tags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(d.Tags, ", "))
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

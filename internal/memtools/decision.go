package memtools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// RecordDecisionTool handles the record_decision MCP tool.
type RecordDecisionTool struct {
	store *memory.Store
}

// NewRecordDecisionTool creates a RecordDecisionTool.
func NewRecordDecisionTool(store *memory.Store) *RecordDecisionTool {
	return &RecordDecisionTool{store: store}
}

// Definition returns the MCP tool definition for record_decision.
func (t *RecordDecisionTool) Definition() mcp.Tool {
	return mcp.NewTool("record_decision",
		mcp.WithDescription(
			"Record a technical decision with the alternatives that were considered and the rationale. "+
				"Decisions are project-scoped and survive across sessions — call this whenever a choice "+
				"with alternatives gets settled.",
		),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("What the decision is about (e.g. 'cache backend')"),
		),
		mcp.WithString("options",
			mcp.Required(),
			mcp.Description(`JSON array of considered options, e.g. [{"name":"A","description":"in-memory"},{"name":"B","description":"disk-backed"}]`),
		),
		mcp.WithString("chosen",
			mcp.Required(),
			mcp.Description("Name of the chosen option"),
		),
		mcp.WithString("rationale",
			mcp.Required(),
			mcp.Description("Why this option won"),
		),
		mcp.WithString("tags",
			mcp.Description(`Optional JSON array of free-form tags, e.g. ["storage","performance"]`),
		),
	)
}

// Handle processes the record_decision tool call.
func (t *RecordDecisionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "")
	chosen := req.GetString("chosen", "")
	rationale := req.GetString("rationale", "")
	optionsRaw := req.GetString("options", "")

	if topic == "" {
		return mcp.NewToolResultError("'topic' is required"), nil
	}
	if optionsRaw == "" {
		return mcp.NewToolResultError("'options' is required"), nil
	}
	if chosen == "" {
		return mcp.NewToolResultError("'chosen' is required"), nil
	}
	if rationale == "" {
		return mcp.NewToolResultError("'rationale' is required"), nil
	}

	var options []memory.Option
	if err := json.Unmarshal([]byte(optionsRaw), &options); err != nil {
		return mcp.NewToolResultError(
			fmt.Sprintf("'options' must be a JSON array of {name, description} objects: %v", err),
		), nil
	}

	tags, err := stringSlice(req.GetString("tags", ""))
	if err != nil {
		return mcp.NewToolResultError(
			fmt.Sprintf("'tags' must be a JSON array of strings: %v", err),
		), nil
	}

	d := memory.NewDecision(t.store.SessionID(), topic, options, chosen, rationale, tags)
	if err := t.store.AddDecision(d); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record decision: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Decision logged: %q → %s", topic, chosen)), nil
}

package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// OpenProblemTool handles the open_problem MCP tool.
type OpenProblemTool struct {
	store *memory.Store
}

// NewOpenProblemTool creates an OpenProblemTool.
func NewOpenProblemTool(store *memory.Store) *OpenProblemTool {
	return &OpenProblemTool{store: store}
}

// Definition returns the MCP tool definition for open_problem.
func (t *OpenProblemTool) Definition() mcp.Tool {
	return mcp.NewTool("open_problem",
		mcp.WithDescription(
			"Open a troubleshooting trail for a problem you are investigating. "+
				"Log each attempt with log_approach and finish with close_problem — the trail "+
				"survives context compaction.",
		),
		mcp.WithString("problem",
			mcp.Required(),
			mcp.Description("Description of the problem (e.g. 'X fails intermittently')"),
		),
	)
}

// Handle processes the open_problem tool call.
func (t *OpenProblemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description := req.GetString("problem", "")
	if description == "" {
		return mcp.NewToolResultError("'problem' is required"), nil
	}

	p := memory.NewProblem(t.store.SessionID(), description)
	if err := t.store.AddProblem(p); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open problem: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Problem opened: %q\nID: %s", description, p.ID)), nil
}

// ─── LogApproachTool ─────────────────────────────────────────────────────────

// LogApproachTool handles the log_approach MCP tool.
type LogApproachTool struct {
	store *memory.Store
}

// NewLogApproachTool creates a LogApproachTool.
func NewLogApproachTool(store *memory.Store) *LogApproachTool {
	return &LogApproachTool{store: store}
}

// Definition returns the MCP tool definition for log_approach.
func (t *LogApproachTool) Definition() mcp.Tool {
	return mcp.NewTool("log_approach",
		mcp.WithDescription(
			"Log one attempt against an open problem: what was tried, whether it worked, and details. "+
				"Failed approaches are as valuable as successful ones — they stop future sessions "+
				"from repeating them.",
		),
		mcp.WithString("problem_id",
			mcp.Required(),
			mcp.Description("ID returned by open_problem"),
		),
		mcp.WithString("approach",
			mcp.Required(),
			mcp.Description("What was tried (e.g. 'add retry')"),
		),
		mcp.WithString("outcome",
			mcp.Required(),
			mcp.Description("Result: failed or succeeded"),
		),
		mcp.WithString("details",
			mcp.Required(),
			mcp.Description("What happened (e.g. 'still flaky')"),
		),
	)
}

// Handle processes the log_approach tool call.
func (t *LogApproachTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	problemID := req.GetString("problem_id", "")
	approach := req.GetString("approach", "")
	outcome := req.GetString("outcome", "")
	details := req.GetString("details", "")

	if problemID == "" {
		return mcp.NewToolResultError("'problem_id' is required"), nil
	}
	if approach == "" {
		return mcp.NewToolResultError("'approach' is required"), nil
	}
	if outcome != memory.OutcomeFailed && outcome != memory.OutcomeSucceeded {
		return mcp.NewToolResultError("'outcome' must be failed or succeeded"), nil
	}

	entry := memory.NewApproach(approach, outcome, details)
	updated, err := t.store.UpdateProblem(problemID, func(p *memory.Problem) {
		p.Approaches = append(p.Approaches, entry)
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Approach logged (%s) on %q — %d so far", outcome, updated.Problem, len(updated.Approaches),
	)), nil
}

// ─── CloseProblemTool ────────────────────────────────────────────────────────

// CloseProblemTool handles the close_problem MCP tool.
type CloseProblemTool struct {
	store *memory.Store
}

// NewCloseProblemTool creates a CloseProblemTool.
func NewCloseProblemTool(store *memory.Store) *CloseProblemTool {
	return &CloseProblemTool{store: store}
}

// Definition returns the MCP tool definition for close_problem.
func (t *CloseProblemTool) Definition() mcp.Tool {
	return mcp.NewTool("close_problem",
		mcp.WithDescription(
			"Mark a problem resolved with its root cause or fix. Call this as soon as an "+
				"investigation concludes so the trail ends with an answer.",
		),
		mcp.WithString("problem_id",
			mcp.Required(),
			mcp.Description("ID returned by open_problem"),
		),
		mcp.WithString("resolution",
			mcp.Required(),
			mcp.Description("What resolved it (e.g. 'root cause: race in Y')"),
		),
	)
}

// Handle processes the close_problem tool call.
func (t *CloseProblemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	problemID := req.GetString("problem_id", "")
	resolution := req.GetString("resolution", "")

	if problemID == "" {
		return mcp.NewToolResultError("'problem_id' is required"), nil
	}
	if resolution == "" {
		return mcp.NewToolResultError("'resolution' is required"), nil
	}

	updated, err := t.store.UpdateProblem(problemID, func(p *memory.Problem) {
		p.Status = memory.StatusResolved
		p.Resolution = resolution
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Problem resolved: %q\nApproaches: %d (%d failed)",
		updated.Problem, len(updated.Approaches), updated.FailedCount(),
	)), nil
}

// ─── ListProblemsTool ────────────────────────────────────────────────────────

// ListProblemsTool handles the list_problems MCP tool.
type ListProblemsTool struct {
	store *memory.Store
}

// NewListProblemsTool creates a ListProblemsTool.
func NewListProblemsTool(store *memory.Store) *ListProblemsTool {
	return &ListProblemsTool{store: store}
}

// Definition returns the MCP tool definition for list_problems.
func (t *ListProblemsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_problems",
		mcp.WithDescription(
			"List this session's problem trails, optionally filtered by status.",
		),
		mcp.WithString("status",
			mcp.Description("Filter: open, resolved, or all (default: all)"),
		),
	)
}

// Handle processes the list_problems tool call.
func (t *ListProblemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", memory.StatusAll)
	if status != memory.StatusAll && status != memory.StatusOpen && status != memory.StatusResolved {
		return mcp.NewToolResultError("'status' must be open, resolved, or all"), nil
	}

	problems := t.store.FilterProblems(status)
	if len(problems) == 0 {
		return mcp.NewToolResultText("No problems recorded for this session."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d problem(s):\n\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(&b, "[%s] %s (ID: %s, %d approaches)\n",
			strings.ToUpper(p.Status), p.Problem, p.ID, len(p.Approaches))
		if p.Status == memory.StatusResolved {
			fmt.Fprintf(&b, "  Resolution: %s\n", p.Resolution)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

package memtools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestStore creates a memory.Store in temp directories for testing.
func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.New(memory.Config{DataDir: t.TempDir()}, t.TempDir(), "sess-test")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// openTestProblem opens a problem through the tool and returns its id.
func openTestProblem(t *testing.T, store *memory.Store, description string) string {
	t.Helper()
	tool := NewOpenProblemTool(store)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"problem": description,
	}))
	if err != nil {
		t.Fatalf("open_problem handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("open_problem failed: %s", resultText(res))
	}

	problems := store.Problems()
	if len(problems) == 0 {
		t.Fatal("open_problem stored nothing")
	}
	id := problems[len(problems)-1].ID
	if !strings.Contains(resultText(res), id) {
		t.Errorf("open_problem response missing id %s: %s", id, resultText(res))
	}
	return id
}

// ─── record_decision ─────────────────────────────────────────────────────────

func TestRecordDecisionTool_Definition(t *testing.T) {
	def := NewRecordDecisionTool(newTestStore(t)).Definition()
	if def.Name != "record_decision" {
		t.Errorf("tool name = %q, want record_decision", def.Name)
	}
	for _, p := range []string{"topic", "options", "chosen", "rationale", "tags"} {
		if _, ok := def.InputSchema.Properties[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
}

func TestRecordDecisionTool_Handle(t *testing.T) {
	store := newTestStore(t)
	tool := NewRecordDecisionTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"topic":     "cache backend",
		"options":   `[{"name":"A","description":"in-memory"},{"name":"B","description":"disk-backed"}]`,
		"chosen":    "B",
		"rationale": "durability required",
		"tags":      `["storage"]`,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}
	if got, want := resultText(res), `Decision logged: "cache backend" → B`; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}

	stored := store.Decisions()
	if len(stored) != 1 {
		t.Fatalf("stored %d decisions, want 1", len(stored))
	}
	d := stored[0]
	if d.Chosen != "B" || len(d.Options) != 2 || d.Options[1].Description != "disk-backed" {
		t.Errorf("stored decision = %+v", d)
	}
	if d.ID == "" || d.CreatedAt == "" || d.SessionID != "sess-test" {
		t.Errorf("decision identity fields = %+v", d)
	}
}

func TestRecordDecisionTool_Validation(t *testing.T) {
	tool := NewRecordDecisionTool(newTestStore(t))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing topic", map[string]interface{}{
			"options": `[]`, "chosen": "B", "rationale": "r",
		}},
		{"missing options", map[string]interface{}{
			"topic": "t", "chosen": "B", "rationale": "r",
		}},
		{"malformed options", map[string]interface{}{
			"topic": "t", "options": "not json", "chosen": "B", "rationale": "r",
		}},
		{"malformed tags", map[string]interface{}{
			"topic": "t", "options": `[]`, "chosen": "B", "rationale": "r", "tags": "{",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !res.IsError {
				t.Errorf("expected tool error, got: %s", resultText(res))
			}
		})
	}
}

// ─── problem lifecycle ───────────────────────────────────────────────────────

func TestProblemLifecycle_SpecScenario(t *testing.T) {
	store := newTestStore(t)
	id := openTestProblem(t, store, "X fails intermittently")

	logTool := NewLogApproachTool(store)
	res, err := logTool.Handle(context.Background(), makeReq(map[string]interface{}{
		"problem_id": id,
		"approach":   "add retry",
		"outcome":    "failed",
		"details":    "still flaky",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("log_approach failed: %s", resultText(res))
	}

	closeTool := NewCloseProblemTool(store)
	res, err = closeTool.Handle(context.Background(), makeReq(map[string]interface{}{
		"problem_id": id,
		"resolution": "root cause: race in Y",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("close_problem failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "1 (1 failed)") {
		t.Errorf("close response missing approach/fail counts: %s", resultText(res))
	}

	listTool := NewListProblemsTool(store)
	res, _ = listTool.Handle(context.Background(), makeReq(map[string]interface{}{
		"status": "resolved",
	}))
	if !strings.Contains(resultText(res), "X fails intermittently") {
		t.Errorf("resolved listing missing problem: %s", resultText(res))
	}

	res, _ = listTool.Handle(context.Background(), makeReq(map[string]interface{}{
		"status": "open",
	}))
	if strings.Contains(resultText(res), "X fails intermittently") {
		t.Errorf("open listing still shows resolved problem: %s", resultText(res))
	}
}

func TestLogApproachTool_NotFound(t *testing.T) {
	tool := NewLogApproachTool(newTestStore(t))
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"problem_id": "ghost",
		"approach":   "anything",
		"outcome":    "failed",
		"details":    "n/a",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for unknown problem id")
	}
	if got := resultText(res); got != "problem not found: ghost" {
		t.Errorf("error text = %q", got)
	}
}

func TestLogApproachTool_RejectsBadOutcome(t *testing.T) {
	store := newTestStore(t)
	id := openTestProblem(t, store, "p")

	tool := NewLogApproachTool(store)
	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"problem_id": id,
		"approach":   "a",
		"outcome":    "maybe",
		"details":    "d",
	}))
	if !res.IsError {
		t.Error("expected tool error for invalid outcome")
	}
}

func TestCloseProblemTool_NotFound(t *testing.T) {
	tool := NewCloseProblemTool(newTestStore(t))
	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"problem_id": "ghost",
		"resolution": "n/a",
	}))
	if !res.IsError {
		t.Fatal("expected tool error for unknown problem id")
	}
	if got := resultText(res); got != "problem not found: ghost" {
		t.Errorf("error text = %q", got)
	}
}

func TestListProblemsTool_Empty(t *testing.T) {
	tool := NewListProblemsTool(newTestStore(t))
	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if got := resultText(res); got != "No problems recorded for this session." {
		t.Errorf("empty listing = %q", got)
	}
}

func TestListProblemsTool_RejectsBadStatus(t *testing.T) {
	tool := NewListProblemsTool(newTestStore(t))
	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"status": "stuck",
	}))
	if !res.IsError {
		t.Error("expected tool error for invalid status")
	}
}

// ─── search_decisions ────────────────────────────────────────────────────────

func TestSearchDecisionsTool(t *testing.T) {
	store := newTestStore(t)
	record := NewRecordDecisionTool(store)
	_, err := record.Handle(context.Background(), makeReq(map[string]interface{}{
		"topic":     "cache backend",
		"options":   `[{"name":"A","description":"in-memory"},{"name":"B","description":"disk-backed"}]`,
		"chosen":    "B",
		"rationale": "durability required",
		"tags":      `["storage"]`,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	tool := NewSearchDecisionsTool(store)

	res, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"tags": `["storage"]`,
	}))
	got := resultText(res)
	if !strings.Contains(got, "Found 1 decision(s)") || !strings.Contains(got, "cache backend: B — durability required") {
		t.Errorf("tag search = %q", got)
	}

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "kubernetes",
	}))
	if got := resultText(res); got != "No decisions matched." {
		t.Errorf("no-match text = %q", got)
	}
}

// ─── get_context ─────────────────────────────────────────────────────────────

func TestContextTool(t *testing.T) {
	store := newTestStore(t)
	tool := NewContextTool(store)

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := resultText(res); got != memory.NoMemoryText {
		t.Errorf("empty context = %q, want %q", got, memory.NoMemoryText)
	}

	openTestProblem(t, store, "X fails intermittently")

	res, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if !strings.Contains(resultText(res), "[OPEN] X fails intermittently") {
		t.Errorf("context missing open problem: %s", resultText(res))
	}
}

// ─── memory_stats ────────────────────────────────────────────────────────────

func TestStatsTool(t *testing.T) {
	store := newTestStore(t)
	openTestProblem(t, store, "p1")

	tool := NewStatsTool(store)
	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	got := resultText(res)
	for _, want := range []string{"Decisions: 0", "Sessions: 1", "Problems: 1 open, 0 resolved"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats missing %q:\n%s", want, got)
		}
	}
}

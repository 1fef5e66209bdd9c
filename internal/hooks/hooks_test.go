package hooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// runHook feeds stdin to a hook pipeline and returns what it wrote.
func runHook(t *testing.T, fn func(r *strings.Reader, w *bytes.Buffer) error, stdin string) string {
	t.Helper()
	var out bytes.Buffer
	if err := fn(strings.NewReader(stdin), &out); err != nil {
		t.Fatalf("hook returned error: %v", err)
	}
	return out.String()
}

func sessionStartOutput(t *testing.T, cfg memory.Config, stdin string) string {
	t.Helper()
	return runHook(t, func(r *strings.Reader, w *bytes.Buffer) error {
		return SessionStart(r, w, cfg, testLogger())
	}, stdin)
}

func preCompactOutput(t *testing.T, cfg memory.Config, stdin string) string {
	t.Helper()
	return runHook(t, func(r *strings.Reader, w *bytes.Buffer) error {
		return PreCompact(r, w, cfg, testLogger())
	}, stdin)
}

// decodeOutput asserts the hook wrote exactly one well-formed payload.
func decodeOutput(t *testing.T, raw string) Output {
	t.Helper()
	var out Output
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("hook output is not valid JSON: %v\n%s", err, raw)
	}
	if !out.Continue {
		t.Error("continue = false, want true")
	}
	if !out.SuppressOutput {
		t.Error("suppressOutput = false, want true")
	}
	if out.Message == "" {
		t.Error("emitted payload has an empty message")
	}
	return out
}

// --- Input failure modes: silence, never an error ---

func TestHooks_SilentOnBadInput(t *testing.T) {
	cfg := memory.Config{DataDir: t.TempDir()}

	tests := []struct {
		name  string
		stdin string
	}{
		{"empty stdin", ""},
		{"malformed json", "{nope"},
		{"missing cwd", `{"session_id":"s1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionStartOutput(t, cfg, tt.stdin); got != "" {
				t.Errorf("session-start emitted %q, want nothing", got)
			}
			if got := preCompactOutput(t, cfg, tt.stdin); got != "" {
				t.Errorf("pre-compact emitted %q, want nothing", got)
			}
		})
	}
}

// --- SessionStart ---

func TestSessionStart_NothingRecorded(t *testing.T) {
	cfg := memory.Config{DataDir: t.TempDir()}
	stdin := fmt.Sprintf(`{"session_id":"s1","cwd":%q}`, t.TempDir())

	if got := sessionStartOutput(t, cfg, stdin); got != "" {
		t.Errorf("emitted %q for an empty project, want nothing", got)
	}
}

func TestSessionStart_RegistersSessionAndInjectsDecisions(t *testing.T) {
	cfg := memory.Config{DataDir: t.TempDir()}
	workDir := t.TempDir()

	// A previous session recorded a decision.
	prev, err := memory.New(cfg, workDir, "earlier")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := prev.AddDecision(memory.NewDecision("earlier", "cache backend", nil, "B", "durability required", nil)); err != nil {
		t.Fatalf("AddDecision failed: %v", err)
	}

	stdin := fmt.Sprintf(`{"session_id":"s1","cwd":%q}`, workDir)
	out := decodeOutput(t, sessionStartOutput(t, cfg, stdin))
	if !strings.Contains(out.Message, "cache backend: B — durability required") {
		t.Errorf("message missing decision history:\n%s", out.Message)
	}

	// The hook registered the new session on disk.
	check, err := memory.Open(cfg, workDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	found := false
	for _, id := range check.SessionIDs() {
		if id == "s1" {
			found = true
		}
	}
	if !found {
		t.Errorf("session s1 not registered; sessions = %v", check.SessionIDs())
	}
}

func TestSessionStart_AcceptsWorkingDirField(t *testing.T) {
	cfg := memory.Config{DataDir: t.TempDir()}
	workDir := t.TempDir()

	prev, err := memory.New(cfg, workDir, "earlier")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := prev.AddDecision(memory.NewDecision("earlier", "queue", nil, "redis", "already deployed", nil)); err != nil {
		t.Fatalf("AddDecision failed: %v", err)
	}

	stdin := fmt.Sprintf(`{"session_id":"s1","working_dir":%q}`, workDir)
	decodeOutput(t, sessionStartOutput(t, cfg, stdin))
}

// --- PreCompact ---

func TestPreCompact_DigestsLatestSession(t *testing.T) {
	cfg := memory.Config{DataDir: t.TempDir()}
	workDir := t.TempDir()

	s, err := memory.New(cfg, workDir, "s1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p := memory.NewProblem("s1", "X fails intermittently")
	if err := s.AddProblem(p); err != nil {
		t.Fatalf("AddProblem failed: %v", err)
	}
	if _, err := s.UpdateProblem(p.ID, func(p *memory.Problem) {
		p.Approaches = append(p.Approaches, memory.NewApproach("add retry", "failed", "still flaky"))
	}); err != nil {
		t.Fatalf("UpdateProblem failed: %v", err)
	}

	// The input session id is ignored in favor of on-disk discovery.
	stdin := fmt.Sprintf(`{"session_id":"something-else","cwd":%q}`, workDir)
	out := decodeOutput(t, preCompactOutput(t, cfg, stdin))
	for _, want := range []string{"OPEN PROBLEMS:", "X fails intermittently", "FAILED: add retry — still flaky"} {
		if !strings.Contains(out.Message, want) {
			t.Errorf("digest missing %q:\n%s", want, out.Message)
		}
	}
}

func TestPreCompact_SilentWhenNothingToReport(t *testing.T) {
	cfg := memory.Config{DataDir: t.TempDir()}
	stdin := fmt.Sprintf(`{"cwd":%q}`, t.TempDir())

	if got := preCompactOutput(t, cfg, stdin); got != "" {
		t.Errorf("emitted %q for an empty project, want nothing", got)
	}
}

func TestPreCompact_DoesNotRegisterASession(t *testing.T) {
	cfg := memory.Config{DataDir: t.TempDir()}
	workDir := t.TempDir()

	s, err := memory.New(cfg, workDir, "s1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.AddProblem(memory.NewProblem("s1", "p")); err != nil {
		t.Fatalf("AddProblem failed: %v", err)
	}

	stdin := fmt.Sprintf(`{"cwd":%q}`, workDir)
	preCompactOutput(t, cfg, stdin)

	check, err := memory.Open(cfg, workDir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if ids := check.SessionIDs(); len(ids) != 1 || ids[0] != "s1" {
		t.Errorf("pre-compact changed the session set: %v", ids)
	}
}

// Package server wires the memory store and MCP tools into a server
// instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tool handlers. No business logic lives here —
// only wiring.
package server

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mnemo-mcp/mnemo/internal/config"
	"github.com/mnemo-mcp/mnemo/internal/memory"
	"github.com/mnemo-mcp/mnemo/internal/memtools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all memory tools
// registered. The store is bound to the process working directory and to
// cfg.SessionID (a fresh id is generated when none is configured), so one
// server process serves one assistant session.
func New(cfg config.Config) (*server.MCPServer, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	store, err := memory.New(memory.Config{DataDir: cfg.DataDir}, workDir, sessionID)
	if err != nil {
		return nil, fmt.Errorf("creating memory store: %w", err)
	}

	s := server.NewMCPServer(
		"mnemo",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerTools(s, store)
	return s, nil
}

// registerTools registers the live query/mutation tool surface.
func registerTools(s *server.MCPServer, store *memory.Store) {
	// --- Decisions (project-scoped, cross-session) ---
	recordDecision := memtools.NewRecordDecisionTool(store)
	s.AddTool(recordDecision.Definition(), recordDecision.Handle)

	searchDecisions := memtools.NewSearchDecisionsTool(store)
	s.AddTool(searchDecisions.Definition(), searchDecisions.Handle)

	// --- Problem trails (session-scoped) ---
	openProblem := memtools.NewOpenProblemTool(store)
	s.AddTool(openProblem.Definition(), openProblem.Handle)

	logApproach := memtools.NewLogApproachTool(store)
	s.AddTool(logApproach.Definition(), logApproach.Handle)

	closeProblem := memtools.NewCloseProblemTool(store)
	s.AddTool(closeProblem.Definition(), closeProblem.Handle)

	listProblems := memtools.NewListProblemsTool(store)
	s.AddTool(listProblems.Definition(), listProblems.Handle)

	// --- Retrieval ---
	getContext := memtools.NewContextTool(store)
	s.AddTool(getContext.Definition(), getContext.Handle)

	stats := memtools.NewStatsTool(store)
	s.AddTool(stats.Definition(), stats.Handle)
}

// serverInstructions returns the system instructions that tell the AI how
// to use mnemo effectively.
func serverInstructions() string {
	return `You have access to mnemo, a persistent session memory server.

mnemo keeps two kinds of memory on disk, scoped to the current project:

- DECISIONS are project-lifetime: every session under the same repository
  (or directory) sees them. Record a decision whenever a choice between
  alternatives gets settled — include the options you considered, the one
  you chose, and why.
- PROBLEM TRAILS are session-scoped: open a problem when you start
  investigating something, log every approach (failed attempts included),
  and close it with the resolution.

## Workflow

1. At the start of work, call get_context to recover this session's
   trails and decisions.
2. Before an architectural choice, call search_decisions — the decision
   may already have been made in an earlier session.
3. After settling a choice, call record_decision with real options and a
   real rationale. Never record placeholders.
4. When debugging, open_problem first, then log_approach after each
   attempt with its outcome (failed or succeeded), then close_problem
   with the root cause or fix.

## Important

- Failed approaches are the most valuable entries — they stop a future
  session from repeating them. Log them honestly.
- Decisions are immutable. A superseding choice is a new decision that
  mentions the old one in its rationale.
- Memory is stored per project, keyed by the repository's origin remote
  when one exists, so every checkout of the same repository shares it.`
}

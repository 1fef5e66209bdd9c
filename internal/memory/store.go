// Package memory implements the persistent session memory store for mnemo.
//
// Records live in a human-inspectable JSON tree under the data directory:
// one subdirectory per project key holding a project-level decisions
// collection and a sessions/ directory with per-session metadata and
// problems collections. Every mutation is a whole-collection
// read-modify-write, which is adequate for the small collection sizes a
// single project accumulates.
//
// There is no locking of any kind. Writers are expected to be sequential
// within a session; the only file touched by concurrent sessions is the
// project-level decisions collection, where an interleaved
// read-modify-write from another process is last-writer-wins. That race
// is an accepted trade-off of the format, not a defect to patch here.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mnemo-mcp/mnemo/internal/project"
)

const (
	// SessionsDir is the subdirectory under a project where sessions live.
	SessionsDir = "sessions"
	// DecisionsFile is the filename for the project-level decisions collection.
	DecisionsFile = "decisions.json"
	// ProblemsFile is the filename for a session's problems collection.
	ProblemsFile = "problems.json"
	// MetadataFile is the filename for a session's metadata.
	MetadataFile = "metadata.json"
)

// Config holds store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".mnemo")}
}

// Store owns all persisted memory for one project/session pair. It holds
// no cached state: every operation re-reads the backing file, so external
// writes are picked up on the next call.
type Store struct {
	cfg        Config
	projectKey string
	sessionID  string
	workDir    string
}

// New creates a Store rooted at cfg.DataDir for the given working
// directory and session id. It resolves the project key, creates the
// project and session directories, and writes the session metadata file
// only if it does not already exist, so re-constructing a store for the
// same session never clobbers the original start timestamp.
func New(cfg Config, workDir, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("memory: empty session id")
	}

	key, err := project.Resolve(workDir)
	if err != nil {
		return nil, fmt.Errorf("memory: resolving project: %w", err)
	}

	s := &Store{cfg: cfg, projectKey: key, sessionID: sessionID, workDir: workDir}
	if err := os.MkdirAll(s.sessionDir(sessionID), 0o755); err != nil {
		return nil, fmt.Errorf("memory: creating session directory: %w", err)
	}
	if err := s.writeMetadataOnce(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open creates a read-oriented Store for the project containing workDir
// without registering a session: no directories are created and no
// metadata is written. Used by the compaction hook, which discovers the
// relevant session from disk instead of owning one; constructing it via
// New would make its throwaway session the most recently touched one.
func Open(cfg Config, workDir string) (*Store, error) {
	key, err := project.Resolve(workDir)
	if err != nil {
		return nil, fmt.Errorf("memory: resolving project: %w", err)
	}
	return &Store{cfg: cfg, projectKey: key, workDir: workDir}, nil
}

// ProjectKey returns the resolved project key.
func (s *Store) ProjectKey() string { return s.projectKey }

// SessionID returns the session id this store was constructed with.
func (s *Store) SessionID() string { return s.sessionID }

func (s *Store) projectDir() string {
	return filepath.Join(s.cfg.DataDir, s.projectKey)
}

func (s *Store) sessionsDir() string {
	return filepath.Join(s.projectDir(), SessionsDir)
}

func (s *Store) sessionDir(sessionID string) string {
	return filepath.Join(s.sessionsDir(), sessionID)
}

func (s *Store) decisionsPath() string {
	return filepath.Join(s.projectDir(), DecisionsFile)
}

func (s *Store) problemsPath(sessionID string) string {
	return filepath.Join(s.sessionDir(sessionID), ProblemsFile)
}

func (s *Store) metadataPath(sessionID string) string {
	return filepath.Join(s.sessionDir(sessionID), MetadataFile)
}

// writeMetadataOnce writes metadata.json for the current session unless a
// file is already present (first-writer-wins).
func (s *Store) writeMetadataOnce() error {
	path := s.metadataPath(s.sessionID)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	meta := SessionMetadata{
		SessionID:  s.sessionID,
		ProjectKey: s.projectKey,
		Directory:  s.workDir,
		StartedAt:  now(),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: marshaling session metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("memory: writing session metadata: %w", err)
	}
	return nil
}

// ─── Decisions ───────────────────────────────────────────────────────────────

// Decisions returns every decision recorded for the project, in insertion
// order. An absent, unreadable, or malformed decisions file yields an
// empty slice; callers never see storage trouble.
func (s *Store) Decisions() []Decision {
	var out []Decision
	readCollection(s.decisionsPath(), &out)
	return out
}

// AddDecision appends a decision to the project-level collection and
// rewrites the file.
func (s *Store) AddDecision(d Decision) error {
	all := append(s.Decisions(), d)
	return writeCollection(s.decisionsPath(), all)
}

// ─── Problems ────────────────────────────────────────────────────────────────

// Problems returns the current session's problems in insertion order,
// with the same degrade-to-empty read contract as Decisions.
func (s *Store) Problems() []Problem {
	return s.ProblemsFor(s.sessionID)
}

// ProblemsFor returns the problems recorded under the given session id.
func (s *Store) ProblemsFor(sessionID string) []Problem {
	var out []Problem
	readCollection(s.problemsPath(sessionID), &out)
	return out
}

// AddProblem appends a problem to the current session's collection.
func (s *Store) AddProblem(p Problem) error {
	all := append(s.Problems(), p)
	return writeCollection(s.problemsPath(s.sessionID), all)
}

// Problem returns the problem with the given id, or a NotFoundError.
func (s *Store) Problem(id string) (*Problem, error) {
	for _, p := range s.Problems() {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, &NotFoundError{Kind: "problem", ID: id}
}

// UpdateProblem locates a problem by id, applies mutate to it in place,
// rewrites the collection, and returns the mutated entry. When no entry
// matches it returns a NotFoundError and performs no write, leaving the
// file untouched.
func (s *Store) UpdateProblem(id string, mutate func(*Problem)) (*Problem, error) {
	all := s.Problems()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		mutate(&all[i])
		if err := writeCollection(s.problemsPath(s.sessionID), all); err != nil {
			return nil, err
		}
		updated := all[i]
		return &updated, nil
	}
	return nil, &NotFoundError{Kind: "problem", ID: id}
}

// ─── Session discovery ───────────────────────────────────────────────────────

// SessionIDs lists every session recorded under the project, in directory
// order. Sessions without a readable metadata file are skipped.
func (s *Store) SessionIDs() []string {
	entries, err := os.ReadDir(s.sessionsDir())
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.metadataPath(e.Name())); err != nil {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids
}

// LatestSessionID returns the session whose metadata file was most
// recently modified, a best-effort proxy for "the currently active
// session". Ties on modification time break toward the lexicographically
// highest session id, so the result is deterministic within one
// invocation (though not guaranteed stable under concurrent writers).
// ok is false when the project has no sessions.
func (s *Store) LatestSessionID() (id string, ok bool) {
	var latest time.Time
	for _, candidate := range s.SessionIDs() {
		info, err := os.Stat(s.metadataPath(candidate))
		if err != nil {
			continue
		}
		mod := info.ModTime()
		switch {
		case !ok, mod.After(latest):
			id, latest, ok = candidate, mod, true
		case mod.Equal(latest) && candidate > id:
			id = candidate
		}
	}
	return id, ok
}

// ─── Collection I/O ──────────────────────────────────────────────────────────

// readCollection loads a JSON collection file into out. Absent,
// unreadable, and unparseable files all leave out untouched (empty) —
// this is the single place where the degrade-to-empty read policy lives.
func readCollection(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, out)
}

// writeCollection replaces a collection file wholesale with the given
// records, creating parent directories as needed.
func writeCollection[T any](path string, records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: marshaling collection: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("memory: creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("memory: writing collection: %w", err)
	}
	return nil
}

// now returns the current UTC time as an RFC3339 string, the timestamp
// format used throughout the persisted records.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

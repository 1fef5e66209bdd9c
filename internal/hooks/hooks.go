// Package hooks implements mnemo's lifecycle hook pipelines.
//
// A hook is a short-lived process the host spawns at a lifecycle event.
// It reads one JSON object from stdin, optionally writes exactly one JSON
// object to stdout, and exits zero. The contract is strictly best-effort:
// missing input, an unresolvable working directory, storage trouble, or
// simply nothing to report all end in a silent successful exit. A hook
// must never fail the host process and must never emit a malformed or
// empty-but-present payload.
package hooks

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// maxStdinBytes caps stdin reads. Hook payloads are small JSON objects;
// 1 MiB is generous headroom that prevents unbounded allocation.
const maxStdinBytes = 1 << 20

// Input is the JSON payload the host sends on stdin.
type Input struct {
	SessionID     string `json:"session_id"`
	CWD           string `json:"cwd"`
	WorkingDir    string `json:"working_dir"`
	HookEventName string `json:"hook_event_name"`
}

// workDir returns whichever working-directory field the host populated.
func (in Input) workDir() string {
	if in.CWD != "" {
		return in.CWD
	}
	return in.WorkingDir
}

// Output is the JSON payload a hook writes when it has something to
// contribute. Continue is always true (hooks inform, they never block)
// and SuppressOutput is always true because the message is side-channel
// context for the model, not chat-visible text.
type Output struct {
	Continue       bool   `json:"continue"`
	SuppressOutput bool   `json:"suppressOutput"`
	Message        string `json:"message"`
}

// SessionStart runs the session-start pipeline: register the session
// (first write wins, so re-entry keeps the original start timestamp) and
// inject the project's decision history from previous sessions.
func SessionStart(r io.Reader, w io.Writer, cfg memory.Config, log zerolog.Logger) error {
	in, ok := readInput(r, log)
	if !ok {
		return nil
	}

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	store, err := memory.New(cfg, in.workDir(), sessionID)
	if err != nil {
		log.Warn().Err(err).Str("dir", in.workDir()).Msg("session-start: store init failed")
		return nil
	}

	return emit(w, store.DecisionHistory(), log)
}

// PreCompact runs the pre-compaction pipeline: find the most recently
// active session on disk and inject its digest before the host discards
// conversational history. The session id in the hook input is ignored in
// favor of the metadata discovered on disk.
func PreCompact(r io.Reader, w io.Writer, cfg memory.Config, log zerolog.Logger) error {
	in, ok := readInput(r, log)
	if !ok {
		return nil
	}

	store, err := memory.Open(cfg, in.workDir())
	if err != nil {
		log.Warn().Err(err).Str("dir", in.workDir()).Msg("pre-compact: store init failed")
		return nil
	}

	return emit(w, store.CompactDigest(), log)
}

// readInput parses the hook payload. ok is false when the payload is
// absent, malformed, or names no working directory; the caller then
// exits silently.
func readInput(r io.Reader, log zerolog.Logger) (Input, bool) {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn().Err(err).Msg("hook stdin read failed")
		return Input{}, false
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		log.Warn().Err(err).Int("bytes", len(data)).Msg("hook stdin unmarshal failed")
		return Input{}, false
	}
	if in.workDir() == "" {
		log.Warn().Msg("hook input has no working directory")
		return Input{}, false
	}
	return in, true
}

// emit writes the single output object, or nothing when the message is
// empty.
func emit(w io.Writer, message string, log zerolog.Logger) error {
	if message == "" {
		return nil
	}
	out := Output{Continue: true, SuppressOutput: true, Message: message}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Warn().Err(err).Msg("hook output encode failed")
	}
	return nil
}

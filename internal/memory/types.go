package memory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Problem status values. The transition is one-way: open → resolved.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Approach outcome values.
const (
	OutcomeFailed    = "failed"
	OutcomeSucceeded = "succeeded"
)

// Option is one considered alternative inside a Decision.
type Option struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Decision is an immutable, project-scoped record of a resolved choice:
// what was considered, what was picked, and why. Decisions are visible to
// every session under the same project key and are never edited or deleted.
type Decision struct {
	ID        string   `json:"id"`
	SessionID string   `json:"session_id"`
	Topic     string   `json:"topic"`
	Options   []Option `json:"options"`
	Chosen    string   `json:"chosen"`
	Rationale string   `json:"rationale"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// Approach is one attempt logged against a Problem. Immutable once
// appended; insertion order is the chronological narrative.
type Approach struct {
	Approach  string `json:"approach"`
	Outcome   string `json:"outcome"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// Problem is a session-scoped record of one troubleshooting effort.
// It is mutated in place by appending approaches and by closing with a
// resolution. The store does not forbid mutating an already-resolved
// problem; callers that want a terminal guarantee must add their own.
type Problem struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"session_id"`
	Problem    string     `json:"problem"`
	Status     string     `json:"status"`
	Approaches []Approach `json:"approaches"`
	Resolution string     `json:"resolution,omitempty"`
	CreatedAt  string     `json:"created_at"`
}

// FailedCount returns how many logged approaches failed.
func (p Problem) FailedCount() int {
	n := 0
	for _, a := range p.Approaches {
		if a.Outcome == OutcomeFailed {
			n++
		}
	}
	return n
}

// NewDecision builds a Decision with a fresh id and timestamp. The store
// appends it verbatim.
func NewDecision(sessionID, topic string, options []Option, chosen, rationale string, tags []string) Decision {
	return Decision{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Topic:     topic,
		Options:   options,
		Chosen:    chosen,
		Rationale: rationale,
		Tags:      tags,
		CreatedAt: now(),
	}
}

// NewProblem builds an open Problem with a fresh id and timestamp.
func NewProblem(sessionID, description string) Problem {
	return Problem{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Problem:   description,
		Status:    StatusOpen,
		CreatedAt: now(),
	}
}

// NewApproach builds a timestamped Approach entry.
func NewApproach(approach, outcome, details string) Approach {
	return Approach{
		Approach:  approach,
		Outcome:   outcome,
		Details:   details,
		Timestamp: now(),
	}
}

// SessionMetadata records a session's identity and start time. It is
// written once when the session's store is first constructed and never
// overwritten (first-writer-wins), so the start timestamp survives
// re-entry. Its file modification time doubles as the "most recent
// session" signal for the compaction hook.
type SessionMetadata struct {
	SessionID  string `json:"session_id"`
	ProjectKey string `json:"project_key"`
	Directory  string `json:"directory"`
	StartedAt  string `json:"started_at"`
}

// NotFoundError reports a lookup by id that matched nothing. It is the
// only storage condition surfaced to callers as a visible error; every
// other failure degrades to empty data.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

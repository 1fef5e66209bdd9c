package memory

import (
	"fmt"
	"strings"
)

// maxDigestDetail is the hard cap on an approach's detail text in the
// compaction digest. The digest travels through a host that may truncate
// it arbitrarily, so every line has to stand on its own.
const maxDigestDetail = 120

// NoMemoryText is the fixed sentence emitted when a project has nothing
// recorded at all.
const NoMemoryText = "No decisions or problems recorded for this project yet."

// FormatContext renders the on-demand full-context view: every problem of
// the current session with its complete approach history, followed by the
// current session's decisions and a count hint for decisions made in
// other sessions. Nothing is truncated here; this view is pulled
// explicitly, so it gets the full detail.
func (s *Store) FormatContext() string {
	problems := s.Problems()
	decisions := s.Decisions()

	if len(problems) == 0 && len(decisions) == 0 {
		return NoMemoryText
	}

	var b strings.Builder
	b.WriteString("## Session Memory\n")

	if len(problems) > 0 {
		b.WriteString("\n### Problems\n")
		for _, p := range problems {
			fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(p.Status), p.Problem)
			for _, a := range p.Approaches {
				fmt.Fprintf(&b, "  %s: %s — %s\n", strings.ToUpper(a.Outcome), a.Approach, a.Details)
			}
			if p.Status == StatusResolved {
				fmt.Fprintf(&b, "  Resolution: %s\n", p.Resolution)
			}
		}
	}

	current, others := splitBySession(decisions, s.sessionID)
	if len(current) > 0 {
		b.WriteString("\n### Decisions (this session)\n")
		for _, d := range current {
			b.WriteString(decisionLine(d))
		}
	}
	if others > 0 {
		fmt.Fprintf(&b, "\n%d more decision(s) from other sessions — use search_decisions to find them.\n", others)
	}

	return b.String()
}

// CompactDigest renders the pre-compaction digest for the project's most
// recently active session. Open problems keep full structure with
// approach details hard-truncated at maxDigestDetail characters; resolved
// problems collapse to one line each, with a failed-approach count suffix
// only when there was at least one failure. Returns "" when there is
// nothing at all to report, so the hook can stay silent.
func (s *Store) CompactDigest() string {
	decisions := s.Decisions()

	var problems []Problem
	latest, ok := s.LatestSessionID()
	if ok {
		problems = s.ProblemsFor(latest)
	}
	if len(problems) == 0 && len(decisions) == 0 {
		return ""
	}

	var open, resolved []Problem
	for _, p := range problems {
		if p.Status == StatusResolved {
			resolved = append(resolved, p)
		} else {
			open = append(open, p)
		}
	}

	var b strings.Builder
	b.WriteString("## Memory digest\n")

	if len(open) > 0 {
		b.WriteString("\nOPEN PROBLEMS:\n")
		for _, p := range open {
			fmt.Fprintf(&b, "- %s\n", p.Problem)
			for _, a := range p.Approaches {
				fmt.Fprintf(&b, "  %s: %s — %s\n",
					strings.ToUpper(a.Outcome), a.Approach, Truncate(a.Details, maxDigestDetail))
			}
		}
	}

	if len(resolved) > 0 {
		b.WriteString("\nRESOLVED:\n")
		for _, p := range resolved {
			suffix := ""
			if failed := p.FailedCount(); failed > 0 {
				suffix = fmt.Sprintf(" (%d failed)", failed)
			}
			fmt.Fprintf(&b, "- %s → %s%s\n", p.Problem, p.Resolution, suffix)
		}
	}

	if len(decisions) > 0 {
		current, others := splitBySession(decisions, latest)
		if len(current) > 0 {
			b.WriteString("\nDECISIONS:\n")
			for _, d := range current {
				b.WriteString(decisionLine(d))
			}
		}
		if others > 0 {
			fmt.Fprintf(&b, "\n(+%d decisions from other sessions)\n", others)
		}
	}

	return b.String()
}

// DecisionHistory renders every decision recorded for the project, oldest
// first, as digest-style bullets. Used by the session-start hook, where a
// fresh session has no problems yet and the decision trail is the memory
// worth re-injecting. Returns "" when the project has no decisions.
func (s *Store) DecisionHistory() string {
	decisions := s.Decisions()
	if len(decisions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Decisions from previous sessions\n\n")
	for _, d := range decisions {
		b.WriteString(decisionLine(d))
	}
	return b.String()
}

// decisionLine renders one decision as a single bullet.
func decisionLine(d Decision) string {
	return fmt.Sprintf("- %s: %s — %s\n", d.Topic, d.Chosen, d.Rationale)
}

// splitBySession partitions decisions into those owned by sessionID and a
// count of the rest.
func splitBySession(decisions []Decision, sessionID string) (current []Decision, others int) {
	for _, d := range decisions {
		if d.SessionID == sessionID {
			current = append(current, d)
		} else {
			others++
		}
	}
	return current, others
}

// Truncate caps s at max bytes, appending an ellipsis marker when it was
// longer. Strings of exactly max bytes pass through verbatim.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

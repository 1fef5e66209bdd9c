package memory

import "strings"

// StatusAll matches every problem status in FilterProblems.
const StatusAll = "all"

// SearchDecisions filters the project's decisions by free text and tags.
//
// A non-empty query matches when its lowercase form is a substring of the
// lowercase topic, chosen option, rationale, or any option's name or
// description. A non-empty tag filter matches when the decision shares at
// least one tag with it. Both filters are ANDed; an empty query or tag
// set passes everything. Results keep the collection's insertion order —
// there is no ranking.
func (s *Store) SearchDecisions(query string, tags []string) []Decision {
	var out []Decision
	for _, d := range s.Decisions() {
		if matchesQuery(d, query) && matchesTags(d, tags) {
			out = append(out, d)
		}
	}
	return out
}

// FilterProblems returns the current session's problems with the given
// status. An empty status or StatusAll is the identity filter.
func (s *Store) FilterProblems(status string) []Problem {
	all := s.Problems()
	if status == "" || status == StatusAll {
		return all
	}
	var out []Problem
	for _, p := range all {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(d Decision, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(d.Topic), q) ||
		strings.Contains(strings.ToLower(d.Chosen), q) ||
		strings.Contains(strings.ToLower(d.Rationale), q) {
		return true
	}
	for _, opt := range d.Options {
		if strings.Contains(strings.ToLower(opt.Name), q) ||
			strings.Contains(strings.ToLower(opt.Description), q) {
			return true
		}
	}
	return false
}

func matchesTags(d Decision, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range d.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

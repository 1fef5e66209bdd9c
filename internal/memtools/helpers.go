// Package memtools provides the MCP tool handlers for mnemo's session
// memory.
//
// Each tool follows the same pattern:
// - A struct with its dependency (memory.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Tools are storage tools: they persist and retrieve AI-generated
// content. Validation problems and not-found lookups come back as tool
// errors; storage trouble never does, since missing or corrupt files
// read as empty memory.
package memtools

import "encoding/json"

// stringSlice parses a JSON array-of-strings parameter, e.g.
// `["storage","cache"]`. Empty input yields nil without error.
func stringSlice(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

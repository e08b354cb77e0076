package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// --- tagged call blocks ---
//
// Some local models wrap tool calls in special tokens left over from their
// chat template, e.g.
//
//	<|constrain|>json<|message|>{"tool": "read_file", ...}
//
// The JSON payload follows the last tag and is frequently truncated, so
// unclosed objects are repaired before decoding.

var taggedMarkerRe = regexp.MustCompile(`<\|constrain\|>json<\|message\|>|<\|message\|>`)

func extractTagged(raw string, _ Schema) []candidate {
	var out []candidate
	for _, loc := range taggedMarkerRe.FindAllStringIndex(raw, -1) {
		rest := raw[loc[1]:]
		start := strings.IndexByte(rest, '{')
		if start == -1 || strings.TrimSpace(rest[:start]) != "" {
			continue
		}
		obj, ok := balancedObject(rest[start:], true)
		if !ok {
			continue
		}
		if c, ok := decodeCall(obj); ok {
			out = append(out, c)
		}
	}
	return out
}

// --- fenced code blocks ---
//
// The canonical notation is a ```json fence holding an object with "tool"
// and "parameters" keys. Models also emit fences whose first line is just a
// tool name followed by key: value lines.

var fenceRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_-]*)[ \t]*\n(.*?)```")

func extractFenced(raw string, schemas Schema) []candidate {
	var out []candidate
	for _, m := range fenceRe.FindAllStringSubmatch(raw, -1) {
		lang, body := m[1], m[2]
		trimmed := strings.TrimSpace(body)
		if trimmed == "" {
			continue
		}

		if lang == "json" || strings.HasPrefix(trimmed, "{") {
			out = append(out, scanJSONObjects(body)...)
			continue
		}

		// A fence opening with a bare known tool name, parameters as
		// key: value lines underneath.
		lines := strings.SplitN(trimmed, "\n", 2)
		name := strings.TrimSpace(lines[0])
		if _, known := schemas.Lookup(name); !known {
			continue
		}
		rest := ""
		if len(lines) == 2 {
			rest = lines[1]
		}
		out = append(out, candidate{tool: name, params: parseKeyValues(rest)})
	}
	return out
}

// --- heuristic extraction ---
//
// Last resort for models that ignore formatting instructions: TOOL: lines
// with key: value parameters, or bare JSON objects with a "tool" key loose
// in the prose.

var toolLineRe = regexp.MustCompile(`(?im)^[ \t]*tool[ \t]*:[ \t]*([a-zA-Z_][a-zA-Z0-9_]*)[ \t]*$`)

func extractHeuristic(raw string, _ Schema) []candidate {
	var out []candidate

	locs := toolLineRe.FindAllStringSubmatchIndex(raw, -1)
	for i, loc := range locs {
		name := raw[loc[2]:loc[3]]
		// Parameter block runs until the next TOOL: line or end of text.
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := raw[loc[1]:end]
		out = append(out, candidate{tool: name, params: parseKeyValues(block)})
	}
	if len(out) > 0 {
		return out
	}

	return scanJSONObjects(raw)
}

// --- shared helpers ---

// scanJSONObjects walks the text for brace-balanced JSON objects carrying a
// "tool" key and decodes each into a candidate.
func scanJSONObjects(text string) []candidate {
	var out []candidate
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		obj, ok := balancedObject(text[i:], false)
		if !ok {
			continue
		}
		if c, ok := decodeCall(obj); ok {
			out = append(out, c)
			i += len(obj) - 1
		}
	}
	return out
}

// balancedObject extracts a complete JSON object from the start of s,
// tracking brace depth outside of string literals. When repair is set and
// the input ends mid-object, the missing closing braces are appended.
func balancedObject(s string, repair bool) (string, bool) {
	if len(s) == 0 || s[0] != '{' {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	if repair && depth > 0 && !inString {
		return s + strings.Repeat("}", depth), true
	}
	return "", false
}

// decodeCall unmarshals one JSON object and maps it onto a candidate. The
// object must carry a string "tool" key; parameters come from a nested
// "parameters" object when present, otherwise from the remaining top-level
// keys.
func decodeCall(obj string) (candidate, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(obj), &data); err != nil {
		return candidate{}, false
	}
	tool, ok := data["tool"].(string)
	if !ok || tool == "" {
		return candidate{}, false
	}

	c := candidate{tool: tool}
	if r, ok := data["reason"].(string); ok {
		c.reason = r
	}
	if params, ok := data["parameters"].(map[string]any); ok {
		c.params = params
	} else {
		c.params = make(map[string]any)
		for k, v := range data {
			if k == "tool" || k == "reason" {
				continue
			}
			c.params[k] = v
		}
	}
	return c, true
}

var keyValueRe = regexp.MustCompile(`^[ \t]*([a-zA-Z_][a-zA-Z0-9_]*)[ \t]*:[ \t]?(.*)$`)

// parseKeyValues reads key: value parameter lines. Lines that do not start a
// new key continue the previous value, so multi-line content survives. A
// "parameters" value that is itself a JSON object replaces the whole map.
func parseKeyValues(block string) map[string]any {
	params := make(map[string]any)
	var order []string
	current := ""

	for _, line := range strings.Split(block, "\n") {
		if m := keyValueRe.FindStringSubmatch(line); m != nil {
			current = m[1]
			params[current] = m[2]
			order = append(order, current)
			continue
		}
		if current != "" {
			params[current] = params[current].(string) + "\n" + line
		}
	}
	for _, k := range order {
		params[k] = strings.TrimSpace(params[k].(string))
	}

	for _, key := range []string{"parameters", "params"} {
		if v, ok := params[key].(string); ok && strings.HasPrefix(v, "{") {
			var nested map[string]any
			if err := json.Unmarshal([]byte(v), &nested); err == nil {
				return nested
			}
		}
	}
	return params
}

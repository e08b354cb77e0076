// Package parse extracts tool-call intents from raw model output. Local
// models emit calls in several notations, so extraction runs as a prioritized
// chain of pure strategies over the same input: tagged call blocks, fenced
// code blocks, then heuristic pattern matching. The first strategy that
// yields any candidate wins; candidates are then validated against the tool
// registry's schemas.
package parse

import (
	"strings"
)

// Schema exposes the registry's tool schemas to the parser.
type Schema interface {
	// Lookup returns the required parameter names for a tool, or ok=false
	// when the tool is unknown.
	Lookup(name string) (required []string, ok bool)
}

// Intent is a parsed, not-yet-executed request to invoke a named tool.
type Intent struct {
	Tool   string
	Params map[string]any
	Reason string
	// Format records which extraction strategy produced the intent. It is
	// diagnostic only and never drives execution behavior.
	Format string
}

// Error reports a candidate call that failed schema validation: an unknown
// tool name or a missing required parameter. These are surfaced to the model
// rather than silently dropped.
type Error struct {
	Tool    string
	Message string
	Format  string
}

func (e *Error) Error() string { return e.Message }

// Result is the outcome of parsing one raw model response.
type Result struct {
	Intents []Intent
	Errors  []*Error
	// Done is set when the response contains an explicit completion phrase.
	Done bool
}

// Ambiguous reports a response with no usable intents, no rejected
// candidates, and no completion signal. The orchestrator treats this
// distinctly from a clean completion.
func (r Result) Ambiguous() bool {
	return len(r.Intents) == 0 && len(r.Errors) == 0 && !r.Done
}

// completionPhrases are matched case-insensitively against the response
// prose to detect an explicit "I'm finished" signal.
var completionPhrases = []string{
	"task completed",
	"task complete",
	"task is complete",
	"task finished",
	"all done",
}

func hasCompletionPhrase(raw string) bool {
	lower := strings.ToLower(raw)
	for _, phrase := range completionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// candidate is a raw extracted call before schema validation.
type candidate struct {
	tool   string
	params map[string]any
	reason string
}

// strategy is one extraction pass over the raw response.
type strategy struct {
	name    string
	extract func(raw string, schemas Schema) []candidate
}

// strategies are attempted in priority order; the first that yields any
// candidate (valid or not) decides the result.
var strategies = []strategy{
	{name: "tagged", extract: extractTagged},
	{name: "fenced", extract: extractFenced},
	{name: "heuristic", extract: extractHeuristic},
}

// Parse converts one raw model response into an ordered list of intents plus
// a completion-signal flag. It is a pure function of the input text and the
// registry schemas: the same input always produces the same result.
func Parse(raw string, schemas Schema) Result {
	result := Result{Done: hasCompletionPhrase(raw)}

	for _, s := range strategies {
		candidates := s.extract(raw, schemas)
		if len(candidates) == 0 {
			continue
		}
		for _, c := range candidates {
			if intent, perr := validate(c, s.name, schemas); perr != nil {
				result.Errors = append(result.Errors, perr)
			} else {
				result.Intents = append(result.Intents, intent)
			}
		}
		break
	}
	return result
}

// validate checks a candidate against the registry schemas.
func validate(c candidate, format string, schemas Schema) (Intent, *Error) {
	required, ok := schemas.Lookup(c.tool)
	if !ok {
		return Intent{}, &Error{
			Tool:    c.tool,
			Message: "unknown tool: " + c.tool,
			Format:  format,
		}
	}
	for _, name := range required {
		if _, present := c.params[name]; !present {
			return Intent{}, &Error{
				Tool:    c.tool,
				Message: "tool " + c.tool + ": missing required parameter " + name,
				Format:  format,
			}
		}
	}

	reason := c.reason
	if reason == "" {
		if r, ok := c.params["reason"].(string); ok {
			reason = r
		}
	}
	return Intent{Tool: c.tool, Params: c.params, Reason: reason, Format: format}, nil
}

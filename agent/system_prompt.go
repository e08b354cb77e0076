package agent

import (
	"fmt"
	"strings"

	"github.com/martinemde/cobalt/tools"
)

// buildSystemPrompt renders the instruction prompt from the registered tool
// definitions. Local models drift from format instructions easily, so the
// prompt is blunt and example-heavy.
func buildSystemPrompt(defs []tools.Definition, workspace string) string {
	var b strings.Builder

	b.WriteString("You MUST respond with tool calls. Do NOT write explanatory text.\n\n")
	b.WriteString("AVAILABLE TOOLS:\n")
	for _, def := range defs {
		params := make([]string, 0, len(def.Params))
		for _, p := range def.Params {
			name := p.Name
			if !p.Required {
				name += "?"
			}
			params = append(params, name)
		}
		fmt.Fprintf(&b, "- %s(%s): %s\n", def.Name, strings.Join(params, ", "), def.Description)
	}

	b.WriteString(`
FORMAT (use EXACTLY this):
` + "```json" + `
{"tool": "create_file", "parameters": {"filepath": "test.py", "content": "print('hello')", "reason": "Create test file"}}
` + "```" + `

EXAMPLES:

1. Create a file:
` + "```json" + `
{"tool": "create_file", "parameters": {"filepath": "main.py", "content": "print('test')", "reason": "Create program"}}
` + "```" + `

2. Run it:
` + "```json" + `
{"tool": "run_command", "parameters": {"command": "python main.py", "reason": "Execute program"}}
` + "```" + `

IMPORTANT:
- ONLY output ` + "```json" + ` blocks
- NO explanations or text outside JSON
- After tools execute, you get results and continue
- Say "Task completed" when done

Workspace: ` + workspace + `

Respond with ` + "```json" + ` block now.`)

	return b.String()
}

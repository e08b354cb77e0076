package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/martinemde/cobalt/agent"
	"github.com/martinemde/cobalt/workspace"
)

// InteractiveConfirmer gates side-effecting tool calls behind a y/n/v prompt
// on the terminal. The v option shows the full content of a pending write,
// rendered as a diff when the target file already exists.
type InteractiveConfirmer struct {
	console *Console
	in      *bufio.Reader
	ws      *workspace.Workspace
}

// NewInteractiveConfirmer builds a confirmer reading from stdin.
func NewInteractiveConfirmer(console *Console, ws *workspace.Workspace) *InteractiveConfirmer {
	return &InteractiveConfirmer{
		console: console,
		in:      bufio.NewReader(os.Stdin),
		ws:      ws,
	}
}

// NewInteractiveConfirmerReader builds a confirmer with a custom input
// source, mainly for tests.
func NewInteractiveConfirmerReader(console *Console, ws *workspace.Workspace, in io.Reader) *InteractiveConfirmer {
	return &InteractiveConfirmer{console: console, in: bufio.NewReader(in), ws: ws}
}

// Confirm shows the pending action and waits for the operator's verdict.
func (c *InteractiveConfirmer) Confirm(action agent.PendingAction) agent.Decision {
	c.showAction(action)

	_, hasContent := action.Params["content"].(string)
	prompt := ">> Execute? [y/n]: "
	if hasContent {
		prompt = ">> Execute? [y/n/v]: "
	}

	for {
		choice := c.ask(prompt)
		switch choice {
		case "y", "yes":
			return agent.Approved
		case "v":
			if !hasContent {
				continue
			}
			c.showContent(action)
			prompt = ">> Execute? [y/n]: "
		default:
			c.console.Print(">> Cancelled")
			return agent.Skipped
		}
	}
}

func (c *InteractiveConfirmer) ask(prompt string) string {
	fmt.Fprint(c.console.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		// No more input means no approval.
		return "n"
	}
	return strings.ToLower(strings.TrimSpace(line))
}

func (c *InteractiveConfirmer) showAction(action agent.PendingAction) {
	c.console.Separator()
	c.console.Bold(fmt.Sprintf(">> AI wants to: %s (%d/%d)", action.Tool, action.Index, action.Total))
	if action.Reason != "" {
		c.console.Printf("   Reason: %s", action.Reason)
	}
	c.console.Print("   Parameters:")

	keys := make([]string, 0, len(action.Params))
	for k := range action.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := fmt.Sprintf("%v", action.Params[k])
		if k == "content" {
			value = truncateValue(value, 200)
		}
		c.console.Printf("     - %s: %s", k, value)
	}
}

// showContent prints the full pending content. When the target file exists
// the output is a colored diff against the current contents.
func (c *InteractiveConfirmer) showContent(action agent.PendingAction) {
	content, _ := action.Params["content"].(string)
	path, _ := action.Params["filepath"].(string)

	c.console.Separator()
	if path != "" && c.ws != nil && c.ws.FileExists(path) {
		if current, err := c.ws.ReadFile(path); err == nil {
			dmp := diffmatchpatch.New()
			diffs := dmp.DiffMain(current, content, false)
			dmp.DiffCleanupSemantic(diffs)
			if c.console.color {
				c.console.Print(dmp.DiffPrettyText(diffs))
			} else {
				c.console.Print(renderPlainDiff(diffs))
			}
			c.console.Separator()
			return
		}
	}
	c.console.Print(content)
	c.console.Separator()
}

// renderPlainDiff renders a diff without ANSI colors for non-terminal output.
func renderPlainDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("{-" + d.Text + "-}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

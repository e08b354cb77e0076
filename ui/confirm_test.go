package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinemde/cobalt/agent"
	"github.com/martinemde/cobalt/workspace"
)

func newTestConfirmer(t *testing.T, input string) (*InteractiveConfirmer, *bytes.Buffer) {
	t.Helper()
	ws, err := workspace.New(t.TempDir(), nil)
	require.NoError(t, err)

	var out bytes.Buffer
	console := NewConsoleWriter(&out)
	return NewInteractiveConfirmerReader(console, ws, strings.NewReader(input)), &out
}

func pendingWrite(content string) agent.PendingAction {
	return agent.PendingAction{
		Tool:   "create_file",
		Params: map[string]any{"filepath": "a.txt", "content": content},
		Reason: "testing",
		Index:  1,
		Total:  1,
	}
}

func TestConfirmApprove(t *testing.T) {
	c, out := newTestConfirmer(t, "y\n")
	assert.Equal(t, agent.Approved, c.Confirm(pendingWrite("hello")))
	assert.Contains(t, out.String(), "AI wants to: create_file")
	assert.Contains(t, out.String(), "Reason: testing")
}

func TestConfirmYesWord(t *testing.T) {
	c, _ := newTestConfirmer(t, "yes\n")
	assert.Equal(t, agent.Approved, c.Confirm(pendingWrite("hello")))
}

func TestConfirmDecline(t *testing.T) {
	c, out := newTestConfirmer(t, "n\n")
	assert.Equal(t, agent.Skipped, c.Confirm(pendingWrite("hello")))
	assert.Contains(t, out.String(), ">> Cancelled")
}

func TestConfirmAnythingElseDeclines(t *testing.T) {
	c, _ := newTestConfirmer(t, "maybe\n")
	assert.Equal(t, agent.Skipped, c.Confirm(pendingWrite("hello")))
}

func TestConfirmEOFDeclines(t *testing.T) {
	c, _ := newTestConfirmer(t, "")
	assert.Equal(t, agent.Skipped, c.Confirm(pendingWrite("hello")))
}

func TestConfirmViewThenApprove(t *testing.T) {
	c, out := newTestConfirmer(t, "v\ny\n")
	content := "full file body that should be shown"
	assert.Equal(t, agent.Approved, c.Confirm(pendingWrite(content)))
	assert.Contains(t, out.String(), content)
}

func TestConfirmViewShowsDiffForExistingFile(t *testing.T) {
	ws, err := workspace.New(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, ws.WriteFile("a.txt", "old line\nshared line\n"))

	var out bytes.Buffer
	console := NewConsoleWriter(&out)
	c := NewInteractiveConfirmerReader(console, ws, strings.NewReader("v\nn\n"))

	decision := c.Confirm(agent.PendingAction{
		Tool:   "write_file",
		Params: map[string]any{"filepath": "a.txt", "content": "new line\nshared line\n"},
		Index:  1, Total: 1,
	})
	assert.Equal(t, agent.Skipped, decision)
	// Plain diff markers, since the writer console has no color.
	assert.Contains(t, out.String(), "{+")
	assert.Contains(t, out.String(), "{-")
	assert.Contains(t, out.String(), "shared line")
}

func TestConfirmLongContentTruncatedInSummary(t *testing.T) {
	c, out := newTestConfirmer(t, "n\n")
	long := strings.Repeat("x", 500)
	c.Confirm(pendingWrite(long))
	assert.Contains(t, out.String(), "... (500 chars)")
	assert.NotContains(t, out.String(), long)
}

func TestConfirmViewWithoutContentReprompts(t *testing.T) {
	c, _ := newTestConfirmer(t, "v\ny\n")
	action := agent.PendingAction{
		Tool:   "run_command",
		Params: map[string]any{"command": "ls"},
		Index:  1, Total: 1,
	}
	// v is not offered without content; it falls through to a re-ask.
	assert.Equal(t, agent.Approved, c.Confirm(action))
}

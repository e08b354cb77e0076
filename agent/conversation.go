package agent

import (
	"fmt"
	"strings"

	"github.com/martinemde/cobalt/llm"
)

// Conversation is the append-only transcript of a run. Entries are never
// rewritten; error recovery happens by appending corrective user messages.
type Conversation struct {
	system    string
	task      string
	workspace string
	entries   []llm.Message
}

// NewConversation starts a transcript for one task.
func NewConversation(system, task, workspace string) *Conversation {
	return &Conversation{system: system, task: task, workspace: workspace}
}

// AppendAssistant records a model response.
func (c *Conversation) AppendAssistant(content string) {
	c.entries = append(c.entries, llm.AssistantMessage(content))
}

// AppendUser records a feedback message.
func (c *Conversation) AppendUser(content string) {
	c.entries = append(c.entries, llm.UserMessage(content))
}

// Messages materializes the transcript for the next model query: system
// prompt, task framing, then the accumulated turns in order.
func (c *Conversation) Messages() []llm.Message {
	msgs := make([]llm.Message, 0, len(c.entries)+2)
	msgs = append(msgs, llm.SystemMessage(c.system))
	msgs = append(msgs, llm.UserMessage(fmt.Sprintf("Task: %s\nWorkspace: %s", c.task, c.workspace)))
	msgs = append(msgs, c.entries...)
	return msgs
}

// resultsMessage renders tool outcomes as the feedback message for the next
// query. Skips and failures are reported in-band so the model can react.
func resultsMessage(outcomes []ToolOutcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		lines = append(lines, o.Tool+": "+o.Summary)
	}
	return "Results:\n" + strings.Join(lines, "\n") + "\n\nContinue or say 'Task completed'."
}

// clarificationMessage re-prompts a model whose response carried no tool
// calls and no completion signal.
const clarificationMessage = "Your last response contained no tool calls and no completion signal. " +
	"Respond with a ```json tool call, or say 'Task completed' if the task is finished."

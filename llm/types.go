// Package llm provides a provider-neutral client for local model servers.
// Adapters translate between the shared request/response types and each
// backend's API; the client layers retry with exponential backoff on top.
package llm

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Request describes one completion call. Nil pointer fields fall back to the
// adapter's configured defaults.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

// Response is the provider-neutral completion result.
type Response struct {
	Content  string
	Model    string
	Provider string
	Latency  time.Duration
	// Token counts are estimates when the backend does not report usage.
	InputTokens  int
	OutputTokens int
}

// estimateTokens approximates the prompt token count from message lengths.
// Local servers often omit usage data, so a chars/4 heuristic stands in.
func estimateTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	if total == 0 {
		total = 10
	}
	return total
}

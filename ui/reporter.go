package ui

import (
	"fmt"
	"time"

	"github.com/martinemde/cobalt/agent"
)

// Reporter renders run progress on the console.
type Reporter struct {
	console *Console
}

// NewReporter builds a console-backed progress reporter.
func NewReporter(console *Console) *Reporter {
	return &Reporter{console: console}
}

func (r *Reporter) TurnStarted(turn, maxTurns int) {
	r.console.Print("")
	r.console.Bold(fmt.Sprintf("[Turn %d/%d]", turn, maxTurns))
	r.console.Info("Requesting AI action...")
}

func (r *Reporter) ResponseReceived(latency time.Duration, _ string) {
	r.console.Success(fmt.Sprintf("Response (%dms)", latency.Milliseconds()))
}

func (r *Reporter) ToolStarted(action agent.PendingAction) {
	r.console.Printf(">> Executing %s...", action.Tool)
}

func (r *Reporter) ToolFinished(outcome agent.ToolOutcome) {
	switch {
	case outcome.Skipped:
		r.console.Warning(fmt.Sprintf("%s skipped", outcome.Tool))
	case outcome.Success:
		r.console.Success(outcome.Tool)
		if outcome.Output != "" {
			r.console.Print(outcome.Output)
		}
	default:
		r.console.Error(fmt.Sprintf("%s failed: %s", outcome.Tool, outcome.Err))
	}
}

func (r *Reporter) Clarifying(attempt int) {
	r.console.Warning(fmt.Sprintf("No tool calls detected, asking the model to clarify (attempt %d)", attempt))
}

func (r *Reporter) RunFinished(result *agent.RunResult) {
	r.console.Print("")
	r.console.Separator()
	if result.State == agent.StateDone {
		r.console.Success(fmt.Sprintf("Task completed in %d turn(s)", result.Queries))
	} else {
		r.console.Error(fmt.Sprintf("Run aborted: %s", result.Reason))
	}
	r.console.Separator()
}

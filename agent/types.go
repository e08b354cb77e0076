// Package agent implements the multi-turn orchestration loop: query the
// model, parse tool-call intents, gate side effects behind the operator,
// execute, and feed results back until the model signals completion or a
// budget runs out.
package agent

import (
	"time"

	"github.com/martinemde/cobalt/parse"
)

// RunState is the terminal state of an agent run.
type RunState string

const (
	// StateDone means the model signaled completion.
	StateDone RunState = "done"
	// StateAborted means the run ended without completion: turn budget
	// exhausted, model stalled, or the client failed.
	StateAborted RunState = "aborted"
)

// ToolOutcome records one intent's fate. Every parsed intent produces
// exactly one outcome, executed or not.
type ToolOutcome struct {
	Tool    string
	Success bool
	// Skipped is set when the operator declined the action. A skipped
	// intent is never executed.
	Skipped bool
	// Summary is the single feedback line sent back to the model.
	Summary  string
	Output   string
	Err      string
	Duration time.Duration
}

// Turn is the record of one model query and everything that followed it.
type Turn struct {
	Index    int
	Response string
	Intents  []parse.Intent
	Outcomes []ToolOutcome
	// Clarification marks a turn that produced no usable intents and was
	// answered with a re-prompt.
	Clarification bool
	// Done marks the turn where the model signaled completion.
	Done bool
}

// RunResult is the full record of an agent run.
type RunResult struct {
	ID      string
	State   RunState
	Reason  string
	Turns   []Turn
	Queries int
}

// Decision is the operator's verdict on a pending action.
type Decision int

const (
	Approved Decision = iota
	Skipped
)

// PendingAction describes a gated tool call awaiting the operator's verdict.
type PendingAction struct {
	Tool   string
	Params map[string]any
	Reason string
	// Index and Total position the action within its turn, 1-based.
	Index int
	Total int
	// RequiresConfirmation mirrors the tool definition flag.
	RequiresConfirmation bool
}

// Confirmer decides whether a gated action may run.
type Confirmer interface {
	Confirm(action PendingAction) Decision
}

// AutoConfirmer approves every action. Used for autonomous runs.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(PendingAction) Decision { return Approved }

// Reporter receives progress events during a run. Implementations must not
// block; the interactive UI implements this.
type Reporter interface {
	TurnStarted(turn, maxTurns int)
	ResponseReceived(latency time.Duration, content string)
	ToolStarted(action PendingAction)
	ToolFinished(outcome ToolOutcome)
	Clarifying(attempt int)
	RunFinished(result *RunResult)
}

// noopReporter is used when no reporter is wired.
type noopReporter struct{}

func (noopReporter) TurnStarted(int, int)                   {}
func (noopReporter) ResponseReceived(time.Duration, string) {}
func (noopReporter) ToolStarted(PendingAction)              {}
func (noopReporter) ToolFinished(ToolOutcome)               {}
func (noopReporter) Clarifying(int)                         {}
func (noopReporter) RunFinished(*RunResult)                 {}

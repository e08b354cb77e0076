package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/martinemde/cobalt/llm"
	"github.com/martinemde/cobalt/logging"
	"github.com/martinemde/cobalt/parse"
	"github.com/martinemde/cobalt/tools"
)

// maxClarifications bounds consecutive re-prompts for an ambiguous response
// before the run is declared stalled.
const maxClarifications = 2

// ModelClient is the slice of the llm client the agent needs.
type ModelClient interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Options tunes a run.
type Options struct {
	Workspace   string
	Model       string
	Temperature float64
	MaxTokens   int
	// MaxTurns caps the number of model queries per run.
	MaxTurns int
	// TreatSilenceAsDone ends the run cleanly on a response with no tool
	// calls instead of re-prompting.
	TreatSilenceAsDone bool
}

// Agent drives the orchestration loop.
type Agent struct {
	client    ModelClient
	registry  *tools.Registry
	confirmer Confirmer
	reporter  Reporter
	logger    *logging.Logger
	opts      Options
}

// New assembles an agent. A nil confirmer approves everything; a nil
// reporter and logger are replaced with no-ops.
func New(client ModelClient, registry *tools.Registry, opts Options, confirmer Confirmer, reporter Reporter, logger *logging.Logger) *Agent {
	if confirmer == nil {
		confirmer = AutoConfirmer{}
	}
	if reporter == nil {
		reporter = noopReporter{}
	}
	if opts.MaxTurns < 1 {
		opts.MaxTurns = 10
	}
	return &Agent{
		client:    client,
		registry:  registry,
		confirmer: confirmer,
		reporter:  reporter,
		logger:    logger,
		opts:      opts,
	}
}

func (a *Agent) log(format string, v ...any) {
	if a.logger != nil {
		a.logger.Logf(format, v...)
	}
}

// Run executes one task to its terminal state. The returned result is
// non-nil even on error; a client failure aborts the run and surfaces as
// both the result state and the returned error.
func (a *Agent) Run(ctx context.Context, task string) (*RunResult, error) {
	runID := uuid.New().String()[:8]
	result := &RunResult{ID: runID}

	system := buildSystemPrompt(a.registry.Definitions(), a.opts.Workspace)
	conv := NewConversation(system, task, a.opts.Workspace)

	a.log("Run - ID: %s, Task: %s", runID, task)

	clarifications := 0
	for query := 1; query <= a.opts.MaxTurns; query++ {
		if err := ctx.Err(); err != nil {
			result.State = StateAborted
			result.Reason = fmt.Sprintf("run cancelled: %v", err)
			a.finish(result)
			return result, err
		}
		result.Queries = query
		a.reporter.TurnStarted(query, a.opts.MaxTurns)

		req := llm.Request{
			Model:       a.opts.Model,
			Messages:    conv.Messages(),
			Temperature: &a.opts.Temperature,
			MaxTokens:   &a.opts.MaxTokens,
		}
		resp, err := a.client.Complete(ctx, req)
		if err != nil {
			result.State = StateAborted
			result.Reason = fmt.Sprintf("model request failed: %v", err)
			a.finish(result)
			return result, fmt.Errorf("model request failed: %w", err)
		}
		a.reporter.ResponseReceived(resp.Latency, resp.Content)
		conv.AppendAssistant(resp.Content)

		parsed := parse.Parse(resp.Content, a.registry)
		turn := Turn{Index: query, Response: resp.Content, Intents: parsed.Intents}
		a.log("Turn - Run: %s, Turn: %d, Intents: %d, Errors: %d, Done: %v",
			runID, query, len(parsed.Intents), len(parsed.Errors), parsed.Done)

		if len(parsed.Intents) == 0 && len(parsed.Errors) == 0 {
			if parsed.Done {
				turn.Done = true
				result.Turns = append(result.Turns, turn)
				result.State = StateDone
				result.Reason = "model signaled completion"
				a.finish(result)
				return result, nil
			}

			// Ambiguous: no calls, no completion signal.
			if a.opts.TreatSilenceAsDone {
				turn.Done = true
				result.Turns = append(result.Turns, turn)
				result.State = StateDone
				result.Reason = "silent response treated as completion"
				a.finish(result)
				return result, nil
			}

			clarifications++
			if clarifications > maxClarifications {
				result.Turns = append(result.Turns, turn)
				result.State = StateAborted
				result.Reason = fmt.Sprintf("agent stalled: %d consecutive responses without tool calls", clarifications)
				a.finish(result)
				return result, nil
			}
			turn.Clarification = true
			a.reporter.Clarifying(clarifications)
			conv.AppendUser(clarificationMessage)
			result.Turns = append(result.Turns, turn)
			continue
		}
		clarifications = 0

		turn.Outcomes = a.executeTurn(ctx, parsed)
		conv.AppendUser(resultsMessage(turn.Outcomes))
		result.Turns = append(result.Turns, turn)
	}

	result.State = StateAborted
	result.Reason = fmt.Sprintf("turn budget exhausted: %d queries without completion", a.opts.MaxTurns)
	a.finish(result)
	return result, nil
}

func (a *Agent) finish(result *RunResult) {
	a.log("Run - ID: %s, State: %s, Reason: %s, Queries: %d",
		result.ID, result.State, result.Reason, result.Queries)
	a.reporter.RunFinished(result)
}

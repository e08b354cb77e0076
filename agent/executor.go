package agent

import (
	"context"
	"time"

	"github.com/martinemde/cobalt/parse"
)

// executeTurn resolves every candidate from one parsed response into an
// outcome: rejected candidates become failed outcomes, valid intents pass
// through the confirmation gate and run sequentially in textual order. Each
// intent executes at most once.
func (a *Agent) executeTurn(ctx context.Context, result parse.Result) []ToolOutcome {
	outcomes := make([]ToolOutcome, 0, len(result.Errors)+len(result.Intents))

	for _, perr := range result.Errors {
		tool := perr.Tool
		if tool == "" {
			tool = "unknown"
		}
		outcome := ToolOutcome{
			Tool:    tool,
			Summary: "Error: " + perr.Message,
			Err:     perr.Message,
		}
		a.log("Tool - Name: %s, Status: rejected, Detail: %s", tool, perr.Message)
		outcomes = append(outcomes, outcome)
	}

	total := len(result.Intents)
	for i, intent := range result.Intents {
		outcomes = append(outcomes, a.executeIntent(ctx, intent, i+1, total))
	}
	return outcomes
}

// executeIntent gates and runs a single intent.
func (a *Agent) executeIntent(ctx context.Context, intent parse.Intent, index, total int) ToolOutcome {
	tool := a.registry.Get(intent.Tool)
	if tool == nil {
		// Parse validation guarantees registration; guard anyway.
		return ToolOutcome{
			Tool:    intent.Tool,
			Summary: "Error: tool not found: " + intent.Tool,
			Err:     "tool not found: " + intent.Tool,
		}
	}

	action := PendingAction{
		Tool:                 intent.Tool,
		Params:               intent.Params,
		Reason:               intent.Reason,
		Index:                index,
		Total:                total,
		RequiresConfirmation: tool.Definition.RequiresConfirmation,
	}

	if tool.Definition.RequiresConfirmation {
		if a.confirmer.Confirm(action) != Approved {
			outcome := ToolOutcome{Tool: intent.Tool, Skipped: true, Summary: "Cancelled by user"}
			a.log("Tool - Name: %s, Status: skipped, Detail: declined by operator", intent.Tool)
			a.reporter.ToolFinished(outcome)
			return outcome
		}
	}

	a.reporter.ToolStarted(action)
	start := time.Now()
	output, err := tool.Execute(ctx, intent.Params)
	outcome := ToolOutcome{
		Tool:     intent.Tool,
		Duration: time.Since(start),
	}
	if err != nil {
		outcome.Err = err.Error()
		outcome.Summary = "Error: " + err.Error()
		a.log("Tool - Name: %s, Status: failed, Detail: %s", intent.Tool, err.Error())
	} else {
		outcome.Success = true
		outcome.Output = output
		outcome.Summary = output
		if outcome.Summary == "" {
			outcome.Summary = "Success"
		}
		a.log("Tool - Name: %s, Status: ok, Duration: %s", intent.Tool, outcome.Duration)
	}
	a.reporter.ToolFinished(outcome)
	return outcome
}

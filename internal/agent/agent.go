// File: internal/agent/agent.go
// Description: Conversation orchestrator. Owns the message log, drives the
// model-request/tool-execution rounds, applies the confirmation gate and the
// iteration budget, and guarantees one result per tool invocation in request
// order.

package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Singularity-tian/computer-use-experiment/internal/computer"
	"github.com/Singularity-tian/computer-use-experiment/internal/gate"
)

// skippedResultText is the synthetic outcome for actions the gate skipped.
// A skipped action still produces a result so the id-matching invariant
// holds.
const skippedResultText = "Action skipped by user"

// Termination is the reason a run ended. Budget exhaustion and natural
// completion are both benign but deliberately kept distinct so callers can
// tell "ran out of budget mid-task" from "task completed".
type Termination int

const (
	// TerminationNone means the run is still in progress.
	TerminationNone Termination = iota
	// TerminationCompleted means the model signalled it was done.
	TerminationCompleted
	// TerminationNoToolCalls means a response carried no tool invocations
	// to execute, ending the loop.
	TerminationNoToolCalls
	// TerminationAborted means the user stopped the run at the gate.
	TerminationAborted
	// TerminationBudgetExhausted means the iteration budget ran out.
	TerminationBudgetExhausted
	// TerminationTransportError means a model request failed. Fatal, never
	// retried.
	TerminationTransportError
)

func (t Termination) String() string {
	switch t {
	case TerminationNone:
		return "none"
	case TerminationCompleted:
		return "completed"
	case TerminationNoToolCalls:
		return "no_tool_calls"
	case TerminationAborted:
		return "aborted"
	case TerminationBudgetExhausted:
		return "budget_exhausted"
	case TerminationTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("termination(%d)", int(t))
	}
}

// RunState tracks one run's progress. Mutated only by the orchestrator;
// terminal once Termination is set.
type RunState struct {
	Iterations  int
	Budget      int
	Termination Termination
}

// Result is the final value of a run: the last text the model produced (or
// the transport failure text) plus how and after how many requests the run
// ended.
type Result struct {
	Text        string
	Termination Termination
	Iterations  int
}

// Dispatcher is the orchestrator's view of the action dispatcher.
type Dispatcher interface {
	// Execute runs one tool invocation; it never fails out-of-band.
	Execute(ctx context.Context, input json.RawMessage) computer.Outcome
	// Describe summarizes an invocation for confirmation and logging.
	Describe(input json.RawMessage) string
	// Passive reports whether the invocation bypasses the gate.
	Passive(input json.RawMessage) bool
}

// Agent drives one task to termination. A single Agent owns its device
// session; never run two against the same surface.
type Agent struct {
	transport  Transport
	dispatcher Dispatcher
	gate       gate.Gate
	budget     int
	logger     *zap.Logger

	conversation []Turn
	state        RunState
}

// New creates an Agent with its dependencies injected. The gate may be
// gate.AllowAll{} to disable confirmation, but must not be nil.
func New(transport Transport, dispatcher Dispatcher, g gate.Gate, budget int, logger *zap.Logger) (*Agent, error) {
	if transport == nil || dispatcher == nil || g == nil {
		return nil, fmt.Errorf("cannot initialize agent with nil dependencies")
	}
	if budget <= 0 {
		return nil, fmt.Errorf("iteration budget must be positive, got %d", budget)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		transport:  transport,
		dispatcher: dispatcher,
		gate:       g,
		budget:     budget,
		logger:     logger.Named("agent"),
	}, nil
}

// Run executes the agent loop for one task and blocks until termination.
// The conversation and run state are reset at entry and retained for
// inspection afterwards.
func (a *Agent) Run(ctx context.Context, task string) (Result, error) {
	a.conversation = []Turn{{Role: RoleUser, Content: []Block{TextBlock(task)}}}
	a.state = RunState{Budget: a.budget}
	lastText := ""

	a.logger.Info("Starting agent run",
		zap.String("task", task),
		zap.Int("budget", a.budget),
	)

	for {
		a.state.Iterations++
		if a.state.Iterations > a.state.Budget {
			a.state.Termination = TerminationBudgetExhausted
			a.logger.Info("Iteration budget exhausted", zap.Int("budget", a.budget))
			return Result{Text: lastText, Termination: a.state.Termination, Iterations: a.budget}, nil
		}
		a.logger.Info("Requesting model response",
			zap.Int("iteration", a.state.Iterations),
			zap.Int("budget", a.budget),
		)

		resp, err := a.transport.Send(ctx, a.ConversationLog())
		if err != nil {
			a.state.Termination = TerminationTransportError
			failure := fmt.Sprintf("Model request failed: %v", err)
			a.logger.Error("Model request failed", zap.Error(err))
			return Result{
				Text:        failure,
				Termination: a.state.Termination,
				Iterations:  a.state.Iterations,
			}, fmt.Errorf("model request failed: %w", err)
		}

		a.conversation = append(a.conversation, Turn{Role: RoleAssistant, Content: resp.Blocks})
		for _, b := range resp.Blocks {
			if b.Type == BlockText && b.Text != "" {
				lastText = b.Text
				a.logger.Info("Model says", zap.String("text", b.Text))
			}
		}

		if resp.StopReason == StopEndTurn {
			a.state.Termination = TerminationCompleted
			a.logger.Info("Task completed")
			return Result{Text: lastText, Termination: a.state.Termination, Iterations: a.state.Iterations}, nil
		}

		results, aborted := a.dispatchBatch(ctx, resp.Blocks)
		if len(results) > 0 {
			a.conversation = append(a.conversation, Turn{Role: RoleUser, Content: results})
		}
		if aborted {
			a.state.Termination = TerminationAborted
			a.logger.Info("Run aborted by user", zap.Int("completed_results", len(results)))
			return Result{Text: lastText, Termination: a.state.Termination, Iterations: a.state.Iterations}, nil
		}
		if len(results) == 0 {
			a.state.Termination = TerminationNoToolCalls
			a.logger.Info("No tool calls in response, ending run")
			return Result{Text: lastText, Termination: a.state.Termination, Iterations: a.state.Iterations}, nil
		}
	}
}

// dispatchBatch processes the tool invocations of one response, in order.
// Results carry the invocation ids in request order; invocations dropped by
// an abort simply have no result, so the result count never exceeds the
// request count.
func (a *Agent) dispatchBatch(ctx context.Context, blocks []Block) (results []Block, aborted bool) {
	for _, b := range blocks {
		if b.Type != BlockToolUse {
			continue
		}

		if b.Name != computerToolName {
			results = append(results, ToolResultBlock(b.ID,
				computer.ErrorOutcome(fmt.Sprintf("Unknown tool: %s", b.Name))))
			continue
		}

		description := a.dispatcher.Describe(b.Input)

		// The passive capture action never needs confirmation.
		if !a.dispatcher.Passive(b.Input) {
			decision, err := a.gate.Decide(description)
			if err != nil {
				a.logger.Error("Confirmation gate failed, aborting run", zap.Error(err))
				return results, true
			}
			switch decision {
			case gate.Skip:
				a.logger.Info("Action skipped by user", zap.String("description", description))
				results = append(results, ToolResultBlock(b.ID, computer.TextOutcome(skippedResultText)))
				continue
			case gate.Abort:
				return results, true
			}
		}

		a.logger.Info("Executing action", zap.String("description", description))
		outcome := a.dispatcher.Execute(ctx, b.Input)
		if outcome.IsError() {
			a.logger.Warn("Action failed", zap.String("description", description), zap.String("error", outcome.Text))
		}
		results = append(results, ToolResultBlock(b.ID, outcome))
	}
	return results, false
}

// ConversationLog returns a copy of the full conversation for inspection.
// Available in every terminal state.
func (a *Agent) ConversationLog() []Turn {
	out := make([]Turn, len(a.conversation))
	copy(out, a.conversation)
	return out
}

// State returns the current run state.
func (a *Agent) State() RunState {
	return a.state
}

// File: internal/gate/gate.go
// Description: Human-in-the-loop checkpoint consulted before any
// non-passive device action executes.

package gate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decision is the outcome of consulting the confirmation gate. Abort is an
// ordinary variant rather than an out-of-band signal so callers are forced
// to handle all three cases.
type Decision int

const (
	// Proceed executes the action.
	Proceed Decision = iota
	// Skip drops the action; the orchestrator still reports a result for it.
	Skip
	// Abort ends the run, dropping any actions not yet executed.
	Abort
)

// String returns the lower-case name of the decision.
func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Skip:
		return "skip"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Gate decides whether a described action actually executes. Decide blocks
// until a decision is available; an error means the gate itself failed and
// is treated as an abort by callers.
type Gate interface {
	Decide(description string) (Decision, error)
}

// AllowAll is the disabled gate: every action proceeds.
type AllowAll struct{}

func (AllowAll) Decide(string) (Decision, error) { return Proceed, nil }

// TerminalGate prompts a human on an interactive terminal and reads a
// y/n/q answer. Unrecognized input re-prompts.
type TerminalGate struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalGate builds a gate reading answers from in and writing prompts
// to out.
func NewTerminalGate(in io.Reader, out io.Writer) *TerminalGate {
	return &TerminalGate{in: bufio.NewReader(in), out: out}
}

func (g *TerminalGate) Decide(description string) (Decision, error) {
	for {
		fmt.Fprintf(g.out, "\n  [Action] %s\n  Confirm? [y/n/q]: ", description)
		line, err := g.in.ReadString('\n')

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return Proceed, nil
		case "n", "no":
			fmt.Fprintln(g.out, "  Skipped.")
			return Skip, nil
		case "q", "quit":
			return Abort, nil
		}

		if err != nil {
			// EOF or a broken pipe: the human is gone, stop the run.
			if err == io.EOF {
				return Abort, nil
			}
			return Abort, fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Fprintln(g.out, "  Please enter 'y' (yes), 'n' (no), or 'q' (quit)")
	}
}

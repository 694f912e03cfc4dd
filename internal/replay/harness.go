package replay

import (
	"errors"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/mode"
	"github.com/danielpatrickdp/binding-state/internal/reduce"
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region types
// Step is a single recorded action for replay.
type Step struct {
	Label  string
	Action action.Action
}

// StepResult captures the outcome of replaying one step.
type StepResult struct {
	Label   string
	Outcome string // "commit" | "illegal_transition" | "unimplemented" | "invalid_state"
	Reason  string

	// Mode and state after this step (unchanged from before if rejected).
	Mode  mode.Mode
	State state.App
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalSteps         int
	Commits            int
	IllegalTransitions int
	Unimplemented      int
	InvalidStates      int
	FinalState         state.App
}

// #endregion types

// #region replay
// Replay feeds each step through reduction in order, advancing only on
// commits. Operates entirely in-memory: no revisions, no journal.
func Replay(start state.App, steps []Step) []StepResult {
	current := start
	results := make([]StepResult, 0, len(steps))

	for _, step := range steps {
		next, err := reduce.Reduce(current, step.Action)
		if err != nil {
			m, _ := mode.Classify(current)
			results = append(results, StepResult{
				Label:   step.Label,
				Outcome: outcomeFor(err),
				Reason:  err.Error(),
				Mode:    m,
				State:   current,
			})
			continue
		}

		current = next
		m, _ := mode.Classify(current)
		results = append(results, StepResult{
			Label:   step.Label,
			Outcome: "commit",
			Mode:    m,
			State:   current,
		})
	}

	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []StepResult, finalState state.App) Summary {
	s := Summary{
		TotalSteps: len(results),
		FinalState: finalState,
	}
	for _, r := range results {
		switch r.Outcome {
		case "commit":
			s.Commits++
		case "illegal_transition":
			s.IllegalTransitions++
		case "unimplemented":
			s.Unimplemented++
		case "invalid_state":
			s.InvalidStates++
		}
	}
	return s
}

func outcomeFor(err error) string {
	var ite *reduce.IllegalTransitionError
	if errors.As(err, &ite) {
		return "illegal_transition"
	}
	var ute *reduce.UnimplementedTransitionError
	if errors.As(err, &ute) {
		return "unimplemented"
	}
	return "invalid_state"
}

// #endregion replay

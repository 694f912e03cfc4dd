package replay

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/entity"
	"github.com/danielpatrickdp/binding-state/internal/mode"
	"github.com/danielpatrickdp/binding-state/internal/reduce"
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// helper: validated init_app action with one prop and one dataset.
func bootAction(t *testing.T) action.Action {
	t.Helper()
	title, err := entity.NewField("title", "Text")
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	price, err := entity.NewField("price", "Number")
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	value, err := entity.NewProp("value", []string{"Text", "Number"})
	if err != nil {
		t.Fatalf("NewProp: %v", err)
	}
	catalog, err := entity.NewDataset("Catalog", "#catalogController", []entity.Field{title, price})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	act, err := action.NewInitApp([]entity.Prop{value}, []entity.Dataset{catalog})
	if err != nil {
		t.Fatalf("NewInitApp: %v", err)
	}
	return act
}

// helper: validated select_dataset action.
func selectAction(t *testing.T, name string) action.Action {
	t.Helper()
	act, err := action.NewSelectDataset(name)
	if err != nil {
		t.Fatalf("NewSelectDataset: %v", err)
	}
	return act
}

// helper: validated bind_prop action.
func bindAction(t *testing.T, prop, field string) action.Action {
	t.Helper()
	act, err := action.NewBindProp(prop, field)
	if err != nil {
		t.Fatalf("NewBindProp: %v", err)
	}
	return act
}

// 1. Full walkthrough: boot, select, attempt a bind. Two commits, one
// unimplemented rejection, and the state parked after the select.
func TestReplay_Walkthrough(t *testing.T) {
	steps := []Step{
		{Label: "boot", Action: bootAction(t)},
		{Label: "choose-catalog", Action: selectAction(t, "Catalog")},
		{Label: "bind-value", Action: bindAction(t, "value", "title")},
	}

	results := Replay(state.Initial(), steps)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Outcome != "commit" {
		t.Errorf("boot: expected commit, got %s (reason: %s)", results[0].Outcome, results[0].Reason)
	}
	if results[0].Mode != mode.DatasetSelection {
		t.Errorf("boot: expected mode %s, got %s", mode.DatasetSelection, results[0].Mode)
	}

	if results[1].Outcome != "commit" {
		t.Errorf("choose-catalog: expected commit, got %s (reason: %s)", results[1].Outcome, results[1].Reason)
	}
	if results[1].Mode != mode.BindingSelection {
		t.Errorf("choose-catalog: expected mode %s, got %s", mode.BindingSelection, results[1].Mode)
	}
	if results[1].State.SelectedDataset != "Catalog" {
		t.Errorf("choose-catalog: expected SelectedDataset=Catalog, got %q", results[1].State.SelectedDataset)
	}

	if results[2].Outcome != "unimplemented" {
		t.Errorf("bind-value: expected unimplemented, got %s", results[2].Outcome)
	}
	if results[2].Reason == "" {
		t.Error("bind-value: expected a reason on rejection")
	}
	// Rejected step reports the state it stayed on.
	if diff := cmp.Diff(results[1].State, results[2].State); diff != "" {
		t.Errorf("bind-value: state changed on rejection (-before +after):\n%s", diff)
	}
}

// 2. Rejections do not advance: a select on the empty record is refused and
// the following boot still commits from the untouched start state.
func TestReplay_RejectionDoesNotAdvance(t *testing.T) {
	steps := []Step{
		{Label: "premature-select", Action: selectAction(t, "Catalog")},
		{Label: "boot", Action: bootAction(t)},
	}

	results := Replay(state.Initial(), steps)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Outcome != "illegal_transition" {
		t.Errorf("premature-select: expected illegal_transition, got %s", results[0].Outcome)
	}
	if results[0].Mode != mode.Init {
		t.Errorf("premature-select: expected mode %s, got %s", mode.Init, results[0].Mode)
	}
	if results[1].Outcome != "commit" {
		t.Errorf("boot: expected commit, got %s (reason: %s)", results[1].Outcome, results[1].Reason)
	}
	if results[1].Mode != mode.DatasetSelection {
		t.Errorf("boot: expected mode %s, got %s", mode.DatasetSelection, results[1].Mode)
	}
}

// 3. Malformed start record: every step is refused as invalid_state and the
// record is carried through unchanged.
func TestReplay_MalformedStart(t *testing.T) {
	malformed := state.App{
		SelectedDataset: "Catalog", // selection with no catalog matches no mode
		DatasetFields:   map[string][]entity.Field{},
		Bindings:        map[string]string{},
	}
	steps := []Step{
		{Label: "boot", Action: bootAction(t)},
		{Label: "choose", Action: selectAction(t, "Catalog")},
	}

	results := Replay(malformed, steps)

	for i, r := range results {
		if r.Outcome != "invalid_state" {
			t.Errorf("step %d (%s): expected invalid_state, got %s", i, r.Label, r.Outcome)
		}
		if diff := cmp.Diff(malformed, r.State); diff != "" {
			t.Errorf("step %d (%s): state changed (-want +got):\n%s", i, r.Label, diff)
		}
	}
}

// 4. Empty step list: no results, nothing to do.
func TestReplay_EmptySteps(t *testing.T) {
	results := Replay(state.Initial(), nil)
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

// 5. Summarize: counts match result outcomes.
func TestReplay_Summarize(t *testing.T) {
	steps := []Step{
		{Label: "premature-select", Action: selectAction(t, "Catalog")},
		{Label: "boot", Action: bootAction(t)},
		{Label: "choose-catalog", Action: selectAction(t, "Catalog")},
		{Label: "bind-value", Action: bindAction(t, "value", "title")},
	}

	results := Replay(state.Initial(), steps)
	final := results[len(results)-1].State
	summary := Summarize(results, final)

	if summary.TotalSteps != 4 {
		t.Errorf("expected TotalSteps=4, got %d", summary.TotalSteps)
	}
	if summary.Commits != 2 {
		t.Errorf("expected Commits=2, got %d", summary.Commits)
	}
	if summary.IllegalTransitions != 1 {
		t.Errorf("expected IllegalTransitions=1, got %d", summary.IllegalTransitions)
	}
	if summary.Unimplemented != 1 {
		t.Errorf("expected Unimplemented=1, got %d", summary.Unimplemented)
	}
	if summary.InvalidStates != 0 {
		t.Errorf("expected InvalidStates=0, got %d", summary.InvalidStates)
	}
	if diff := cmp.Diff(final, summary.FinalState); diff != "" {
		t.Errorf("FinalState mismatch (-want +got):\n%s", diff)
	}
}

// 6. Deterministic: same inputs produce the same outcomes and states.
func TestReplay_Deterministic(t *testing.T) {
	steps := []Step{
		{Label: "boot", Action: bootAction(t)},
		{Label: "choose-catalog", Action: selectAction(t, "Catalog")},
	}

	results1 := Replay(state.Initial(), steps)
	results2 := Replay(state.Initial(), steps)

	if diff := cmp.Diff(results1, results2); diff != "" {
		t.Errorf("replay runs differ (-first +second):\n%s", diff)
	}
}

// 7. outcomeFor maps each rejection error to its outcome string.
func TestOutcomeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "illegal transition",
			err:  &reduce.IllegalTransitionError{Mode: mode.Init, Action: action.KindSelectDataset},
			want: "illegal_transition",
		},
		{
			name: "unimplemented transition",
			err:  &reduce.UnimplementedTransitionError{Mode: mode.BindingSelection, Action: action.KindBindProp},
			want: "unimplemented",
		},
		{
			name: "invalid state",
			err:  &mode.InvalidStateError{Summary: "props=0 datasets=0 selected=Catalog bindings=0"},
			want: "invalid_state",
		},
		{
			name: "unknown error",
			err:  errors.New("boom"),
			want: "invalid_state",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := outcomeFor(tc.err); got != tc.want {
				t.Errorf("outcomeFor(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

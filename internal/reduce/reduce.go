package reduce

import (
	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/entity"
	"github.com/danielpatrickdp/binding-state/internal/mode"
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region reduce
// Reduce is a pure function that computes the next state record from the
// previous one and a single action. The previous record is classified first,
// then routed to that mode's reducer; the classification runs on every call
// because each call hands the next one a record it has never seen. The input
// record is never mutated.
func Reduce(prev state.App, act action.Action) (state.App, error) {
	m, err := mode.Classify(prev)
	if err != nil {
		return state.App{}, err
	}

	switch m {
	case mode.Init:
		return reduceInit(prev, act)
	case mode.DatasetSelection:
		return reduceDatasetSelection(prev, act)
	default:
		return reduceBindingSelection(prev, act)
	}
}

// #endregion reduce

// #region reduce-init

// reduceInit accepts only InitApp. The payload populates the record fully:
// props become component properties, dataset names land in declaration
// order, and each dataset's fields are keyed by its name. The result always
// classifies as DatasetSelection.
func reduceInit(prev state.App, act action.Action) (state.App, error) {
	a, ok := act.(action.InitApp)
	if !ok {
		return state.App{}, &IllegalTransitionError{Mode: mode.Init, Action: act.Kind()}
	}

	next := prev.Clone()
	next.ComponentProperties = make([]entity.Prop, len(a.Props))
	for i, p := range a.Props {
		p.Types = append([]string(nil), p.Types...)
		next.ComponentProperties[i] = p
	}
	next.AvailableDatasets = make([]string, 0, len(a.Datasets))
	next.DatasetFields = make(map[string][]entity.Field, len(a.Datasets))
	for _, d := range a.Datasets {
		next.AvailableDatasets = append(next.AvailableDatasets, d.Name)
		next.DatasetFields[d.Name] = append([]entity.Field(nil), d.Fields...)
	}
	return next, nil
}

// #endregion reduce-init

// #region reduce-dataset-selection

// reduceDatasetSelection accepts only SelectDataset. The name overwrites any
// previous selection without checking it against AvailableDatasets; the
// selection screen is trusted to offer only names it was given. The result
// always classifies as BindingSelection.
func reduceDatasetSelection(prev state.App, act action.Action) (state.App, error) {
	a, ok := act.(action.SelectDataset)
	if !ok {
		return state.App{}, &IllegalTransitionError{Mode: mode.DatasetSelection, Action: act.Kind()}
	}

	next := prev.Clone()
	next.SelectedDataset = a.Dataset
	return next, nil
}

// #endregion reduce-dataset-selection

// #region reduce-binding-selection

// reduceBindingSelection recognizes BindProp, ClearProp and ClearDataset but
// none of them has a transition yet. Anything else is a plain mismatch.
func reduceBindingSelection(prev state.App, act action.Action) (state.App, error) {
	switch act.(type) {
	case action.BindProp, action.ClearProp, action.ClearDataset:
		return state.App{}, &UnimplementedTransitionError{Mode: mode.BindingSelection, Action: act.Kind()}
	default:
		return state.App{}, &IllegalTransitionError{Mode: mode.BindingSelection, Action: act.Kind()}
	}
}

// #endregion reduce-binding-selection

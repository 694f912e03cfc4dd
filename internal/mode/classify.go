package mode

import (
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region predicate-order

// classifyOrder fixes the order predicates are probed in. The first match
// wins, so the order is load-bearing: the predicates are only guaranteed
// disjoint for records the reducer itself produced.
var classifyOrder = []struct {
	mode Mode
	pred func(state.App) bool
}{
	{Init, isInit},
	{DatasetSelection, isDatasetSelection},
	{BindingSelection, isBindingSelection},
}

// #endregion predicate-order

// #region classify

// Classify determines the mode of a state record in a single ordered pass
// over the shape predicates. A record matching no predicate yields an
// *InvalidStateError.
func Classify(s state.App) (Mode, error) {
	for _, entry := range classifyOrder {
		if entry.pred(s) {
			return entry.mode, nil
		}
	}
	return "", &InvalidStateError{Summary: s.Summary()}
}

// Matches returns every mode whose predicate holds, in probe order. Classify
// answers the routing question; Matches exists for audits that want to assert
// exclusivity rather than take the first match.
func Matches(s state.App) []Mode {
	var modes []Mode
	for _, entry := range classifyOrder {
		if entry.pred(s) {
			modes = append(modes, entry.mode)
		}
	}
	return modes
}

// #endregion classify

// #region predicates

func isInit(s state.App) bool {
	return len(s.ComponentProperties) == 0 &&
		len(s.AvailableDatasets) == 0 &&
		len(s.DatasetFields) == 0 &&
		s.SelectedDataset == "" &&
		len(s.Bindings) == 0
}

func isDatasetSelection(s state.App) bool {
	return populated(s) &&
		s.SelectedDataset == "" &&
		len(s.Bindings) == 0
}

func isBindingSelection(s state.App) bool {
	return populated(s) && s.SelectedDataset != ""
}

// populated holds when the record carries the full InitApp payload.
func populated(s state.App) bool {
	return len(s.ComponentProperties) > 0 &&
		len(s.AvailableDatasets) > 0 &&
		len(s.DatasetFields) > 0
}

// #endregion predicates

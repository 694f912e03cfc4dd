package mode

import "fmt"

// #region mode
// Mode classifies which phase of the binding workflow a state record is in.
// It is derived from the shape of the record on every classification, never
// stored on the record itself.
type Mode string

const (
	Init             Mode = "init"
	DatasetSelection Mode = "dataset_selection"
	BindingSelection Mode = "binding_selection"
)

// #endregion mode

// #region invalid-state-error

// InvalidStateError signals that a state record matches none of the mode
// predicates. It means the caller handed reduction a malformed record, for
// example one with datasets but no component properties.
type InvalidStateError struct {
	Summary string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("state matches no mode: %s", e.Summary)
}

// #endregion invalid-state-error

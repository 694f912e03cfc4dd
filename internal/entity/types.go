package entity

// #region field
// Field describes one named attribute a dataset exposes for binding.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// #endregion field

// #region prop
// Prop describes a bindable component property and the value types it accepts.
type Prop struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// #endregion prop

// #region dataset
// Dataset describes a data source: its name, an opaque controller reference,
// and the fields it exposes. The controller reference is never inspected
// beyond a presence check.
type Dataset struct {
	Name       string  `json:"name"`
	Controller any     `json:"controller,omitempty"`
	Fields     []Field `json:"fields"`
}

// #endregion dataset

package action

import (
	"fmt"

	"github.com/danielpatrickdp/binding-state/internal/entity"
)

// #region kind
// Kind identifies an action variant. Kinds are stable identifiers used by
// the dispatch journal and replay fixtures.
type Kind string

const (
	KindInitApp       Kind = "init_app"
	KindSelectDataset Kind = "select_dataset"
	KindClearDataset  Kind = "clear_dataset"
	KindBindProp      Kind = "bind_prop"
	KindClearProp     Kind = "clear_prop"
)

// #endregion kind

// #region union
// Action is the closed union of panel actions. Only the variants declared
// in this package implement it; the unexported marker keeps it sealed.
type Action interface {
	Kind() Kind
	String() string
	isAction()
}

// #endregion union

// #region variants

// InitApp boots the panel with the component's properties and the
// datasets available for binding.
type InitApp struct {
	Props    []entity.Prop
	Datasets []entity.Dataset
}

// SelectDataset picks the dataset whose fields the panel will offer.
type SelectDataset struct {
	Dataset string
}

// ClearDataset drops the current dataset selection. No payload.
type ClearDataset struct{}

// BindProp associates a component property with a dataset field.
type BindProp struct {
	Prop  string
	Field string
}

// ClearProp removes the binding for a component property.
type ClearProp struct {
	Prop string
}

func (InitApp) Kind() Kind       { return KindInitApp }
func (SelectDataset) Kind() Kind { return KindSelectDataset }
func (ClearDataset) Kind() Kind  { return KindClearDataset }
func (BindProp) Kind() Kind      { return KindBindProp }
func (ClearProp) Kind() Kind     { return KindClearProp }

func (InitApp) isAction()       {}
func (SelectDataset) isAction() {}
func (ClearDataset) isAction()  {}
func (BindProp) isAction()      {}
func (ClearProp) isAction()     {}

// #endregion variants

// #region display

// String renders the action for logs: the kind plus a compact payload.
func (a InitApp) String() string {
	return fmt.Sprintf("init_app props=%d datasets=%d", len(a.Props), len(a.Datasets))
}

func (a SelectDataset) String() string { return "select_dataset " + a.Dataset }

func (ClearDataset) String() string { return "clear_dataset" }

func (a BindProp) String() string {
	return fmt.Sprintf("bind_prop %s=%s", a.Prop, a.Field)
}

func (a ClearProp) String() string { return "clear_prop " + a.Prop }

// #endregion display

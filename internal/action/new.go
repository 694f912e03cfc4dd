package action

import (
	"fmt"

	"github.com/danielpatrickdp/binding-state/internal/entity"
)

// Constructors validate payloads before an action can enter the reducer.
// Shape violations fail with *entity.ValidationError; a value built through
// a constructor never needs re-validation downstream.

// #region constructors

// NewInitApp validates every prop and dataset compositionally. Both
// sequences must be non-empty: the boot payload is what moves the panel
// out of its empty mode, so an empty payload has no meaning.
func NewInitApp(props []entity.Prop, datasets []entity.Dataset) (InitApp, error) {
	verr := &entity.ValidationError{Kind: string(KindInitApp)}
	if len(props) == 0 {
		verr.Add("props", "at least one prop required")
	}
	if len(datasets) == 0 {
		verr.Add("datasets", "at least one dataset required")
	}
	for i, p := range props {
		if !entity.ValidProp(p) {
			verr.Add(fmt.Sprintf("props[%d]", i), "not a valid prop")
		}
	}
	for i, d := range datasets {
		if !entity.ValidDataset(d) {
			verr.Add(fmt.Sprintf("datasets[%d]", i), "not a valid dataset")
		}
	}
	if err := verr.OrNil(); err != nil {
		return InitApp{}, err
	}
	return InitApp{
		Props:    append([]entity.Prop(nil), props...),
		Datasets: append([]entity.Dataset(nil), datasets...),
	}, nil
}

// NewSelectDataset rejects an empty dataset name: absence of a selection is
// represented by the empty string in state, so an empty name must never
// enter through an action.
func NewSelectDataset(dataset string) (SelectDataset, error) {
	if dataset == "" {
		verr := &entity.ValidationError{Kind: string(KindSelectDataset)}
		verr.Add("dataset", "required")
		return SelectDataset{}, verr
	}
	return SelectDataset{Dataset: dataset}, nil
}

// NewClearDataset constructs the payload-free ClearDataset action.
func NewClearDataset() ClearDataset {
	return ClearDataset{}
}

// NewBindProp validates that both names are present.
func NewBindProp(prop, field string) (BindProp, error) {
	verr := &entity.ValidationError{Kind: string(KindBindProp)}
	if prop == "" {
		verr.Add("prop", "required")
	}
	if field == "" {
		verr.Add("field", "required")
	}
	if err := verr.OrNil(); err != nil {
		return BindProp{}, err
	}
	return BindProp{Prop: prop, Field: field}, nil
}

// NewClearProp validates that the prop name is present.
func NewClearProp(prop string) (ClearProp, error) {
	if prop == "" {
		verr := &entity.ValidationError{Kind: string(KindClearProp)}
		verr.Add("prop", "required")
		return ClearProp{}, verr
	}
	return ClearProp{Prop: prop}, nil
}

// #endregion constructors

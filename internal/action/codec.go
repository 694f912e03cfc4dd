package action

import (
	"encoding/json"
	"fmt"

	"github.com/danielpatrickdp/binding-state/internal/entity"
)

// #region envelope

// Envelope is the flat JSON shape for an action, shared by the dispatch
// journal and replay fixtures. Kind selects the variant; only that
// variant's payload fields are read.
type Envelope struct {
	Kind     string           `json:"kind"`
	Props    []entity.Prop    `json:"props,omitempty"`
	Datasets []entity.Dataset `json:"datasets,omitempty"`
	Dataset  string           `json:"dataset,omitempty"`
	Prop     string           `json:"prop,omitempty"`
	Field    string           `json:"field,omitempty"`
}

// Build constructs the domain action through its validating constructor,
// so a stored envelope can never smuggle in a payload a live dispatch
// would have rejected.
func (e Envelope) Build() (Action, error) {
	switch Kind(e.Kind) {
	case KindInitApp:
		return NewInitApp(e.Props, e.Datasets)
	case KindSelectDataset:
		return NewSelectDataset(e.Dataset)
	case KindClearDataset:
		return NewClearDataset(), nil
	case KindBindProp:
		return NewBindProp(e.Prop, e.Field)
	case KindClearProp:
		return NewClearProp(e.Prop)
	default:
		return nil, fmt.Errorf("unknown action kind %q", e.Kind)
	}
}

// #endregion envelope

// #region encode-decode

// Encode renders an action as envelope JSON.
func Encode(a Action) ([]byte, error) {
	var e Envelope
	switch v := a.(type) {
	case InitApp:
		e = Envelope{Kind: string(KindInitApp), Props: v.Props, Datasets: v.Datasets}
	case SelectDataset:
		e = Envelope{Kind: string(KindSelectDataset), Dataset: v.Dataset}
	case ClearDataset:
		e = Envelope{Kind: string(KindClearDataset)}
	case BindProp:
		e = Envelope{Kind: string(KindBindProp), Prop: v.Prop, Field: v.Field}
	case ClearProp:
		e = Envelope{Kind: string(KindClearProp), Prop: v.Prop}
	default:
		return nil, fmt.Errorf("unknown action type %T", a)
	}
	return json.Marshal(e)
}

// Decode parses envelope JSON back into a validated action.
func Decode(data []byte) (Action, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse action: %w", err)
	}
	return e.Build()
}

// #endregion encode-decode

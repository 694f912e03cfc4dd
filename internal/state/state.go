package state

import (
	"fmt"

	"github.com/danielpatrickdp/binding-state/internal/entity"
)

// #region app-record
// App is the binding panel's full state record. Reduction never mutates an
// App in place; each step derives a new record. An empty SelectedDataset
// means no dataset is selected.
type App struct {
	ComponentProperties []entity.Prop             `json:"component_properties"`
	AvailableDatasets   []string                  `json:"available_datasets"`
	DatasetFields       map[string][]entity.Field `json:"dataset_fields"`
	SelectedDataset     string                    `json:"selected_dataset,omitempty"`
	Bindings            map[string]string         `json:"bindings"`
}

// #endregion app-record

// #region initial
// Initial returns the canonical empty record the panel boots from.
func Initial() App {
	return App{
		DatasetFields: map[string][]entity.Field{},
		Bindings:      map[string]string{},
	}
}

// #endregion initial

// #region clone
// Clone deep-copies the record, down to the per-dataset field slices and
// each prop's accepted-types slice, so a derived record never aliases its
// parent.
func (a App) Clone() App {
	out := App{
		AvailableDatasets: append([]string(nil), a.AvailableDatasets...),
		DatasetFields:     make(map[string][]entity.Field, len(a.DatasetFields)),
		SelectedDataset:   a.SelectedDataset,
		Bindings:          make(map[string]string, len(a.Bindings)),
	}
	if a.ComponentProperties != nil {
		out.ComponentProperties = make([]entity.Prop, len(a.ComponentProperties))
		for i, p := range a.ComponentProperties {
			p.Types = append([]string(nil), p.Types...)
			out.ComponentProperties[i] = p
		}
	}
	for name, fields := range a.DatasetFields {
		out.DatasetFields[name] = append([]entity.Field(nil), fields...)
	}
	for prop, field := range a.Bindings {
		out.Bindings[prop] = field
	}
	return out
}

// #endregion clone

// #region summary
// Summary renders a compact one-line view for logs and the journal.
func (a App) Summary() string {
	selected := a.SelectedDataset
	if selected == "" {
		selected = "-"
	}
	return fmt.Sprintf("props=%d datasets=%d selected=%s bindings=%d",
		len(a.ComponentProperties), len(a.AvailableDatasets), selected, len(a.Bindings))
}

// #endregion summary

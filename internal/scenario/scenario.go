package scenario

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/entity"
)

//go:embed *.yaml
var files embed.FS

// #region types

// Step is one scripted action within a scenario.
type Step struct {
	Label  string
	Action action.Action
}

// Scenario is a named demo script: a boot payload plus the steps to feed
// through a session. Values are constructor-validated during Load, so a
// loaded scenario can be dispatched without further checks.
type Scenario struct {
	Name        string
	Description string
	Props       []entity.Prop
	Datasets    []entity.Dataset
	Steps       []Step
}

// #endregion types

// #region yaml-shapes

// Raw YAML shapes. Kept separate from the domain types so the YAML schema
// can stay flat while construction goes through the validating constructors.
type rawScenario struct {
	Description string       `yaml:"description"`
	Props       []rawProp    `yaml:"props"`
	Datasets    []rawDataset `yaml:"datasets"`
	Steps       []rawStep    `yaml:"steps"`
}

type rawProp struct {
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
}

type rawField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type rawDataset struct {
	Name       string     `yaml:"name"`
	Controller string     `yaml:"controller"`
	Fields     []rawField `yaml:"fields"`
}

type rawStep struct {
	Label   string `yaml:"label"`
	Action  string `yaml:"action"`
	Dataset string `yaml:"dataset"`
	Prop    string `yaml:"prop"`
	Field   string `yaml:"field"`
}

// #endregion yaml-shapes

// #region loader

// List returns the names of all embedded scenarios, sorted.
func List() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// Load parses the named embedded scenario into validated domain values.
func Load(name string) (*Scenario, error) {
	data, err := files.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown scenario %q (have: %s)", name, strings.Join(List(), ", "))
	}
	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", name, err)
	}
	return build(name, raw)
}

// build walks the raw shapes through the entity and action constructors.
// Any shape violation surfaces here, not at dispatch time.
func build(name string, raw rawScenario) (*Scenario, error) {
	sc := &Scenario{
		Name:        name,
		Description: raw.Description,
	}

	for i, rp := range raw.Props {
		p, err := entity.NewProp(rp.Name, rp.Types)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: props[%d]: %w", name, i, err)
		}
		sc.Props = append(sc.Props, p)
	}

	for i, rd := range raw.Datasets {
		fields := make([]entity.Field, 0, len(rd.Fields))
		for j, rf := range rd.Fields {
			f, err := entity.NewField(rf.Name, rf.Type)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: datasets[%d].fields[%d]: %w", name, i, j, err)
			}
			fields = append(fields, f)
		}
		// A missing controller key must fail the presence check, so an
		// empty string maps to a nil reference rather than passing as one.
		var controller any
		if rd.Controller != "" {
			controller = rd.Controller
		}
		d, err := entity.NewDataset(rd.Name, controller, fields)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: datasets[%d]: %w", name, i, err)
		}
		sc.Datasets = append(sc.Datasets, d)
	}

	for i, rs := range raw.Steps {
		act, err := buildAction(sc, rs)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: steps[%d] (%s): %w", name, i, rs.Label, err)
		}
		sc.Steps = append(sc.Steps, Step{Label: rs.Label, Action: act})
	}

	return sc, nil
}

// buildAction resolves one step. An init_app step takes its payload from
// the scenario's own props and datasets rather than repeating them inline.
func buildAction(sc *Scenario, rs rawStep) (action.Action, error) {
	switch action.Kind(rs.Action) {
	case action.KindInitApp:
		return action.NewInitApp(sc.Props, sc.Datasets)
	case action.KindSelectDataset:
		return action.NewSelectDataset(rs.Dataset)
	case action.KindClearDataset:
		return action.NewClearDataset(), nil
	case action.KindBindProp:
		return action.NewBindProp(rs.Prop, rs.Field)
	case action.KindClearProp:
		return action.NewClearProp(rs.Prop)
	default:
		return nil, fmt.Errorf("unknown action %q", rs.Action)
	}
}

// #endregion loader

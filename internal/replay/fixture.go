package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string            `json:"description"`
	StartState      state.App         `json:"start_state"`
	Steps           []FixtureStep     `json:"steps"`
	ExpectedResults []FixtureExpected `json:"expected_results"`
}

// FixtureStep is one recorded step.
type FixtureStep struct {
	Label  string          `json:"label"`
	Action action.Envelope `json:"action"`
}

// FixtureExpected captures the expected outcome per step.
type FixtureExpected struct {
	Label   string `json:"label"`
	Outcome string `json:"outcome"`
	Mode    string `json:"mode,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToSteps converts every fixture step to a domain step. Each envelope goes
// through its validating constructor, so a fixture can never smuggle in a
// payload a live dispatch would have rejected.
func (f *Fixture) ToSteps() ([]Step, error) {
	steps := make([]Step, len(f.Steps))
	for i := range f.Steps {
		act, err := f.Steps[i].Action.Build()
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, f.Steps[i].Label, err)
		}
		steps[i] = Step{Label: f.Steps[i].Label, Action: act}
	}
	return steps, nil
}

// #endregion fixture-loader

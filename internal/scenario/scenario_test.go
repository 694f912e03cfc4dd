package scenario

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/session"
)

// TestList returns the embedded catalog in sorted order.
func TestList(t *testing.T) {
	got := List()
	want := []string{"alpine-store", "catalog", "skip-init"}
	if len(got) != len(want) {
		t.Fatalf("expected %d scenarios, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// TestLoad_Catalog spot-checks the walkthrough scenario's payload and steps.
func TestLoad_Catalog(t *testing.T) {
	sc, err := Load("catalog")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sc.Name != "catalog" {
		t.Errorf("expected name=catalog, got %s", sc.Name)
	}
	if sc.Description == "" {
		t.Error("expected a description")
	}
	if len(sc.Props) != 1 || sc.Props[0].Name != "value" {
		t.Fatalf("expected one prop named value, got %+v", sc.Props)
	}
	if len(sc.Props[0].Types) != 2 {
		t.Errorf("expected 2 accepted types on value, got %v", sc.Props[0].Types)
	}
	if len(sc.Datasets) != 1 || sc.Datasets[0].Name != "Catalog" {
		t.Fatalf("expected one dataset named Catalog, got %+v", sc.Datasets)
	}
	if len(sc.Datasets[0].Fields) != 2 {
		t.Errorf("expected 2 fields on Catalog, got %v", sc.Datasets[0].Fields)
	}

	wantKinds := []action.Kind{action.KindInitApp, action.KindSelectDataset, action.KindBindProp}
	if len(sc.Steps) != len(wantKinds) {
		t.Fatalf("expected %d steps, got %d", len(wantKinds), len(sc.Steps))
	}
	for i, k := range wantKinds {
		if sc.Steps[i].Action.Kind() != k {
			t.Errorf("step %d: expected kind %s, got %s", i, k, sc.Steps[i].Action.Kind())
		}
		if sc.Steps[i].Label == "" {
			t.Errorf("step %d: expected a label", i)
		}
	}
}

// TestLoad_All verifies every embedded scenario parses and validates.
func TestLoad_All(t *testing.T) {
	names := List()
	if len(names) == 0 {
		t.Fatal("expected at least one embedded scenario")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			sc, err := Load(name)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if sc.Description == "" {
				t.Error("expected a description")
			}
			if len(sc.Steps) == 0 {
				t.Error("expected at least one step")
			}
			for i, step := range sc.Steps {
				if step.Action == nil {
					t.Errorf("step %d (%s): nil action", i, step.Label)
				}
			}
		})
	}
}

// TestLoad_Unknown names the available scenarios in the error.
func TestLoad_Unknown(t *testing.T) {
	_, err := Load("no-such-scenario")
	if err == nil {
		t.Fatal("expected error for unknown scenario, got nil")
	}
	if !strings.Contains(err.Error(), "catalog") {
		t.Errorf("expected error to list known scenarios, got: %v", err)
	}
}

// TestScenario_Decisions runs each scenario through a fresh session and
// checks the decision sequence. This keeps the demo scripts truthful: a
// reducer change that alters any outcome fails here before it ships.
func TestScenario_Decisions(t *testing.T) {
	cases := []struct {
		name string
		want []session.Decision
	}{
		{
			name: "catalog",
			want: []session.Decision{
				session.DecisionCommit,
				session.DecisionCommit,
				session.DecisionUnimplemented,
			},
		},
		{
			name: "skip-init",
			want: []session.Decision{
				session.DecisionIllegalTransition,
				session.DecisionCommit,
				session.DecisionCommit,
			},
		},
		{
			name: "alpine-store",
			want: []session.Decision{
				session.DecisionCommit,
				session.DecisionIllegalTransition,
				session.DecisionCommit,
				session.DecisionUnimplemented,
				session.DecisionUnimplemented,
				session.DecisionUnimplemented,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := Load(tc.name)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(sc.Steps) != len(tc.want) {
				t.Fatalf("expected %d steps, got %d", len(tc.want), len(sc.Steps))
			}

			sess := session.New()
			for i, step := range sc.Steps {
				got, _ := sess.Dispatch(step.Action)
				if got.Decision != tc.want[i] {
					t.Errorf("step %d (%s): expected %s, got %s (reason: %s)",
						i, step.Label, tc.want[i], got.Decision, got.Reason)
				}
			}
		})
	}
}

// TestBuild_InvalidProp verifies that a malformed payload fails at load, not
// at dispatch.
func TestBuild_InvalidProp(t *testing.T) {
	raw := rawScenario{
		Props:    []rawProp{{Name: "", Types: []string{"Text"}}},
		Datasets: []rawDataset{{Name: "D", Controller: "#c"}},
	}
	_, err := build("bad", raw)
	if err == nil {
		t.Fatal("expected error for empty prop name, got nil")
	}
}

// TestBuild_UnknownAction verifies that an unrecognized step action is
// refused.
func TestBuild_UnknownAction(t *testing.T) {
	raw := rawScenario{
		Steps: []rawStep{{Label: "x", Action: "reticulate_splines"}},
	}
	_, err := build("bad", raw)
	if err == nil {
		t.Fatal("expected error for unknown action, got nil")
	}
	if !strings.Contains(err.Error(), "reticulate_splines") {
		t.Errorf("expected the unknown action in the error, got: %v", err)
	}
}

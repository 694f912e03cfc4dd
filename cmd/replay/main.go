package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/journal"
	"github.com/danielpatrickdp/binding-state/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the panel journal (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/panel.db")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	steps, err := f.ToSteps()
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert fixture: %v\n", err)
		return 2
	}

	results := replay.Replay(f.StartState, steps)

	expected := make([]string, len(f.ExpectedResults))
	for i, e := range f.ExpectedResults {
		expected[i] = e.Outcome
	}

	return printComparison(results, expected)
}

// #endregion fixture-mode

// #region db-mode

// runDBMode rebuilds the dispatched action sequence from the journal and
// re-runs it from the boot revision. A divergence means the reduction rules
// have drifted since the journal was written.
func runDBMode(dbPath string) int {
	store, err := journal.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	// The boot revision is the one with no parent.
	var bootID string
	err = store.DB().QueryRow(
		`SELECT revision_id FROM revisions WHERE parent_id IS NULL ORDER BY created_at ASC LIMIT 1`,
	).Scan(&bootID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "find boot revision: %v\n", err)
		return 2
	}

	boot, err := store.GetRevision(bootID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get boot revision: %v\n", err)
		return 2
	}

	trail, err := store.DispatchTrail()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read dispatch trail: %v\n", err)
		return 2
	}
	if len(trail) == 0 {
		fmt.Fprintln(os.Stderr, "no dispatches found in journal")
		return 2
	}

	steps := make([]replay.Step, len(trail))
	expected := make([]string, len(trail))
	for i, entry := range trail {
		act, err := action.Decode([]byte(entry.ActionJSON))
		if err != nil {
			fmt.Fprintf(os.Stderr, "rebuild action for step %d (%s): %v\n", i+1, entry.ActionKind, err)
			return 2
		}
		steps[i] = replay.Step{
			Label:  fmt.Sprintf("step-%d", i+1),
			Action: act,
		}
		expected[i] = entry.Decision
	}

	results := replay.Replay(boot.State, steps)
	return printComparison(results, expected)
}

// #endregion db-mode

// #region output

// printComparison outputs a comparison table and returns the exit code.
// expected holds the reference outcomes (from the fixture or the journal).
func printComparison(results []replay.StepResult, expected []string) int {
	fmt.Printf("%-16s| %-19s| %-19s| %s\n", "Step", "Expected", "Replayed", "Match")
	fmt.Printf("%-16s+%-20s+%-20s+%s\n",
		"----------------", "--------------------", "--------------------", "------")

	matches := 0
	total := len(results)
	if len(expected) < total {
		total = len(expected)
	}

	for i := 0; i < total; i++ {
		exp := expected[i]
		got := results[i].Outcome
		match := "DIFF"
		if exp == got {
			match = "OK"
			matches++
		}
		fmt.Printf("%-16s| %-19s| %-19s| %s\n", results[i].Label, exp, got, match)
	}

	diverge := total - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", total, matches, diverge)

	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion output

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/journal"
	"github.com/danielpatrickdp/binding-state/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the panel journal")
	last := flag.Int("last", 8, "number of most recent dispatches to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/panel.db --out path/to/fixture.json [--last N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region extract

func run(dbPath string, last int, outPath string) error {
	store, err := journal.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	// The boot revision is the one with no parent.
	var bootID string
	err = store.DB().QueryRow(
		`SELECT revision_id FROM revisions WHERE parent_id IS NULL ORDER BY created_at ASC LIMIT 1`,
	).Scan(&bootID)
	if err != nil {
		return fmt.Errorf("find boot revision: %w", err)
	}

	boot, err := store.GetRevision(bootID)
	if err != nil {
		return fmt.Errorf("get boot revision: %w", err)
	}

	// Newest first from the store, reversed for chronological order.
	recent, err := store.RecentDispatches(last)
	if err != nil {
		return fmt.Errorf("read dispatches: %w", err)
	}

	var steps []replay.FixtureStep
	var expected []replay.FixtureExpected
	for i := len(recent) - 1; i >= 0; i-- {
		entry := recent[i]
		if entry.ActionJSON == "" {
			continue
		}
		var env action.Envelope
		if err := json.Unmarshal([]byte(entry.ActionJSON), &env); err != nil {
			continue
		}
		if _, err := env.Build(); err != nil {
			continue // not a replayable payload
		}

		label := fmt.Sprintf("step-%d", len(steps)+1)
		steps = append(steps, replay.FixtureStep{Label: label, Action: env})
		expected = append(expected, replay.FixtureExpected{
			Label:   label,
			Outcome: entry.Decision,
			Mode:    entry.ModeAfter,
		})
	}

	if len(steps) == 0 {
		return fmt.Errorf("no replayable dispatches found in last %d entries", last)
	}

	fmt.Printf("Found %d replayable dispatches\n", len(steps))

	fixture := replay.Fixture{
		Description:     fmt.Sprintf("Journal export: %d dispatches replayed from the boot revision", len(steps)),
		StartState:      boot.State,
		Steps:           steps,
		ExpectedResults: expected,
	}

	return writeFixture(fixture, outPath)
}

// #endregion extract

// #region output

func writeFixture(fixture replay.Fixture, outPath string) error {
	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d steps)\n", outPath, len(data), len(fixture.Steps))
	return nil
}

// #endregion output

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/journal"
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the panel journal")
	last := flag.Int("last", 20, "show N most recent revisions")
	revision := flag.String("revision", "", "show single revision detail")
	trail := flag.Bool("trail", false, "show the dispatch trail (rejections included) instead of revisions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/panel.db [--last N] [--revision id] [--trail] [--json]")
		os.Exit(2)
	}

	store, err := journal.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *revision != "":
		err = runDetailMode(store, *revision, *jsonOut)
	case *trail:
		err = runTrailMode(store, *last, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RevisionID string `json:"revision_id"`
	Mode       string `json:"mode"`
	ActionKind string `json:"action_kind,omitempty"`
	Decision   string `json:"decision,omitempty"`
	State      string `json:"state"`
	CreatedAt  string `json:"created_at"`
}

func runListMode(store *journal.Store, last int, jsonOut bool) error {
	revisions, err := store.ListRevisionsWithDispatch(last)
	if err != nil {
		return err
	}
	if len(revisions) == 0 {
		fmt.Fprintln(os.Stderr, "no revisions found")
		return nil
	}

	// Store returns DESC, reverse for chronological
	rows := make([]listRow, len(revisions))
	for i, rd := range revisions {
		rows[len(revisions)-1-i] = listRow{
			RevisionID: rd.RevisionID,
			Mode:       rd.Mode,
			ActionKind: rd.ActionKind,
			Decision:   rd.Decision,
			State:      rd.State.Summary(),
			CreatedAt:  rd.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	return printListTable(rows, revisions[0].State)
}

func printListTable(rows []listRow, latest state.App) error {
	fmt.Printf("%-12s  %-18s  %-16s  %-10s  %-42s  %s\n",
		"Revision", "Mode", "Action", "Decision", "State", "Time")
	fmt.Printf("%-12s+-%-18s+-%-16s+-%-10s+-%-42s+-%s\n",
		"------------", "------------------", "----------------", "----------",
		"------------------------------------------", "--------------------")

	for _, r := range rows {
		fmt.Printf("%-12s  %-18s  %-16s  %-10s  %-42s  %s\n",
			shortID(r.RevisionID), r.Mode, orDash(r.ActionKind), orDash(r.Decision),
			r.State, r.CreatedAt)
	}

	fmt.Printf("\nRecord (latest):\n")
	printRecord(latest)
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	RevisionID string           `json:"revision_id"`
	ParentID   string           `json:"parent_id,omitempty"`
	CreatedAt  string           `json:"created_at"`
	Mode       string           `json:"mode"`
	ActionKind string           `json:"action_kind,omitempty"`
	Action     *action.Envelope `json:"action,omitempty"`
	Decision   string           `json:"decision,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	State      state.App        `json:"state"`
}

func runDetailMode(store *journal.Store, revisionID string, jsonOut bool) error {
	rd, err := store.GetRevisionWithDispatch(revisionID)
	if err != nil {
		return err
	}

	out := detailOutput{
		RevisionID: rd.RevisionID,
		ParentID:   rd.ParentID,
		CreatedAt:  rd.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Mode:       rd.Mode,
		ActionKind: rd.ActionKind,
		Action:     parseEnvelope(rd.ActionJSON),
		Decision:   rd.Decision,
		Reason:     rd.Reason,
		State:      rd.State,
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Revision:   %s\n", out.RevisionID)
	fmt.Printf("Parent:     %s\n", orDash(out.ParentID))
	fmt.Printf("Created:    %s\n", out.CreatedAt)
	fmt.Printf("Mode:       %s\n", out.Mode)
	fmt.Printf("Action:     %s\n", describeAction(rd.ActionKind, rd.ActionJSON))
	fmt.Printf("Decision:   %s\n", orDash(out.Decision))
	if out.Reason != "" {
		fmt.Printf("Reason:     %s\n", out.Reason)
	}

	fmt.Printf("\nRecord:\n")
	printRecord(out.State)
	return nil
}

// #endregion detail-mode

// #region trail-mode

type trailRow struct {
	RevisionID string           `json:"revision_id"`
	ActionKind string           `json:"action_kind"`
	Action     *action.Envelope `json:"action,omitempty"`
	ModeBefore string           `json:"mode_before"`
	ModeAfter  string           `json:"mode_after"`
	Decision   string           `json:"decision"`
	Reason     string           `json:"reason,omitempty"`
	ElapsedUS  int64            `json:"elapsed_us"`
	CreatedAt  string           `json:"created_at"`
}

func runTrailMode(store *journal.Store, last int, jsonOut bool) error {
	entries, err := store.RecentDispatches(last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no dispatches found")
		return nil
	}

	rows := make([]trailRow, len(entries))
	for i, e := range entries {
		rows[len(entries)-1-i] = trailRow{
			RevisionID: e.RevisionID,
			ActionKind: e.ActionKind,
			Action:     parseEnvelope(e.ActionJSON),
			ModeBefore: e.ModeBefore,
			ModeAfter:  e.ModeAfter,
			Decision:   e.Decision,
			Reason:     e.Reason,
			ElapsedUS:  e.ElapsedUS,
			CreatedAt:  e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %-16s  %-18s  %-18s  %-18s  %s\n",
		"Revision", "Action", "Before", "After", "Decision", "Time")
	fmt.Printf("%-12s+-%-16s+-%-18s+-%-18s+-%-18s+-%s\n",
		"------------", "----------------", "------------------", "------------------",
		"------------------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-12s  %-16s  %-18s  %-18s  %-18s  %s\n",
			shortID(r.RevisionID), r.ActionKind, r.ModeBefore, r.ModeAfter, r.Decision, r.CreatedAt)
		if r.Reason != "" {
			fmt.Printf("              reason: %s\n", r.Reason)
		}
	}
	return nil
}

// #endregion trail-mode

// #region output

func printRecord(st state.App) {
	fmt.Printf("  Props:\n")
	if len(st.ComponentProperties) == 0 {
		fmt.Printf("    (none)\n")
	}
	for _, p := range st.ComponentProperties {
		fmt.Printf("    %-12s %s\n", p.Name, strings.Join(p.Types, ", "))
	}

	fmt.Printf("  Datasets:\n")
	if len(st.AvailableDatasets) == 0 {
		fmt.Printf("    (none)\n")
	}
	for _, name := range st.AvailableDatasets {
		marker := " "
		if name == st.SelectedDataset {
			marker = "*"
		}
		fmt.Printf("  %s %-12s %d fields\n", marker, name, len(st.DatasetFields[name]))
	}

	fmt.Printf("  Bindings:\n")
	if len(st.Bindings) == 0 {
		fmt.Printf("    (none)\n")
		return
	}
	props := make([]string, 0, len(st.Bindings))
	for p := range st.Bindings {
		props = append(props, p)
	}
	sort.Strings(props)
	for _, p := range props {
		fmt.Printf("    %-12s -> %s\n", p, st.Bindings[p])
	}
}

// parseEnvelope decodes a journaled action payload for JSON output. Returns
// nil when the column is empty or holds something unreadable.
func parseEnvelope(actionJSON string) *action.Envelope {
	if actionJSON == "" {
		return nil
	}
	var e action.Envelope
	if err := json.Unmarshal([]byte(actionJSON), &e); err != nil || e.Kind == "" {
		return nil
	}
	return &e
}

// describeAction renders the journaled action the way the panel logs it,
// falling back to the bare kind when the payload is unreadable.
func describeAction(kind, actionJSON string) string {
	if actionJSON != "" {
		if act, err := action.Decode([]byte(actionJSON)); err == nil {
			return act.String()
		}
	}
	return orDash(kind)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output

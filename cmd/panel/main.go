package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/journal"
	"github.com/danielpatrickdp/binding-state/internal/scenario"
	"github.com/danielpatrickdp/binding-state/internal/session"
)

// #region main
func main() {
	var (
		scenarioName = flag.String("scenario", envOr("PANEL_SCENARIO", "catalog"), "embedded scenario to run")
		dbPath       = flag.String("db", envOr("PANEL_DB", ""), "SQLite journal path (empty = in-memory only)")
		interactive  = flag.Bool("interactive", false, "drive the panel by hand instead of running a scenario")
		list         = flag.Bool("list", false, "list embedded scenarios and exit")
	)
	flag.Parse()

	if *list {
		listScenarios()
		return
	}

	sc, err := scenario.Load(*scenarioName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "panel: %v\n", err)
		os.Exit(2)
	}

	sess, cleanup, err := openSession(*dbPath)
	if err != nil {
		log.Fatalf("failed to open session: %v", err)
	}
	defer cleanup()

	fmt.Println("Binding panel ready.")
	fmt.Printf("  Scenario: %s | DB: %s\n", sc.Name, orDash(*dbPath))

	if *interactive {
		repl(sess, sc)
		return
	}

	runScenario(sess, sc)
}

// #endregion main

// #region scenario-runner

// runScenario dispatches every step of the script, printing one decision
// line per step and a state summary after each commit.
func runScenario(sess *session.Session, sc *scenario.Scenario) {
	fmt.Println(strings.TrimSpace(sc.Description))
	fmt.Println()

	commits, rejections := 0, 0
	for _, step := range sc.Steps {
		result, err := sess.Dispatch(step.Action)
		fmt.Printf("[%s] decision=%s mode=%s\n", step.Label, result.Decision, result.ModeAfter)
		if err != nil {
			rejections++
			fmt.Printf("  refused: %s\n", result.Reason)
			continue
		}
		commits++
		fmt.Printf("  state: %s\n", result.State.Summary())
	}

	fmt.Println()
	fmt.Printf("scenario complete: %d steps, %d commits, %d rejections\n",
		len(sc.Steps), commits, rejections)
	fmt.Printf("final: mode=%s rev=%s\n", sess.Mode(), sess.RevisionID())
}

// #endregion scenario-runner

// #region repl

const replHelp = `commands:
  init                  dispatch init_app with the scenario's boot payload
  select <dataset>      dispatch select_dataset
  bind <prop> <field>   dispatch bind_prop
  unbind <prop>         dispatch clear_prop
  clear                 dispatch clear_dataset
  state                 print the current record as JSON
  mode                  print the current mode and revision
  help                  this text
  quit                  exit`

// repl drives the session by hand. The loaded scenario only contributes the
// boot payload for the init command.
func repl(sess *session.Session, sc *scenario.Scenario) {
	fmt.Println("Interactive mode. Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		args := strings.Fields(line)
		switch args[0] {
		case "help":
			fmt.Println(replHelp)
		case "state":
			printState(sess)
		case "mode":
			fmt.Printf("mode=%s rev=%s\n", sess.Mode(), sess.RevisionID())
		default:
			act, err := parseCommand(args, sc)
			if err != nil {
				log.Printf("error: %v", err)
				continue
			}
			result, err := sess.Dispatch(act)
			if err != nil {
				fmt.Printf("refused (%s): %s\n", result.Decision, result.Reason)
				continue
			}
			fmt.Printf("committed: mode=%s rev=%s\n", result.ModeAfter, shortID(result.RevisionID))
			fmt.Printf("  state: %s\n", result.State.Summary())
		}
	}
}

// parseCommand builds an action from a REPL line through the validating
// constructors.
func parseCommand(args []string, sc *scenario.Scenario) (action.Action, error) {
	switch args[0] {
	case "init":
		return action.NewInitApp(sc.Props, sc.Datasets)
	case "select":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: select <dataset>")
		}
		return action.NewSelectDataset(args[1])
	case "bind":
		if len(args) != 3 {
			return nil, fmt.Errorf("usage: bind <prop> <field>")
		}
		return action.NewBindProp(args[1], args[2])
	case "unbind":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: unbind <prop>")
		}
		return action.NewClearProp(args[1])
	case "clear":
		return action.NewClearDataset(), nil
	default:
		return nil, fmt.Errorf("unknown command %q (try 'help')", args[0])
	}
}

func printState(sess *session.Session) {
	data, err := json.MarshalIndent(sess.State(), "", "  ")
	if err != nil {
		log.Printf("marshal state: %v", err)
		return
	}
	fmt.Println(string(data))
}

// #endregion repl

// #region helpers

// openSession attaches a journal when a path is given, and reports how the
// session came up.
func openSession(dbPath string) (*session.Session, func(), error) {
	if dbPath == "" {
		return session.New(), func() {}, nil
	}
	store, err := journal.NewStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal %s: %w", dbPath, err)
	}
	sess, err := session.NewWithJournal(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return sess, func() { store.Close() }, nil
}

func listScenarios() {
	for _, name := range scenario.List() {
		sc, err := scenario.Load(name)
		if err != nil {
			log.Printf("skipping %s: %v", name, err)
			continue
		}
		fmt.Printf("%-14s %s\n", name, strings.TrimSpace(sc.Description))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion helpers

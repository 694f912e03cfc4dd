package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/journal"
	"github.com/danielpatrickdp/binding-state/internal/mode"
	"github.com/danielpatrickdp/binding-state/internal/reduce"
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region session-struct

// Session drives the binding panel state machine. It owns the current
// record, tracks its revision lineage, and optionally journals every
// dispatch. Reduction itself stays pure; the session is the only place
// that holds mutable position.
type Session struct {
	current  state.App
	mode     mode.Mode
	revision string
	parent   string
	store    *journal.Store // nil = in-memory only
}

// #endregion session-struct

// #region constructors

// New starts an in-memory session on the empty record.
func New() *Session {
	return &Session{
		current:  state.Initial(),
		mode:     mode.Init,
		revision: uuid.New().String(),
	}
}

// NewWithJournal starts a session backed by a journal. An existing head
// revision is resumed; a fresh journal gets the boot revision written first.
func NewWithJournal(store *journal.Store) (*Session, error) {
	head, err := store.Head()
	if err != nil {
		rec, aerr := store.AppendInitial(state.Initial(), string(mode.Init))
		if aerr != nil {
			return nil, fmt.Errorf("append initial revision: %w", aerr)
		}
		log.Printf("[SESS] no head revision, booted %s", shortID(rec.RevisionID))
		return &Session{
			current:  rec.State,
			mode:     mode.Init,
			revision: rec.RevisionID,
			store:    store,
		}, nil
	}

	m, cerr := mode.Classify(head.State)
	if cerr != nil {
		return nil, fmt.Errorf("resume head %s: %w", head.RevisionID, cerr)
	}
	log.Printf("[SESS] resumed %s mode=%s", shortID(head.RevisionID), m)
	return &Session{
		current:  head.State,
		mode:     m,
		revision: head.RevisionID,
		parent:   head.ParentID,
		store:    store,
	}, nil
}

// #endregion constructors

// #region accessors

// State returns a deep copy of the current record.
func (s *Session) State() state.App {
	return s.current.Clone()
}

// Mode returns the current mode.
func (s *Session) Mode() mode.Mode {
	return s.mode
}

// RevisionID returns the current head revision.
func (s *Session) RevisionID() string {
	return s.revision
}

// #endregion accessors

// #region dispatch

// Dispatch routes one action through reduction. On a commit the session
// advances to the new record under a fresh revision; on a rejection it
// stays where it was. The returned Step describes the outcome either way,
// and the error carries the typed failure when the dispatch was rejected.
func (s *Session) Dispatch(act action.Action) (Step, error) {
	start := time.Now()
	modeBefore := s.mode

	next, err := reduce.Reduce(s.current, act)
	if err != nil {
		step := s.rejected(act, modeBefore, decisionFor(err), err.Error(), time.Since(start))
		s.logStep(step)
		s.journalStep(step)
		return step, err
	}

	// Post-reduction audit: a committed record must match exactly one mode.
	matches := mode.Matches(next)
	if len(matches) != 1 {
		aerr := fmt.Errorf("reduction produced a record matching %d modes: %s",
			len(matches), next.Summary())
		step := s.rejected(act, modeBefore, DecisionInvalidState, aerr.Error(), time.Since(start))
		s.logStep(step)
		s.journalStep(step)
		return step, aerr
	}

	s.parent = s.revision
	s.revision = uuid.New().String()
	s.current = next
	s.mode = matches[0]

	step := Step{
		Action:     act,
		Decision:   DecisionCommit,
		Reason:     fmt.Sprintf("mode %s handled %s", modeBefore, act.Kind()),
		ModeBefore: modeBefore,
		ModeAfter:  s.mode,
		RevisionID: s.revision,
		ParentID:   s.parent,
		State:      next,
		Elapsed:    time.Since(start),
	}
	s.logStep(step)

	if s.store != nil {
		rec := journal.Revision{
			RevisionID: step.RevisionID,
			ParentID:   step.ParentID,
			Mode:       string(step.ModeAfter),
			State:      step.State,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.store.Append(rec); err != nil {
			log.Printf("[SESS] journal append error: %v", err)
		}
	}
	s.journalStep(step)

	return step, nil
}

// #endregion dispatch

// #region helpers

// rejected builds the Step for a dispatch that left the session in place.
func (s *Session) rejected(act action.Action, before mode.Mode, decision Decision, reason string, elapsed time.Duration) Step {
	return Step{
		Action:     act,
		Decision:   decision,
		Reason:     reason,
		ModeBefore: before,
		ModeAfter:  s.mode,
		RevisionID: s.revision,
		ParentID:   s.parent,
		State:      s.current,
		Elapsed:    elapsed,
	}
}

func decisionFor(err error) Decision {
	var ite *reduce.IllegalTransitionError
	if errors.As(err, &ite) {
		return DecisionIllegalTransition
	}
	var ute *reduce.UnimplementedTransitionError
	if errors.As(err, &ute) {
		return DecisionUnimplemented
	}
	return DecisionInvalidState
}

func (s *Session) logStep(step Step) {
	if step.Decision == DecisionCommit {
		log.Printf("[SESS] dispatch: %s: %s → %s rev=%s",
			step.Action.Kind(), step.ModeBefore, step.ModeAfter, shortID(step.RevisionID))
		return
	}
	log.Printf("[SESS] reject: %s in mode %s: %s",
		step.Action.Kind(), step.ModeBefore, step.Reason)
}

func (s *Session) journalStep(step Step) {
	if s.store == nil {
		return
	}
	actionJSON, _ := action.Encode(step.Action)
	entry := journal.DispatchEntry{
		RevisionID: step.RevisionID,
		ActionKind: string(step.Action.Kind()),
		ActionJSON: string(actionJSON),
		ModeBefore: string(step.ModeBefore),
		ModeAfter:  string(step.ModeAfter),
		Decision:   string(step.Decision),
		Reason:     step.Reason,
		ElapsedUS:  step.Elapsed.Microseconds(),
	}
	if err := journal.LogDispatch(s.store.DB(), entry); err != nil {
		log.Printf("[SESS] dispatch log error: %v", err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion helpers

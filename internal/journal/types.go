package journal

import (
	"time"

	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region revision
// Revision is a versioned snapshot of the panel state record.
type Revision struct {
	RevisionID string
	ParentID   string
	Mode       string
	State      state.App
	CreatedAt  time.Time
}

// #endregion revision

// #region dispatch-entry
// DispatchEntry is a single row in the dispatch_log table. RevisionID points
// at the head revision after the dispatch: the freshly committed revision on
// a commit, the unchanged head on a rejection.
type DispatchEntry struct {
	RevisionID string
	ActionKind string
	ActionJSON string
	ModeBefore string
	ModeAfter  string
	Decision   string // "commit" | "illegal_transition" | "unimplemented" | "invalid_state"
	Reason     string
	ElapsedUS  int64
	CreatedAt  time.Time
}

// #endregion dispatch-entry

// #region revision-with-dispatch
// RevisionWithDispatch pairs a revision with the dispatch row that committed it.
type RevisionWithDispatch struct {
	Revision
	ActionKind string
	ActionJSON string
	ModeBefore string
	Decision   string
	Reason     string
}

// #endregion revision-with-dispatch

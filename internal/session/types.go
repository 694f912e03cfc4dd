package session

import (
	"time"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/mode"
	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region decision

// Decision names the outcome of a single dispatch.
type Decision string

const (
	DecisionCommit            Decision = "commit"
	DecisionIllegalTransition Decision = "illegal_transition"
	DecisionUnimplemented     Decision = "unimplemented"
	DecisionInvalidState      Decision = "invalid_state"
)

// #endregion decision

// #region step

// Step records what one dispatch did. On a commit, State and RevisionID
// describe the new head; on a rejection they describe the head the session
// stayed on.
type Step struct {
	Action     action.Action
	Decision   Decision
	Reason     string
	ModeBefore mode.Mode
	ModeAfter  mode.Mode
	RevisionID string
	ParentID   string
	State      state.App
	Elapsed    time.Duration
}

// #endregion step

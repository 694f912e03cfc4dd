package reduce

import (
	"fmt"

	"github.com/danielpatrickdp/binding-state/internal/action"
	"github.com/danielpatrickdp/binding-state/internal/mode"
)

// #region errors

// IllegalTransitionError signals that an action was dispatched against a
// mode that does not permit it. Callers are expected to match the action to
// the current mode before dispatch, so this is an assertion failure, not a
// recoverable condition.
type IllegalTransitionError struct {
	Mode   mode.Mode
	Action action.Kind
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("mode %s does not permit %s", e.Mode, e.Action)
}

// UnimplementedTransitionError signals an action the mode recognizes but
// whose transition has no behavior yet. Kept distinct from
// IllegalTransitionError so a stubbed transition can never be mistaken for
// either a success or a mismatched dispatch.
type UnimplementedTransitionError struct {
	Mode   mode.Mode
	Action action.Kind
}

func (e *UnimplementedTransitionError) Error() string {
	return fmt.Sprintf("mode %s recognizes %s but the transition is not implemented", e.Mode, e.Action)
}

// #endregion errors

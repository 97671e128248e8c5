package app

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrIllegalLifecycleState indicates an operation that is not valid in
	// the component's current lifecycle state. See also LifecycleError.
	ErrIllegalLifecycleState = errors.New("app: illegal lifecycle state")

	// ErrReceiverNotRegistered is returned when unregistering a receiver
	// that the component has not registered.
	ErrReceiverNotRegistered = errors.New("app: receiver not registered")
)

// LifecycleError describes a rejected lifecycle operation. It wraps
// ErrIllegalLifecycleState.
type LifecycleError struct {
	Activity string
	Op       string
	Reason   string
	State    LifecycleState
}

// Error implements the error interface.
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("app: %s %s (%s): %s", e.Op, e.Activity, e.State, e.Reason)
}

// Unwrap returns ErrIllegalLifecycleState.
func (e *LifecycleError) Unwrap() error {
	return ErrIllegalLifecycleState
}

package looper

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrNilTask is returned when a nil task is posted.
	ErrNilTask = errors.New("looper: nil task")

	// ErrReentrantAdvance is returned when the clock is advanced, or a single
	// task is run, from within a task that the looper is currently running.
	ErrReentrantAdvance = errors.New("looper: cannot advance the clock from within a task")

	// ErrNegativeDelay is returned by PostDelayed for a negative delay.
	ErrNegativeDelay = errors.New("looper: negative delay")
)

// PanicError wraps a value recovered from a panicking task. It is returned by
// whichever call triggered the task's execution.
type PanicError struct {
	Value any
	// Seq is the sequence number of the task that panicked.
	Seq uint64
}

func (e PanicError) Error() string {
	return fmt.Sprintf("looper: task %d panicked: %v", e.Seq, e.Value)
}

// Unwrap returns the panic value if it is an error, enabling [errors.Is] and
// [errors.As] through the panic.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

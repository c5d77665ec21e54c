package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProcessInput marks a process descriptor rejected before simulation starts.
	ErrInvalidProcessInput = errors.New("invalid process input")
	// ErrUnknownPolicy marks a policy name that is neither built in nor registered.
	ErrUnknownPolicy = errors.New("unknown policy")
	// ErrInvalidParams marks policy parameters that cannot drive a simulation.
	ErrInvalidParams = errors.New("invalid policy parameters")
	// ErrNonConvergence marks a run aborted by an iteration safety cap.
	// It is always returned together with a partial, non-nil *Result.
	ErrNonConvergence = errors.New("simulation did not converge")
)

// InvalidProcessError describes the first offending field of a process descriptor.
type InvalidProcessError struct {
	Index  int // position in the input slice
	PID    string
	Field  string
	Reason string
}

func (e *InvalidProcessError) Error() string {
	return fmt.Sprintf("process #%d (pid %q): %s %s", e.Index, e.PID, e.Field, e.Reason)
}

func (e *InvalidProcessError) Unwrap() error { return ErrInvalidProcessInput }

// NonConvergenceError reports which loop hit its cap.
type NonConvergenceError struct {
	Policy     string
	Iterations int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%s exceeded %d iterations, terminating with a partial timeline", e.Policy, e.Iterations)
}

func (e *NonConvergenceError) Unwrap() error { return ErrNonConvergence }

// IsNonConvergence reports whether err came from an iteration cap.
// The accompanying Result is still usable.
func IsNonConvergence(err error) bool {
	return errors.Is(err, ErrNonConvergence)
}

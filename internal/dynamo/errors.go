package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDegenerateSeparation indicates a body-to-center or body-to-body
	// distance collapsed toward zero and produced a non-finite acceleration.
	ErrDegenerateSeparation = errors.New("dynamo: degenerate separation (non-finite acceleration)")

	// ErrInvalidConfig indicates a run configuration outside valid bounds.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.0fs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

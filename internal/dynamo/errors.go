package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidBracket indicates the root finder was handed an interval
	// without a sign change. It always points at a driver defect.
	ErrInvalidBracket = errors.New("dynamo: collision bracket has no sign change")

	// ErrNoConvergence indicates the root finder hit its iteration cap.
	ErrNoConvergence = errors.New("dynamo: collision root search did not converge")

	// ErrGridOrder indicates a splice would break the strictly increasing grid.
	ErrGridOrder = errors.New("dynamo: splice breaks grid monotonicity")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps a fatal fault with the run context needed to
// reproduce it.
type SimulationError struct {
	Step    int
	Time    float64
	Params  Params
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.9f, w=%g, A=%g, h=%g, v=%g): %v",
		e.Step, e.Time, e.Params.Omega, e.Params.Amplitude, e.Params.Height, e.Params.Velocity, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

package montecarlo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGrid indicates a malformed time discretization.
	ErrInvalidGrid = errors.New("invalid time grid")

	// ErrDimensionMismatch indicates inconsistent factor/path/step extents
	// between components that must agree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrTimeOutOfRange indicates a query time outside the simulated horizon.
	ErrTimeOutOfRange = errors.New("time out of simulated range")

	// ErrTimeNotOnGrid indicates a query time inside the horizon that does not
	// coincide with any discretization point.
	ErrTimeNotOnGrid = errors.New("time not on grid")
)

// CalculationError wraps a failure from an upstream fetch (asset value,
// numeraire, weights) during a valuation. The original cause is preserved
// and reachable via errors.Is/As.
type CalculationError struct {
	Op  string
	Err error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation failed at %s: %v", e.Op, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

func calcErr(op string, err error) error {
	return &CalculationError{Op: op, Err: err}
}

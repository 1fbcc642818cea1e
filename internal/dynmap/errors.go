package dynmap

import (
	"errors"
	"fmt"
)

// Domain errors for map evaluation.
var (
	// ErrDomain indicates a value outside the map's declared domain or
	// parameter bounds. Backward iteration treats it as a terminal
	// condition, not a failure.
	ErrDomain = errors.New("dynmap: value outside declared bounds")

	// ErrConvergence indicates the numeric root-finding fallback could not
	// bracket a preimage within its iteration budget.
	ErrConvergence = errors.New("dynmap: root finder failed to converge")

	// ErrBadConfig indicates an inconsistent or malformed map rule,
	// rejected at construction time.
	ErrBadConfig = errors.New("dynmap: invalid map configuration")
)

// DomainError carries the offending point for an out-of-bounds evaluation.
type DomainError struct {
	X float64
	R float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("dynmap: (x=%g, r=%g) outside declared bounds", e.X, e.R)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// ConvergenceError reports a failed root-finding attempt with its budget.
type ConvergenceError struct {
	Y     float64
	R     float64
	Iters int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("dynmap: no preimage of y=%g (r=%g) after %d iterations", e.Y, e.R, e.Iters)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

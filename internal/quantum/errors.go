package quantum

import (
	"errors"
	"fmt"
)

// ErrCircuitNotInitialized is returned by gate and execution calls made
// before CreateEmptyCircuit.
var ErrCircuitNotInitialized = errors.New("circuit not initialized: call CreateEmptyCircuit first")

// UnsupportedBackendError is returned by the backend factory for an unknown
// backend name.
type UnsupportedBackendError struct {
	Name string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("unsupported backend %q", e.Name)
}

// InvalidQubitIndexError is returned when a qubit index falls outside the
// declared range, or when a gate references the same qubit twice (including
// the swap-test ancilla colliding with a state qubit).
type InvalidQubitIndexError struct {
	Index     int
	NumQubits int
	Reason    string
}

func (e *InvalidQubitIndexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid qubit index: %s", e.Reason)
	}
	return fmt.Sprintf("invalid qubit index %d: circuit has %d qubits", e.Index, e.NumQubits)
}

// UnboundParameterError is returned at execution time when a placeholder
// referenced by the circuit has no binding.
type UnboundParameterError struct {
	Name string
}

func (e *UnboundParameterError) Error() string {
	return fmt.Sprintf("unbound parameter %q: no value supplied at execution", e.Name)
}

// BackendExecutionError wraps a failure reported by a remote execution
// engine or the transport to it, as opposed to a mistake in the request.
type BackendExecutionError struct {
	Backend string
	Err     error
}

func (e *BackendExecutionError) Error() string {
	return fmt.Sprintf("backend %s execution failed: %v", e.Backend, e.Err)
}

func (e *BackendExecutionError) Unwrap() error {
	return e.Err
}

// UnsupportedOperationError is returned when the configured backend or
// simulator type cannot perform the requested operation, e.g. an exact
// statevector from a shot-based or remote execution target.
type UnsupportedOperationError struct {
	Op     string
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s not supported: %s", e.Op, e.Reason)
}

package quantum

import "context"

// Adapter translates the neutral gate vocabulary into one execution engine's
// native circuit form and drives that engine. An adapter owns exactly one
// native circuit handle at a time; CreateCircuit replaces it wholesale.
// Adapters are not safe for concurrent use.
type Adapter interface {
	// Name returns the backend name the adapter was registered under.
	Name() string

	// CreateCircuit allocates a fresh native circuit with numQubits qubits,
	// discarding any previously held handle.
	CreateCircuit(numQubits int) error

	// ApplyGate appends the native equivalent of the neutral gate to the
	// held handle. Returns an InvalidQubitIndexError for out-of-range
	// indices.
	ApplyGate(g Gate) error

	// Execute binds placeholders from params, appends the backend's default
	// measurement if the circuit has none, runs the circuit with the
	// configured shot count, and returns normalized bitstring counts.
	// A placeholder without a binding is an UnboundParameterError.
	Execute(ctx context.Context, params map[string]float64) (Counts, error)

	// Statevector runs the circuit without measurement collapse and returns
	// the ordered amplitudes (index i is basis state |i>, qubit 0 least
	// significant). Returns an UnsupportedOperationError when the configured
	// execution target cannot produce an exact state.
	Statevector(ctx context.Context) ([]complex128, error)

	// Draw returns the backend's native textual rendering of the circuit.
	// No normalization is attempted across backends.
	Draw() (string, error)
}

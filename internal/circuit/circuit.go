// Package circuit exposes the single front-facing circuit object: callers
// pick a backend once at construction, build a circuit through the neutral
// gate surface, and execute it without branching on which engine is behind
// it.
package circuit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qbridge/internal/backends/braket"
	"github.com/jaskrrish/go-qbridge/internal/backends/cirq"
	"github.com/jaskrrish/go-qbridge/internal/backends/qiskit"
	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

// Backend names accepted by New.
const (
	BackendQiskit = "qiskit"
	BackendCirq   = "cirq"
	BackendBraket = "amazon_braket"
)

// Config selects a backend and carries its options. Immutable once the
// circuit is constructed; options are forwarded verbatim to the adapter.
type Config struct {
	BackendName    string          `json:"backend_name"`
	BackendOptions quantum.Options `json:"backend_options"`
}

var factories = map[string]func(quantum.Options, zerolog.Logger) quantum.Adapter{
	BackendQiskit: func(o quantum.Options, l zerolog.Logger) quantum.Adapter { return qiskit.New(o, l) },
	BackendCirq:   func(o quantum.Options, l zerolog.Logger) quantum.Adapter { return cirq.New(o, l) },
	BackendBraket: func(o quantum.Options, l zerolog.Logger) quantum.Adapter { return braket.New(o, l) },
}

// Circuit owns one adapter and, through it, exactly one native circuit
// handle. Not safe for concurrent use.
type Circuit struct {
	adapter     quantum.Adapter
	log         zerolog.Logger
	numQubits   int
	initialized bool
	measured    map[int]bool
}

// New selects the adapter named by cfg. Unknown names fail immediately with
// an UnsupportedBackendError rather than on first gate call.
func New(cfg Config, log zerolog.Logger) (*Circuit, error) {
	factory, ok := factories[cfg.BackendName]
	if !ok {
		return nil, &quantum.UnsupportedBackendError{Name: cfg.BackendName}
	}
	opts := cfg.BackendOptions
	if opts == nil {
		opts = quantum.Options{}
	}
	log = log.With().Str("component", "circuit").Str("backend", cfg.BackendName).Logger()
	return &Circuit{adapter: factory(opts, log), log: log}, nil
}

// Backend returns the active backend name.
func (c *Circuit) Backend() string {
	return c.adapter.Name()
}

// NumQubits returns the declared qubit count, 0 before initialization.
func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// CreateEmptyCircuit initializes (or re-initializes) the owned native
// circuit with numQubits qubits, discarding any prior handle.
func (c *Circuit) CreateEmptyCircuit(numQubits int) error {
	if numQubits < 1 {
		return fmt.Errorf("num qubits must be at least 1, got %d", numQubits)
	}
	if err := c.adapter.CreateCircuit(numQubits); err != nil {
		return err
	}
	c.numQubits = numQubits
	c.initialized = true
	c.measured = make(map[int]bool)
	return nil
}

func (c *Circuit) apply(kind quantum.GateKind, qubits []int, angles ...quantum.Angle) error {
	if !c.initialized {
		return quantum.ErrCircuitNotInitialized
	}
	return c.adapter.ApplyGate(quantum.Gate{Kind: kind, Qubits: qubits, Angles: angles})
}

// ApplyPauliXGate applies Pauli-X to one qubit.
func (c *Circuit) ApplyPauliXGate(qubitIndex int) error {
	return c.apply(quantum.GatePauliX, []int{qubitIndex})
}

// ApplyPauliYGate applies Pauli-Y to one qubit.
func (c *Circuit) ApplyPauliYGate(qubitIndex int) error {
	return c.apply(quantum.GatePauliY, []int{qubitIndex})
}

// ApplyPauliZGate applies Pauli-Z to one qubit.
func (c *Circuit) ApplyPauliZGate(qubitIndex int) error {
	return c.apply(quantum.GatePauliZ, []int{qubitIndex})
}

// ApplyHadamardGate applies a Hadamard to one qubit.
func (c *Circuit) ApplyHadamardGate(qubitIndex int) error {
	return c.apply(quantum.GateHadamard, []int{qubitIndex})
}

// ApplyRXGate rotates one qubit around the X axis.
func (c *Circuit) ApplyRXGate(qubitIndex int, angle quantum.Angle) error {
	return c.apply(quantum.GateRX, []int{qubitIndex}, angle)
}

// ApplyRYGate rotates one qubit around the Y axis.
func (c *Circuit) ApplyRYGate(qubitIndex int, angle quantum.Angle) error {
	return c.apply(quantum.GateRY, []int{qubitIndex}, angle)
}

// ApplyRZGate rotates one qubit around the Z axis.
func (c *Circuit) ApplyRZGate(qubitIndex int, angle quantum.Angle) error {
	return c.apply(quantum.GateRZ, []int{qubitIndex}, angle)
}

// ApplyUGate applies the universal single-qubit gate U(theta, phi, lambda).
func (c *Circuit) ApplyUGate(qubitIndex int, theta, phi, lambda quantum.Angle) error {
	return c.apply(quantum.GateU, []int{qubitIndex}, theta, phi, lambda)
}

// ApplyCNOTGate applies a controlled-X gate.
func (c *Circuit) ApplyCNOTGate(controlQubitIndex, targetQubitIndex int) error {
	return c.apply(quantum.GateCNOT, []int{controlQubitIndex, targetQubitIndex})
}

// ApplyToffoliGate applies a doubly-controlled X gate.
func (c *Circuit) ApplyToffoliGate(controlQubitIndex1, controlQubitIndex2, targetQubitIndex int) error {
	return c.apply(quantum.GateToffoli, []int{controlQubitIndex1, controlQubitIndex2, targetQubitIndex})
}

// ApplySwapGate exchanges two qubits.
func (c *Circuit) ApplySwapGate(qubitIndex1, qubitIndex2 int) error {
	return c.apply(quantum.GateSwap, []int{qubitIndex1, qubitIndex2})
}

// ApplyCSwapGate applies a controlled swap (Fredkin) gate.
func (c *Circuit) ApplyCSwapGate(controlQubitIndex, targetQubitIndex1, targetQubitIndex2 int) error {
	return c.apply(quantum.GateCSwap, []int{controlQubitIndex, targetQubitIndex1, targetQubitIndex2})
}

// ApplyMeasurement records a measurement of the given qubits. Without any
// explicit measurement, ExecuteCircuit measures every qubit.
func (c *Circuit) ApplyMeasurement(qubitIndexes ...int) error {
	if err := c.apply(quantum.GateMeasure, qubitIndexes); err != nil {
		return err
	}
	for _, q := range qubitIndexes {
		c.measured[q] = true
	}
	return nil
}

// ExecuteCircuit binds parameterValues and runs the circuit with the
// configured shot count, returning normalized bitstring counts.
func (c *Circuit) ExecuteCircuit(ctx context.Context, parameterValues map[string]float64) (quantum.Counts, error) {
	if !c.initialized {
		return nil, quantum.ErrCircuitNotInitialized
	}
	return c.adapter.Execute(ctx, parameterValues)
}

// GetFinalStateVector returns the exact final amplitudes when the backend
// configuration supports statevector extraction.
func (c *Circuit) GetFinalStateVector(ctx context.Context) ([]complex128, error) {
	if !c.initialized {
		return nil, quantum.ErrCircuitNotInitialized
	}
	return c.adapter.Statevector(ctx)
}

// Draw returns the backend's native rendering of the circuit.
func (c *Circuit) Draw() (string, error) {
	if !c.initialized {
		return "", quantum.ErrCircuitNotInitialized
	}
	return c.adapter.Draw()
}

package cirq

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
	"github.com/jaskrrish/go-qbridge/internal/sim"
)

const defaultShots = 1024

// Adapter is the Cirq backend adapter. Both shot execution and exact
// statevector extraction run on the local engine (Cirq's own simulator
// supports both).
type Adapter struct {
	opts    quantum.Options
	log     zerolog.Logger
	engine  *sim.Engine
	circuit *Circuit
}

// New creates a Cirq adapter, seeding the engine from the "seed" option when
// present.
func New(opts quantum.Options, log zerolog.Logger) *Adapter {
	log = log.With().Str("backend", "cirq").Logger()
	var engine *sim.Engine
	if seed := opts.String("seed", ""); seed != "" {
		engine = sim.NewSeededEngine(sim.SeedFromString(seed), log)
	} else {
		engine = sim.NewEngine(log)
	}
	return &Adapter{opts: opts, log: log, engine: engine}
}

// Name returns the backend name.
func (a *Adapter) Name() string {
	return "cirq"
}

// CreateCircuit replaces the held moment sequence with an empty one.
func (a *Adapter) CreateCircuit(numQubits int) error {
	if numQubits < 1 {
		return fmt.Errorf("num qubits must be at least 1, got %d", numQubits)
	}
	a.circuit = NewCircuit(numQubits)
	a.log.Debug().Int("num_qubits", numQubits).Msg("Created circuit")
	return nil
}

// ApplyGate schedules the gate into the moment structure. Symbols are kept
// symbolic in the native form.
func (a *Adapter) ApplyGate(g quantum.Gate) error {
	if a.circuit == nil {
		return quantum.ErrCircuitNotInitialized
	}
	return a.circuit.Append(g)
}

// Execute resolves symbols and samples the circuit.
func (a *Adapter) Execute(ctx context.Context, params map[string]float64) (quantum.Counts, error) {
	if a.circuit == nil {
		return nil, quantum.ErrCircuitNotInitialized
	}
	ops, err := a.circuit.Resolve(params)
	if err != nil {
		return nil, err
	}
	shots := a.opts.Int("shots", defaultShots)
	return a.engine.Run(ops, a.circuit.NumQubits(), shots)
}

// Statevector returns the exact final state. Unresolved symbols are an
// error, not implicitly zero.
func (a *Adapter) Statevector(ctx context.Context) ([]complex128, error) {
	if a.circuit == nil {
		return nil, quantum.ErrCircuitNotInitialized
	}
	if names := a.circuit.ParameterNames(); len(names) > 0 {
		return nil, &quantum.UnboundParameterError{Name: names[0]}
	}
	ops, err := a.circuit.Resolve(nil)
	if err != nil {
		return nil, err
	}
	return a.engine.Statevector(ops, a.circuit.NumQubits())
}

// Draw returns the native text diagram.
func (a *Adapter) Draw() (string, error) {
	if a.circuit == nil {
		return "", quantum.ErrCircuitNotInitialized
	}
	return a.circuit.Diagram(), nil
}

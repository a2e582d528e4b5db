package qiskit

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
	"github.com/jaskrrish/go-qbridge/internal/sim"
)

// Simulator types understood by the adapter. Anything prefixed "ibm" is a
// remote IBM Quantum device reached through the REST client.
const (
	StatevectorSimulator = "statevector_simulator"
	QASMSimulator        = "qasm_simulator"
)

const defaultShots = 1024

// Adapter is the Qiskit backend adapter.
type Adapter struct {
	opts    quantum.Options
	log     zerolog.Logger
	engine  *sim.Engine
	client  *Client
	program *Program
}

// New creates a Qiskit adapter. The local engine is seeded from the "seed"
// option when present so simulator sampling can be reproduced.
func New(opts quantum.Options, log zerolog.Logger) *Adapter {
	log = log.With().Str("backend", "qiskit").Logger()
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
	return "qiskit"
}

// CreateCircuit replaces the held OpenQASM program with an empty one.
func (a *Adapter) CreateCircuit(numQubits int) error {
	if numQubits < 1 {
		return fmt.Errorf("num qubits must be at least 1, got %d", numQubits)
	}
	a.program = NewProgram(numQubits)
	a.log.Debug().Int("num_qubits", numQubits).Msg("Created circuit")
	return nil
}

// ApplyGate records the gate on the held program.
func (a *Adapter) ApplyGate(g quantum.Gate) error {
	if a.program == nil {
		return quantum.ErrCircuitNotInitialized
	}
	return a.program.Append(g)
}

func (a *Adapter) simulatorType() string {
	return a.opts.String("simulator_type", StatevectorSimulator)
}

func (a *Adapter) remote() bool {
	return strings.HasPrefix(a.simulatorType(), "ibm")
}

// Execute binds parameters and runs the program: locally through the
// statevector engine, or on an IBM device through the REST client when the
// simulator type names one.
func (a *Adapter) Execute(ctx context.Context, params map[string]float64) (quantum.Counts, error) {
	if a.program == nil {
		return nil, quantum.ErrCircuitNotInitialized
	}
	shots := a.opts.Int("shots", defaultShots)

	if a.remote() {
		return a.executeRemote(ctx, params, shots)
	}

	ops, err := a.program.Compile(params)
	if err != nil {
		return nil, err
	}
	return a.engine.Run(ops, a.program.NumQubits(), shots)
}

func (a *Adapter) executeRemote(ctx context.Context, params map[string]float64, shots int) (quantum.Counts, error) {
	qasm, err := a.program.Render(params)
	if err != nil {
		return nil, err
	}

	if a.client == nil {
		apiKey, err := a.opts.Require("api_key")
		if err != nil {
			return nil, err
		}
		client, err := NewClient(&ClientConfig{
			APIKey:  apiKey,
			BaseURL: a.opts.String("base_url", ""),
			Device:  a.simulatorType(),
		})
		if err != nil {
			return nil, &quantum.BackendExecutionError{Backend: a.Name(), Err: err}
		}
		a.client = client
	}

	a.log.Info().Str("device", a.simulatorType()).Int("shots", shots).Msg("Submitting circuit to IBM Quantum")
	result, err := a.client.ExecuteSync(ctx, qasm, shots)
	if err != nil {
		return nil, &quantum.BackendExecutionError{Backend: a.Name(), Err: err}
	}
	return normalizeRemoteCounts(result.Counts, a.program.NumQubits()), nil
}

// normalizeRemoteCounts strips register separators from remote count keys
// and pads them to the declared qubit width.
func normalizeRemoteCounts(raw map[string]int, numQubits int) quantum.Counts {
	counts := make(quantum.Counts, len(raw))
	for key, n := range raw {
		key = strings.ReplaceAll(key, " ", "")
		for len(key) < numQubits {
			key = "0" + key
		}
		counts[key] += n
	}
	return counts
}

// Statevector is available only from the local statevector simulator.
func (a *Adapter) Statevector(ctx context.Context) ([]complex128, error) {
	if a.program == nil {
		return nil, quantum.ErrCircuitNotInitialized
	}
	if simType := a.simulatorType(); simType != StatevectorSimulator {
		return nil, &quantum.UnsupportedOperationError{
			Op:     "statevector",
			Reason: fmt.Sprintf("simulator type %q is shot-based", simType),
		}
	}
	if names := a.program.ParameterNames(); len(names) > 0 {
		return nil, &quantum.UnboundParameterError{Name: names[0]}
	}
	ops, err := a.program.Compile(nil)
	if err != nil {
		return nil, err
	}
	return a.engine.Statevector(ops, a.program.NumQubits())
}

// Draw returns the OpenQASM text with placeholders left symbolic.
func (a *Adapter) Draw() (string, error) {
	if a.program == nil {
		return "", quantum.ErrCircuitNotInitialized
	}
	return a.program.RenderSymbolic(), nil
}

package braket

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
	"github.com/jaskrrish/go-qbridge/internal/sim"
)

const defaultShots = 1024

// Adapter is the Amazon Braket backend adapter. The default target is the
// local simulator; when the "results_s3_uri" option names a completed device
// task's output object, Execute reads the service-written result from S3
// instead of simulating.
type Adapter struct {
	opts   quantum.Options
	log    zerolog.Logger
	engine *sim.Engine
	loader *ResultLoader
	handle *Handle
}

// New creates a Braket adapter, seeding the local engine from the "seed"
// option when present.
func New(opts quantum.Options, log zerolog.Logger) *Adapter {
	log = log.With().Str("backend", "amazon_braket").Logger()
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
	return "amazon_braket"
}

// CreateCircuit replaces the held IR handle with an empty one.
func (a *Adapter) CreateCircuit(numQubits int) error {
	if numQubits < 1 {
		return fmt.Errorf("num qubits must be at least 1, got %d", numQubits)
	}
	a.handle = NewHandle(numQubits)
	a.log.Debug().Int("num_qubits", numQubits).Msg("Created circuit")
	return nil
}

// ApplyGate records the gate into the IR handle.
func (a *Adapter) ApplyGate(g quantum.Gate) error {
	if a.handle == nil {
		return quantum.ErrCircuitNotInitialized
	}
	return a.handle.Append(g)
}

func (a *Adapter) deviceTask() bool {
	return a.opts.String("results_s3_uri", "") != ""
}

// Execute binds parameters and produces counts: from the local simulator, or
// from the completed device task's S3 output when configured.
func (a *Adapter) Execute(ctx context.Context, params map[string]float64) (quantum.Counts, error) {
	if a.handle == nil {
		return nil, quantum.ErrCircuitNotInitialized
	}

	// Binding is enforced in both modes; a device task for a circuit with
	// unbound placeholders is a caller error regardless of where the shots
	// came from.
	if _, err := a.handle.Bind(params); err != nil {
		return nil, err
	}

	if a.deviceTask() {
		uri := a.opts.String("results_s3_uri", "")
		if a.loader == nil {
			loader, err := NewResultLoader(ctx, a.opts.String("region", ""))
			if err != nil {
				return nil, &quantum.BackendExecutionError{Backend: a.Name(), Err: err}
			}
			a.loader = loader
		}
		a.log.Info().Str("uri", uri).Msg("Reading device task result from S3")
		counts, err := a.loader.Load(ctx, uri)
		if err != nil {
			return nil, &quantum.BackendExecutionError{Backend: a.Name(), Err: err}
		}
		return counts, nil
	}

	ops, err := a.handle.Compile(params)
	if err != nil {
		return nil, err
	}
	shots := a.opts.Int("shots", defaultShots)
	return a.engine.Run(ops, a.handle.NumQubits(), shots)
}

// Statevector is available only from the local simulator; device tasks are
// shot-based.
func (a *Adapter) Statevector(ctx context.Context) ([]complex128, error) {
	if a.handle == nil {
		return nil, quantum.ErrCircuitNotInitialized
	}
	if a.deviceTask() {
		return nil, &quantum.UnsupportedOperationError{
			Op:     "statevector",
			Reason: "device task execution is shot-based",
		}
	}
	if names := a.handle.ParameterNames(); len(names) > 0 {
		return nil, &quantum.UnboundParameterError{Name: names[0]}
	}
	ops, err := a.handle.Compile(nil)
	if err != nil {
		return nil, err
	}
	return a.engine.Statevector(ops, a.handle.NumQubits())
}

// Draw returns the indented JAQCD JSON, the backend's native program form.
func (a *Adapter) Draw() (string, error) {
	if a.handle == nil {
		return "", quantum.ErrCircuitNotInitialized
	}
	return a.handle.Render()
}

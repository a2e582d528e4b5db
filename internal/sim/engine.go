package sim

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

// Op is one fully resolved instruction for the engine: a vocabulary gate
// with concrete angle values. Adapters compile their native circuit form
// down to this before delegating execution.
type Op struct {
	Kind   quantum.GateKind
	Qubits []int
	Params []float64
}

// Engine evolves statevectors and samples measurement outcomes. Sampling
// randomness is owned here: repeated runs are deterministic only when the
// engine was seeded explicitly.
type Engine struct {
	rng *rand.Rand
	log zerolog.Logger
}

// NewEngine returns an engine seeded from the wall clock.
func NewEngine(log zerolog.Logger) *Engine {
	return NewSeededEngine(time.Now().UnixNano(), log)
}

// NewSeededEngine returns an engine with a fixed RNG seed, for reproducible
// sampling.
func NewSeededEngine(seed int64, log zerolog.Logger) *Engine {
	return &Engine{
		rng: rand.New(rand.NewSource(seed)),
		log: log.With().Str("component", "sim_engine").Logger(),
	}
}

// evolve runs the unitary portion of the program and collects the measured
// qubit set. Measure ops do not collapse the state; they select which qubits
// contribute to sampled bitstrings.
func (e *Engine) evolve(ops []Op, numQubits int) (*State, map[int]bool, error) {
	state := NewState(numQubits)
	measured := make(map[int]bool)

	for _, op := range ops {
		switch op.Kind {
		case quantum.GateMeasure:
			for _, q := range op.Qubits {
				measured[q] = true
			}
		case quantum.GateCNOT:
			x, _ := quantum.GatePauliX.Unitary()
			state.ApplyControlledSingle(op.Qubits[:1], op.Qubits[1], x)
		case quantum.GateToffoli:
			x, _ := quantum.GatePauliX.Unitary()
			state.ApplyControlledSingle(op.Qubits[:2], op.Qubits[2], x)
		case quantum.GateSwap:
			state.ApplySwap(op.Qubits[0], op.Qubits[1])
		case quantum.GateCSwap:
			state.ApplyControlledSwap(op.Qubits[0], op.Qubits[1], op.Qubits[2])
		default:
			u, err := op.Kind.Unitary(op.Params...)
			if err != nil {
				return nil, nil, fmt.Errorf("compiling %s: %w", op.Kind, err)
			}
			state.ApplySingle(op.Qubits[0], u)
		}
	}
	state.normalize()
	return state, measured, nil
}

// Run evolves the program and samples shot measurement outcomes. When the
// program contains no measure op, all qubits are measured. Bitstring keys
// are big-endian over the measured qubits (leftmost character is the highest
// measured qubit index).
func (e *Engine) Run(ops []Op, numQubits, shots int) (quantum.Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	state, measuredSet, err := e.evolve(ops, numQubits)
	if err != nil {
		return nil, err
	}

	measured := make([]int, 0, numQubits)
	if len(measuredSet) == 0 {
		for q := 0; q < numQubits; q++ {
			measured = append(measured, q)
		}
	} else {
		for q := range measuredSet {
			measured = append(measured, q)
		}
		sort.Ints(measured)
	}

	probs := state.Probabilities()
	counts := make(quantum.Counts)
	for shot := 0; shot < shots; shot++ {
		basis := e.sample(probs)
		counts[formatBits(basis, measured)]++
	}

	e.log.Debug().
		Int("num_qubits", numQubits).
		Int("shots", shots).
		Int("distinct_outcomes", len(counts)).
		Msg("Sampled circuit")

	return counts, nil
}

// Statevector evolves the program and returns the exact amplitudes.
func (e *Engine) Statevector(ops []Op, numQubits int) ([]complex128, error) {
	state, _, err := e.evolve(ops, numQubits)
	if err != nil {
		return nil, err
	}
	return state.Amplitudes(), nil
}

// sample draws one basis-state index from the probability vector.
func (e *Engine) sample(probs []float64) int {
	r := e.rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}
	return len(probs) - 1
}

// formatBits renders the measured qubits of a basis state as a big-endian
// bitstring.
func formatBits(basis int, measured []int) string {
	var b strings.Builder
	for i := len(measured) - 1; i >= 0; i-- {
		if basis&(1<<measured[i]) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

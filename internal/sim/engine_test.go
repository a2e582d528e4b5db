package sim

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

func testEngine() *Engine {
	return NewSeededEngine(42, zerolog.Nop())
}

func TestRunHadamardSplitsRoughlyEvenly(t *testing.T) {
	ops := []Op{{Kind: quantum.GateHadamard, Qubits: []int{0}}}

	counts, err := testEngine().Run(ops, 1, 10000)
	require.NoError(t, err)

	assert.Equal(t, 10000, counts.Shots())
	assert.InDelta(t, 0.5, counts.Probabilities()["0"], 0.05)
	assert.InDelta(t, 0.5, counts.Probabilities()["1"], 0.05)
}

func TestRunBellPairOnlyCorrelatedOutcomes(t *testing.T) {
	ops := []Op{
		{Kind: quantum.GateHadamard, Qubits: []int{0}},
		{Kind: quantum.GateCNOT, Qubits: []int{0, 1}},
	}

	counts, err := testEngine().Run(ops, 2, 2000)
	require.NoError(t, err)

	for outcome := range counts {
		assert.Contains(t, []string{"00", "11"}, outcome)
	}
	assert.InDelta(t, 0.5, counts.Probabilities()["00"], 0.05)
	assert.InDelta(t, 0.5, counts.Probabilities()["11"], 0.05)
}

func TestRunRotationExtremesAreDeterministic(t *testing.T) {
	t.Run("ry zero keeps ground state", func(t *testing.T) {
		ops := []Op{{Kind: quantum.GateRY, Qubits: []int{0}, Params: []float64{0}}}
		counts, err := testEngine().Run(ops, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, quantum.Counts{"0": 100}, counts)
	})

	t.Run("ry pi flips to one", func(t *testing.T) {
		ops := []Op{{Kind: quantum.GateRY, Qubits: []int{0}, Params: []float64{math.Pi}}}
		counts, err := testEngine().Run(ops, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, quantum.Counts{"1": 100}, counts)
	})

	t.Run("x then x is identity", func(t *testing.T) {
		ops := []Op{
			{Kind: quantum.GatePauliX, Qubits: []int{0}},
			{Kind: quantum.GatePauliX, Qubits: []int{0}},
		}
		counts, err := testEngine().Run(ops, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, quantum.Counts{"0": 100}, counts)
	})
}

func TestRunToffoliFiresOnlyWithBothControls(t *testing.T) {
	ops := []Op{
		{Kind: quantum.GatePauliX, Qubits: []int{0}},
		{Kind: quantum.GatePauliX, Qubits: []int{1}},
		{Kind: quantum.GateToffoli, Qubits: []int{0, 1, 2}},
	}
	counts, err := testEngine().Run(ops, 3, 100)
	require.NoError(t, err)
	assert.Equal(t, quantum.Counts{"111": 100}, counts)

	// one control off: target stays 0
	ops = []Op{
		{Kind: quantum.GatePauliX, Qubits: []int{0}},
		{Kind: quantum.GateToffoli, Qubits: []int{0, 1, 2}},
	}
	counts, err = testEngine().Run(ops, 3, 100)
	require.NoError(t, err)
	assert.Equal(t, quantum.Counts{"001": 100}, counts)
}

func TestRunSwapMovesExcitation(t *testing.T) {
	ops := []Op{
		{Kind: quantum.GatePauliX, Qubits: []int{0}},
		{Kind: quantum.GateSwap, Qubits: []int{0, 2}},
	}
	counts, err := testEngine().Run(ops, 3, 50)
	require.NoError(t, err)
	assert.Equal(t, quantum.Counts{"100": 50}, counts)
}

func TestRunMeasureSubsetRestrictsBitstring(t *testing.T) {
	ops := []Op{
		{Kind: quantum.GatePauliX, Qubits: []int{0}},
		{Kind: quantum.GatePauliX, Qubits: []int{2}},
		{Kind: quantum.GateMeasure, Qubits: []int{2}},
	}
	counts, err := testEngine().Run(ops, 3, 50)
	require.NoError(t, err)
	assert.Equal(t, quantum.Counts{"1": 50}, counts)
}

func TestRunRejectsNonPositiveShots(t *testing.T) {
	_, err := testEngine().Run(nil, 1, 0)
	assert.Error(t, err)
}

func TestRunIsReproducibleWithSameSeed(t *testing.T) {
	ops := []Op{{Kind: quantum.GateHadamard, Qubits: []int{0}}}

	a, err := NewSeededEngine(7, zerolog.Nop()).Run(ops, 1, 500)
	require.NoError(t, err)
	b, err := NewSeededEngine(7, zerolog.Nop()).Run(ops, 1, 500)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestStatevectorHadamard(t *testing.T) {
	ops := []Op{{Kind: quantum.GateHadamard, Qubits: []int{0}}}

	amps, err := testEngine().Statevector(ops, 1)
	require.NoError(t, err)
	require.Len(t, amps, 2)

	s := 1 / math.Sqrt2
	assert.InDelta(t, s, real(amps[0]), 1e-12)
	assert.InDelta(t, s, real(amps[1]), 1e-12)
}

func TestStatevectorBellPair(t *testing.T) {
	ops := []Op{
		{Kind: quantum.GateHadamard, Qubits: []int{0}},
		{Kind: quantum.GateCNOT, Qubits: []int{0, 1}},
	}

	amps, err := testEngine().Statevector(ops, 2)
	require.NoError(t, err)
	require.Len(t, amps, 4)

	s := 1 / math.Sqrt2
	assert.InDelta(t, s, real(amps[0]), 1e-12) // |00>
	assert.InDelta(t, 0, real(amps[1]), 1e-12)
	assert.InDelta(t, 0, real(amps[2]), 1e-12)
	assert.InDelta(t, s, real(amps[3]), 1e-12) // |11>
}

func TestFormatBits(t *testing.T) {
	tests := []struct {
		name     string
		basis    int
		measured []int
		want     string
	}{
		{"all zero", 0, []int{0, 1}, "00"},
		{"qubit zero set", 1, []int{0, 1}, "01"},
		{"qubit one set", 2, []int{0, 1}, "10"},
		{"subset", 5, []int{2}, "1"},
		{"subset skips unmeasured", 5, []int{0, 1}, "01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBits(tt.basis, tt.measured))
		})
	}
}

func TestSeedFromStringIsStable(t *testing.T) {
	assert.Equal(t, SeedFromString("alice"), SeedFromString("alice"))
	assert.NotEqual(t, SeedFromString("alice"), SeedFromString("bob"))
}

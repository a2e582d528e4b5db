package qiskit

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
)

func testAdapter(t *testing.T, opts quantum.Options) *Adapter {
	t.Helper()
	if opts == nil {
		opts = quantum.Options{}
	}
	if _, ok := opts["seed"]; !ok {
		opts["seed"] = "adapter-test"
	}
	return New(opts, zerolog.Nop())
}

func TestAdapterName(t *testing.T) {
	assert.Equal(t, "qiskit", testAdapter(t, nil).Name())
}

func TestApplyGateBeforeCreateCircuit(t *testing.T) {
	a := testAdapter(t, nil)

	err := a.ApplyGate(quantum.Gate{Kind: quantum.GateHadamard, Qubits: []int{0}})
	assert.ErrorIs(t, err, quantum.ErrCircuitNotInitialized)

	_, err = a.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, quantum.ErrCircuitNotInitialized)

	_, err = a.Statevector(context.Background())
	assert.ErrorIs(t, err, quantum.ErrCircuitNotInitialized)

	_, err = a.Draw()
	assert.ErrorIs(t, err, quantum.ErrCircuitNotInitialized)
}

func TestCreateCircuitRejectsZeroQubits(t *testing.T) {
	a := testAdapter(t, nil)
	assert.Error(t, a.CreateCircuit(0))
}

func TestCreateCircuitResetsProgram(t *testing.T) {
	a := testAdapter(t, nil)
	require.NoError(t, a.CreateCircuit(1))
	require.NoError(t, a.ApplyGate(quantum.Gate{Kind: quantum.GatePauliX, Qubits: []int{0}}))

	require.NoError(t, a.CreateCircuit(1))
	counts, err := a.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, quantum.Counts{"0": 1024}, counts)
}

func TestExecuteBellPairLocally(t *testing.T) {
	a := testAdapter(t, quantum.Options{"shots": 2000})
	require.NoError(t, a.CreateCircuit(2))
	require.NoError(t, a.ApplyGate(quantum.Gate{Kind: quantum.GateHadamard, Qubits: []int{0}}))
	require.NoError(t, a.ApplyGate(quantum.Gate{Kind: quantum.GateCNOT, Qubits: []int{0, 1}}))

	counts, err := a.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2000, counts.Shots())
	for outcome := range counts {
		assert.Contains(t, []string{"00", "11"}, outcome)
	}
}

func TestExecuteBindsParameters(t *testing.T) {
	a := testAdapter(t, nil)
	require.NoError(t, a.CreateCircuit(1))
	require.NoError(t, a.ApplyGate(quantum.Gate{
		Kind:   quantum.GateRY,
		Qubits: []int{0},
		Angles: []quantum.Angle{quantum.Param("theta")},
	}))

	counts, err := a.Execute(context.Background(), map[string]float64{"theta": math.Pi})
	require.NoError(t, err)
	assert.Equal(t, quantum.Counts{"1": 1024}, counts)

	_, err = a.Execute(context.Background(), nil)
	var unbound *quantum.UnboundParameterError
	assert.ErrorAs(t, err, &unbound)
}

func TestStatevectorOnlyForStatevectorSimulator(t *testing.T) {
	a := testAdapter(t, quantum.Options{"simulator_type": QASMSimulator})
	require.NoError(t, a.CreateCircuit(1))
	require.NoError(t, a.ApplyGate(quantum.Gate{Kind: quantum.GateHadamard, Qubits: []int{0}}))

	_, err := a.Statevector(context.Background())
	var unsupported *quantum.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}

func TestStatevectorRejectsSymbolicProgram(t *testing.T) {
	a := testAdapter(t, nil)
	require.NoError(t, a.CreateCircuit(1))
	require.NoError(t, a.ApplyGate(quantum.Gate{
		Kind:   quantum.GateRX,
		Qubits: []int{0},
		Angles: []quantum.Angle{quantum.Param("theta")},
	}))

	_, err := a.Statevector(context.Background())
	var unbound *quantum.UnboundParameterError
	assert.ErrorAs(t, err, &unbound)
}

func TestStatevectorHadamard(t *testing.T) {
	a := testAdapter(t, nil)
	require.NoError(t, a.CreateCircuit(1))
	require.NoError(t, a.ApplyGate(quantum.Gate{Kind: quantum.GateHadamard, Qubits: []int{0}}))

	amps, err := a.Statevector(context.Background())
	require.NoError(t, err)
	require.Len(t, amps, 2)
	assert.InDelta(t, 1/math.Sqrt2, real(amps[0]), 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, real(amps[1]), 1e-12)
}

func TestDrawRendersSymbolicQASM(t *testing.T) {
	a := testAdapter(t, nil)
	require.NoError(t, a.CreateCircuit(1))
	require.NoError(t, a.ApplyGate(quantum.Gate{
		Kind:   quantum.GateRZ,
		Qubits: []int{0},
		Angles: []quantum.Angle{quantum.Param("phi")},
	}))

	out, err := a.Draw()
	require.NoError(t, err)
	assert.Contains(t, out, "rz(phi) q[0];")
}

func TestNormalizeRemoteCounts(t *testing.T) {
	raw := map[string]int{"0 1": 10, "11": 5, "0": 3}
	counts := normalizeRemoteCounts(raw, 2)
	assert.Equal(t, quantum.Counts{"01": 10, "11": 5, "00": 3}, counts)
}

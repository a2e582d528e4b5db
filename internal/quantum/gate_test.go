package quantum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGateKindNames(t *testing.T) {
	tests := []struct {
		kind GateKind
		name string
	}{
		{GatePauliX, "x"},
		{GatePauliY, "y"},
		{GatePauliZ, "z"},
		{GateHadamard, "h"},
		{GateRX, "rx"},
		{GateRY, "ry"},
		{GateRZ, "rz"},
		{GateU, "u3"},
		{GateCNOT, "cx"},
		{GateToffoli, "ccx"},
		{GateSwap, "swap"},
		{GateCSwap, "cswap"},
		{GateMeasure, "measure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.Name())
		})
	}
}

// isUnitary checks U * U^dagger = I.
func isUnitary(t *testing.T, u *mat.CDense) {
	t.Helper()
	n, _ := u.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += u.At(i, k) * cmplx.Conj(u.At(j, k))
			}
			want := complex128(0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, real(want), real(sum), 1e-12)
			assert.InDelta(t, imag(want), imag(sum), 1e-12)
		}
	}
}

func TestUnitariesAreUnitary(t *testing.T) {
	tests := []struct {
		name   string
		kind   GateKind
		angles []float64
	}{
		{"x", GatePauliX, nil},
		{"y", GatePauliY, nil},
		{"z", GatePauliZ, nil},
		{"h", GateHadamard, nil},
		{"rx", GateRX, []float64{0.7}},
		{"ry", GateRY, []float64{1.3}},
		{"rz", GateRZ, []float64{-2.1}},
		{"u3", GateU, []float64{0.4, 1.1, -0.9}},
		{"cx", GateCNOT, nil},
		{"ccx", GateToffoli, nil},
		{"swap", GateSwap, nil},
		{"cswap", GateCSwap, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.kind.Unitary(tt.angles...)
			require.NoError(t, err)
			isUnitary(t, u)
		})
	}
}

func TestHadamardUnitary(t *testing.T) {
	u, err := GateHadamard.Unitary()
	require.NoError(t, err)
	s := 1 / math.Sqrt2
	assert.InDelta(t, s, real(u.At(0, 0)), 1e-12)
	assert.InDelta(t, s, real(u.At(0, 1)), 1e-12)
	assert.InDelta(t, s, real(u.At(1, 0)), 1e-12)
	assert.InDelta(t, -s, real(u.At(1, 1)), 1e-12)
}

func TestUGateSpecialCases(t *testing.T) {
	// U(pi, 0, pi) is Pauli-X up to global phase; with this convention it
	// is exactly X.
	u, err := GateU.Unitary(math.Pi, 0, math.Pi)
	require.NoError(t, err)
	x, err := GatePauliX.Unitary()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, real(x.At(i, j)), real(u.At(i, j)), 1e-12)
			assert.InDelta(t, imag(x.At(i, j)), imag(u.At(i, j)), 1e-12)
		}
	}
}

func TestMeasureHasNoUnitary(t *testing.T) {
	_, err := GateMeasure.Unitary()
	assert.Error(t, err)
}

func TestGateValidate(t *testing.T) {
	t.Run("valid single qubit", func(t *testing.T) {
		g := Gate{Kind: GateHadamard, Qubits: []int{1}}
		assert.NoError(t, g.Validate(2))
	})

	t.Run("index out of range", func(t *testing.T) {
		g := Gate{Kind: GateHadamard, Qubits: []int{5}}
		err := g.Validate(2)
		var idxErr *InvalidQubitIndexError
		require.ErrorAs(t, err, &idxErr)
		assert.Equal(t, 5, idxErr.Index)
		assert.Equal(t, 2, idxErr.NumQubits)
	})

	t.Run("negative index", func(t *testing.T) {
		g := Gate{Kind: GatePauliX, Qubits: []int{-1}}
		var idxErr *InvalidQubitIndexError
		assert.ErrorAs(t, g.Validate(2), &idxErr)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		g := Gate{Kind: GateCNOT, Qubits: []int{0}}
		assert.Error(t, g.Validate(2))
	})

	t.Run("duplicate qubits", func(t *testing.T) {
		g := Gate{Kind: GateCNOT, Qubits: []int{1, 1}}
		var idxErr *InvalidQubitIndexError
		assert.ErrorAs(t, g.Validate(2), &idxErr)
	})

	t.Run("angle count mismatch", func(t *testing.T) {
		g := Gate{Kind: GateRX, Qubits: []int{0}}
		assert.Error(t, g.Validate(1))
	})

	t.Run("measure needs at least one qubit", func(t *testing.T) {
		g := Gate{Kind: GateMeasure}
		assert.Error(t, g.Validate(2))
	})

	t.Run("measure accepts several qubits", func(t *testing.T) {
		g := Gate{Kind: GateMeasure, Qubits: []int{0, 2}}
		assert.NoError(t, g.Validate(3))
	})
}

func TestAngleResolve(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		v, err := Radians(1.5).Resolve(nil)
		require.NoError(t, err)
		assert.Equal(t, 1.5, v)
	})

	t.Run("bound placeholder", func(t *testing.T) {
		v, err := Param("theta").Resolve(map[string]float64{"theta": math.Pi})
		require.NoError(t, err)
		assert.Equal(t, math.Pi, v)
	})

	t.Run("unbound placeholder", func(t *testing.T) {
		_, err := Param("theta").Resolve(map[string]float64{"phi": 1})
		var unbound *UnboundParameterError
		require.ErrorAs(t, err, &unbound)
		assert.Equal(t, "theta", unbound.Name)
	})

	t.Run("no implicit zero", func(t *testing.T) {
		_, err := Param("theta").Resolve(nil)
		assert.Error(t, err)
	})
}

func TestErrCircuitNotInitializedIdentity(t *testing.T) {
	wrapped := errors.Join(ErrCircuitNotInitialized)
	assert.ErrorIs(t, wrapped, ErrCircuitNotInitialized)
}

func TestCountsHelpers(t *testing.T) {
	counts := Counts{"00": 500, "11": 300, "01": 200}

	assert.Equal(t, 1000, counts.Shots())

	probs := counts.Probabilities()
	assert.InDelta(t, 0.5, probs["00"], 1e-12)
	assert.InDelta(t, 0.3, probs["11"], 1e-12)

	// qubit 0 is the rightmost character
	assert.InDelta(t, 0.5, counts.MarginalOne(0), 1e-12) // "11" + "01"
	assert.InDelta(t, 0.3, counts.MarginalOne(1), 1e-12) // "11" only
}

func TestCountsEmpty(t *testing.T) {
	counts := Counts{}
	assert.Equal(t, 0, counts.Shots())
	assert.Empty(t, counts.Probabilities())
	assert.Zero(t, counts.MarginalOne(0))
}

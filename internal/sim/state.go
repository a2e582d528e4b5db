// Package sim implements the local statevector engine the backend adapters
// delegate to when configured for local simulation. The engine owns the
// sampling randomness; adapters only pass a shot count and an optional seed
// through from the backend options.
package sim

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// State is a full statevector over numQubits qubits. Basis-state index i
// encodes qubit q in bit q (qubit 0 least significant). A fresh state is
// |0...0>.
type State struct {
	amps      []complex128
	numQubits int
}

// NewState returns the |0...0> state on numQubits qubits.
func NewState(numQubits int) *State {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &State{amps: amps, numQubits: numQubits}
}

// NumQubits returns the qubit count the state was created with.
func (s *State) NumQubits() int {
	return s.numQubits
}

// Amplitudes returns a copy of the amplitude vector.
func (s *State) Amplitudes() []complex128 {
	out := make([]complex128, len(s.amps))
	copy(out, s.amps)
	return out
}

// ApplySingle applies a 2x2 unitary to one qubit.
func (s *State) ApplySingle(q int, u *mat.CDense) {
	bit := 1 << q
	u00, u01 := u.At(0, 0), u.At(0, 1)
	u10, u11 := u.At(1, 0), u.At(1, 1)
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.amps[i], s.amps[j]
			s.amps[i] = u00*a0 + u01*a1
			s.amps[j] = u10*a0 + u11*a1
		}
	}
}

// ApplyControlledSingle applies a 2x2 unitary to target on the subspace
// where every control qubit is |1>. CNOT and Toffoli reduce to this with the
// Pauli-X matrix.
func (s *State) ApplyControlledSingle(controls []int, target int, u *mat.CDense) {
	ctrlMask := 0
	for _, c := range controls {
		ctrlMask |= 1 << c
	}
	bit := 1 << target
	u00, u01 := u.At(0, 0), u.At(0, 1)
	u10, u11 := u.At(1, 0), u.At(1, 1)
	for i := range s.amps {
		if i&ctrlMask == ctrlMask && i&bit == 0 {
			j := i | bit
			a0, a1 := s.amps[i], s.amps[j]
			s.amps[i] = u00*a0 + u01*a1
			s.amps[j] = u10*a0 + u11*a1
		}
	}
}

// ApplySwap exchanges the amplitudes of two qubits.
func (s *State) ApplySwap(q1, q2 int) {
	b1, b2 := 1<<q1, 1<<q2
	for i := range s.amps {
		if i&b1 != 0 && i&b2 == 0 {
			j := (i &^ b1) | b2
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// ApplyControlledSwap exchanges two target qubits on the subspace where the
// control qubit is |1> (the Fredkin gate).
func (s *State) ApplyControlledSwap(control, q1, q2 int) {
	cb := 1 << control
	b1, b2 := 1<<q1, 1<<q2
	for i := range s.amps {
		if i&cb != 0 && i&b1 != 0 && i&b2 == 0 {
			j := (i &^ b1) | b2
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
}

// Probabilities returns the Born-rule probability of every basis state.
func (s *State) Probabilities() []float64 {
	probs := make([]float64, len(s.amps))
	for i, a := range s.amps {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// normalize guards against drift from long gate sequences.
func (s *State) normalize() {
	var sum float64
	for _, a := range s.amps {
		sum += real(a * cmplx.Conj(a))
	}
	if sum == 0 {
		return
	}
	norm := complex(1/math.Sqrt(sum), 0)
	for i := range s.amps {
		s.amps[i] *= norm
	}
}

// Package quantum defines the backend-neutral gate vocabulary, the adapter
// contract every execution backend implements, and the error taxonomy shared
// across the circuit bridge.
package quantum

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// GateKind identifies a gate in the fixed backend-neutral vocabulary.
type GateKind int

const (
	// GatePauliX is the Pauli-X (bit flip) gate.
	GatePauliX GateKind = iota
	// GatePauliY is the Pauli-Y gate.
	GatePauliY
	// GatePauliZ is the Pauli-Z (phase flip) gate.
	GatePauliZ
	// GateHadamard is the Hadamard gate.
	GateHadamard
	// GateRX is a rotation around the X axis by one angle parameter.
	GateRX
	// GateRY is a rotation around the Y axis by one angle parameter.
	GateRY
	// GateRZ is a rotation around the Z axis by one angle parameter.
	GateRZ
	// GateU is the universal single-qubit gate U(theta, phi, lambda).
	GateU
	// GateCNOT is the controlled-X gate (control, target).
	GateCNOT
	// GateToffoli is the doubly-controlled X gate (control1, control2, target).
	GateToffoli
	// GateSwap exchanges two qubits.
	GateSwap
	// GateCSwap is the controlled swap / Fredkin gate (control, target1, target2).
	GateCSwap
	// GateMeasure records a measurement of one or more qubits. It has no
	// unitary; it only marks which qubits contribute to the counts.
	GateMeasure
)

// gateSpec describes the fixed shape of a vocabulary entry.
type gateSpec struct {
	name      string // OpenQASM 2.0 spelling, used as the canonical name
	numQubits int    // 0 means variable (measurement)
	numAngles int
}

var gateSpecs = map[GateKind]gateSpec{
	GatePauliX:   {name: "x", numQubits: 1},
	GatePauliY:   {name: "y", numQubits: 1},
	GatePauliZ:   {name: "z", numQubits: 1},
	GateHadamard: {name: "h", numQubits: 1},
	GateRX:       {name: "rx", numQubits: 1, numAngles: 1},
	GateRY:       {name: "ry", numQubits: 1, numAngles: 1},
	GateRZ:       {name: "rz", numQubits: 1, numAngles: 1},
	GateU:        {name: "u3", numQubits: 1, numAngles: 3},
	GateCNOT:     {name: "cx", numQubits: 2},
	GateToffoli:  {name: "ccx", numQubits: 3},
	GateSwap:     {name: "swap", numQubits: 2},
	GateCSwap:    {name: "cswap", numQubits: 3},
	GateMeasure:  {name: "measure", numQubits: 0},
}

// Name returns the canonical (OpenQASM) spelling of the gate.
func (k GateKind) Name() string {
	if spec, ok := gateSpecs[k]; ok {
		return spec.name
	}
	return "unknown"
}

// NumQubits returns the gate arity, or 0 for measurement (variable arity).
func (k GateKind) NumQubits() int {
	return gateSpecs[k].numQubits
}

// NumAngles returns how many angle parameters the gate carries.
func (k GateKind) NumAngles() int {
	return gateSpecs[k].numAngles
}

func (k GateKind) String() string {
	return k.Name()
}

// Gate is one backend-neutral instruction: a vocabulary entry applied to an
// ordered list of qubits with zero or more angle parameters. Gates are built
// transiently by the circuit facade and handed to the active adapter, which
// materializes them into its native circuit form immediately.
type Gate struct {
	Kind   GateKind
	Qubits []int
	Angles []Angle
}

// Validate checks the gate shape against the vocabulary and the declared
// qubit count. Adapters call this before touching their native handle so the
// InvalidQubitIndex contract is uniform across backends.
func (g Gate) Validate(numQubits int) error {
	spec, ok := gateSpecs[g.Kind]
	if !ok {
		return fmt.Errorf("unknown gate kind %d", int(g.Kind))
	}
	if g.Kind == GateMeasure {
		if len(g.Qubits) == 0 {
			return fmt.Errorf("measure requires at least one qubit")
		}
	} else if len(g.Qubits) != spec.numQubits {
		return fmt.Errorf("gate %s takes %d qubits, got %d", spec.name, spec.numQubits, len(g.Qubits))
	}
	if len(g.Angles) != spec.numAngles {
		return fmt.Errorf("gate %s takes %d angle parameters, got %d", spec.name, spec.numAngles, len(g.Angles))
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= numQubits {
			return &InvalidQubitIndexError{Index: q, NumQubits: numQubits}
		}
	}
	seen := make(map[int]bool, len(g.Qubits))
	for _, q := range g.Qubits {
		if seen[q] {
			return &InvalidQubitIndexError{
				Index:     q,
				NumQubits: numQubits,
				Reason:    fmt.Sprintf("qubit %d used twice in %s", q, spec.name),
			}
		}
		seen[q] = true
	}
	return nil
}

// ParameterNames returns the placeholder names referenced by the gate, in
// parameter order. Literal angles contribute nothing.
func (g Gate) ParameterNames() []string {
	var names []string
	for _, a := range g.Angles {
		if a.IsParam() {
			names = append(names, a.ParamName())
		}
	}
	return names
}

// Unitary returns the gate's matrix for the given concrete angle values, as
// a dense complex matrix of dimension 2^arity. Measurement has no unitary.
// Qubit ordering convention: the first qubit of the gate is the least
// significant bit of the basis-state index.
func (k GateKind) Unitary(angles ...float64) (*mat.CDense, error) {
	spec := gateSpecs[k]
	if len(angles) != spec.numAngles {
		return nil, fmt.Errorf("gate %s takes %d angles, got %d", spec.name, spec.numAngles, len(angles))
	}
	switch k {
	case GatePauliX:
		return cdense2(0, 1, 1, 0), nil
	case GatePauliY:
		return cdense2(0, -1i, 1i, 0), nil
	case GatePauliZ:
		return cdense2(1, 0, 0, -1), nil
	case GateHadamard:
		s := complex(1/math.Sqrt2, 0)
		return cdense2(s, s, s, -s), nil
	case GateRX:
		c := complex(math.Cos(angles[0]/2), 0)
		js := complex(0, -math.Sin(angles[0]/2))
		return cdense2(c, js, js, c), nil
	case GateRY:
		c := complex(math.Cos(angles[0]/2), 0)
		s := complex(math.Sin(angles[0]/2), 0)
		return cdense2(c, -s, s, c), nil
	case GateRZ:
		p := cmplx.Exp(complex(0, angles[0]/2))
		return cdense2(cmplx.Conj(p), 0, 0, p), nil
	case GateU:
		theta, phi, lambda := angles[0], angles[1], angles[2]
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return cdense2(
			c,
			-cmplx.Exp(complex(0, lambda))*s,
			cmplx.Exp(complex(0, phi))*s,
			cmplx.Exp(complex(0, phi+lambda))*c,
		), nil
	case GateCNOT:
		u := identityCDense(4)
		// control is qubit 0 (LSB): swap |01> and |11>
		permute(u, 1, 3)
		return u, nil
	case GateSwap:
		u := identityCDense(4)
		permute(u, 1, 2)
		return u, nil
	case GateToffoli:
		u := identityCDense(8)
		// controls are qubits 0 and 1: flip target when both set
		permute(u, 3, 7)
		return u, nil
	case GateCSwap:
		u := identityCDense(8)
		// control is qubit 0: swap targets when set
		permute(u, 3, 5)
		return u, nil
	case GateMeasure:
		return nil, fmt.Errorf("measurement has no unitary")
	}
	return nil, fmt.Errorf("unknown gate kind %d", int(k))
}

func cdense2(a, b, c, d complex128) *mat.CDense {
	return mat.NewCDense(2, 2, []complex128{a, b, c, d})
}

func identityCDense(n int) *mat.CDense {
	u := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		u.Set(i, i, 1)
	}
	return u
}

// permute swaps basis states i and j in a permutation matrix.
func permute(u *mat.CDense, i, j int) {
	u.Set(i, i, 0)
	u.Set(j, j, 0)
	u.Set(i, j, 1)
	u.Set(j, i, 1)
}

// Package cirq implements the Cirq backend adapter. Its native circuit form
// is a sequence of moments over line qubits, mirroring how Cirq schedules
// operations: each appended operation lands in the earliest moment whose
// qubits are all still free. Named angles are first-class in this backend
// (Cirq symbols); they stay symbolic in the native form and are resolved by
// a parameter resolver at execution time.
package cirq

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
	"github.com/jaskrrish/go-qbridge/internal/sim"
)

// Operation is one native op: a vocabulary gate on line qubits, angles
// possibly symbolic.
type Operation struct {
	Kind   quantum.GateKind
	Qubits []int
	Angles []quantum.Angle
}

// Moment is a set of operations on disjoint qubits that conceptually happen
// at the same time step.
type Moment struct {
	Ops []Operation
}

// Circuit is the adapter's native handle: moments over a fixed line-qubit
// register.
type Circuit struct {
	numQubits int
	moments   []Moment
	frontier  []int // per qubit, index of the earliest free moment
}

// NewCircuit allocates an empty moment sequence over numQubits line qubits.
func NewCircuit(numQubits int) *Circuit {
	return &Circuit{
		numQubits: numQubits,
		frontier:  make([]int, numQubits),
	}
}

// NumQubits returns the register size.
func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// Moments returns the scheduled moments.
func (c *Circuit) Moments() []Moment {
	return c.moments
}

// Append schedules the gate using the earliest-moment strategy.
func (c *Circuit) Append(g quantum.Gate) error {
	if err := g.Validate(c.numQubits); err != nil {
		return err
	}
	op := Operation{Kind: g.Kind, Qubits: append([]int(nil), g.Qubits...)}
	op.Angles = append(op.Angles, g.Angles...)

	slot := 0
	for _, q := range op.Qubits {
		if c.frontier[q] > slot {
			slot = c.frontier[q]
		}
	}
	for len(c.moments) <= slot {
		c.moments = append(c.moments, Moment{})
	}
	c.moments[slot].Ops = append(c.moments[slot].Ops, op)
	for _, q := range op.Qubits {
		c.frontier[q] = slot + 1
	}
	return nil
}

// HasMeasurement reports whether any moment contains a measurement.
func (c *Circuit) HasMeasurement() bool {
	for _, m := range c.moments {
		for _, op := range m.Ops {
			if op.Kind == quantum.GateMeasure {
				return true
			}
		}
	}
	return false
}

// ParameterNames returns the distinct symbol names used in the circuit.
func (c *Circuit) ParameterNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range c.moments {
		for _, op := range m.Ops {
			for _, a := range op.Angles {
				if a.IsParam() && !seen[a.ParamName()] {
					seen[a.ParamName()] = true
					names = append(names, a.ParamName())
				}
			}
		}
	}
	return names
}

// Resolve flattens the moments to engine ops with every symbol substituted
// from the resolver map.
func (c *Circuit) Resolve(params map[string]float64) ([]sim.Op, error) {
	var ops []sim.Op
	for _, m := range c.moments {
		for _, op := range m.Ops {
			resolved := sim.Op{Kind: op.Kind, Qubits: op.Qubits}
			for _, a := range op.Angles {
				v, err := a.Resolve(params)
				if err != nil {
					return nil, err
				}
				resolved.Params = append(resolved.Params, v)
			}
			ops = append(ops, resolved)
		}
	}
	return ops, nil
}

// Diagram renders the Cirq-style text drawing of the circuit:
//
//	0: ───H───@───M───
//	          │
//	1: ───────X───M───
func (c *Circuit) Diagram() string {
	if len(c.moments) == 0 {
		return c.emptyDiagram()
	}

	// symbols[q][m] is qubit q's cell in moment m; "" means idle.
	symbols := make([][]string, c.numQubits)
	spans := make([][][2]int, len(c.moments)) // per moment, qubit extents of each multi-qubit op
	for q := range symbols {
		symbols[q] = make([]string, len(c.moments))
	}

	for mi, m := range c.moments {
		for _, op := range m.Ops {
			cells := opCells(op)
			for i, q := range op.Qubits {
				symbols[q][mi] = cells[i]
			}
			if len(op.Qubits) > 1 && op.Kind != quantum.GateMeasure {
				lo, hi := op.Qubits[0], op.Qubits[0]
				for _, q := range op.Qubits[1:] {
					if q < lo {
						lo = q
					}
					if q > hi {
						hi = q
					}
				}
				spans[mi] = append(spans[mi], [2]int{lo, hi})
			}
		}
	}

	widths := make([]int, len(c.moments))
	for mi := range widths {
		widths[mi] = 1
		for q := 0; q < c.numQubits; q++ {
			if n := utf8.RuneCountInString(symbols[q][mi]); n > widths[mi] {
				widths[mi] = n
			}
		}
	}

	var b strings.Builder
	for q := 0; q < c.numQubits; q++ {
		fmt.Fprintf(&b, "%d: ───", q)
		for mi := range c.moments {
			cell := symbols[q][mi]
			if cell == "" {
				b.WriteString(strings.Repeat("─", widths[mi]))
			} else {
				b.WriteString(cell)
				b.WriteString(strings.Repeat("─", widths[mi]-len([]rune(cell))))
			}
			b.WriteString("───")
		}
		b.WriteByte('\n')

		if q == c.numQubits-1 {
			break
		}
		// connector row between qubit q and q+1
		b.WriteString("   ")
		for mi := range c.moments {
			b.WriteString("   ")
			connected := false
			for _, span := range spans[mi] {
				if span[0] <= q && q < span[1] {
					connected = true
					break
				}
			}
			if connected {
				b.WriteString("│")
				b.WriteString(strings.Repeat(" ", widths[mi]-1))
			} else {
				b.WriteString(strings.Repeat(" ", widths[mi]))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Circuit) emptyDiagram() string {
	var b strings.Builder
	for q := 0; q < c.numQubits; q++ {
		fmt.Fprintf(&b, "%d: ───\n", q)
	}
	return b.String()
}

// opCells returns the per-qubit diagram cells for an operation, in the
// operation's qubit order.
func opCells(op Operation) []string {
	switch op.Kind {
	case quantum.GatePauliX:
		return []string{"X"}
	case quantum.GatePauliY:
		return []string{"Y"}
	case quantum.GatePauliZ:
		return []string{"Z"}
	case quantum.GateHadamard:
		return []string{"H"}
	case quantum.GateRX:
		return []string{fmt.Sprintf("Rx(%s)", op.Angles[0])}
	case quantum.GateRY:
		return []string{fmt.Sprintf("Ry(%s)", op.Angles[0])}
	case quantum.GateRZ:
		return []string{fmt.Sprintf("Rz(%s)", op.Angles[0])}
	case quantum.GateU:
		return []string{fmt.Sprintf("U(%s,%s,%s)", op.Angles[0], op.Angles[1], op.Angles[2])}
	case quantum.GateCNOT:
		return []string{"@", "X"}
	case quantum.GateToffoli:
		return []string{"@", "@", "X"}
	case quantum.GateSwap:
		return []string{"×", "×"}
	case quantum.GateCSwap:
		return []string{"@", "×", "×"}
	case quantum.GateMeasure:
		cells := make([]string, len(op.Qubits))
		for i := range cells {
			cells[i] = "M"
		}
		return cells
	}
	return []string{"?"}
}

// Package qiskit implements the Qiskit backend adapter. Its native circuit
// form is an OpenQASM 2.0 program; execution is delegated either to the
// local statevector engine or to the IBM Quantum REST API for remote
// devices. OpenQASM 2.0 has no symbolic parameters, so named angles are held
// in a deferred-substitution table and resolved when the program is
// rendered at execution time.
package qiskit

import (
	"fmt"
	"strings"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
	"github.com/jaskrrish/go-qbridge/internal/sim"
)

// Instruction is one recorded OpenQASM operation. Angles may still be
// placeholders; Render substitutes them.
type Instruction struct {
	Kind   quantum.GateKind
	Qubits []int
	Angles []quantum.Angle
}

// Program is the adapter's native circuit handle: quantum and classical
// registers plus the recorded instruction sequence.
type Program struct {
	numQubits    int
	instructions []Instruction
}

// NewProgram allocates an empty program with numQubits qubits and an
// equally sized classical register.
func NewProgram(numQubits int) *Program {
	return &Program{numQubits: numQubits}
}

// NumQubits returns the declared register size.
func (p *Program) NumQubits() int {
	return p.numQubits
}

// Append records an instruction after validating it against the register.
func (p *Program) Append(g quantum.Gate) error {
	if err := g.Validate(p.numQubits); err != nil {
		return err
	}
	inst := Instruction{Kind: g.Kind, Qubits: append([]int(nil), g.Qubits...)}
	inst.Angles = append(inst.Angles, g.Angles...)
	p.instructions = append(p.instructions, inst)
	return nil
}

// HasMeasurement reports whether any measure instruction was recorded.
func (p *Program) HasMeasurement() bool {
	for _, inst := range p.instructions {
		if inst.Kind == quantum.GateMeasure {
			return true
		}
	}
	return false
}

// ParameterNames returns every placeholder name referenced by the program.
func (p *Program) ParameterNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, inst := range p.instructions {
		for _, a := range inst.Angles {
			if a.IsParam() && !seen[a.ParamName()] {
				seen[a.ParamName()] = true
				names = append(names, a.ParamName())
			}
		}
	}
	return names
}

// Render produces the OpenQASM 2.0 text with all placeholders substituted
// from params. When the program has no explicit measurement, every qubit is
// measured into its classical bit, matching the backend's default
// measurement behavior.
func (p *Program) Render(params map[string]float64) (string, error) {
	return p.render(params, false)
}

// RenderSymbolic produces OpenQASM text with placeholder names left inline.
// The output is for display only; it is not valid OpenQASM 2.0 until bound.
func (p *Program) RenderSymbolic() string {
	out, _ := p.render(nil, true)
	return out
}

func (p *Program) render(params map[string]float64, symbolic bool) (string, error) {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&b, "qreg q[%d];\n", p.numQubits)
	fmt.Fprintf(&b, "creg c[%d];\n\n", p.numQubits)

	for _, inst := range p.instructions {
		if inst.Kind == quantum.GateMeasure {
			for _, q := range inst.Qubits {
				fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", q, q)
			}
			continue
		}
		line, err := renderGate(inst, params, symbolic)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if !p.HasMeasurement() {
		b.WriteByte('\n')
		for q := 0; q < p.numQubits; q++ {
			fmt.Fprintf(&b, "measure q[%d] -> c[%d];\n", q, q)
		}
	}

	return b.String(), nil
}

func renderGate(inst Instruction, params map[string]float64, symbolic bool) (string, error) {
	name := inst.Kind.Name()

	var argPart string
	if len(inst.Angles) > 0 {
		rendered := make([]string, len(inst.Angles))
		for i, a := range inst.Angles {
			if symbolic {
				rendered[i] = a.String()
				continue
			}
			v, err := a.Resolve(params)
			if err != nil {
				return "", err
			}
			rendered[i] = fmt.Sprintf("%.10g", v)
		}
		argPart = "(" + strings.Join(rendered, ",") + ")"
	}

	qubits := make([]string, len(inst.Qubits))
	for i, q := range inst.Qubits {
		qubits[i] = fmt.Sprintf("q[%d]", q)
	}

	return fmt.Sprintf("%s%s %s;", name, argPart, strings.Join(qubits, ",")), nil
}

// Compile resolves every instruction against params and lowers the program
// to engine ops. Measure instructions pass through as markers.
func (p *Program) Compile(params map[string]float64) ([]sim.Op, error) {
	ops := make([]sim.Op, 0, len(p.instructions))
	for _, inst := range p.instructions {
		op := sim.Op{Kind: inst.Kind, Qubits: inst.Qubits}
		for _, a := range inst.Angles {
			v, err := a.Resolve(params)
			if err != nil {
				return nil, err
			}
			op.Params = append(op.Params, v)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

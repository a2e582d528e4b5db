// Package braket implements the Amazon Braket backend adapter. Its native
// circuit form is a JAQCD-style JSON program. The JAQCD IR has no symbolic
// parameters, so named angles live in a deferred-substitution table on the
// handle and are materialized into the IR when parameters are bound at
// execution time. Completed device tasks are read back from the S3 output
// location the Braket service writes results to.
package braket

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jaskrrish/go-qbridge/internal/quantum"
	"github.com/jaskrrish/go-qbridge/internal/sim"
)

// SchemaHeader identifies the IR document type.
type SchemaHeader struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Instruction is one JAQCD instruction. Field usage depends on Type: single
// qubit gates use Target, controlled gates use Control/Controls, swap-style
// gates use Targets, rotations carry Angle, and the universal gate is
// expressed as a "unitary" instruction with an explicit matrix.
type Instruction struct {
	Type      string         `json:"type"`
	Target    *int           `json:"target,omitempty"`
	Control   *int           `json:"control,omitempty"`
	Controls  []int          `json:"controls,omitempty"`
	Targets   []int          `json:"targets,omitempty"`
	Angle     *float64       `json:"angle,omitempty"`
	Matrix    [][][2]float64 `json:"matrix,omitempty"`
	Parameter string         `json:"parameter,omitempty"` // display only: unbound placeholder name
}

// Program is the serializable JAQCD document.
type Program struct {
	Header       SchemaHeader  `json:"braketSchemaHeader"`
	Instructions []Instruction `json:"instructions"`
	Results      []ResultType  `json:"results,omitempty"`
}

// ResultType requests a result computation from the service.
type ResultType struct {
	Type    string `json:"type"`
	Targets []int  `json:"targets,omitempty"`
}

// recorded is the handle-side record of one neutral gate, kept alongside the
// IR so deferred parameters can be substituted and the program lowered to
// engine ops.
type recorded struct {
	kind   quantum.GateKind
	qubits []int
	angles []quantum.Angle
}

// Handle is the adapter's native circuit handle.
type Handle struct {
	numQubits int
	gates     []recorded
	measured  map[int]bool
}

// NewHandle allocates an empty program handle.
func NewHandle(numQubits int) *Handle {
	return &Handle{numQubits: numQubits, measured: make(map[int]bool)}
}

// NumQubits returns the declared qubit count.
func (h *Handle) NumQubits() int {
	return h.numQubits
}

// Append records the neutral gate after validation. Measurements are not
// JAQCD instructions; they become result-type targets.
func (h *Handle) Append(g quantum.Gate) error {
	if err := g.Validate(h.numQubits); err != nil {
		return err
	}
	if g.Kind == quantum.GateMeasure {
		for _, q := range g.Qubits {
			h.measured[q] = true
		}
		return nil
	}
	rec := recorded{kind: g.Kind, qubits: append([]int(nil), g.Qubits...)}
	rec.angles = append(rec.angles, g.Angles...)
	h.gates = append(h.gates, rec)
	return nil
}

// ParameterNames returns the distinct deferred parameter names.
func (h *Handle) ParameterNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range h.gates {
		for _, a := range rec.angles {
			if a.IsParam() && !seen[a.ParamName()] {
				seen[a.ParamName()] = true
				names = append(names, a.ParamName())
			}
		}
	}
	return names
}

// MeasuredQubits returns the explicitly measured qubits in ascending order,
// or nil when the default all-qubit measurement applies.
func (h *Handle) MeasuredQubits() []int {
	if len(h.measured) == 0 {
		return nil
	}
	qubits := make([]int, 0, len(h.measured))
	for q := range h.measured {
		qubits = append(qubits, q)
	}
	sort.Ints(qubits)
	return qubits
}

// Bind substitutes params into the deferred table and produces the fully
// concrete IR document. A placeholder without a binding is an
// UnboundParameterError.
func (h *Handle) Bind(params map[string]float64) (*Program, error) {
	return h.build(params, false)
}

// Render produces the display form of the IR as indented JSON, leaving
// unbound placeholders marked by name.
func (h *Handle) Render() (string, error) {
	prog, err := h.build(nil, true)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(prog, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *Handle) build(params map[string]float64, symbolic bool) (*Program, error) {
	prog := &Program{
		Header: SchemaHeader{Name: "braket.ir.jaqcd.program", Version: "1"},
	}
	for _, rec := range h.gates {
		inst, err := encodeInstruction(rec, params, symbolic)
		if err != nil {
			return nil, err
		}
		prog.Instructions = append(prog.Instructions, inst)
	}
	targets := h.MeasuredQubits()
	if targets == nil {
		for q := 0; q < h.numQubits; q++ {
			targets = append(targets, q)
		}
	}
	prog.Results = append(prog.Results, ResultType{Type: "probability", Targets: targets})
	return prog, nil
}

func encodeInstruction(rec recorded, params map[string]float64, symbolic bool) (Instruction, error) {
	switch rec.kind {
	case quantum.GatePauliX, quantum.GatePauliY, quantum.GatePauliZ, quantum.GateHadamard:
		return Instruction{Type: rec.kind.Name(), Target: intPtr(rec.qubits[0])}, nil

	case quantum.GateRX, quantum.GateRY, quantum.GateRZ:
		inst := Instruction{Type: rec.kind.Name(), Target: intPtr(rec.qubits[0])}
		a := rec.angles[0]
		if symbolic && a.IsParam() {
			inst.Parameter = a.ParamName()
			return inst, nil
		}
		v, err := a.Resolve(params)
		if err != nil {
			return Instruction{}, err
		}
		inst.Angle = &v
		return inst, nil

	case quantum.GateU:
		// JAQCD has no universal gate; encode as an explicit unitary.
		inst := Instruction{Type: "unitary", Targets: rec.qubits}
		if symbolic {
			for _, a := range rec.angles {
				if a.IsParam() {
					inst.Parameter = a.ParamName()
					return inst, nil
				}
			}
		}
		angles := make([]float64, len(rec.angles))
		for i, a := range rec.angles {
			v, err := a.Resolve(params)
			if err != nil {
				return Instruction{}, err
			}
			angles[i] = v
		}
		u, err := quantum.GateU.Unitary(angles...)
		if err != nil {
			return Instruction{}, err
		}
		matrix := make([][][2]float64, 2)
		for r := 0; r < 2; r++ {
			matrix[r] = make([][2]float64, 2)
			for col := 0; col < 2; col++ {
				v := u.At(r, col)
				matrix[r][col] = [2]float64{real(v), imag(v)}
			}
		}
		inst.Matrix = matrix
		return inst, nil

	case quantum.GateCNOT:
		return Instruction{Type: "cnot", Control: intPtr(rec.qubits[0]), Target: intPtr(rec.qubits[1])}, nil

	case quantum.GateToffoli:
		return Instruction{Type: "ccnot", Controls: rec.qubits[:2], Target: intPtr(rec.qubits[2])}, nil

	case quantum.GateSwap:
		return Instruction{Type: "swap", Targets: rec.qubits}, nil

	case quantum.GateCSwap:
		return Instruction{Type: "cswap", Control: intPtr(rec.qubits[0]), Targets: rec.qubits[1:]}, nil
	}
	return Instruction{}, fmt.Errorf("gate %s has no JAQCD encoding", rec.kind)
}

func intPtr(v int) *int {
	return &v
}

// Compile lowers the handle to engine ops with params substituted, appending
// the explicit measurement markers last.
func (h *Handle) Compile(params map[string]float64) ([]sim.Op, error) {
	ops := make([]sim.Op, 0, len(h.gates)+1)
	for _, rec := range h.gates {
		op := sim.Op{Kind: rec.kind, Qubits: rec.qubits}
		for _, a := range rec.angles {
			v, err := a.Resolve(params)
			if err != nil {
				return nil, err
			}
			op.Params = append(op.Params, v)
		}
		ops = append(ops, op)
	}
	if measured := h.MeasuredQubits(); measured != nil {
		ops = append(ops, sim.Op{Kind: quantum.GateMeasure, Qubits: measured})
	}
	return ops, nil
}

package quantum

import "strconv"

// Angle is a gate angle parameter: either a concrete value in radians or a
// named placeholder bound to a value at execution time. The zero value is a
// literal 0 radians.
type Angle struct {
	value    float64
	name     string
	symbolic bool
}

// Radians returns a literal angle.
func Radians(v float64) Angle {
	return Angle{value: v}
}

// Param returns a named placeholder angle. The same name used on different
// gates refers to one logical value and receives one binding.
func Param(name string) Angle {
	return Angle{name: name, symbolic: true}
}

// IsParam reports whether the angle is an unbound placeholder.
func (a Angle) IsParam() bool {
	return a.symbolic
}

// ParamName returns the placeholder name, or "" for a literal.
func (a Angle) ParamName() string {
	return a.name
}

// Resolve returns the concrete value, looking placeholders up in values.
// A placeholder missing from values is an UnboundParameterError; there is no
// implicit default.
func (a Angle) Resolve(values map[string]float64) (float64, error) {
	if !a.symbolic {
		return a.value, nil
	}
	v, ok := values[a.name]
	if !ok {
		return 0, &UnboundParameterError{Name: a.name}
	}
	return v, nil
}

func (a Angle) String() string {
	if a.symbolic {
		return a.name
	}
	return strconv.FormatFloat(a.value, 'g', -1, 64)
}

// Package runtime implements the interpreter and runtime value system for lox-lang.
package runtime

import (
	"math"
	"strconv"
)

// Value is the interface for all runtime values. The set of implementations
// is closed: NumberVal, StringVal, BoolVal and NilVal.
type Value interface {
	TypeName() string
	String() string
	value()
}

// ---- Primitive values ----

// NumberVal represents a number. All numbers are double precision.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }
func (v NumberVal) String() string   { return FormatNumber(float64(v)) }
func (NumberVal) value()             {}

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }
func (StringVal) value()             {}

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }
func (BoolVal) value()             {}

// NilVal represents nil, the absence of a value.
type NilVal struct{}

func (v NilVal) TypeName() string { return "nil" }
func (v NilVal) String() string   { return "nil" }
func (NilVal) value()             {}

// Nil is the single nil value.
var Nil Value = NilVal{}

// FormatNumber renders a number the way it would be written in source:
// integral values drop the fraction ("20"), others use the shortest
// decimal that round-trips ("5.105"). Infinities print as "Infinity" and
// "-Infinity".
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ---- Truthiness ----

// IsTruthy reports the truthiness of a value: nil and false are falsy,
// every other value is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilVal:
		return false
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// ---- Equality ----

// ValuesEqual implements == for any pair of values. nil equals only nil;
// values of different kinds are never equal.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	case NumberVal:
		bv, ok := b.(NumberVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	default:
		return false
	}
}

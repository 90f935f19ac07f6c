package genetics

import (
	"fmt"
	"math"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindFloat ValueKind = iota
	KindInt
	KindBool
	KindString
)

var valueKindNames = [...]string{
	KindFloat:  "float",
	KindInt:    "int",
	KindBool:   "bool",
	KindString: "string",
}

// String returns the lowercase kind name used in persisted records.
func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// ParseValueKind converts a persisted kind name back to a ValueKind.
func ParseValueKind(s string) (ValueKind, error) {
	for k, name := range valueKindNames {
		if name == s {
			return ValueKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown value kind %q", ErrInvalidArgument, s)
}

// Value is the closed sum type carried by an allele: exactly one of
// float, int, bool or string, selected by Kind.
type Value struct {
	kind ValueKind
	f    float64
	i    int64
	b    bool
	s    string
}

// Float wraps a float64.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Int wraps an int64.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Bool wraps a bool.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String wraps a string.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsNumeric reports whether the value coerces to float.
func (v Value) IsNumeric() bool { return v.kind != KindString }

// AsFloat coerces the value to float64. Bools map to 0/1; strings fail
// with ErrTypeMismatch.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		return 0, fmt.Errorf("%w: cannot coerce string %q to float", ErrTypeMismatch, v.s)
	default:
		return 0, fmt.Errorf("%w: unknown kind %d", ErrTypeMismatch, v.kind)
	}
}

// RawFloat returns the float payload; zero unless Kind is KindFloat.
func (v Value) RawFloat() float64 { return v.f }

// RawInt returns the int payload; zero unless Kind is KindInt.
func (v Value) RawInt() int64 { return v.i }

// RawBool returns the bool payload; false unless Kind is KindBool.
func (v Value) RawBool() bool { return v.b }

// RawString returns the string payload; empty unless Kind is KindString.
func (v Value) RawString() string { return v.s }

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.f == o.f
	case KindInt:
		return v.i == o.i
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	}
	return false
}

// withFloat rebuilds a value of the same kind from a numeric result.
// Ints round, bools threshold at 0.5; strings are returned unchanged.
func (v Value) withFloat(x float64) Value {
	switch v.kind {
	case KindFloat:
		return Float(x)
	case KindInt:
		return Int(int64(math.Round(x)))
	case KindBool:
		return Bool(x >= 0.5)
	default:
		return v
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return v.s
	}
	return "<invalid>"
}

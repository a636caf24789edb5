package exprschnell

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a numeric result, either an int64 or a float64.
//
// Numeric policy: a literal without fractional part or exponent parses as an
// integer. Addition, subtraction and multiplication preserve integer-ness when
// both operands are integers (int64 wraparound on overflow); division always
// produces a float.
type Value struct {
	i     int64
	f     float64
	isInt bool
}

// IntValue returns a Value holding an integer.
func IntValue(i int64) Value {
	return Value{i: i, isInt: true}
}

// FloatValue returns a Value holding a float.
func FloatValue(f float64) Value {
	return Value{f: f}
}

// ParseValue parses a signed decimal literal, optionally with a fractional
// part and exponent. Literals that look integral stay integers.
func ParseValue(s string) (Value, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Value{}, fmt.Errorf("%w: empty literal", ErrInvalidOperand)
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return IntValue(i), nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidOperand, s)
	}
	return FloatValue(f), nil
}

// IsInt reports whether the value is an integer.
func (v Value) IsInt() bool {
	return v.isInt
}

// Int returns the integer value. Only meaningful when IsInt is true.
func (v Value) Int() int64 {
	return v.i
}

// Float returns the value as a float64, converting integers.
func (v Value) Float() float64 {
	if v.isInt {
		return float64(v.i)
	}
	return v.f
}

// IsZero reports whether the value is exactly zero.
func (v Value) IsZero() bool {
	if v.isInt {
		return v.i == 0
	}
	return v.f == 0
}

// Equal compares two values numerically, so IntValue(2) equals FloatValue(2).
func (v Value) Equal(other Value) bool {
	if v.isInt && other.isInt {
		return v.i == other.i
	}
	return v.Float() == other.Float()
}

// String renders integers without a decimal point and floats in their
// shortest round-trippable form.
func (v Value) String() string {
	if v.isInt {
		return strconv.FormatInt(v.i, 10)
	}
	return strconv.FormatFloat(v.f, 'f', -1, 64)
}

// Format renders the value with a fixed number of fractional digits.
// A negative precision falls back to String.
func (v Value) Format(precision int) string {
	if precision < 0 || v.isInt {
		return v.String()
	}
	return strconv.FormatFloat(v.f, 'f', precision, 64)
}

// Negate returns the value with its sign flipped.
func (v Value) Negate() Value {
	if v.isInt {
		return IntValue(-v.i)
	}
	return FloatValue(-v.f)
}

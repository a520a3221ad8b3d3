package numeric

import (
	"errors"
	"strconv"
	"strings"
)

// ErrDivisionByZero is returned when an integral value is divided by integral zero.
var ErrDivisionByZero = errors.New("integral division by zero")

// Kind identifies the active variant of a Number.
type Kind uint8

const (
	// Integral is a 64-bit signed integer.
	Integral Kind = iota
	// Floating is a 64-bit IEEE-754 float.
	Floating
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Floating {
		return "floating"
	}
	return "integral"
}

// Number is a tagged union over int64 and float64.
// The zero value is Integral 0.
type Number struct {
	kind Kind
	i    int64
	f    float64
}

// Int returns an Integral number.
func Int(v int64) Number {
	return Number{kind: Integral, i: v}
}

// Float returns a Floating number.
func Float(v float64) Number {
	return Number{kind: Floating, f: v}
}

// Kind returns the active variant.
func (n Number) Kind() Kind { return n.kind }

// IsFloating reports whether n holds a float64.
func (n Number) IsFloating() bool { return n.kind == Floating }

// AsInt returns n as int64, truncating Floating values toward zero.
func (n Number) AsInt() int64 {
	if n.kind == Floating {
		return int64(n.f)
	}
	return n.i
}

// AsFloat returns n as float64.
func (n Number) AsFloat() float64 {
	if n.kind == Floating {
		return n.f
	}
	return float64(n.i)
}

// Add returns n + o.
func (n Number) Add(o Number) Number {
	if n.kind == Integral && o.kind == Integral {
		return Int(n.i + o.i)
	}
	return Float(n.AsFloat() + o.AsFloat())
}

// Sub returns n - o.
func (n Number) Sub(o Number) Number {
	if n.kind == Integral && o.kind == Integral {
		return Int(n.i - o.i)
	}
	return Float(n.AsFloat() - o.AsFloat())
}

// Mul returns n * o.
func (n Number) Mul(o Number) Number {
	if n.kind == Integral && o.kind == Integral {
		return Int(n.i * o.i)
	}
	return Float(n.AsFloat() * o.AsFloat())
}

// Div returns n / o. Integral division truncates; dividing an integral
// value by integral zero returns ErrDivisionByZero. Floating division
// follows IEEE-754.
func (n Number) Div(o Number) (Number, error) {
	if n.kind == Integral && o.kind == Integral {
		if o.i == 0 {
			return Number{}, ErrDivisionByZero
		}
		return Int(n.i / o.i), nil
	}
	return Float(n.AsFloat() / o.AsFloat()), nil
}

// Equal reports whether n and o hold the same variant with equal values.
// NaN is never equal to anything; +0 and -0 are equal.
func (n Number) Equal(o Number) bool {
	if n.kind != o.kind {
		return false
	}
	if n.kind == Floating {
		return n.f == o.f
	}
	return n.i == o.i
}

// String renders n. Floating values always carry a decimal point or an
// exponent so they read back as Floating.
func (n Number) String() string {
	if n.kind == Integral {
		return strconv.FormatInt(n.i, 10)
	}
	s := strconv.FormatFloat(n.f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}

package numeric

import (
	"github.com/hupe1980/sieve/internal/conv"
)

type converter func(v any) (Number, bool)

// Normalizer converts host numeric values into Numbers. It remembers the
// converter picked for the last observed dynamic type, so repeated values of
// the same type skip the type dispatch.
//
// A Normalizer is owned by a single access site and is not safe for
// concurrent use.
type Normalizer struct {
	conv converter
}

// Normalize converts v. It returns false if v is not a host number.
func (n *Normalizer) Normalize(v any) (Number, bool) {
	if n.conv != nil {
		if num, ok := n.conv(v); ok {
			return num, true
		}
	}
	c := converterFor(v)
	if c == nil {
		return Number{}, false
	}
	n.conv = c
	return c(v)
}

// Reset forgets the memoized converter.
func (n *Normalizer) Reset() { n.conv = nil }

// Of converts v without memoization.
func Of(v any) (Number, bool) {
	c := converterFor(v)
	if c == nil {
		return Number{}, false
	}
	return c(v)
}

func converterFor(v any) converter {
	switch v.(type) {
	case Number:
		return fromNumber
	case int:
		return fromSigned[int]
	case int64:
		return fromSigned[int64]
	case int32:
		return fromSigned[int32]
	case int16:
		return fromSigned[int16]
	case int8:
		return fromSigned[int8]
	case uint:
		return fromUint
	case uint64:
		return fromUint64
	case uint32:
		return fromSmallUnsigned[uint32]
	case uint16:
		return fromSmallUnsigned[uint16]
	case uint8:
		return fromSmallUnsigned[uint8]
	case uintptr:
		return fromUintptr
	case float64:
		return fromFloat[float64]
	case float32:
		return fromFloat[float32]
	default:
		return nil
	}
}

func fromNumber(v any) (Number, bool) {
	n, ok := v.(Number)
	return n, ok
}

func fromSigned[T int | int8 | int16 | int32 | int64](v any) (Number, bool) {
	x, ok := v.(T)
	return Int(int64(x)), ok
}

func fromSmallUnsigned[T uint8 | uint16 | uint32](v any) (Number, bool) {
	x, ok := v.(T)
	return Int(int64(x)), ok
}

func fromFloat[T float32 | float64](v any) (Number, bool) {
	x, ok := v.(T)
	return Float(float64(x)), ok
}

func fromUint(v any) (Number, bool) {
	x, ok := v.(uint)
	if !ok {
		return Number{}, false
	}
	return unsigned(uint64(x)), true
}

func fromUint64(v any) (Number, bool) {
	x, ok := v.(uint64)
	if !ok {
		return Number{}, false
	}
	return unsigned(x), true
}

func fromUintptr(v any) (Number, bool) {
	x, ok := v.(uintptr)
	if !ok {
		return Number{}, false
	}
	return unsigned(uint64(x)), true
}

// unsigned values that overflow int64 fall back to Floating.
func unsigned(x uint64) Number {
	i, err := conv.Uint64ToInt64(x)
	if err != nil {
		return Float(float64(x))
	}
	return Int(i)
}

// Package value defines the runtime values produced by evaluating a WHERE
// clause: null, booleans, numbers, strings, dates and opaque host values.
//
// Values are small tagged structs. Conversion from host values is done
// without reflection for every supported kind.
package value

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unique"

	"github.com/hupe1980/sieve/numeric"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindNull represents SQL NULL.
	KindNull Kind = iota
	// KindBool represents a boolean.
	KindBool
	// KindNumber represents a numeric.Number.
	KindNumber
	// KindString represents a string.
	KindString
	// KindDate represents a point in time.
	KindDate
	// KindOther represents any other host value.
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	default:
		return "other"
	}
}

// Value is a typed runtime value. The zero Value is null.
type Value struct {
	Kind Kind
	Num  numeric.Number
	B    bool
	T    time.Time
	s    unique.Handle[string] // interned
	x    any
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// Number returns a numeric value.
func Number(n numeric.Number) Value { return Value{Kind: KindNumber, Num: n} }

// Int returns an Integral numeric value.
func Int(i int64) Value { return Number(numeric.Int(i)) }

// Float returns a Floating numeric value.
func Float(f float64) Value { return Number(numeric.Float(f)) }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, s: unique.Make(s)} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{Kind: KindDate, T: t} }

// Other wraps an arbitrary host value.
func Other(x any) Value { return Value{Kind: KindOther, x: x} }

// Of converts a host value. nil and nil *time.Time become null.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case time.Time:
		return Date(x)
	case *time.Time:
		if x == nil {
			return Null()
		}
		return Date(*x)
	}
	if n, ok := numeric.Of(v); ok {
		return Number(n)
	}
	return Other(v)
}

// Normalize converts a host value, routing numbers through the memoized
// normalizer n of the calling access site.
func Normalize(v any, n *numeric.Normalizer) Value {
	if num, ok := n.Normalize(v); ok {
		return Number(num)
	}
	return Of(v)
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool returns the boolean if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsNumber returns the number if Kind is KindNumber.
func (v Value) AsNumber() (numeric.Number, bool) {
	if v.Kind != KindNumber {
		return numeric.Number{}, false
	}
	return v.Num, true
}

// AsString returns the string if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsDate returns the time if Kind is KindDate.
func (v Value) AsDate() (time.Time, bool) {
	if v.Kind != KindDate {
		return time.Time{}, false
	}
	return v.T, true
}

// Any returns the host representation of v: nil, bool, int64, float64,
// string, time.Time or the wrapped host value.
func (v Value) Any() any {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindNumber:
		if v.Num.IsFloating() {
			return v.Num.AsFloat()
		}
		return v.Num.AsInt()
	case KindString:
		return v.s.Value()
	case KindDate:
		return v.T
	case KindOther:
		return v.x
	default:
		return nil
	}
}

// Key returns a stable string representation for use in maps.
// Numbers are keyed by variant; -0.0 and +0.0 share a key.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindNumber:
		if v.Num.IsFloating() {
			f := v.Num.AsFloat()
			if f == 0 {
				f = 0
			}
			return "f:" + strconv.FormatUint(math.Float64bits(f), 16)
		}
		return "i:" + strconv.FormatInt(v.Num.AsInt(), 10)
	case KindString:
		return "s:" + v.s.Value()
	case KindDate:
		return "d:" + strconv.FormatInt(v.T.Unix(), 10) + "." + strconv.Itoa(v.T.Nanosecond())
	default:
		return fmt.Sprintf("o:%T:%v", v.x, v.x)
	}
}

// String renders v for display.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindNumber:
		return v.Num.String()
	case KindString:
		return v.s.Value()
	case KindDate:
		return v.T.Format(time.RFC3339)
	default:
		return fmt.Sprint(v.x)
	}
}

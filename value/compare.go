package value

import (
	"reflect"
	"strings"
)

// Equal reports whether a and b hold the same kind and equal contents.
// Numbers follow numeric.Number.Equal, dates compare instants.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.B == b.B
	case KindNumber:
		return a.Num.Equal(b.Num)
	case KindString:
		return a.s == b.s
	case KindDate:
		return a.T.Equal(b.T)
	default:
		if a.x == nil || b.x == nil {
			return a.x == b.x
		}
		if !reflect.ValueOf(a.x).Comparable() || !reflect.ValueOf(b.x).Comparable() {
			return false
		}
		return a.x == b.x
	}
}

// Compare orders two non-numeric values of the same kind. It reports false
// when the kinds differ or the kind has no natural order.
func Compare(a, b Value) (int, bool) {
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case KindString:
		return strings.Compare(a.s.Value(), b.s.Value()), true
	case KindDate:
		return a.T.Compare(b.T), true
	case KindBool:
		switch {
		case a.B == b.B:
			return 0, true
		case b.B:
			return -1, true
		default:
			return 1, true
		}
	default:
		return 0, false
	}
}

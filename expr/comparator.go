package expr

import (
	"github.com/hupe1980/sieve/numeric"
	"github.com/hupe1980/sieve/value"
)

type comparatorKind uint8

const (
	unpicked comparatorKind = iota
	numericKind
	genericKind
)

// Comparator memoizes the comparison strategy chosen for the operand types
// seen on first use. Later comparisons whose operand types do not fit the
// chosen strategy fail with a TypeMismatchError instead of re-dispatching.
//
// The zero Comparator is ready to use. It is not safe for concurrent use.
type Comparator struct {
	kind comparatorKind
	num  numeric.Comparator
}

// Compare compares two non-null values.
func (c *Comparator) Compare(op string, l, r value.Value) (int, error) {
	if c.kind == unpicked {
		switch {
		case l.Kind == value.KindNumber && r.Kind == value.KindNumber:
			c.kind = numericKind
			c.num = numeric.ComparatorFor(l.Num.Kind(), r.Num.Kind())
		default:
			if _, ok := value.Compare(l, r); !ok {
				return 0, mismatch(op, "cannot compare %s with %s", l.Kind, r.Kind)
			}
			c.kind = genericKind
		}
	}

	if c.kind == numericKind {
		if l.Kind != value.KindNumber || r.Kind != value.KindNumber || !c.num.Accepts(l.Num, r.Num) {
			return 0, mismatch(op, "%s comparator cannot compare %s with %s", c.num, describe(l), describe(r))
		}
		return c.num.Compare(l.Num, r.Num), nil
	}

	res, ok := value.Compare(l, r)
	if !ok {
		return 0, mismatch(op, "cannot compare %s with %s", l.Kind, r.Kind)
	}
	return res, nil
}

// Reset forgets the memoized strategy.
func (c *Comparator) Reset() { *c = Comparator{} }

func describe(v value.Value) string {
	if v.Kind == value.KindNumber {
		return v.Num.Kind().String()
	}
	return v.Kind.String()
}

package numeric

// Comparator is a three-way comparison strategy chosen from the variants of
// its two operands. Results are -1, 0 or 1; if either side is NaN the result
// is 1, so NaN only ever satisfies "!=" and ">" style tests.
type Comparator uint8

const (
	// IntInt compares two Integral values.
	IntInt Comparator = iota + 1
	// IntFloat compares an Integral left with a Floating right.
	IntFloat
	// FloatInt compares a Floating left with an Integral right.
	FloatInt
	// FloatFloat compares two Floating values.
	FloatFloat
)

// ComparatorFor picks the comparator for the given operand variants.
func ComparatorFor(left, right Kind) Comparator {
	switch {
	case left == Integral && right == Integral:
		return IntInt
	case left == Integral:
		return IntFloat
	case right == Integral:
		return FloatInt
	default:
		return FloatFloat
	}
}

// Accepts reports whether c was chosen for the variants of a and b.
func (c Comparator) Accepts(a, b Number) bool {
	return c == ComparatorFor(a.kind, b.kind)
}

// Compare compares a with b. The caller guarantees c.Accepts(a, b).
func (c Comparator) Compare(a, b Number) int {
	switch c {
	case IntInt:
		return three(a.i == b.i, a.i < b.i)
	case IntFloat:
		l := float64(a.i)
		return three(l == b.f, l < b.f)
	case FloatInt:
		r := float64(b.i)
		return three(a.f == r, a.f < r)
	default:
		return three(a.f == b.f, a.f < b.f)
	}
}

// String returns the comparator name.
func (c Comparator) String() string {
	switch c {
	case IntInt:
		return "int-int"
	case IntFloat:
		return "int-float"
	case FloatInt:
		return "float-int"
	case FloatFloat:
		return "float-float"
	default:
		return "none"
	}
}

// Compare is a convenience three-way comparison of any two numbers.
func Compare(a, b Number) int {
	return ComparatorFor(a.kind, b.kind).Compare(a, b)
}

func three(eq, lt bool) int {
	if eq {
		return 0
	}
	if lt {
		return -1
	}
	return 1
}

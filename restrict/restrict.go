// Package restrict maps a WHERE clause onto index operations to compute a
// candidate set that is guaranteed to contain every matching record.
//
// Restriction is an optimization only. Any sub-expression it does not
// understand, any missing index and any literal it cannot resolve yields
// "no reduction" for that sub-expression, never an error.
package restrict

import (
	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/index"
	"github.com/hupe1980/sieve/value"
)

// Restrictor computes candidate indices for WHERE clauses.
type Restrictor[R comparable] struct {
	// Set holds the available indices. A nil Set restricts nothing.
	Set *index.Set[R]
	// Env resolves literals, in particular date literals through toDate.
	Env *expr.Env
}

// Restrict returns an index holding a superset of the records matching
// where, or nil when no reduction is possible.
func (r Restrictor[R]) Restrict(where expr.Node) *index.Index[R] {
	if r.Set == nil || where == nil {
		return nil
	}
	ix, _ := r.restrict(where)
	return ix
}

func (r Restrictor[R]) restrict(n expr.Node) (*index.Index[R], bool) {
	switch n := n.(type) {
	case *expr.Boolean:
		switch n.Op {
		case expr.And:
			return r.and(n.Operands)
		case expr.Or:
			return r.or(n.Operands)
		}
	case *expr.Comparison:
		return r.comparison(n)
	case *expr.In:
		return r.in(n)
	case *expr.IsNull:
		ix, ok := r.column(n.Value)
		if !ok {
			return nil, false
		}
		if n.Not {
			return ix.NonNull()
		}
		return ix.SingleBucket(value.Null())
	case *expr.Between:
		return r.between(n)
	}
	return nil, false
}

// and intersects every restricted operand. When two restrictions cannot be
// combined the smaller one is kept.
func (r Restrictor[R]) and(operands []expr.Node) (*index.Index[R], bool) {
	var acc *index.Index[R]
	for _, o := range operands {
		ix, ok := r.restrict(o)
		if !ok {
			continue
		}
		acc = narrower(acc, ix)
	}
	return acc, acc != nil
}

// or unions the operand restrictions. A single unrestricted or incompatible
// operand makes the whole disjunction unrestricted.
func (r Restrictor[R]) or(operands []expr.Node) (*index.Index[R], bool) {
	var acc *index.Index[R]
	for _, o := range operands {
		ix, ok := r.restrict(o)
		if !ok {
			return nil, false
		}
		if acc == nil {
			acc = ix
			continue
		}
		if acc, ok = acc.Union(ix); !ok {
			return nil, false
		}
	}
	return acc, acc != nil
}

func (r Restrictor[R]) comparison(c *expr.Comparison) (*index.Index[R], bool) {
	if len(c.Operands) != 2 {
		return nil, false
	}
	op := c.Op
	ix, ok := r.column(c.Operands[0])
	lit := c.Operands[1]
	if !ok {
		if ix, ok = r.column(c.Operands[1]); !ok {
			return nil, false
		}
		lit, op = c.Operands[0], op.Flip()
	}
	v, ok := r.literal(lit)
	if !ok {
		return nil, false
	}
	// Only literals of the kind the index holds narrow the candidates.
	if !v.IsNull() && !ix.Holds(v.Kind) {
		return nil, false
	}

	switch op {
	case expr.Eq:
		return ix.SingleBucket(v)
	case expr.Gt, expr.Ge:
		return ix.GreaterThan(v)
	case expr.Lt, expr.Le:
		return ix.LessThan(v)
	default:
		return nil, false
	}
}

func (r Restrictor[R]) in(n *expr.In) (*index.Index[R], bool) {
	ix, ok := r.column(n.Value)
	if !ok || len(n.Options) == 0 {
		return nil, false
	}
	var acc *index.Index[R]
	for _, o := range n.Options {
		v, ok := r.literal(o)
		if !ok {
			return nil, false
		}
		single, ok := ix.SingleBucket(v)
		if !ok {
			return nil, false
		}
		if acc == nil {
			acc = single
			continue
		}
		if acc, ok = acc.Union(single); !ok {
			return nil, false
		}
	}
	return acc, true
}

func (r Restrictor[R]) between(b *expr.Between) (*index.Index[R], bool) {
	if len(b.Operands) != 3 {
		return nil, false
	}
	ix, ok := r.column(b.Operands[0])
	if !ok {
		return nil, false
	}
	var acc *index.Index[R]
	if low, ok := r.literal(b.Operands[1]); ok {
		if gt, ok := ix.GreaterThan(low); ok {
			acc = gt
		}
	}
	if high, ok := r.literal(b.Operands[2]); ok {
		if lt, ok := ix.LessThan(high); ok {
			acc = narrower(acc, lt)
		}
	}
	return acc, acc != nil
}

// column returns the index over n when n is an indexed column reference.
func (r Restrictor[R]) column(n expr.Node) (*index.Index[R], bool) {
	c, ok := n.(*expr.Column)
	if !ok {
		return nil, false
	}
	return r.Set.Lookup(c.Name)
}

func (r Restrictor[R]) literal(n expr.Node) (value.Value, bool) {
	if !expr.IsLiteral(n) {
		return value.Null(), false
	}
	v, err := expr.Resolve(n, r.Env)
	if err != nil {
		return value.Null(), false
	}
	return v, true
}

// narrower intersects a and b, or returns the smaller of the two when they
// are not compatible.
func narrower[R comparable](a, b *index.Index[R]) *index.Index[R] {
	if a == nil {
		return b
	}
	if both, ok := a.Intersection(b); ok {
		return both
	}
	if b.Size() < a.Size() {
		return b
	}
	return a
}

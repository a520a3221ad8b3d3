package index

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/sieve/internal/bitmap"
	"github.com/hupe1980/sieve/internal/names"
	"github.com/hupe1980/sieve/value"
)

// Accessor reads the indexed column of a record. A nil result is null.
type Accessor[R comparable] func(R) any

// Index is a bucketed index over one column.
type Index[R comparable] struct {
	kind    Kind
	column  string
	acc     Accessor[R]
	bucket  bucketFunc
	opts    options
	reg     *Registry[R]
	buckets []*bitmap.Set
	null    *bitmap.Set
	view    bool

	// kinds is a bit mask of the value kinds ever added.
	kinds *atomic.Uint32
}

// New creates an empty index of the given kind over column. A nil registry
// gives the index a private one; indices that are combined must share the
// same registry.
func New[R comparable](kind Kind, column string, acc Accessor[R], reg *Registry[R], opts ...Option) (*Index[R], error) {
	if acc == nil {
		return nil, fmt.Errorf("%w: nil accessor for column %q", ErrInvalidOptions, column)
	}
	o := options{buckets: DefaultBuckets}
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(kind); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = NewRegistry[R]()
	}

	ix := &Index[R]{
		kind:   kind,
		column: names.Fold(column),
		acc:    acc,
		opts:   o,
		reg:    reg,
		kinds:  new(atomic.Uint32),
	}
	switch kind {
	case Hash:
		ix.bucket = hashBucket
	case Date:
		ix.bucket = dateBucket
	case Range:
		ix.bucket = rangeBucket(o.min, o.max)
	}
	ix.buckets = make([]*bitmap.Set, o.buckets)
	for i := range ix.buckets {
		ix.buckets[i] = bitmap.New()
	}
	ix.null = bitmap.New()
	return ix, nil
}

// Kind returns the bucket function kind.
func (ix *Index[R]) Kind() Kind { return ix.kind }

// Column returns the case-folded column name.
func (ix *Index[R]) Column() string { return ix.column }

// Buckets returns the number of non-null buckets.
func (ix *Index[R]) Buckets() int { return len(ix.buckets) }

// Registry returns the record registry.
func (ix *Index[R]) Registry() *Registry[R] { return ix.reg }

// IsView reports whether the index was produced by set algebra.
func (ix *Index[R]) IsView() bool { return ix.view }

// Empty returns a new, empty, mutable index of the same kind, column,
// bucket count and registry.
func (ix *Index[R]) Empty() *Index[R] {
	out := ix.shell()
	for i := range out.buckets {
		out.buckets[i] = bitmap.New()
	}
	out.null = bitmap.New()
	out.kinds = new(atomic.Uint32)
	return out
}

// Add indexes r under the current value of its column. It reports whether r
// was not already present.
func (ix *Index[R]) Add(r R) (bool, error) {
	if ix.view {
		return false, ErrReadOnlyView
	}
	v := value.Of(ix.acc(r))
	set, err := ix.setFor(v)
	if err != nil {
		return false, err
	}
	if !v.IsNull() {
		ix.kinds.Or(1 << v.Kind)
	}
	id, err := ix.reg.acquire(r)
	if err != nil {
		return false, err
	}
	if !set.Add(id) {
		ix.reg.release(id)
		return false, nil
	}
	return true, nil
}

// Remove drops r from the bucket of the current value of its column. It
// reports whether r was present there.
func (ix *Index[R]) Remove(r R) (bool, error) {
	if ix.view {
		return false, ErrReadOnlyView
	}
	set, err := ix.setFor(value.Of(ix.acc(r)))
	if err != nil {
		return false, err
	}
	id, ok := ix.reg.ID(r)
	if !ok || !set.Remove(id) {
		return false, nil
	}
	ix.reg.release(id)
	return true, nil
}

func (ix *Index[R]) setFor(v value.Value) (*bitmap.Set, error) {
	if v.IsNull() {
		return ix.null, nil
	}
	b, ok := ix.bucket(v, len(ix.buckets))
	if !ok {
		return nil, &UnsupportedValueError{Column: ix.column, Kind: ix.kind, Value: v.Kind.String()}
	}
	return ix.buckets[b], nil
}

// Holds reports whether every non-null value added so far has kind k. An
// index without non-null values holds every kind.
func (ix *Index[R]) Holds(k value.Kind) bool {
	mask := ix.kinds.Load()
	return mask == 0 || mask == 1<<k
}

// Compatible reports whether ix and o can be combined: same column, bucket
// count and registry.
func (ix *Index[R]) Compatible(o *Index[R]) bool {
	return o != nil && ix.column == o.column && len(ix.buckets) == len(o.buckets) && ix.reg == o.reg
}

// SingleBucket returns a view holding only the bucket v maps to, or the null
// bucket when v is null. It reports false when v cannot be placed.
func (ix *Index[R]) SingleBucket(v value.Value) (*Index[R], bool) {
	out := ix.newView()
	if v.IsNull() {
		out.null = ix.null
		return out, true
	}
	b, ok := ix.bucket(v, len(ix.buckets))
	if !ok {
		return nil, false
	}
	out.buckets[b] = ix.buckets[b]
	return out, true
}

// NonNull returns a view of every non-null bucket.
func (ix *Index[R]) NonNull() (*Index[R], bool) {
	out := ix.newView()
	copy(out.buckets, ix.buckets)
	return out, true
}

// Intersection keeps a bucket only where both sides have it non-empty. It
// reports false when the indices are not compatible.
func (ix *Index[R]) Intersection(o *Index[R]) (*Index[R], bool) {
	if !ix.Compatible(o) {
		return nil, false
	}
	out := ix.newView()
	for i, b := range ix.buckets {
		if !b.IsEmpty() && !o.buckets[i].IsEmpty() {
			out.buckets[i] = b
		}
	}
	if !ix.null.IsEmpty() && !o.null.IsEmpty() {
		out.null = ix.null
	}
	return out, true
}

// Union keeps each bucket from ix when non-empty, otherwise from o. It
// reports false when the indices are not compatible.
func (ix *Index[R]) Union(o *Index[R]) (*Index[R], bool) {
	if !ix.Compatible(o) {
		return nil, false
	}
	out := ix.newView()
	for i, b := range ix.buckets {
		if b.IsEmpty() {
			out.buckets[i] = o.buckets[i]
		} else {
			out.buckets[i] = b
		}
	}
	if ix.null.IsEmpty() {
		out.null = o.null
	} else {
		out.null = ix.null
	}
	return out, true
}

// LessThan returns a view of buckets 0 through the bucket of v. Nulls are
// excluded. It reports false for unordered indices, a null v, or a v of the
// wrong kind.
func (ix *Index[R]) LessThan(v value.Value) (*Index[R], bool) {
	b, ok := ix.orderedBucket(v)
	if !ok {
		return nil, false
	}
	out := ix.newView()
	copy(out.buckets[:b+1], ix.buckets[:b+1])
	return out, true
}

// GreaterThan returns a view of the bucket of v through the last bucket.
// Nulls are excluded. It reports false for unordered indices, a null v, or
// a v of the wrong kind.
func (ix *Index[R]) GreaterThan(v value.Value) (*Index[R], bool) {
	b, ok := ix.orderedBucket(v)
	if !ok {
		return nil, false
	}
	out := ix.newView()
	copy(out.buckets[b:], ix.buckets[b:])
	return out, true
}

func (ix *Index[R]) orderedBucket(v value.Value) (int, bool) {
	if !ix.kind.Ordered() || v.IsNull() {
		return 0, false
	}
	return ix.bucket(v, len(ix.buckets))
}

// Size returns the number of records in the index.
func (ix *Index[R]) Size() int {
	n := ix.null.Cardinality()
	for _, b := range ix.buckets {
		n += b.Cardinality()
	}
	return int(n)
}

// shell copies the descriptor of ix with unset buckets.
func (ix *Index[R]) shell() *Index[R] {
	return &Index[R]{
		kind:    ix.kind,
		column:  ix.column,
		acc:     ix.acc,
		bucket:  ix.bucket,
		opts:    ix.opts,
		reg:     ix.reg,
		kinds:   ix.kinds,
		buckets: make([]*bitmap.Set, len(ix.buckets)),
	}
}

// newView returns a read-only index whose buckets all point at one shared
// empty set.
func (ix *Index[R]) newView() *Index[R] {
	out := ix.shell()
	empty := bitmap.New()
	for i := range out.buckets {
		out.buckets[i] = empty
	}
	out.null = empty
	out.view = true
	return out
}

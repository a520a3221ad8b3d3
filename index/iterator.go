package index

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sieve/internal/bitmap"
)

// All iterates over the records of the index in bucket order, then the null
// bucket. Each bucket is snapshotted when the traversal reaches it. Records
// removed from the registry in the meantime are skipped.
func (ix *Index[R]) All() iter.Seq[R] {
	return func(yield func(R) bool) {
		for _, set := range ix.sets() {
			for id := range set.All() {
				r, ok := ix.reg.Resolve(id)
				if !ok {
					continue
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// IDs iterates over the record ids of the index in the same order as All.
func (ix *Index[R]) IDs() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, set := range ix.sets() {
			for id := range set.All() {
				if !yield(id) {
					return
				}
			}
		}
	}
}

// Iterator returns a fresh single-pass iterator over the index.
func (ix *Index[R]) Iterator() *Iterator[R] {
	return &Iterator[R]{reg: ix.reg, sets: ix.sets()}
}

func (ix *Index[R]) sets() []*bitmap.Set {
	out := make([]*bitmap.Set, 0, len(ix.buckets)+1)
	out = append(out, ix.buckets...)
	return append(out, ix.null)
}

// Iterator walks an index one record at a time. It does not support removal.
type Iterator[R comparable] struct {
	reg  *Registry[R]
	sets []*bitmap.Set
	pos  int
	cur  roaring.IntIterable
}

// Next returns the next record. It reports false once the index is exhausted.
func (it *Iterator[R]) Next() (R, bool) {
	for {
		for it.cur != nil && it.cur.HasNext() {
			if r, ok := it.reg.Resolve(it.cur.Next()); ok {
				return r, true
			}
		}
		if it.pos >= len(it.sets) {
			var zero R
			return zero, false
		}
		set := it.sets[it.pos]
		it.pos++
		if set.IsEmpty() {
			it.cur = nil
			continue
		}
		it.cur = set.Clone().Iterator()
	}
}

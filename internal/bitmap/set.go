package bitmap

import (
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a concurrency-safe set of uint32 ids.
type Set struct {
	mu sync.RWMutex
	rb *roaring.Bitmap
}

// snapshotPool reuses the bitmaps iteration copies buckets into.
var snapshotPool = sync.Pool{
	New: func() any {
		return roaring.New()
	},
}

// New creates an empty set.
func New() *Set {
	return &Set{rb: roaring.New()}
}

// Of creates a set holding ids.
func Of(ids ...uint32) *Set {
	return &Set{rb: roaring.BitmapOf(ids...)}
}

// Add adds id and reports whether it was absent.
func (s *Set) Add(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rb.CheckedAdd(id)
}

// Remove removes id and reports whether it was present.
func (s *Set) Remove(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rb.CheckedRemove(id)
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id uint32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rb.Contains(id)
}

// Cardinality returns the number of ids.
func (s *Set) Cardinality() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rb.GetCardinality()
}

// IsEmpty reports whether the set has no ids.
func (s *Set) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rb.IsEmpty()
}

// Clone returns a deep copy of the current contents.
func (s *Set) Clone() *roaring.Bitmap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rb.Clone()
}

// All iterates over a snapshot of the set in ascending order. The snapshot
// is taken when iteration starts.
func (s *Set) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		snap := snapshotPool.Get().(*roaring.Bitmap)
		defer func() {
			snap.Clear()
			snapshotPool.Put(snap)
		}()

		s.mu.RLock()
		snap.Or(s.rb)
		s.mu.RUnlock()

		it := snap.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Union returns the union of all sets as a new bitmap.
func Union(sets ...*Set) *roaring.Bitmap {
	out := roaring.New()
	for _, s := range sets {
		if s == nil {
			continue
		}
		s.mu.RLock()
		out.Or(s.rb)
		s.mu.RUnlock()
	}
	return out
}

package index

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sieve/internal/names"
)

// Set is the collection of indices for one record type, keyed by
// case-folded column name. All indices of a Set share one Registry.
type Set[R comparable] struct {
	mu      sync.RWMutex
	reg     *Registry[R]
	indices map[string]*Index[R]
}

// NewSet creates an empty index set.
func NewSet[R comparable]() *Set[R] {
	return &Set[R]{
		reg:     NewRegistry[R](),
		indices: make(map[string]*Index[R]),
	}
}

// Define creates an index over column and adds it to the set. Records
// already in the set are not back-filled; define indices before loading.
func (s *Set[R]) Define(kind Kind, column string, acc Accessor[R], opts ...Option) (*Index[R], error) {
	ix, err := New(kind, column, acc, s.reg, opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.indices[ix.column]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateIndex, column)
	}
	s.indices[ix.column] = ix
	return ix, nil
}

// Lookup returns the index over column.
func (s *Set[R]) Lookup(column string) (*Index[R], bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ix, ok := s.indices[names.Fold(column)]
	return ix, ok
}

// Columns returns the indexed column names in sorted order.
func (s *Set[R]) Columns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.indices))
	for c := range s.indices {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Registry returns the shared record registry.
func (s *Set[R]) Registry() *Registry[R] { return s.reg }

// Len returns the number of distinct records in the set.
func (s *Set[R]) Len() int { return s.reg.Len() }

// Add indexes r in every index of the set. When an index rejects r, the
// indices that already took it are rolled back.
func (s *Set[R]) Add(r R) error {
	var added []*Index[R]
	for _, ix := range s.snapshot() {
		ok, err := ix.Add(r)
		if err != nil {
			for _, prev := range added {
				_, _ = prev.Remove(r)
			}
			return fmt.Errorf("index %q: %w", ix.column, err)
		}
		if ok {
			added = append(added, ix)
		}
	}
	return nil
}

// Remove drops r from every index of the set. It visits every index and
// joins their errors.
func (s *Set[R]) Remove(r R) error {
	var errs []error
	for _, ix := range s.snapshot() {
		if _, err := ix.Remove(r); err != nil {
			errs = append(errs, fmt.Errorf("index %q: %w", ix.column, err))
		}
	}
	return errors.Join(errs...)
}

// AddAll loads records into every index concurrently, one goroutine per
// index. It stops at the first error or when ctx is cancelled.
func (s *Set[R]) AddAll(ctx context.Context, records []R) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, ix := range s.snapshot() {
		g.Go(func() error {
			for i, r := range records {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if _, err := ix.Add(r); err != nil {
					return fmt.Errorf("index %q: %w", ix.column, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Set[R]) snapshot() []*Index[R] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Index[R], 0, len(s.indices))
	for _, ix := range s.indices {
		out = append(out, ix)
	}
	return out
}

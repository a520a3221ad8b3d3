package index

import (
	"fmt"
	"sync"

	"github.com/hupe1980/sieve/internal/conv"
)

// Registry issues the uint32 ids buckets store for records. Every index
// membership holds one reference; an id is dropped when its last reference
// is released. Ids are never reused.
type Registry[R comparable] struct {
	mu      sync.RWMutex
	next    uint64
	ids     map[R]uint32
	records map[uint32]entry[R]
}

type entry[R comparable] struct {
	record R
	refs   int
}

// NewRegistry creates an empty registry.
func NewRegistry[R comparable]() *Registry[R] {
	return &Registry[R]{
		ids:     make(map[R]uint32),
		records: make(map[uint32]entry[R]),
	}
}

// acquire returns the id of r, issuing one if needed, and takes a reference.
func (g *Registry[R]) acquire(r R) (uint32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id, ok := g.ids[r]; ok {
		e := g.records[id]
		e.refs++
		g.records[id] = e
		return id, nil
	}

	id, err := conv.Uint64ToUint32(g.next)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRegistryFull, err)
	}
	g.next++
	g.ids[r] = id
	g.records[id] = entry[R]{record: r, refs: 1}
	return id, nil
}

// release drops one reference to id.
func (g *Registry[R]) release(id uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.records[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 {
		g.records[id] = e
		return
	}
	delete(g.records, id)
	delete(g.ids, e.record)
}

// ID returns the id currently assigned to r.
func (g *Registry[R]) ID(r R) (uint32, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.ids[r]
	return id, ok
}

// Resolve returns the record registered under id.
func (g *Registry[R]) Resolve(id uint32) (R, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.records[id]
	return e.record, ok
}

// Len returns the number of registered records.
func (g *Registry[R]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.ids)
}

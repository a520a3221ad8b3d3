package extension

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hupe1980/sieve/internal/names"
)

var (
	// ErrDuplicateFunction is returned when two sources provide the same name.
	ErrDuplicateFunction = errors.New("duplicate function")
	// ErrInaccessibleFunction is returned for functions without a callable.
	ErrInaccessibleFunction = errors.New("inaccessible function")
	// ErrInvalidName is returned for functions with an empty name.
	ErrInvalidName = errors.New("invalid function name")
)

// NotName is the name of the built-in boolean negation.
const NotName = "NOT"

// Source provides functions to a Table.
type Source interface {
	Functions() []Function
}

// Funcs is a Source backed by a slice.
type Funcs []Function

// Functions implements Source.
func (f Funcs) Functions() []Function { return f }

// Table maps case-folded function names to functions. It is immutable once
// built and safe for concurrent lookups.
type Table struct {
	funcs map[string]Function
}

// NewTable merges the functions of all sources. Names are matched
// case-insensitively. A NOT function is added unless one is supplied.
func NewTable(sources ...Source) (*Table, error) {
	t := &Table{funcs: make(map[string]Function)}
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, fn := range src.Functions() {
			if fn.Name == "" {
				return nil, ErrInvalidName
			}
			if fn.Call == nil {
				return nil, fmt.Errorf("%w: %s", ErrInaccessibleFunction, fn.Name)
			}
			key := names.Fold(fn.Name)
			if _, ok := t.funcs[key]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateFunction, fn.Name)
			}
			t.funcs[key] = fn
		}
	}
	if _, ok := t.funcs[names.Fold(NotName)]; !ok {
		t.funcs[names.Fold(NotName)] = not
	}
	return t, nil
}

// Lookup returns the function registered under name.
func (t *Table) Lookup(name string) (Function, bool) {
	if t == nil {
		return Function{}, false
	}
	fn, ok := t.funcs[names.Fold(name)]
	return fn, ok
}

// Names returns the registered function names, sorted.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.funcs))
	for _, fn := range t.funcs {
		out = append(out, fn.Name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered functions.
func (t *Table) Len() int { return len(t.funcs) }

var not = Function{
	Name:   NotName,
	Params: []ParamKind{Any},
	Call: func(args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("NOT expects 1 argument, got %d", len(args))
		}
		b, ok := args[0].(bool)
		if !ok {
			return nil, fmt.Errorf("NOT expects a boolean, got %T", args[0])
		}
		return !b, nil
	},
}

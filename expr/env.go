package expr

import (
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/internal/names"
)

// Accessor reads a column value from a row. A nil result is SQL NULL.
type Accessor func(row any) any

// Functions resolves function names, typically an *extension.Table.
type Functions interface {
	Lookup(name string) (extension.Function, bool)
}

// Env is the evaluation environment of one engine: its column accessors and
// its function table. An Env is immutable and safe for concurrent use.
type Env struct {
	columns map[string]Accessor
	funcs   Functions
}

// NewEnv builds an environment. Column names are case-folded.
func NewEnv(columns map[string]Accessor, funcs Functions) *Env {
	m := make(map[string]Accessor, len(columns))
	for name, acc := range columns {
		m[names.Fold(name)] = acc
	}
	return &Env{columns: m, funcs: funcs}
}

// Accessor returns the accessor registered for a column.
func (e *Env) Accessor(column string) (Accessor, bool) {
	if e == nil {
		return nil, false
	}
	acc, ok := e.columns[names.Fold(column)]
	return acc, ok
}

// Function returns the function registered under name.
func (e *Env) Function(name string) (extension.Function, bool) {
	if e == nil || e.funcs == nil {
		return extension.Function{}, false
	}
	return e.funcs.Lookup(name)
}

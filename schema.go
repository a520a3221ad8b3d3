package sieve

import (
	"fmt"
	"slices"

	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/index"
	"github.com/hupe1980/sieve/internal/names"
)

// Schema names a record type and declares how its columns are read. Column
// names are case-insensitive.
//
// Example:
//
//	schema := sieve.NewSchema[*Person]("Person").
//	    Column("name", func(p *Person) any { return p.Name }).
//	    Column("age", func(p *Person) any { return p.Age })
type Schema[R any] struct {
	name    string
	columns map[string]func(R) any
	order   []string
	err     error
}

// NewSchema creates an empty schema for the named record type.
func NewSchema[R any](name string) *Schema[R] {
	return &Schema[R]{name: name, columns: make(map[string]func(R) any)}
}

// Column declares a column. Declaring a column twice, or with a nil
// accessor, makes the schema invalid; New reports it as a ConstructionError.
func (s *Schema[R]) Column(name string, fn func(R) any) *Schema[R] {
	key := names.Fold(name)
	switch {
	case s.err != nil:
	case name == "" || fn == nil:
		s.err = fmt.Errorf("column %q has no accessor", name)
	case s.columns[key] != nil:
		s.err = fmt.Errorf("column %q declared twice", name)
	default:
		s.columns[key] = fn
		s.order = append(s.order, name)
	}
	return s
}

// Name returns the record type name.
func (s *Schema[R]) Name() string { return s.name }

// Columns returns the declared column names in declaration order.
func (s *Schema[R]) Columns() []string { return slices.Clone(s.order) }

// Accessor returns the accessor declared for column.
func (s *Schema[R]) Accessor(column string) (func(R) any, bool) {
	fn, ok := s.columns[names.Fold(column)]
	return fn, ok
}

// Err returns the first declaration error.
func (s *Schema[R]) Err() error { return s.err }

// accessors adapts the typed accessors to the evaluator. Rows of any other
// type read as null.
func (s *Schema[R]) accessors() map[string]expr.Accessor {
	out := make(map[string]expr.Accessor, len(s.columns))
	for name, fn := range s.columns {
		out[name] = func(row any) any {
			r, ok := row.(R)
			if !ok {
				return nil
			}
			return fn(r)
		}
	}
	return out
}

// IndexAccessor returns the accessor for column in the form index.Set.Define
// expects.
func IndexAccessor[R comparable](s *Schema[R], column string) (index.Accessor[R], bool) {
	fn, ok := s.Accessor(column)
	if !ok {
		return nil, false
	}
	return index.Accessor[R](fn), true
}

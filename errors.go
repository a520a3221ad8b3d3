package sieve

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/parser"
)

var (
	// ErrParse matches errors for statements that are not valid SQL.
	ErrParse = parser.ErrSyntax
	// ErrConstruction matches errors raised while building an engine.
	ErrConstruction = errors.New("engine construction failed")
	// ErrUnknownFunction matches calls to functions no extension provides.
	ErrUnknownFunction = expr.ErrUnknownFunction
	// ErrMissingAccessor matches columns the schema does not define.
	ErrMissingAccessor = expr.ErrMissingAccessor
	// ErrArity matches nodes with the wrong number of operands.
	ErrArity = expr.ErrArity
	// ErrTypeMismatch matches operands of an unexpected type.
	ErrTypeMismatch = expr.ErrTypeMismatch
	// ErrInvocation matches errors and panics raised by extension functions.
	ErrInvocation = expr.ErrInvocation
)

// ConstructionError reports why New could not build an engine: conflicting
// or inaccessible extension functions, an invalid schema, or an invalid
// expression tree.
//
// The underlying error can be accessed via errors.Unwrap.
type ConstructionError struct {
	Reason string
	cause  error
}

func (e *ConstructionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", ErrConstruction, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s: %s", ErrConstruction, e.Reason)
}

// Is reports whether target is ErrConstruction.
func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

func (e *ConstructionError) Unwrap() error { return e.cause }

func constructionError(reason string, cause error) *ConstructionError {
	return &ConstructionError{Reason: reason, cause: cause}
}

package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrArity matches errors for nodes with the wrong number of operands.
	ErrArity = errors.New("wrong number of operands")
	// ErrTypeMismatch matches errors for operands of an unexpected type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnknownFunction matches errors for calls to unregistered functions.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrMissingAccessor matches errors for columns without an accessor.
	ErrMissingAccessor = errors.New("missing column accessor")
	// ErrInvocation matches errors raised by extension functions.
	ErrInvocation = errors.New("function invocation failed")
	// ErrNonLiteralOption is returned by Validate for IN options that are not literals.
	ErrNonLiteralOption = errors.New("IN options must be literals")
)

// ArityError reports a node evaluated with an invalid operand count.
type ArityError struct {
	Op   string
	Want string
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s requires %s operands, got %d", e.Op, e.Want, e.Got)
}

// Is reports whether target is ErrArity.
func (e *ArityError) Is(target error) bool { return target == ErrArity }

// TypeMismatchError reports an operand of the wrong runtime type.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type TypeMismatchError struct {
	Op     string
	Detail string
	cause  error
}

func (e *TypeMismatchError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

func (e *TypeMismatchError) Unwrap() error { return e.cause }

// UnknownFunctionError reports a call to a function missing from the table.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function: %s", e.Name)
}

// Is reports whether target is ErrUnknownFunction.
func (e *UnknownFunctionError) Is(target error) bool { return target == ErrUnknownFunction }

// MissingAccessorError reports a column the row type does not expose.
type MissingAccessorError struct {
	Column string
}

func (e *MissingAccessorError) Error() string {
	return fmt.Sprintf("no accessor for column %q", e.Column)
}

// Is reports whether target is ErrMissingAccessor.
func (e *MissingAccessorError) Is(target error) bool { return target == ErrMissingAccessor }

// InvocationError wraps an error returned or raised by an extension function.
//
// The underlying error can be accessed via errors.Unwrap.
type InvocationError struct {
	Name  string
	cause error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("calling %s: %v", e.Name, e.cause)
}

// Is reports whether target is ErrInvocation.
func (e *InvocationError) Is(target error) bool { return target == ErrInvocation }

func (e *InvocationError) Unwrap() error { return e.cause }

// NewInvocationError wraps cause as a failure of the named function.
func NewInvocationError(name string, cause error) *InvocationError {
	return &InvocationError{Name: name, cause: cause}
}

// NewTypeMismatchError returns a TypeMismatchError wrapping cause.
func NewTypeMismatchError(op, detail string, cause error) *TypeMismatchError {
	return &TypeMismatchError{Op: op, Detail: detail, cause: cause}
}

func mismatch(op, format string, args ...any) *TypeMismatchError {
	return &TypeMismatchError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

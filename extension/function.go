package extension

import (
	"fmt"

	"github.com/hupe1980/sieve/numeric"
)

// ParamKind is the declared type of a function parameter. Arguments are
// coerced to numeric parameter kinds before the call; other kinds receive
// the argument's host value unchanged.
type ParamKind uint8

const (
	// Any accepts the host value of the argument.
	Any ParamKind = iota
	// Int receives an int64.
	Int
	// Float receives a float64.
	Float
)

// String returns the parameter kind name.
func (k ParamKind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "any"
	}
}

// Function is a named callable usable from a WHERE clause.
// A Function with a nil Call is inaccessible and rejected by NewTable.
type Function struct {
	Name   string
	Params []ParamKind
	Call   func(args []any) (any, error)
}

// New returns a Function with explicitly declared parameters.
func New(name string, params []ParamKind, call func(args []any) (any, error)) Function {
	return Function{Name: name, Params: params, Call: call}
}

// Func0 adapts a function without parameters.
func Func0[Ret any](name string, fn func() Ret) Function {
	return Function{
		Name: name,
		Call: func([]any) (any, error) {
			return fn(), nil
		},
	}
}

// Func1 adapts a function of one parameter.
func Func1[A, Ret any](name string, fn func(A) Ret) Function {
	return Function{
		Name:   name,
		Params: []ParamKind{kindOf[A]()},
		Call: func(args []any) (any, error) {
			a, err := arg[A](args, 0)
			if err != nil {
				return nil, err
			}
			return fn(a), nil
		},
	}
}

// Func2 adapts a function of two parameters.
func Func2[A, B, Ret any](name string, fn func(A, B) Ret) Function {
	return Function{
		Name:   name,
		Params: []ParamKind{kindOf[A](), kindOf[B]()},
		Call: func(args []any) (any, error) {
			a, err := arg[A](args, 0)
			if err != nil {
				return nil, err
			}
			b, err := arg[B](args, 1)
			if err != nil {
				return nil, err
			}
			return fn(a, b), nil
		},
	}
}

// Func3 adapts a function of three parameters.
func Func3[A, B, C, Ret any](name string, fn func(A, B, C) Ret) Function {
	return Function{
		Name:   name,
		Params: []ParamKind{kindOf[A](), kindOf[B](), kindOf[C]()},
		Call: func(args []any) (any, error) {
			a, err := arg[A](args, 0)
			if err != nil {
				return nil, err
			}
			b, err := arg[B](args, 1)
			if err != nil {
				return nil, err
			}
			c, err := arg[C](args, 2)
			if err != nil {
				return nil, err
			}
			return fn(a, b, c), nil
		},
	}
}

// FuncErr1 adapts a fallible function of one parameter.
func FuncErr1[A, Ret any](name string, fn func(A) (Ret, error)) Function {
	return Function{
		Name:   name,
		Params: []ParamKind{kindOf[A]()},
		Call: func(args []any) (any, error) {
			a, err := arg[A](args, 0)
			if err != nil {
				return nil, err
			}
			return fn(a)
		},
	}
}

func kindOf[T any]() ParamKind {
	var zero T
	switch any(zero).(type) {
	case int, int8, int16, int32, int64:
		return Int
	case float32, float64:
		return Float
	default:
		return Any
	}
}

// arg converts args[i] to T. A nil argument yields the zero value of T.
func arg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("missing argument %d", i+1)
	}
	v := args[i]
	if v == nil {
		return zero, nil
	}
	if x, ok := v.(T); ok {
		return x, nil
	}
	n, ok := numeric.Of(v)
	if !ok {
		return zero, fmt.Errorf("argument %d: cannot use %T as %T", i+1, v, zero)
	}
	switch p := any(&zero).(type) {
	case *int:
		*p = int(n.AsInt())
	case *int8:
		*p = int8(n.AsInt())
	case *int16:
		*p = int16(n.AsInt())
	case *int32:
		*p = int32(n.AsInt())
	case *int64:
		*p = n.AsInt()
	case *float32:
		*p = float32(n.AsFloat())
	case *float64:
		*p = n.AsFloat()
	default:
		return zero, fmt.Errorf("argument %d: cannot use %T as %T", i+1, v, zero)
	}
	return zero, nil
}

// Package compile turns an expression tree into a tree of closures.
//
// A Program evaluates exactly like expr.Eval, including the points where
// results are memoized: the comparator chosen on first comparison, the
// compiled LIKE pattern, the IN option set and resolved date literals. The
// memoized state lives in the closures instead of the tree, so compiling
// leaves the source tree untouched.
//
// Like the tree evaluator, a Program is not safe for concurrent use.
package compile

import (
	"fmt"
	"regexp"

	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/numeric"
	"github.com/hupe1980/sieve/value"
)

type evalFunc func(row any, env *expr.Env) (value.Value, error)

// Program is a compiled WHERE clause.
type Program struct {
	src  expr.Node
	root evalFunc
}

// Compile validates n and compiles it.
func Compile(n expr.Node) (*Program, error) {
	if err := expr.Validate(n); err != nil {
		return nil, err
	}
	root, err := compile(n)
	if err != nil {
		return nil, err
	}
	return &Program{src: n, root: root}, nil
}

// Eval evaluates the program against row.
func (p *Program) Eval(row any, env *expr.Env) (value.Value, error) {
	return p.root(row, env)
}

// Match evaluates the program and requires a boolean result.
func (p *Program) Match(row any, env *expr.Env) (bool, error) {
	v, err := p.root(row, env)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, &expr.TypeMismatchError{Op: "WHERE", Detail: "expected boolean, got " + v.Kind.String()}
	}
	return b, nil
}

// String renders the source expression.
func (p *Program) String() string { return p.src.String() }

func compile(n expr.Node) (evalFunc, error) {
	switch n := n.(type) {
	case *expr.Column:
		return column(n.Name), nil
	case *expr.Number:
		return constant(value.Number(n.Value)), nil
	case *expr.String:
		return constant(value.String(n.Value)), nil
	case *expr.Null:
		return constant(value.Null()), nil
	case *expr.Date:
		return date(n.Text), nil
	case *expr.Call:
		return call(n)
	case *expr.Boolean:
		return boolean(n)
	case *expr.Comparison:
		return comparison(n)
	case *expr.Arithmetic:
		return arithmetic(n)
	case *expr.Between:
		return between(n)
	case *expr.In:
		return in(n)
	case *expr.IsNull:
		return isNull(n)
	case *expr.Like:
		return like(n)
	default:
		return nil, fmt.Errorf("unsupported expression %T", n)
	}
}

func compileAll(nodes []expr.Node) ([]evalFunc, error) {
	out := make([]evalFunc, len(nodes))
	for i, n := range nodes {
		f, err := compile(n)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func constant(v value.Value) evalFunc {
	return func(any, *expr.Env) (value.Value, error) { return v, nil }
}

func fail(err error) evalFunc {
	return func(any, *expr.Env) (value.Value, error) { return value.Null(), err }
}

func column(name string) evalFunc {
	var (
		bound *expr.Env
		acc   expr.Accessor
		norm  numeric.Normalizer
	)
	return func(row any, env *expr.Env) (value.Value, error) {
		if acc == nil || bound != env {
			a, ok := env.Accessor(name)
			if !ok {
				return value.Null(), &expr.MissingAccessorError{Column: name}
			}
			bound, acc = env, a
		}
		return value.Normalize(acc(row), &norm), nil
	}
}

func date(text string) evalFunc {
	var (
		resolved bool
		val      value.Value
	)
	return func(_ any, env *expr.Env) (value.Value, error) {
		if resolved {
			return val, nil
		}
		fn, ok := env.Function(extension.DateFunctionName)
		if !ok {
			return value.Null(), &expr.UnknownFunctionError{Name: extension.DateFunctionName}
		}
		out, err := expr.Invoke(fn, []any{text})
		if err != nil {
			return value.Null(), err
		}
		val, resolved = value.Of(out), true
		return val, nil
	}
}

func call(n *expr.Call) (evalFunc, error) {
	args, err := compileAll(n.Args)
	if err != nil {
		return nil, err
	}
	var (
		bound *expr.Env
		fn    extension.Function
		norm  numeric.Normalizer
	)
	return func(row any, env *expr.Env) (value.Value, error) {
		if fn.Call == nil || bound != env {
			f, ok := env.Function(n.Name)
			if !ok {
				return value.Null(), &expr.UnknownFunctionError{Name: n.Name}
			}
			bound, fn = env, f
		}
		vals := make([]value.Value, len(args))
		for i, a := range args {
			v, err := a(row, env)
			if err != nil {
				return value.Null(), err
			}
			vals[i] = v
		}
		host, err := expr.BindArgs(fn, vals, row)
		if err != nil {
			return value.Null(), err
		}
		out, err := expr.Invoke(fn, host)
		if err != nil {
			return value.Null(), err
		}
		return value.Normalize(out, &norm), nil
	}, nil
}

func boolean(n *expr.Boolean) (evalFunc, error) {
	op := n.Op.String()
	operands, err := compileAll(n.Operands)
	if err != nil {
		return nil, err
	}
	test := func(f evalFunc, row any, env *expr.Env) (bool, error) {
		v, err := f(row, env)
		if err != nil {
			return false, err
		}
		b, ok := v.AsBool()
		if !ok {
			return false, &expr.TypeMismatchError{Op: op, Detail: "expected boolean operand, got " + v.Kind.String()}
		}
		return b, nil
	}

	if n.Op == expr.Not {
		if len(operands) != 1 {
			return fail(&expr.ArityError{Op: op, Want: "1", Got: len(operands)}), nil
		}
		return func(row any, env *expr.Env) (value.Value, error) {
			b, err := test(operands[0], row, env)
			if err != nil {
				return value.Null(), err
			}
			return value.Bool(!b), nil
		}, nil
	}
	if len(operands) == 0 {
		return fail(&expr.ArityError{Op: op, Want: "at least 1", Got: 0}), nil
	}
	stop := n.Op == expr.Or
	return func(row any, env *expr.Env) (value.Value, error) {
		for _, o := range operands {
			b, err := test(o, row, env)
			if err != nil {
				return value.Null(), err
			}
			if b == stop {
				return value.Bool(stop), nil
			}
		}
		return value.Bool(!stop), nil
	}, nil
}

func comparison(n *expr.Comparison) (evalFunc, error) {
	op := n.Op
	if len(n.Operands) != 2 {
		return fail(&expr.ArityError{Op: op.String(), Want: "2", Got: len(n.Operands)}), nil
	}
	operands, err := compileAll(n.Operands)
	if err != nil {
		return nil, err
	}
	var cmp expr.Comparator
	return func(row any, env *expr.Env) (value.Value, error) {
		l, err := operands[0](row, env)
		if err != nil {
			return value.Null(), err
		}
		r, err := operands[1](row, env)
		if err != nil {
			return value.Null(), err
		}
		if l.IsNull() || r.IsNull() {
			return value.Bool(false), nil
		}
		res, err := cmp.Compare(op.String(), l, r)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(op.Test(res)), nil
	}, nil
}

func arithmetic(n *expr.Arithmetic) (evalFunc, error) {
	op := n.Op
	if len(n.Operands) == 0 {
		return fail(&expr.ArityError{Op: op.String(), Want: "at least 1", Got: 0}), nil
	}
	operands, err := compileAll(n.Operands)
	if err != nil {
		return nil, err
	}
	number := func(f evalFunc, row any, env *expr.Env) (numeric.Number, error) {
		v, err := f(row, env)
		if err != nil {
			return numeric.Number{}, err
		}
		num, ok := v.AsNumber()
		if !ok {
			return numeric.Number{}, &expr.TypeMismatchError{Op: op.String(), Detail: "expected numeric operand, got " + v.Kind.String()}
		}
		return num, nil
	}
	return func(row any, env *expr.Env) (value.Value, error) {
		acc, err := number(operands[0], row, env)
		if err != nil {
			return value.Null(), err
		}
		for _, o := range operands[1:] {
			num, err := number(o, row, env)
			if err != nil {
				return value.Null(), err
			}
			if acc, err = op.Apply(acc, num); err != nil {
				return value.Null(), expr.NewTypeMismatchError(op.String(), "invalid operands", err)
			}
		}
		return value.Number(acc), nil
	}, nil
}

func between(n *expr.Between) (evalFunc, error) {
	if len(n.Operands) != 3 {
		return fail(&expr.ArityError{Op: "BETWEEN", Want: "3", Got: len(n.Operands)}), nil
	}
	operands, err := compileAll(n.Operands)
	if err != nil {
		return nil, err
	}
	var low, high expr.Comparator
	return func(row any, env *expr.Env) (value.Value, error) {
		var vals [3]value.Value
		for i, o := range operands {
			v, err := o(row, env)
			if err != nil {
				return value.Null(), err
			}
			vals[i] = v
		}
		if vals[0].IsNull() || vals[1].IsNull() || vals[2].IsNull() {
			return value.Bool(false), nil
		}
		lo, err := low.Compare("BETWEEN", vals[0], vals[1])
		if err != nil {
			return value.Null(), err
		}
		if !expr.Ge.Test(lo) {
			return value.Bool(false), nil
		}
		hi, err := high.Compare("BETWEEN", vals[0], vals[2])
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(expr.Le.Test(hi)), nil
	}, nil
}

func in(n *expr.In) (evalFunc, error) {
	subject, err := compile(n.Value)
	if err != nil {
		return nil, err
	}
	options, err := compileAll(n.Options)
	if err != nil {
		return nil, err
	}
	var set map[string][]value.Value
	return func(row any, env *expr.Env) (value.Value, error) {
		v, err := subject(row, env)
		if err != nil {
			return value.Null(), err
		}
		if set == nil {
			built := make(map[string][]value.Value, len(options))
			for _, o := range options {
				ov, err := o(row, env)
				if err != nil {
					return value.Null(), err
				}
				built[ov.Key()] = append(built[ov.Key()], ov)
			}
			set = built
		}
		if v.IsNull() {
			return value.Bool(false), nil
		}
		return value.Bool(expr.Contains(set, v)), nil
	}, nil
}

func isNull(n *expr.IsNull) (evalFunc, error) {
	subject, err := compile(n.Value)
	if err != nil {
		return nil, err
	}
	not := n.Not
	return func(row any, env *expr.Env) (value.Value, error) {
		v, err := subject(row, env)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(v.IsNull() != not), nil
	}, nil
}

func like(n *expr.Like) (evalFunc, error) {
	if len(n.Operands) != 2 {
		return fail(&expr.ArityError{Op: "LIKE", Want: "2", Got: len(n.Operands)}), nil
	}
	operands, err := compileAll(n.Operands)
	if err != nil {
		return nil, err
	}
	var (
		pattern string
		re      *regexp.Regexp
	)
	return func(row any, env *expr.Env) (value.Value, error) {
		left, err := operands[0](row, env)
		if err != nil {
			return value.Null(), err
		}
		right, err := operands[1](row, env)
		if err != nil {
			return value.Null(), err
		}
		if left.IsNull() || right.IsNull() {
			return value.Bool(false), nil
		}
		s, ok := left.AsString()
		if !ok {
			return value.Null(), &expr.TypeMismatchError{Op: "LIKE", Detail: "expected string subject, got " + left.Kind.String()}
		}
		p, ok := right.AsString()
		if !ok {
			return value.Null(), &expr.TypeMismatchError{Op: "LIKE", Detail: "expected string pattern, got " + right.Kind.String()}
		}
		if re == nil || p != pattern {
			compiled, err := expr.LikePattern(p)
			if err != nil {
				return value.Null(), expr.NewTypeMismatchError("LIKE", "invalid pattern", err)
			}
			pattern, re = p, compiled
		}
		return value.Bool(re.MatchString(s)), nil
	}, nil
}

package expr

import (
	"fmt"

	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/numeric"
	"github.com/hupe1980/sieve/value"
)

// Eval evaluates n against row.
func Eval(n Node, row any, env *Env) (value.Value, error) {
	switch n := n.(type) {
	case *Column:
		return n.eval(row, env)
	case *Number:
		return value.Number(n.Value), nil
	case *String:
		return value.String(n.Value), nil
	case *Date:
		return n.eval(env)
	case *Null:
		return value.Null(), nil
	case *Call:
		return n.eval(row, env)
	case *Boolean:
		return n.eval(row, env)
	case *Comparison:
		return n.eval(row, env)
	case *Arithmetic:
		return n.eval(row, env)
	case *Between:
		return n.eval(row, env)
	case *In:
		return n.eval(row, env)
	case *IsNull:
		v, err := Eval(n.Value, row, env)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(v.IsNull() != n.Not), nil
	case *Like:
		return n.eval(row, env)
	case nil:
		return value.Null(), fmt.Errorf("nil expression")
	default:
		return value.Null(), fmt.Errorf("unsupported expression %T", n)
	}
}

// Match evaluates n and requires a boolean result.
func Match(n Node, row any, env *Env) (bool, error) {
	v, err := Eval(n, row, env)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, mismatch("WHERE", "expected boolean, got %s", v.Kind)
	}
	return b, nil
}

// Resolve evaluates a literal without a row.
func Resolve(n Node, env *Env) (value.Value, error) {
	if !IsLiteral(n) {
		return value.Null(), fmt.Errorf("%s is not a literal", n)
	}
	return Eval(n, nil, env)
}

func (c *Column) eval(row any, env *Env) (value.Value, error) {
	if c.acc == nil || c.env != env {
		acc, ok := env.Accessor(c.Name)
		if !ok {
			return value.Null(), &MissingAccessorError{Column: c.Name}
		}
		c.env, c.acc = env, acc
	}
	return value.Normalize(c.acc(row), &c.norm), nil
}

func (d *Date) eval(env *Env) (value.Value, error) {
	if d.resolved {
		return d.val, nil
	}
	fn, ok := env.Function(extension.DateFunctionName)
	if !ok {
		return value.Null(), &UnknownFunctionError{Name: extension.DateFunctionName}
	}
	out, err := Invoke(fn, []any{d.Text})
	if err != nil {
		return value.Null(), err
	}
	d.val, d.resolved = value.Of(out), true
	return d.val, nil
}

func (c *Call) eval(row any, env *Env) (value.Value, error) {
	if c.fn.Call == nil || c.env != env {
		fn, ok := env.Function(c.Name)
		if !ok {
			return value.Null(), &UnknownFunctionError{Name: c.Name}
		}
		c.env, c.fn = env, fn
	}

	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := Eval(a, row, env)
		if err != nil {
			return value.Null(), err
		}
		args[i] = v
	}

	host, err := BindArgs(c.fn, args, row)
	if err != nil {
		return value.Null(), err
	}
	out, err := Invoke(c.fn, host)
	if err != nil {
		return value.Null(), err
	}
	return value.Normalize(out, &c.norm), nil
}

// BindArgs converts evaluated arguments to the host values fn expects.
// Numeric parameters are coerced; when fn declares one more parameter than
// supplied, row is appended.
func BindArgs(fn extension.Function, args []value.Value, row any) ([]any, error) {
	withRow := false
	switch len(fn.Params) {
	case len(args):
	case len(args) + 1:
		withRow = true
	default:
		return nil, &ArityError{Op: fn.Name, Want: fmt.Sprint(len(fn.Params)), Got: len(args)}
	}

	host := make([]any, 0, len(fn.Params))
	for i, a := range args {
		switch fn.Params[i] {
		case extension.Int, extension.Float:
			if a.IsNull() {
				host = append(host, nil)
				continue
			}
			num, ok := a.AsNumber()
			if !ok {
				return nil, mismatch(fn.Name, "argument %d: expected %s, got %s", i+1, fn.Params[i], a.Kind)
			}
			if fn.Params[i] == extension.Int {
				host = append(host, num.AsInt())
			} else {
				host = append(host, num.AsFloat())
			}
		default:
			host = append(host, a.Any())
		}
	}
	if withRow {
		host = append(host, row)
	}
	return host, nil
}

// Invoke calls fn, converting returned errors and panics into an
// InvocationError.
func Invoke(fn extension.Function, args []any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewInvocationError(fn.Name, fmt.Errorf("panic: %v", r))
		}
	}()
	out, err = fn.Call(args)
	if err != nil {
		return nil, NewInvocationError(fn.Name, err)
	}
	return out, nil
}

func (b *Boolean) eval(row any, env *Env) (value.Value, error) {
	op := b.Op.String()
	if b.Op == Not {
		if len(b.Operands) != 1 {
			return value.Null(), &ArityError{Op: op, Want: "1", Got: len(b.Operands)}
		}
		v, err := evalBool(op, b.Operands[0], row, env)
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(!v), nil
	}
	if len(b.Operands) == 0 {
		return value.Null(), &ArityError{Op: op, Want: "at least 1", Got: 0}
	}
	stop := b.Op == Or
	for _, o := range b.Operands {
		v, err := evalBool(op, o, row, env)
		if err != nil {
			return value.Null(), err
		}
		if v == stop {
			return value.Bool(stop), nil
		}
	}
	return value.Bool(!stop), nil
}

func evalBool(op string, n Node, row any, env *Env) (bool, error) {
	v, err := Eval(n, row, env)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, mismatch(op, "expected boolean operand, got %s", v.Kind)
	}
	return b, nil
}

func (c *Comparison) eval(row any, env *Env) (value.Value, error) {
	op := c.Op.String()
	if len(c.Operands) != 2 {
		return value.Null(), &ArityError{Op: op, Want: "2", Got: len(c.Operands)}
	}
	l, err := Eval(c.Operands[0], row, env)
	if err != nil {
		return value.Null(), err
	}
	r, err := Eval(c.Operands[1], row, env)
	if err != nil {
		return value.Null(), err
	}
	if l.IsNull() || r.IsNull() {
		return value.Bool(false), nil
	}
	res, err := c.cmp.Compare(op, l, r)
	if err != nil {
		return value.Null(), err
	}
	return value.Bool(c.Op.Test(res)), nil
}

func (a *Arithmetic) eval(row any, env *Env) (value.Value, error) {
	op := a.Op.String()
	if len(a.Operands) == 0 {
		return value.Null(), &ArityError{Op: op, Want: "at least 1", Got: 0}
	}
	acc, err := evalNumber(op, a.Operands[0], row, env)
	if err != nil {
		return value.Null(), err
	}
	for _, o := range a.Operands[1:] {
		n, err := evalNumber(op, o, row, env)
		if err != nil {
			return value.Null(), err
		}
		if acc, err = a.Op.Apply(acc, n); err != nil {
			return value.Null(), &TypeMismatchError{Op: op, Detail: "invalid operands", cause: err}
		}
	}
	return value.Number(acc), nil
}

func (b *Between) eval(row any, env *Env) (value.Value, error) {
	if len(b.Operands) != 3 {
		return value.Null(), &ArityError{Op: "BETWEEN", Want: "3", Got: len(b.Operands)}
	}
	var vals [3]value.Value
	for i, o := range b.Operands {
		v, err := Eval(o, row, env)
		if err != nil {
			return value.Null(), err
		}
		vals[i] = v
	}
	if vals[0].IsNull() || vals[1].IsNull() || vals[2].IsNull() {
		return value.Bool(false), nil
	}
	lo, err := b.low.Compare("BETWEEN", vals[0], vals[1])
	if err != nil {
		return value.Null(), err
	}
	if !Ge.Test(lo) {
		return value.Bool(false), nil
	}
	hi, err := b.high.Compare("BETWEEN", vals[0], vals[2])
	if err != nil {
		return value.Null(), err
	}
	return value.Bool(Le.Test(hi)), nil
}

func (in *In) eval(row any, env *Env) (value.Value, error) {
	v, err := Eval(in.Value, row, env)
	if err != nil {
		return value.Null(), err
	}
	if !in.built {
		set := make(map[string][]value.Value, len(in.Options))
		for _, o := range in.Options {
			ov, err := Eval(o, row, env)
			if err != nil {
				return value.Null(), err
			}
			set[ov.Key()] = append(set[ov.Key()], ov)
		}
		in.set, in.built = set, true
	}
	if v.IsNull() {
		return value.Bool(false), nil
	}
	return value.Bool(Contains(in.set, v)), nil
}

// Contains reports whether v is a member of a set keyed by value.Key.
func Contains(set map[string][]value.Value, v value.Value) bool {
	for _, candidate := range set[v.Key()] {
		if value.Equal(candidate, v) {
			return true
		}
	}
	return false
}

func (l *Like) eval(row any, env *Env) (value.Value, error) {
	if len(l.Operands) != 2 {
		return value.Null(), &ArityError{Op: "LIKE", Want: "2", Got: len(l.Operands)}
	}
	left, err := Eval(l.Operands[0], row, env)
	if err != nil {
		return value.Null(), err
	}
	right, err := Eval(l.Operands[1], row, env)
	if err != nil {
		return value.Null(), err
	}
	if left.IsNull() || right.IsNull() {
		return value.Bool(false), nil
	}
	s, ok := left.AsString()
	if !ok {
		return value.Null(), mismatch("LIKE", "expected string subject, got %s", left.Kind)
	}
	p, ok := right.AsString()
	if !ok {
		return value.Null(), mismatch("LIKE", "expected string pattern, got %s", right.Kind)
	}
	re, err := l.compiled(p)
	if err != nil {
		return value.Null(), &TypeMismatchError{Op: "LIKE", Detail: "invalid pattern", cause: err}
	}
	return value.Bool(re.MatchString(s)), nil
}

func evalNumber(op string, n Node, row any, env *Env) (numeric.Number, error) {
	v, err := Eval(n, row, env)
	if err != nil {
		return numeric.Number{}, err
	}
	num, ok := v.AsNumber()
	if !ok {
		return numeric.Number{}, mismatch(op, "expected numeric operand, got %s", v.Kind)
	}
	return num, nil
}

package expr

import (
	"regexp"
	"strings"

	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/numeric"
	"github.com/hupe1980/sieve/value"
)

// Node is an expression tree node.
//
// This is a sealed interface - only types in this package implement it.
// String renders the node in canonical, fully parenthesized SQL.
type Node interface {
	String() string
	exprNode()
}

// Column references a row attribute by name.
type Column struct {
	Name string

	env  *Env
	acc  Accessor
	norm numeric.Normalizer
}

// Number is a numeric literal.
type Number struct {
	Value numeric.Number
}

// String is a string literal.
type String struct {
	Value string
}

// Date is a date literal. Its value is produced by the toDate function on
// first evaluation and cached.
type Date struct {
	Text string

	resolved bool
	val      value.Value
}

// Null is the NULL literal.
type Null struct{}

// Call invokes an extension function.
type Call struct {
	Name string
	Args []Node

	env  *Env
	fn   extension.Function
	norm numeric.Normalizer
}

// BoolOp is a boolean connective.
type BoolOp uint8

const (
	// And is true when all operands are true.
	And BoolOp = iota
	// Or is true when any operand is true.
	Or
	// Not negates its single operand.
	Not
)

func (op BoolOp) String() string {
	switch op {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return "NOT"
	}
}

// Boolean combines boolean operands.
type Boolean struct {
	Op       BoolOp
	Operands []Node
}

// CmpOp is a comparison operator.
type CmpOp uint8

// Comparison operators.
const (
	Eq CmpOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (op CmpOp) String() string {
	switch op {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	default:
		return ">="
	}
}

// Test maps a three-way comparison result through the operator.
func (op CmpOp) Test(c int) bool {
	switch op {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c == -1
	case Le:
		return c != 1
	case Gt:
		return c == 1
	default:
		return c != -1
	}
}

// Flip returns the operator with its operands swapped, so that
// "3 < a" can be read as "a > 3".
func (op CmpOp) Flip() CmpOp {
	switch op {
	case Lt:
		return Gt
	case Le:
		return Ge
	case Gt:
		return Lt
	case Ge:
		return Le
	default:
		return op
	}
}

// Comparison compares exactly two operands.
type Comparison struct {
	Op       CmpOp
	Operands []Node

	cmp Comparator
}

// ArithOp is an arithmetic operator.
type ArithOp uint8

// Arithmetic operators.
const (
	Add ArithOp = iota
	Sub
	Mul
	Div
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	default:
		return "/"
	}
}

// Apply folds o into acc.
func (op ArithOp) Apply(acc, o numeric.Number) (numeric.Number, error) {
	switch op {
	case Add:
		return acc.Add(o), nil
	case Sub:
		return acc.Sub(o), nil
	case Mul:
		return acc.Mul(o), nil
	default:
		return acc.Div(o)
	}
}

// Arithmetic folds its operands left to right.
type Arithmetic struct {
	Op       ArithOp
	Operands []Node
}

// Between tests value BETWEEN low AND high. Operands holds exactly
// value, low and high.
type Between struct {
	Operands []Node

	low  Comparator
	high Comparator
}

// In tests membership of Value in Options. Options are evaluated once.
type In struct {
	Value   Node
	Options []Node

	built bool
	set   map[string][]value.Value
}

// IsNull tests Value for NULL, or for NOT NULL when Not is set.
type IsNull struct {
	Value Node
	Not   bool
}

// Like matches a string against a pattern where '%' matches any sequence.
// Operands holds exactly the subject and the pattern.
type Like struct {
	Operands []Node

	pattern string
	re      *regexp.Regexp
}

func (*Column) exprNode()     {}
func (*Number) exprNode()     {}
func (*String) exprNode()     {}
func (*Date) exprNode()       {}
func (*Null) exprNode()       {}
func (*Call) exprNode()       {}
func (*Boolean) exprNode()    {}
func (*Comparison) exprNode() {}
func (*Arithmetic) exprNode() {}
func (*Between) exprNode()    {}
func (*In) exprNode()         {}
func (*IsNull) exprNode()     {}
func (*Like) exprNode()       {}

// NewColumn returns a column reference.
func NewColumn(name string) *Column { return &Column{Name: name} }

// NewNumber returns a numeric literal.
func NewNumber(n numeric.Number) *Number { return &Number{Value: n} }

// NewInt returns an integral literal.
func NewInt(i int64) *Number { return NewNumber(numeric.Int(i)) }

// NewFloat returns a floating literal.
func NewFloat(f float64) *Number { return NewNumber(numeric.Float(f)) }

// NewString returns a string literal.
func NewString(s string) *String { return &String{Value: s} }

// NewDate returns a date literal.
func NewDate(text string) *Date { return &Date{Text: text} }

// NewNull returns the NULL literal.
func NewNull() *Null { return &Null{} }

// NewCall returns a function call.
func NewCall(name string, args ...Node) *Call { return &Call{Name: name, Args: args} }

// NewAnd returns the conjunction of operands.
func NewAnd(operands ...Node) *Boolean { return &Boolean{Op: And, Operands: operands} }

// NewOr returns the disjunction of operands.
func NewOr(operands ...Node) *Boolean { return &Boolean{Op: Or, Operands: operands} }

// NewNot returns the negation of operand.
func NewNot(operand Node) *Boolean { return &Boolean{Op: Not, Operands: []Node{operand}} }

// NewComparison returns left op right.
func NewComparison(op CmpOp, left, right Node) *Comparison {
	return &Comparison{Op: op, Operands: []Node{left, right}}
}

// NewArithmetic returns the left fold of operands under op.
func NewArithmetic(op ArithOp, operands ...Node) *Arithmetic {
	return &Arithmetic{Op: op, Operands: operands}
}

// NewBetween returns v BETWEEN low AND high.
func NewBetween(v, low, high Node) *Between { return &Between{Operands: []Node{v, low, high}} }

// NewIn returns v IN (options...).
func NewIn(v Node, options ...Node) *In { return &In{Value: v, Options: options} }

// NewIsNull returns v IS NULL, or v IS NOT NULL when not is set.
func NewIsNull(v Node, not bool) *IsNull { return &IsNull{Value: v, Not: not} }

// NewLike returns left LIKE pattern.
func NewLike(left, pattern Node) *Like { return &Like{Operands: []Node{left, pattern}} }

// IsLiteral reports whether n is a literal.
func IsLiteral(n Node) bool {
	switch n.(type) {
	case *Number, *String, *Date, *Null:
		return true
	default:
		return false
	}
}

func (c *Column) String() string { return c.Name }

func (n *Number) String() string { return n.Value.String() }

func (s *String) String() string { return quote(s.Value) }

func (d *Date) String() string { return extension.DateFunctionName + "(" + quote(d.Text) + ")" }

func (*Null) String() string { return "NULL" }

func (c *Call) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(c.Name)
	b.WriteString("(")
	writeList(&b, c.Args)
	b.WriteString("))")
	return b.String()
}

func (b *Boolean) String() string { return render(b.Op.String(), b.Operands) }

func (c *Comparison) String() string { return render(c.Op.String(), c.Operands) }

func (a *Arithmetic) String() string { return render(a.Op.String(), a.Operands) }

func (l *Like) String() string { return render("LIKE", l.Operands) }

func (b *Between) String() string {
	if len(b.Operands) != 3 {
		return render("BETWEEN", b.Operands)
	}
	return "(" + b.Operands[0].String() + " BETWEEN " + b.Operands[1].String() +
		" AND " + b.Operands[2].String() + ")"
}

func (in *In) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(in.Value.String())
	b.WriteString(" IN (")
	writeList(&b, in.Options)
	b.WriteString("))")
	return b.String()
}

func (n *IsNull) String() string {
	if n.Not {
		return "(" + n.Value.String() + " IS NOT NULL)"
	}
	return "(" + n.Value.String() + " IS NULL)"
}

// render is the generic form: "(op)", "(op(x))" or "(x op y op z)".
func render(op string, operands []Node) string {
	switch len(operands) {
	case 0:
		return "(" + op + ")"
	case 1:
		inner := operands[0].String()
		if strings.HasPrefix(inner, "(") {
			return "(" + op + inner + ")"
		}
		return "(" + op + " " + inner + ")"
	}
	var b strings.Builder
	b.WriteString("(")
	for i, o := range operands {
		if i > 0 {
			b.WriteString(" " + op + " ")
		}
		b.WriteString(o.String())
	}
	b.WriteString(")")
	return b.String()
}

func writeList(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.String())
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

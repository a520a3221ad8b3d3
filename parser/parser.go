package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/internal/names"
	"github.com/hupe1980/sieve/numeric"
)

var datePattern = regexp.MustCompile(`^\d{1,4}[/-]\d{1,2}[/-]\d{1,4}$`)

// Parser holds the lexer and current/peek tokens for recursive-descent parsing.
type Parser struct {
	lx   *lexer
	cur  token
	peek token
}

// New creates a parser for the provided input string.
func New(text string) *Parser {
	p := &Parser{lx: newLexer(text)}
	p.cur = p.lx.next()
	p.peek = p.lx.next()
	return p
}

// Parse parses a complete SELECT statement.
func Parse(text string) (*expr.Select, error) {
	return New(text).ParseSelect()
}

// ParseWhere parses a bare predicate, as found after WHERE.
func ParseWhere(text string) (expr.Node, error) {
	p := New(text)
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return n, nil
}

// ParseSelect parses "SELECT * FROM <type> [[AS] <alias>] WHERE <predicate> [;]".
func (p *Parser) ParseSelect() (*expr.Select, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("*"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	if p.cur.typ != tIdent {
		return nil, p.errf("expected type name")
	}
	sel := &expr.Select{From: p.cur.val}
	p.next()

	if p.isKeyword("AS") {
		p.next()
		if p.cur.typ != tIdent {
			return nil, p.errf("expected alias")
		}
	}
	if p.cur.typ == tIdent {
		sel.Alias = p.cur.val
		p.next()
	}

	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	where, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	sel.Where = where
	if err := p.end(); err != nil {
		return nil, err
	}
	return sel, nil
}

func (p *Parser) next() { p.cur, p.peek = p.peek, p.lx.next() }

func (p *Parser) isKeyword(kw string) bool { return p.cur.typ == tKeyword && p.cur.val == kw }

func (p *Parser) isSymbol(sym string) bool { return p.cur.typ == tSymbol && p.cur.val == sym }

func (p *Parser) expectSymbol(sym string) error {
	if p.isSymbol(sym) {
		p.next()
		return nil
	}
	return p.errf("expected %q", sym)
}

func (p *Parser) expectKeyword(kw string) error {
	if p.isKeyword(kw) {
		p.next()
		return nil
	}
	return p.errf("expected %s", kw)
}

func (p *Parser) end() error {
	if p.isSymbol(";") {
		p.next()
	}
	if p.cur.typ != tEOF {
		return p.errf("unexpected trailing input")
	}
	return nil
}

func (p *Parser) errf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	if p.cur.typ == tIllegal {
		msg = "invalid token"
	}
	return &SyntaxError{Pos: p.cur.pos, Near: p.cur.val, Msg: msg}
}

func (p *Parser) parseExpr() (expr.Node, error) { return p.parseOr() }

func (p *Parser) parseOr() (expr.Node, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("OR") {
		return l, nil
	}
	operands := []expr.Node{l}
	for p.isKeyword("OR") {
		p.next()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, r)
	}
	return expr.NewOr(operands...), nil
}

func (p *Parser) parseAnd() (expr.Node, error) {
	l, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("AND") {
		return l, nil
	}
	operands := []expr.Node{l}
	for p.isKeyword("AND") {
		p.next()
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		operands = append(operands, r)
	}
	return expr.NewAnd(operands...), nil
}

func (p *Parser) parseNot() (expr.Node, error) {
	if p.isKeyword("NOT") {
		p.next()
		e, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return expr.NewNot(e), nil
	}
	return p.parsePredicate()
}

func (p *Parser) parsePredicate() (expr.Node, error) {
	l, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}

	if p.cur.typ == tSymbol {
		if op, ok := comparison(p.cur.val); ok {
			p.next()
			r, err := p.parseAddSub()
			if err != nil {
				return nil, err
			}
			return expr.NewComparison(op, l, r), nil
		}
	}

	if p.isKeyword("IS") {
		p.next()
		not := false
		if p.isKeyword("NOT") {
			not = true
			p.next()
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return expr.NewIsNull(l, not), nil
	}

	negate := false
	if p.isKeyword("NOT") && p.peek.typ == tKeyword {
		switch p.peek.val {
		case "BETWEEN", "IN", "LIKE":
			negate = true
			p.next()
		}
	}

	var n expr.Node
	switch {
	case p.isKeyword("BETWEEN"):
		p.next()
		low, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("AND"); err != nil {
			return nil, err
		}
		high, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		n = expr.NewBetween(l, low, high)
	case p.isKeyword("IN"):
		p.next()
		options, err := p.parseInList()
		if err != nil {
			return nil, err
		}
		n = expr.NewIn(l, options...)
	case p.isKeyword("LIKE"):
		p.next()
		pattern, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		n = expr.NewLike(l, pattern)
	default:
		return l, nil
	}
	if negate {
		return expr.NewNot(n), nil
	}
	return n, nil
}

func (p *Parser) parseInList() ([]expr.Node, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var options []expr.Node
	if p.isSymbol(")") {
		p.next()
		return options, nil
	}
	for {
		pos := p.cur
		o, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !expr.IsLiteral(o) {
			return nil, &SyntaxError{Pos: pos.pos, Near: pos.val, Msg: "IN options must be literals"}
		}
		options = append(options, o)
		if p.isSymbol(",") {
			p.next()
			continue
		}
		break
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return options, nil
}

func (p *Parser) parseAddSub() (expr.Node, error) {
	return p.parseArithmetic(p.parseMulDiv, "+", "-")
}

func (p *Parser) parseMulDiv() (expr.Node, error) {
	return p.parseArithmetic(p.parseUnary, "*", "/")
}

// parseArithmetic folds runs of the same operator into one n-ary node, so
// "a - b - c" becomes (a - b - c) and "a + b - c" becomes ((a + b) - c).
func (p *Parser) parseArithmetic(operand func() (expr.Node, error), ops ...string) (expr.Node, error) {
	l, err := operand()
	if err != nil {
		return nil, err
	}
	var run *expr.Arithmetic
	for p.cur.typ == tSymbol && (p.cur.val == ops[0] || p.cur.val == ops[1]) {
		op := arithmetic(p.cur.val)
		p.next()
		r, err := operand()
		if err != nil {
			return nil, err
		}
		if run != nil && run.Op == op {
			run.Operands = append(run.Operands, r)
			continue
		}
		run = expr.NewArithmetic(op, l, r)
		l = run
	}
	return l, nil
}

func (p *Parser) parseUnary() (expr.Node, error) {
	if p.isSymbol("+") {
		p.next()
		return p.parseUnary()
	}
	if p.isSymbol("-") {
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if num, ok := e.(*expr.Number); ok {
			return expr.NewNumber(num.Value.Mul(negativeOne(num))), nil
		}
		return expr.NewArithmetic(expr.Sub, expr.NewInt(0), e), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (expr.Node, error) {
	switch p.cur.typ {
	case tNumber:
		n, err := number(p.cur.val)
		if err != nil {
			return nil, p.errf("invalid number")
		}
		p.next()
		return n, nil
	case tString:
		s := p.cur.val
		p.next()
		return literal(s), nil
	case tKeyword:
		if p.isKeyword("NULL") {
			p.next()
			return expr.NewNull(), nil
		}
		return nil, p.errf("unexpected keyword")
	case tIdent:
		name := p.cur.val
		p.next()
		if p.isSymbol("(") {
			return p.parseCall(name)
		}
		return expr.NewColumn(name), nil
	case tSymbol:
		if p.isSymbol("(") {
			p.next()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	case tEOF:
		return nil, p.errf("unexpected end of input")
	}
	return nil, p.errf("unexpected token")
}

func (p *Parser) parseCall(name string) (expr.Node, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var args []expr.Node
	if !p.isSymbol(")") {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
			if p.isSymbol(",") {
				p.next()
				continue
			}
			break
		}
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if names.Fold(name) == names.Fold(extension.DateFunctionName) && len(args) == 1 {
		if d, ok := args[0].(*expr.Date); ok {
			return d, nil
		}
		if s, ok := args[0].(*expr.String); ok {
			return expr.NewDate(s.Value), nil
		}
	}
	return expr.NewCall(name, args...), nil
}

// literal classifies a quoted string: date-shaped text becomes a date
// literal with '/' separators.
func literal(s string) expr.Node {
	if datePattern.MatchString(s) {
		return expr.NewDate(strings.ReplaceAll(s, "-", "/"))
	}
	return expr.NewString(s)
}

func number(s string) (*expr.Number, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return expr.NewInt(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return expr.NewFloat(f), nil
}

func negativeOne(n *expr.Number) numeric.Number {
	if n.Value.IsFloating() {
		return numeric.Float(-1)
	}
	return numeric.Int(-1)
}

func comparison(sym string) (expr.CmpOp, bool) {
	switch sym {
	case "=":
		return expr.Eq, true
	case "!=", "<>":
		return expr.Ne, true
	case "<":
		return expr.Lt, true
	case "<=":
		return expr.Le, true
	case ">":
		return expr.Gt, true
	case ">=":
		return expr.Ge, true
	default:
		return 0, false
	}
}

func arithmetic(sym string) expr.ArithOp {
	switch sym {
	case "+":
		return expr.Add
	case "-":
		return expr.Sub
	case "*":
		return expr.Mul
	default:
		return expr.Div
	}
}

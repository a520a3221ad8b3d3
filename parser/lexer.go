package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tEOF tokenType = iota
	tIdent
	tNumber
	tString
	tSymbol
	tKeyword
	tIllegal
)

type token struct {
	typ tokenType
	val string
	pos int
}

type lexer struct {
	s   string
	pos int
}

func newLexer(s string) *lexer { return &lexer{s: s} }

func (lx *lexer) peekByte(n int) byte {
	if lx.pos+n >= len(lx.s) {
		return 0
	}
	return lx.s[lx.pos+n]
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.s) {
		r, size := utf8.DecodeRuneInString(lx.s[lx.pos:])
		if unicode.IsSpace(r) {
			lx.pos += size
			continue
		}
		if r == '-' && lx.peekByte(1) == '-' {
			for lx.pos < len(lx.s) && lx.s[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}
		return
	}
}

func (lx *lexer) next() token {
	lx.skipSpace()
	start := lx.pos
	if start >= len(lx.s) {
		return token{typ: tEOF, pos: start}
	}
	r, _ := utf8.DecodeRuneInString(lx.s[lx.pos:])
	switch {
	case r == '\'':
		return lx.quoted(start, '\'', tString)
	case r == '"':
		return lx.quoted(start, '"', tIdent)
	case r >= '0' && r <= '9', r == '.' && isDigit(lx.peekByte(1)):
		return lx.number(start)
	case unicode.IsLetter(r) || r == '_':
		return lx.word(start)
	default:
		return lx.symbol(start)
	}
}

// quoted reads a quoted literal where the quote is escaped by doubling it.
func (lx *lexer) quoted(start int, q byte, typ tokenType) token {
	lx.pos++
	var b strings.Builder
	for lx.pos < len(lx.s) {
		c := lx.s[lx.pos]
		lx.pos++
		if c == q {
			if lx.peekByte(0) == q {
				lx.pos++
				b.WriteByte(q)
				continue
			}
			return token{typ: typ, val: b.String(), pos: start}
		}
		b.WriteByte(c)
	}
	return token{typ: tIllegal, val: "unterminated quoted literal", pos: start}
}

func (lx *lexer) number(start int) token {
	dot, exp := false, false
	for lx.pos < len(lx.s) {
		c := lx.s[lx.pos]
		switch {
		case isDigit(c):
			lx.pos++
		case c == '.' && !dot && !exp:
			dot = true
			lx.pos++
		case (c == 'e' || c == 'E') && !exp:
			sign := lx.peekByte(1)
			if isDigit(sign) {
				lx.pos++
			} else if (sign == '+' || sign == '-') && isDigit(lx.peekByte(2)) {
				lx.pos += 2
			} else {
				return token{typ: tNumber, val: lx.s[start:lx.pos], pos: start}
			}
			exp = true
		default:
			return token{typ: tNumber, val: lx.s[start:lx.pos], pos: start}
		}
	}
	return token{typ: tNumber, val: lx.s[start:lx.pos], pos: start}
}

func (lx *lexer) word(start int) token {
	for lx.pos < len(lx.s) {
		r, size := utf8.DecodeRuneInString(lx.s[lx.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		lx.pos += size
	}
	w := lx.s[start:lx.pos]
	if up := strings.ToUpper(w); isKeyword(up) {
		return token{typ: tKeyword, val: up, pos: start}
	}
	return token{typ: tIdent, val: w, pos: start}
}

func (lx *lexer) symbol(start int) token {
	c := lx.s[lx.pos]
	switch c {
	case '(', ')', ',', '*', '+', '-', '/', ';', '=':
		lx.pos++
		return token{typ: tSymbol, val: string(c), pos: start}
	case '<', '>', '!':
		lx.pos++
		n := lx.peekByte(0)
		if n == '=' || (c == '<' && n == '>') {
			lx.pos++
			return token{typ: tSymbol, val: string([]byte{c, n}), pos: start}
		}
		if c == '!' {
			return token{typ: tIllegal, val: "!", pos: start}
		}
		return token{typ: tSymbol, val: string(c), pos: start}
	default:
		_, size := utf8.DecodeRuneInString(lx.s[lx.pos:])
		lx.pos += size
		return token{typ: tIllegal, val: lx.s[start:lx.pos], pos: start}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isKeyword(up string) bool {
	switch up {
	case "SELECT", "FROM", "WHERE", "AS",
		"AND", "OR", "NOT", "IS", "NULL",
		"IN", "LIKE", "BETWEEN":
		return true
	default:
		return false
	}
}

package lexer

import (
	"iter"

	"rym/internal/token"
)

// Primitive - первый слой лексера: режет текст на токены-длины без
// интерпретации. Сумма Len всех токенов равна длине входа.
type Primitive struct {
	cur Cursor
}

// NewPrimitive creates a primitive lexer over src.
func NewPrimitive(src []byte) *Primitive {
	return &Primitive{cur: NewCursor(src)}
}

// Clone returns an independent copy; used for one-token lookahead.
func (p *Primitive) Clone() *Primitive {
	c := *p
	return &c
}

// Offset returns the absolute byte offset of the next token.
func (p *Primitive) Offset() uint32 {
	return p.cur.Off
}

// All yields the remaining tokens.
func (p *Primitive) All() iter.Seq[token.Prim] {
	return func(yield func(token.Prim) bool) {
		for {
			tok, ok := p.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Next returns the next primitive token; false once the input is exhausted.
func (p *Primitive) Next() (token.Prim, bool) {
	c := &p.cur
	if c.EOF() {
		return token.Prim{}, false
	}
	start := c.Mark()
	tok := token.Prim{Kind: p.scan(c.Bump())}
	switch tok.Kind {
	case token.PrimBlockComment:
		tok.Terminated = p.eatBlockComment()
	case token.PrimString:
		tok.Terminated = p.eatString()
	case token.PrimChar:
		tok.Terminated = p.eatChar()
	}
	tok.Len = c.Since(start)
	return tok, true
}

func (p *Primitive) scan(first rune) token.PrimKind {
	c := &p.cur
	switch {
	case first == '/':
		switch c.Peek() {
		case '/':
			c.EatWhile(func(r rune) bool { return r != '\n' })
			return token.PrimLineComment
		case '*':
			c.Bump()
			return token.PrimBlockComment
		}
		return token.PrimSlash
	case isWhitespace(first):
		c.EatWhile(isWhitespace)
		return token.PrimWhitespace
	case isDigit(first):
		return p.eatNumber()
	case first == '"':
		return token.PrimString
	case first == '\'':
		return token.PrimChar
	case isIdentStart(first):
		c.EatWhile(isIdentContinue)
		return token.PrimIdent
	}
	if k, ok := singleChar[first]; ok {
		return k
	}
	return token.PrimUnknown
}

var singleChar = map[rune]token.PrimKind{
	';': token.PrimSemi,
	':': token.PrimColon,
	',': token.PrimComma,
	'.': token.PrimDot,
	'|': token.PrimPipe,
	'&': token.PrimAnd,
	'+': token.PrimPlus,
	'-': token.PrimMinus,
	'*': token.PrimStar,
	'%': token.PrimPercent,
	'=': token.PrimEq,
	'!': token.PrimBang,
	'<': token.PrimLessThan,
	'>': token.PrimGreater,
	'(': token.PrimOpenParen,
	')': token.PrimCloseParen,
	'{': token.PrimOpenBrace,
	'}': token.PrimCloseBrace,
	'[': token.PrimOpenBracket,
	']': token.PrimCloseBracket,
	'~': token.PrimTilde,
	'?': token.PrimQuestion,
	'@': token.PrimAt,
	'^': token.PrimCaret,
	'$': token.PrimDollar,
	'#': token.PrimPound,
}

// eatNumber: цифры и '_', не более одной '.'. Точка, за которой идёт
// ещё одна точка, не поглощается: `0..10` это Int DotDot Int.
func (p *Primitive) eatNumber() token.PrimKind {
	c := &p.cur
	kind := token.PrimInt
	for {
		r := c.Peek()
		switch {
		case isDigit(r) || r == '_':
			c.Bump()
		case r == '.' && kind == token.PrimInt && c.Peek2() != '.':
			c.Bump()
			kind = token.PrimFloat
		default:
			return kind
		}
	}
}

// eatBlockComment вызывается после "/*"; комментарии вложенные.
func (p *Primitive) eatBlockComment() bool {
	c := &p.cur
	depth := 1
	for !c.EOF() {
		switch c.Bump() {
		case '/':
			if c.Eat('*') {
				depth++
			}
		case '*':
			if c.Eat('/') {
				depth--
				if depth == 0 {
					return true
				}
			}
		}
	}
	return false
}

func (p *Primitive) eatString() bool {
	c := &p.cur
	for !c.EOF() {
		switch c.Bump() {
		case '\\':
			if r := c.Peek(); r == '"' || r == '\\' {
				c.Bump()
			}
		case '"':
			return true
		}
	}
	return false
}

// eatChar stops before a newline: a char literal never spans lines and
// the newline stays a separate token.
func (p *Primitive) eatChar() bool {
	c := &p.cur
	for {
		r := c.Peek()
		if r == eofRune || r == '\n' {
			return false
		}
		c.Bump()
		switch r {
		case '\'':
			return true
		case '\\':
			if n := c.Peek(); n == '\'' || n == '\\' {
				c.Bump()
			}
		}
	}
}

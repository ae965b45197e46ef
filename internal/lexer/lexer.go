package lexer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
)

// Lexer обогащает поток примитивных токенов: склеивает операторы,
// распознаёт ключевые слова, декодирует литералы и отбрасывает trivia.
type Lexer struct {
	file *source.File
	prim *Primitive
	opts Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file: file,
		prim: NewPrimitive(file.Content),
		opts: opts,
	}
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	for {
		start := lx.prim.Offset()
		p, ok := lx.prim.Next()
		if !ok {
			return token.Token{Kind: token.EOF, Span: lx.span(start, start)}
		}
		sp := lx.span(start, start+p.Len)
		if tok, keep := lx.enrich(p, sp); keep {
			return tok
		}
	}
}

// All lexes the rest of the file; the last token is always EOF.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) span(start, end uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: end}
}

// enrich maps one primitive token; keep=false drops it (trivia or a
// reported fault).
func (lx *Lexer) enrich(p token.Prim, sp source.Span) (tok token.Token, keep bool) {
	tok.Span = sp
	switch {
	case p.Kind == token.PrimWhitespace:
		if !strings.Contains(lx.text(sp), "\n") {
			return tok, false
		}
		tok.Kind = token.Newline
		return tok, true

	case p.Kind == token.PrimLineComment:
		return tok, false

	case p.Kind == token.PrimBlockComment:
		if !p.Terminated {
			lx.report(diag.LexUnterminatedBlockComment, sp, "Unterminated block comment").
				WithNote("Missing trailing `*/` to terminate the block comment").
				Emit()
		}
		return tok, false

	case p.Kind == token.PrimIdent:
		return lx.ident(sp), true

	case p.Kind == token.PrimInt:
		return lx.intLit(sp)

	case p.Kind == token.PrimFloat:
		return lx.floatLit(sp)

	case p.Kind == token.PrimString:
		return lx.stringLit(p, sp)

	case p.Kind == token.PrimChar:
		return lx.charLit(p, sp)

	case p.Kind == token.PrimUnknown:
		lx.report(diag.LexUnknownChar, sp, "Invalid character").Emit()
		return tok, false

	case p.Kind.IsReserved():
		lx.report(diag.LexReservedChar, sp, "Reserved character").Emit()
		return tok, false
	}

	rule, ok := punctRules[p.Kind]
	if !ok {
		panic(fmt.Sprintf("lexer: no rule for primitive %v", p.Kind))
	}
	tok.Kind = rule.single
	if len(rule.glue) == 0 {
		return tok, true
	}
	next, ok := lx.prim.Clone().Next()
	if !ok {
		return tok, true
	}
	for _, g := range rule.glue {
		if g.next == next.Kind {
			lx.prim.Next()
			tok.Kind = g.kind
			tok.Span.End += next.Len
			break
		}
	}
	return tok, true
}

func (lx *Lexer) text(sp source.Span) string {
	return sp.Text(lx.file.Content)
}

func (lx *Lexer) ident(sp source.Span) token.Token {
	text := lx.text(sp)
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp}
	}
	// Имя нормализуется в NFC; исходный текст и спаны не меняются.
	return token.Token{Kind: token.Ident, Span: sp, Text: norm.NFC.String(text)}
}

func (lx *Lexer) intLit(sp source.Span) (token.Token, bool) {
	digits := strings.ReplaceAll(lx.text(sp), "_", "")
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			lx.report(diag.LexBadNumber, sp, "Integer literal is too large").
				WithNote(fmt.Sprintf("The maximum integer value is %d", int64(math.MaxInt64))).
				Emit()
			return token.Token{}, false
		}
		panic(fmt.Errorf("lexer: pre-validated integer %q failed to parse: %w", digits, err))
	}
	return token.Token{Kind: token.IntLit, Span: sp, Int: v}, true
}

func (lx *Lexer) floatLit(sp source.Span) (token.Token, bool) {
	digits := strings.ReplaceAll(lx.text(sp), "_", "")
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			lx.report(diag.LexBadNumber, sp, "Float literal is out of range").Emit()
			return token.Token{}, false
		}
		panic(fmt.Errorf("lexer: pre-validated float %q failed to parse: %w", digits, err))
	}
	return token.Token{Kind: token.FloatLit, Span: sp, Float: v}, true
}

func (lx *Lexer) stringLit(p token.Prim, sp source.Span) (token.Token, bool) {
	if !p.Terminated {
		lx.report(diag.LexUnterminatedString, sp, "Unterminated string literal").
			WithNote("Missing trailing `\"` to terminate the string literal").
			Emit()
		return token.Token{}, false
	}
	s, err := Unquote(lx.text(sp))
	if err != nil {
		lx.reportUnescape(sp, err)
		return token.Token{}, false
	}
	return token.Token{Kind: token.StringLit, Span: sp, Text: s}, true
}

func (lx *Lexer) charLit(p token.Prim, sp source.Span) (token.Token, bool) {
	if !p.Terminated {
		lx.report(diag.LexUnterminatedChar, sp, "Unterminated character literal").
			WithNote("Missing trailing `'` to terminate the character literal").
			Emit()
		return token.Token{}, false
	}
	s, err := Unquote(lx.text(sp))
	if err != nil {
		lx.reportUnescape(sp, err)
		return token.Token{}, false
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		lx.report(diag.LexBadChar, sp, "Invalid character literal").
			WithNote("Character literals must contain exactly one character").
			Emit()
		return token.Token{}, false
	}
	return token.Token{Kind: token.CharLit, Span: sp, Char: r}, true
}

func (lx *Lexer) reportUnescape(sp source.Span, err error) {
	lx.report(diag.LexBadEscape, sp, capitalize(err.Error())).Emit()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

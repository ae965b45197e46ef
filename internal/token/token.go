package token

import (
	"strconv"

	"rym/internal/source"
)

// Token is a rich token: kind, absolute span and decoded payload.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string  // Ident: имя (NFC); StringLit: строка после unescape
	Int   int64   // IntLit
	Float float64 // FloatLit
	Char  rune    // CharLit
}

// IsLiteral reports whether the token is a numeric, boolean, string or char literal.
func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Describe names the token for "found ..." labels.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident:
		return "identifier `" + t.Text + "`"
	case IntLit:
		return "integer literal `" + strconv.FormatInt(t.Int, 10) + "`"
	case FloatLit:
		return "float literal `" + strconv.FormatFloat(t.Float, 'g', -1, 64) + "`"
	case StringLit:
		return "string literal " + strconv.Quote(t.Text)
	case CharLit:
		return "character literal " + strconv.QuoteRune(t.Char)
	}
	return t.Kind.Describe()
}

// Payload renders the token value for dumps; punctuation renders its lexeme.
func (t Token) Payload() string {
	switch t.Kind {
	case Ident:
		return t.Text
	case IntLit:
		return strconv.FormatInt(t.Int, 10)
	case FloatLit:
		return strconv.FormatFloat(t.Float, 'g', -1, 64)
	case StringLit:
		return strconv.Quote(t.Text)
	case CharLit:
		return strconv.QuoteRune(t.Char)
	}
	return t.Kind.Lexeme()
}

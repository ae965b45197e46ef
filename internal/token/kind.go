package token

// Kind represents the category of a rich source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is a whitespace run containing at least one '\n'.
	Newline

	// Ident represents an identifier token.
	Ident
	// IntLit is an integer literal; the value is in Token.Int.
	IntLit
	// FloatLit is a float literal; the value is in Token.Float.
	FloatLit
	// StringLit is a string literal; the unescaped payload is in Token.Text.
	StringLit
	// CharLit is a character literal; the rune is in Token.Char.
	CharLit

	KwConst    // const
	KwMut      // mut
	KwFn       // fn
	KwIf       // if
	KwElse     // else
	KwLoop     // loop
	KwWhile    // while
	KwFor      // for
	KwBreak    // break
	KwContinue // continue
	KwReturn   // return
	KwTrue     // true
	KwFalse    // false
	KwMod      // mod

	Semi       // ;
	Colon      // :
	ColonColon // ::
	Comma      // ,
	Dot        // .
	DotDot     // ..
	Or         // |
	OrOr       // ||
	And        // &
	AndAnd     // &&
	Plus       // +
	PlusEq     // +=
	Minus      // -
	MinusEq    // -=
	ThinArrow  // ->
	Star       // *
	StarEq     // *=
	Slash      // /
	SlashEq    // /=
	Percent    // %
	PercentEq  // %=
	Eq         // =
	EqEq       // ==
	FatArrow   // =>
	Bang       // !
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Newline:    "Newline",
	Ident:      "Ident",
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	StringLit:  "StringLit",
	CharLit:    "CharLit",
	KwConst:    "KwConst",
	KwMut:      "KwMut",
	KwFn:       "KwFn",
	KwIf:       "KwIf",
	KwElse:     "KwElse",
	KwLoop:     "KwLoop",
	KwWhile:    "KwWhile",
	KwFor:      "KwFor",
	KwBreak:    "KwBreak",
	KwContinue: "KwContinue",
	KwReturn:   "KwReturn",
	KwTrue:     "KwTrue",
	KwFalse:    "KwFalse",
	KwMod:      "KwMod",
	Semi:       "Semi",
	Colon:      "Colon",
	ColonColon: "ColonColon",
	Comma:      "Comma",
	Dot:        "Dot",
	DotDot:     "DotDot",
	Or:         "Or",
	OrOr:       "OrOr",
	And:        "And",
	AndAnd:     "AndAnd",
	Plus:       "Plus",
	PlusEq:     "PlusEq",
	Minus:      "Minus",
	MinusEq:    "MinusEq",
	ThinArrow:  "ThinArrow",
	Star:       "Star",
	StarEq:     "StarEq",
	Slash:      "Slash",
	SlashEq:    "SlashEq",
	Percent:    "Percent",
	PercentEq:  "PercentEq",
	Eq:         "Eq",
	EqEq:       "EqEq",
	FatArrow:   "FatArrow",
	Bang:       "Bang",
	BangEq:     "BangEq",
	Lt:         "Lt",
	LtEq:       "LtEq",
	Gt:         "Gt",
	GtEq:       "GtEq",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	LBracket:   "LBracket",
	RBracket:   "RBracket",
}

// lexemes - фиксированный текст для пунктуации и ключевых слов.
var lexemes = [kindCount]string{
	KwConst:    "const",
	KwMut:      "mut",
	KwFn:       "fn",
	KwIf:       "if",
	KwElse:     "else",
	KwLoop:     "loop",
	KwWhile:    "while",
	KwFor:      "for",
	KwBreak:    "break",
	KwContinue: "continue",
	KwReturn:   "return",
	KwTrue:     "true",
	KwFalse:    "false",
	KwMod:      "mod",
	Semi:       ";",
	Colon:      ":",
	ColonColon: "::",
	Comma:      ",",
	Dot:        ".",
	DotDot:     "..",
	Or:         "|",
	OrOr:       "||",
	And:        "&",
	AndAnd:     "&&",
	Plus:       "+",
	PlusEq:     "+=",
	Minus:      "-",
	MinusEq:    "-=",
	ThinArrow:  "->",
	Star:       "*",
	StarEq:     "*=",
	Slash:      "/",
	SlashEq:    "/=",
	Percent:    "%",
	PercentEq:  "%=",
	Eq:         "=",
	EqEq:       "==",
	FatArrow:   "=>",
	Bang:       "!",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Lexeme returns the fixed source text of punctuation and keywords, or "".
func (k Kind) Lexeme() string {
	if k < kindCount {
		return lexemes[k]
	}
	return ""
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwConst && k <= KwMod
}

// IsLiteral reports whether k carries a literal payload (booleans included).
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, FloatLit, StringLit, CharLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPunct reports whether k is an operator, separator or delimiter.
func (k Kind) IsPunct() bool {
	return k >= Semi && k <= RBracket
}

// Describe names the kind for diagnostics: "`==`", "keyword `if`", "end of input".
func (k Kind) Describe() string {
	switch {
	case k == EOF:
		return "end of input"
	case k == Newline:
		return "newline"
	case k == Ident:
		return "identifier"
	case k == IntLit:
		return "integer literal"
	case k == FloatLit:
		return "float literal"
	case k == StringLit:
		return "string literal"
	case k == CharLit:
		return "character literal"
	case k.IsKeyword():
		return "keyword `" + k.Lexeme() + "`"
	case k.IsPunct():
		return "`" + k.Lexeme() + "`"
	}
	return "invalid token"
}

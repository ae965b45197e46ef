package token

// PrimKind classifies a primitive token. Primitive kinds carry no semantics.
type PrimKind uint8

const (
	// PrimUnknown is a character that starts no token.
	PrimUnknown PrimKind = iota
	// PrimLineComment is `// ...` up to (not including) the newline.
	PrimLineComment
	// PrimBlockComment is `/* ... */`, possibly nested.
	PrimBlockComment
	// PrimWhitespace is a run of Pattern_White_Space characters.
	PrimWhitespace

	PrimSemi      // ;
	PrimColon     // :
	PrimComma     // ,
	PrimDot       // .
	PrimPipe      // |
	PrimAnd       // &
	PrimPlus      // +
	PrimMinus     // -
	PrimStar      // *
	PrimSlash     // /
	PrimPercent   // %
	PrimEq        // =
	PrimBang      // !
	PrimLessThan  // <
	PrimGreater   // >
	PrimOpenParen // (
	PrimCloseParen
	PrimOpenBrace
	PrimCloseBrace
	PrimOpenBracket
	PrimCloseBracket

	// Зарезервированные символы: лексер их распознаёт, грамматика не использует.
	PrimTilde    // ~
	PrimQuestion // ?
	PrimAt       // @
	PrimCaret    // ^
	PrimDollar   // $
	PrimPound    // #

	PrimIdent  // XID_Start XID_Continue*
	PrimInt    // 123, 1_000
	PrimFloat  // 1.5, 1_000.25
	PrimString // "..."
	PrimChar   // '...'
)

// Prim is a primitive token: a kind and the number of bytes it spans.
// Terminated is meaningful for block comments and string/char literals only.
type Prim struct {
	Kind       PrimKind
	Len        uint32
	Terminated bool
}

// IsReserved reports whether k is one of the reserved single characters.
func (k PrimKind) IsReserved() bool {
	return k >= PrimTilde && k <= PrimPound
}

// IsTrivia reports whether k never reaches the rich stream as-is.
func (k PrimKind) IsTrivia() bool {
	return k == PrimWhitespace || k == PrimLineComment || k == PrimBlockComment
}

var primNames = [...]string{
	PrimUnknown:      "Unknown",
	PrimLineComment:  "LineComment",
	PrimBlockComment: "BlockComment",
	PrimWhitespace:   "Whitespace",
	PrimSemi:         "Semi",
	PrimColon:        "Colon",
	PrimComma:        "Comma",
	PrimDot:          "Dot",
	PrimPipe:         "Pipe",
	PrimAnd:          "And",
	PrimPlus:         "Plus",
	PrimMinus:        "Minus",
	PrimStar:         "Star",
	PrimSlash:        "Slash",
	PrimPercent:      "Percent",
	PrimEq:           "Eq",
	PrimBang:         "Bang",
	PrimLessThan:     "LessThan",
	PrimGreater:      "GreaterThan",
	PrimOpenParen:    "OpenParen",
	PrimCloseParen:   "CloseParen",
	PrimOpenBrace:    "OpenBrace",
	PrimCloseBrace:   "CloseBrace",
	PrimOpenBracket:  "OpenBracket",
	PrimCloseBracket: "CloseBracket",
	PrimTilde:        "Tilde",
	PrimQuestion:     "Question",
	PrimAt:           "At",
	PrimCaret:        "Caret",
	PrimDollar:       "Dollar",
	PrimPound:        "Pound",
	PrimIdent:        "Ident",
	PrimInt:          "Int",
	PrimFloat:        "Float",
	PrimString:       "String",
	PrimChar:         "Char",
}

func (k PrimKind) String() string {
	if int(k) < len(primNames) {
		return primNames[k]
	}
	return "PrimKind(?)"
}

package token

// Delimiter is one of the three bracket pairs that form token trees.
type Delimiter uint8

const (
	DelimParen   Delimiter = iota + 1 // ( )
	DelimBrace                        // { }
	DelimBracket                      // [ ]
)

// Open returns the opening token kind of the pair.
func (d Delimiter) Open() Kind {
	switch d {
	case DelimParen:
		return LParen
	case DelimBrace:
		return LBrace
	case DelimBracket:
		return LBracket
	}
	return Invalid
}

// Close returns the closing token kind of the pair.
func (d Delimiter) Close() Kind {
	switch d {
	case DelimParen:
		return RParen
	case DelimBrace:
		return RBrace
	case DelimBracket:
		return RBracket
	}
	return Invalid
}

func (d Delimiter) String() string {
	switch d {
	case DelimParen:
		return "()"
	case DelimBrace:
		return "{}"
	case DelimBracket:
		return "[]"
	}
	return "?"
}

// OpenDelim reports whether k opens a delimiter pair, and which.
func (k Kind) OpenDelim() (Delimiter, bool) {
	switch k {
	case LParen:
		return DelimParen, true
	case LBrace:
		return DelimBrace, true
	case LBracket:
		return DelimBracket, true
	}
	return 0, false
}

// CloseDelim reports whether k closes a delimiter pair, and which.
func (k Kind) CloseDelim() (Delimiter, bool) {
	switch k {
	case RParen:
		return DelimParen, true
	case RBrace:
		return DelimBrace, true
	case RBracket:
		return DelimBracket, true
	}
	return 0, false
}

package lexer

import "unicode"

// isWhitespace reports the Pattern_White_Space property: the ASCII
// suspects, NEL, the bidi marks and the line/paragraph separators.
func isWhitespace(r rune) bool {
	if r < 0 {
		return false
	}
	return unicode.Is(unicode.Pattern_White_Space, r)
}

// isIdentStart approximates XID_Start plus '_'.
func isIdentStart(r rune) bool {
	if r == '_' {
		return true
	}
	if r < 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.Is(unicode.Nl, r) ||
		unicode.Is(unicode.Other_ID_Start, r)
}

// isIdentContinue approximates XID_Continue.
func isIdentContinue(r rune) bool {
	if isIdentStart(r) {
		return true
	}
	if r < 0 {
		return false
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnescapeErrorKind classifies unquote/unescape failures.
type UnescapeErrorKind uint8

const (
	// NotEnoughChars: the input ended before a fixed-width construct was complete.
	NotEnoughChars UnescapeErrorKind = iota + 1
	UnrecognizedQuote
	Unterminated
	IllegalChar
	UnrecognizedEscapePrefix
	UnrecognizedEscape
	InvalidUnicode
)

// UnescapeError describes why a literal could not be decoded.
type UnescapeError struct {
	Kind UnescapeErrorKind
	// Need is the number of missing characters for NotEnoughChars.
	Need int
	// Prefix is the offending escape ("\q") for UnrecognizedEscapePrefix.
	Prefix string
}

func (e *UnescapeError) Error() string {
	switch e.Kind {
	case NotEnoughChars:
		return fmt.Sprintf("not enough characters: need %d more", e.Need)
	case UnrecognizedQuote:
		return "unrecognized quote character"
	case Unterminated:
		return "unterminated literal"
	case IllegalChar:
		return "unescaped quote inside literal"
	case UnrecognizedEscapePrefix:
		return fmt.Sprintf("unknown escape sequence `%s`", e.Prefix)
	case UnrecognizedEscape:
		return "malformed escape sequence"
	case InvalidUnicode:
		return "invalid unicode code point"
	}
	return "invalid literal"
}

// Unquote strips the surrounding quotes (", ' or `) and unescapes the body.
// An unescaped quote inside the body is illegal.
func Unquote(s string) (string, error) {
	if utf8.RuneCountInString(s) < 2 {
		return "", &UnescapeError{Kind: NotEnoughChars, Need: 2}
	}
	quote := rune(s[0])
	if quote != '"' && quote != '\'' && quote != '`' {
		return "", &UnescapeError{Kind: UnrecognizedQuote}
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	if last != quote {
		return "", &UnescapeError{Kind: Unterminated}
	}
	return Unescape(s[1:len(s)-1], quote)
}

// Unescape processes escapes such as \n, \x00, ✔. illegal is a rune
// that must not appear unescaped; pass -1 to allow everything.
func Unescape(s string, illegal rune) (string, error) {
	if !strings.ContainsRune(s, '\\') && (illegal < 0 || !strings.ContainsRune(s, illegal)) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == illegal {
			return "", &UnescapeError{Kind: IllegalChar}
		}
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i >= len(s) {
			return "", &UnescapeError{Kind: Unterminated}
		}
		esc, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch esc {
		case '\\', '"', '\'', '`':
			b.WriteRune(esc)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			digits, err := take(s, &i, 2)
			if err != nil {
				return "", err
			}
			v, perr := strconv.ParseUint(string(esc)+digits, 8, 8)
			if perr != nil {
				return "", &UnescapeError{Kind: UnrecognizedEscape}
			}
			b.WriteRune(rune(v))
		case 'x':
			digits, err := take(s, &i, 2)
			if err != nil {
				return "", err
			}
			v, perr := strconv.ParseUint(digits, 16, 8)
			if perr != nil {
				return "", &UnescapeError{Kind: UnrecognizedEscape}
			}
			b.WriteRune(rune(v))
		case 'u', 'U':
			n := 4
			if esc == 'U' {
				n = 8
			}
			digits, err := take(s, &i, n)
			if err != nil {
				return "", err
			}
			r, err := decodeUnicode(digits)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		default:
			return "", &UnescapeError{Kind: UnrecognizedEscapePrefix, Prefix: `\` + string(esc)}
		}
	}
	return b.String(), nil
}

// take reads n runes starting at *i.
func take(s string, i *int, n int) (string, error) {
	start := *i
	for k := range n {
		if *i >= len(s) {
			return "", &UnescapeError{Kind: NotEnoughChars, Need: n - k}
		}
		_, size := utf8.DecodeRuneInString(s[*i:])
		*i += size
	}
	return s[start:*i], nil
}

func decodeUnicode(digits string) (rune, error) {
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, &UnescapeError{Kind: UnrecognizedEscape}
	}
	r := rune(v) // #nosec G115 -- ParseUint bounded to 32 bits
	if v > unicode.MaxRune || !utf8.ValidRune(r) {
		return 0, &UnescapeError{Kind: InvalidUnicode}
	}
	return r, nil
}

// Escape is the inverse of Unescape: Unescape(Escape(s, q), q) == s for
// every valid UTF-8 s.
func Escape(s string, quote rune) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		switch {
		case r == '\\' || r == quote:
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\a':
			b.WriteString(`\a`)
		case r == '\b':
			b.WriteString(`\b`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\v':
			b.WriteString(`\v`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	return b.String()
}

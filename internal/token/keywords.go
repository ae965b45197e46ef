package token

var keywords = map[string]Kind{
	"const":    KwConst,
	"mut":      KwMut,
	"fn":       KwFn,
	"if":       KwIf,
	"else":     KwElse,
	"loop":     KwLoop,
	"while":    KwWhile,
	"for":      KwFor,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"true":     KwTrue,
	"false":    KwFalse,
	"mod":      KwMod,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

package lexer

import "rym/internal/token"

type glueRule struct {
	next token.PrimKind
	kind token.Kind
}

type punctRule struct {
	single token.Kind
	glue   []glueRule
}

// punctRules: одиночный символ и склейки с непосредственно следующим
// примитивным токеном. Между частями составного оператора пробелов нет.
var punctRules = map[token.PrimKind]punctRule{
	token.PrimSemi:  {single: token.Semi},
	token.PrimComma: {single: token.Comma},
	token.PrimColon: {single: token.Colon, glue: []glueRule{
		{token.PrimColon, token.ColonColon},
	}},
	token.PrimDot: {single: token.Dot, glue: []glueRule{
		{token.PrimDot, token.DotDot},
	}},
	token.PrimPipe: {single: token.Or, glue: []glueRule{
		{token.PrimPipe, token.OrOr},
	}},
	token.PrimAnd: {single: token.And, glue: []glueRule{
		{token.PrimAnd, token.AndAnd},
	}},
	token.PrimPlus: {single: token.Plus, glue: []glueRule{
		{token.PrimEq, token.PlusEq},
	}},
	token.PrimMinus: {single: token.Minus, glue: []glueRule{
		{token.PrimEq, token.MinusEq},
		{token.PrimGreater, token.ThinArrow},
	}},
	token.PrimStar: {single: token.Star, glue: []glueRule{
		{token.PrimEq, token.StarEq},
	}},
	token.PrimSlash: {single: token.Slash, glue: []glueRule{
		{token.PrimEq, token.SlashEq},
	}},
	token.PrimPercent: {single: token.Percent, glue: []glueRule{
		{token.PrimEq, token.PercentEq},
	}},
	token.PrimEq: {single: token.Eq, glue: []glueRule{
		{token.PrimEq, token.EqEq},
		{token.PrimGreater, token.FatArrow},
	}},
	token.PrimBang: {single: token.Bang, glue: []glueRule{
		{token.PrimEq, token.BangEq},
	}},
	token.PrimLessThan: {single: token.Lt, glue: []glueRule{
		{token.PrimEq, token.LtEq},
	}},
	token.PrimGreater: {single: token.Gt, glue: []glueRule{
		{token.PrimEq, token.GtEq},
	}},

	token.PrimOpenParen:    {single: token.LParen},
	token.PrimCloseParen:   {single: token.RParen},
	token.PrimOpenBrace:    {single: token.LBrace},
	token.PrimCloseBrace:   {single: token.RBrace},
	token.PrimOpenBracket:  {single: token.LBracket},
	token.PrimCloseBracket: {single: token.RBracket},
}

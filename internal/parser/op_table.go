package parser

import (
	"rym/internal/ast"
	"rym/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precAssignment     = 1 // = += -= *= /= %=
	precLogicalOr      = 2 // ||
	precLogicalAnd     = 3 // &&
	precEquality       = 4 // == !=
	precComparison     = 5 // < <= > >=
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * / %
)

type opClass uint8

const (
	opBinary opClass = iota
	opLogical
	opAssign
)

// infixOp описывает инфиксный оператор; добавление оператора - это
// новая строка в binaryOps, а не новая функция разбора.
type infixOp struct {
	prec       int
	rightAssoc bool
	class      opClass
	binary     ast.BinaryOp
	logical    ast.LogicalOp
	assign     ast.AssignOp
}

var binaryOps = map[token.Kind]infixOp{
	// Присваивание (правоассоциативно)
	token.Eq:        {prec: precAssignment, rightAssoc: true, class: opAssign, assign: ast.AssignSet},
	token.PlusEq:    {prec: precAssignment, rightAssoc: true, class: opAssign, assign: ast.AssignAdd},
	token.MinusEq:   {prec: precAssignment, rightAssoc: true, class: opAssign, assign: ast.AssignSub},
	token.StarEq:    {prec: precAssignment, rightAssoc: true, class: opAssign, assign: ast.AssignMul},
	token.SlashEq:   {prec: precAssignment, rightAssoc: true, class: opAssign, assign: ast.AssignDiv},
	token.PercentEq: {prec: precAssignment, rightAssoc: true, class: opAssign, assign: ast.AssignRem},

	token.OrOr:   {prec: precLogicalOr, class: opLogical, logical: ast.LogicalOr},
	token.AndAnd: {prec: precLogicalAnd, class: opLogical, logical: ast.LogicalAnd},

	token.EqEq:   {prec: precEquality, binary: ast.BinEq},
	token.BangEq: {prec: precEquality, binary: ast.BinNe},

	token.Lt:   {prec: precComparison, binary: ast.BinLt},
	token.LtEq: {prec: precComparison, binary: ast.BinLe},
	token.Gt:   {prec: precComparison, binary: ast.BinGt},
	token.GtEq: {prec: precComparison, binary: ast.BinGe},

	token.Plus:  {prec: precAdditive, binary: ast.BinAdd},
	token.Minus: {prec: precAdditive, binary: ast.BinSub},

	token.Star:    {prec: precMultiplicative, binary: ast.BinMul},
	token.Slash:   {prec: precMultiplicative, binary: ast.BinDiv},
	token.Percent: {prec: precMultiplicative, binary: ast.BinRem},
}

// getBinaryOperatorPrec возвращает оператор и признак того, что токен инфиксный.
func getBinaryOperatorPrec(kind token.Kind) (infixOp, bool) {
	op, ok := binaryOps[kind]
	return op, ok
}

// getUnaryOperator - префиксные операторы.
func getUnaryOperator(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Bang:
		return ast.UnaryNot, true
	case token.Minus:
		return ast.UnaryNeg, true
	default:
		return 0, false
	}
}

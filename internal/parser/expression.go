package parser

import (
	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
)

// exprCtx - ограничения контекста выражения.
type exprCtx uint8

const (
	ctxDefault exprCtx = 0
	// ctxNoRecord: условие if/while, где `x {` открывает блок, а не запись.
	ctxNoRecord exprCtx = 1 << iota
)

// parseExpr - главная точка входа для парсинга выражений.
// Всегда возвращает валидный ExprID; на ошибке это Error-узел.
func (p *Parser) parseExpr() ast.ExprID {
	return p.parseBinaryExpr(0, ctxDefault)
}

func (p *Parser) parseExprCtx(ctx exprCtx) ast.ExprID {
	return p.parseBinaryExpr(0, ctx)
}

// parseBinaryExpr реализует precedence climbing по таблице binaryOps.
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int, ctx exprCtx) ast.ExprID {
	left := p.parseUnaryExpr(ctx)
	if p.isErrorExpr(left) {
		return left
	}

	for {
		op, ok := getBinaryOperatorPrec(p.peek().Kind)
		if !ok || op.prec < minPrec {
			break
		}
		p.bump()
		// после оператора выражение может продолжиться на следующей строке
		p.skipNewlines()

		nextMinPrec := op.prec + 1
		if op.rightAssoc {
			nextMinPrec = op.prec
		}
		right := p.parseBinaryExpr(nextMinPrec, ctx)
		left = p.makeInfix(op, left, right)
	}
	return left
}

func (p *Parser) makeInfix(op infixOp, left, right ast.ExprID) ast.ExprID {
	sp := p.span(left).Cover(p.span(right))
	switch op.class {
	case opAssign:
		if !p.b.Exprs.IsPlace(left) && !p.isErrorExpr(left) {
			target := p.span(left)
			p.report(diag.SynInvalidAssignTarget, target, "Invalid assignment target").
				WithLabel(target, "cannot assign to this expression").
				WithNote("Only identifiers, fields and index expressions can be assigned to").
				Emit()
		}
		return p.b.Exprs.NewAssign(sp, op.assign, left, right)
	case opLogical:
		return p.b.Exprs.NewLogical(sp, op.logical, left, right)
	default:
		return p.b.Exprs.NewBinary(sp, op.binary, left, right)
	}
}

func (p *Parser) isErrorExpr(id ast.ExprID) bool {
	e := p.b.Exprs.Get(id)
	return e != nil && e.Kind == ast.ExprError
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы).
// Каждый префикс даёт отдельный узел: `--3` это Neg(Neg(3)).
func (p *Parser) parseUnaryExpr(ctx exprCtx) ast.ExprID {
	tok := p.peek()
	op, ok := getUnaryOperator(tok.Kind)
	if !ok {
		return p.parsePostfixExpr(ctx)
	}
	p.bump()
	operand := p.parseUnaryExpr(ctx)
	return p.b.Exprs.NewUnary(tok.Span.Cover(p.span(operand)), op, operand)
}

// parsePostfixExpr: вызовы, доступ к полю и индексация, цепочкой слева направо.
func (p *Parser) parsePostfixExpr(ctx exprCtx) ast.ExprID {
	expr := p.parsePrimaryExpr(ctx)
	if p.isErrorExpr(expr) {
		return expr
	}
	for {
		t, ok := p.peekTree()
		if !ok {
			return expr
		}
		switch {
		case t.Group != nil && t.Group.Delim == token.DelimParen:
			expr = p.parseCallExpr(expr)
		case t.Group != nil && t.Group.Delim == token.DelimBracket:
			expr = p.parseIndexExpr(expr)
		case t.Token.Kind == token.Dot:
			expr = p.parseFieldExpr(expr)
			if p.isErrorExpr(expr) {
				return expr
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallExpr(callee ast.ExprID) ast.ExprID {
	errs := p.errors
	g, _ := p.enterGroup(token.DelimParen, true)
	args, _ := p.parseExprList()
	p.leave(errs)
	return p.b.Exprs.NewCall(p.span(callee).Cover(g.Span.Entire), callee, args)
}

func (p *Parser) parseIndexExpr(target ast.ExprID) ast.ExprID {
	errs := p.errors
	g, _ := p.enterGroup(token.DelimBracket, true)
	var index ast.ExprID
	if p.atEnd() {
		index = p.b.Exprs.NewError(p.expected(diag.SynExpectExpression, "expression"))
	} else {
		index = p.parseExpr()
	}
	// `a[1 2]`: индекс вместе с хвостом становится одним Error-узлом
	if p.skipNewlines(); !p.atEnd() && p.errors == errs {
		sp := p.skipExpectedFrom(p.span(index), diag.SynUnexpectedToken, "`]`", never)
		index = p.b.Exprs.NewError(sp)
	}
	p.leave(errs)
	return p.b.Exprs.NewIndex(p.span(target).Cover(g.Span.Entire), target, index)
}

func (p *Parser) parseFieldExpr(target ast.ExprID) ast.ExprID {
	p.bump() // .
	if !p.at(token.Ident) {
		return p.b.Exprs.NewError(p.expected(diag.SynExpectIdentifier, "identifier"))
	}
	name := p.bump().Token
	sp := p.span(target).Cover(name.Span)
	return p.b.Exprs.NewField(sp, target, p.intern(name), name.Span)
}

// parseExprList разбирает элементы через запятую до конца текущего кадра.
// Пропущенная запятая репортится, но разбор продолжается: `f(1 2 3)`
// даёт три аргумента. trailing - последний элемент завершён запятой.
func (p *Parser) parseExprList() (elems []ast.ExprID, trailing bool) {
	p.parseCommaList(func() {
		elems = append(elems, p.parseExpr())
	}, &trailing)
	return elems, trailing
}

// parseCommaList - общий цикл для аргументов, параметров, элементов и полей.
// Хвост сломанного элемента пропускается до запятой без новых диагностик.
func (p *Parser) parseCommaList(elem func(), trailing *bool) {
	for !p.atEnd() {
		errs := p.errors
		elem()
		*trailing = false
		if p.errors != errs {
			for !p.atEnd() && !p.at(token.Comma) {
				p.bump()
			}
		}
		if p.atEnd() {
			return
		}
		if p.at(token.Comma) {
			p.bump()
			*trailing = true
			continue
		}
		p.expected(diag.SynExpectComma, "`,`")
	}
}

// canStartExpr - может ли токен начинать выражение.
func canStartExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.CharLit,
		token.KwTrue, token.KwFalse,
		token.LParen, token.LBracket, token.LBrace,
		token.Bang, token.Minus,
		token.KwIf, token.KwWhile, token.KwLoop, token.KwFor,
		token.KwBreak, token.KwContinue, token.KwReturn:
		return true
	}
	return false
}

// exprEnd возвращает span от start до последнего съеденного дерева.
func (p *Parser) exprEnd(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

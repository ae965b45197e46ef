package ast

import (
	"strconv"
	"strings"
)

// Sexpr renders a node as a compact S-expression, e.g. `(+ 1 (* 2 3))`.
// Used by tests and `rym parse --format sexpr`.
func Sexpr(b *Builder, n Node) string {
	var sb strings.Builder
	b.writeSexpr(&sb, n)
	return sb.String()
}

func (b *Builder) writeSexpr(sb *strings.Builder, n Node) {
	switch n.Kind {
	case NodeFile:
		b.writeList(sb, b.Children(n))
	case NodeItem:
		b.writeItem(sb, n.Item)
	case NodeStmt:
		s := b.Stmts.Get(n.Stmt)
		switch {
		case s == nil || s.Kind == StmtError:
			sb.WriteString("(error)")
		case s.Kind == StmtItem:
			b.writeItem(sb, s.Item)
		case s.Semi:
			sb.WriteString("(semi ")
			b.writeSexpr(sb, ExprNode(s.Expr))
			sb.WriteByte(')')
		default:
			b.writeSexpr(sb, ExprNode(s.Expr))
		}
	case NodeExpr:
		b.writeExpr(sb, n.Expr)
	}
}

func (b *Builder) writeList(sb *strings.Builder, nodes []Node) {
	for i, child := range nodes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		b.writeSexpr(sb, child)
	}
}

func (b *Builder) writeForm(sb *strings.Builder, head string, nodes []Node) {
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, child := range nodes {
		sb.WriteByte(' ')
		b.writeSexpr(sb, child)
	}
	sb.WriteByte(')')
}

func (b *Builder) writeItem(sb *strings.Builder, id ItemID) {
	item := b.Items.Get(id)
	if item == nil {
		sb.WriteString("(error)")
		return
	}
	name := b.Name(item.Name)
	switch item.Kind {
	case ItemModule:
		b.writeForm(sb, "mod "+name, b.Children(ItemNode(id)))
	case ItemFunc:
		fn, _ := b.Items.Func(id)
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, b.Name(p.Name))
		}
		b.writeForm(sb, "fn "+name+" ("+strings.Join(params, " ")+")", b.Children(ItemNode(id)))
	case ItemBinding:
		bind, _ := b.Items.Binding(id)
		head := "const "
		if bind.Mutable {
			head = "mut "
		}
		b.writeForm(sb, head+name, b.Children(ItemNode(id)))
	}
}

func (b *Builder) writeExpr(sb *strings.Builder, id ExprID) {
	expr := b.Exprs.Get(id)
	if expr == nil {
		sb.WriteString("(error)")
		return
	}
	children := b.Children(ExprNode(id))
	switch expr.Kind {
	case ExprError:
		sb.WriteString("(error)")
	case ExprIdent:
		d, _ := b.Exprs.Ident(id)
		sb.WriteString(b.Name(d.Name))
	case ExprLit:
		d, _ := b.Exprs.Literal(id)
		sb.WriteString(FormatLiteral(d))
	case ExprRecord:
		d, _ := b.Exprs.Record(id)
		sb.WriteString("(record ")
		sb.WriteString(b.Name(d.Name))
		for _, f := range d.Fields {
			name := b.Name(f.Name)
			if name == "" {
				name = "_" // поле без имени после восстановления
			}
			sb.WriteString(" (")
			sb.WriteString(name)
			sb.WriteByte(' ')
			b.writeExpr(sb, f.Value)
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	case ExprAssign:
		d, _ := b.Exprs.Assign(id)
		b.writeForm(sb, d.Op.String(), children)
	case ExprLogical:
		d, _ := b.Exprs.Logical(id)
		b.writeForm(sb, d.Op.String(), children)
	case ExprBinary:
		d, _ := b.Exprs.Binary(id)
		b.writeForm(sb, d.Op.String(), children)
	case ExprUnary:
		d, _ := b.Exprs.Unary(id)
		b.writeForm(sb, d.Op.String(), children)
	case ExprField:
		d, _ := b.Exprs.Field(id)
		sb.WriteString("(. ")
		b.writeExpr(sb, d.Target)
		sb.WriteByte(' ')
		sb.WriteString(b.Name(d.Name))
		sb.WriteByte(')')
	default:
		b.writeForm(sb, strings.ToLower(expr.Kind.String()), children)
	}
}

// FormatLiteral renders a literal the way it would be written in source.
func FormatLiteral(d *ExprLiteralData) string {
	switch d.Kind {
	case LitInt:
		return strconv.FormatInt(d.Int, 10)
	case LitFloat:
		s := strconv.FormatFloat(d.Float, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case LitString:
		return strconv.Quote(d.Str)
	case LitChar:
		return strconv.QuoteRune(d.Char)
	case LitBool:
		return strconv.FormatBool(d.Bool)
	}
	return "?"
}

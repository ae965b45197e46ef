package ast

import "rym/internal/source"

// NodeKind selects which ID of a Node is meaningful.
type NodeKind uint8

const (
	NodeFile NodeKind = iota
	NodeItem
	NodeStmt
	NodeExpr
)

// Node is a reference to any AST node.
type Node struct {
	Kind NodeKind
	File FileID
	Item ItemID
	Stmt StmtID
	Expr ExprID
}

func FileNode(id FileID) Node { return Node{Kind: NodeFile, File: id} }
func ItemNode(id ItemID) Node { return Node{Kind: NodeItem, Item: id} }
func StmtNode(id StmtID) Node { return Node{Kind: NodeStmt, Stmt: id} }
func ExprNode(id ExprID) Node { return Node{Kind: NodeExpr, Expr: id} }

// IsError reports whether the node is an Error expression or statement.
func (b *Builder) IsError(n Node) bool {
	switch n.Kind {
	case NodeExpr:
		e := b.Exprs.Get(n.Expr)
		return e != nil && e.Kind == ExprError
	case NodeStmt:
		s := b.Stmts.Get(n.Stmt)
		return s != nil && s.Kind == StmtError
	}
	return false
}

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with w.
type Visitor interface {
	Visit(b *Builder, n Node) (w Visitor)
}

// Walk traverses the tree in depth-first order. Children are computed
// after Visit returns, so a visitor may rewrite the node it is given.
func Walk(v Visitor, b *Builder, n Node) {
	if v = v.Visit(b, n); v == nil {
		return
	}
	for _, child := range b.Children(n) {
		Walk(v, b, child)
	}
}

type inspector func(*Builder, Node) bool

func (f inspector) Visit(b *Builder, n Node) Visitor {
	if f(b, n) {
		return f
	}
	return nil
}

// Inspect calls f for every node; returning false skips the children.
func Inspect(b *Builder, n Node, f func(*Builder, Node) bool) {
	Walk(inspector(f), b, n)
}

// Children returns the direct children of n in source order.
func (b *Builder) Children(n Node) []Node {
	switch n.Kind {
	case NodeFile:
		if f := b.Files.Get(n.File); f != nil {
			return stmtNodes(f.Stmts)
		}
	case NodeItem:
		return b.itemChildren(n.Item)
	case NodeStmt:
		s := b.Stmts.Get(n.Stmt)
		if s == nil {
			return nil
		}
		switch s.Kind {
		case StmtItem:
			return []Node{ItemNode(s.Item)}
		case StmtExpr:
			return []Node{ExprNode(s.Expr)}
		}
	case NodeExpr:
		return b.exprChildren(n.Expr)
	}
	return nil
}

func (b *Builder) itemChildren(id ItemID) []Node {
	item := b.Items.Get(id)
	if item == nil {
		return nil
	}
	switch item.Kind {
	case ItemModule:
		if m, ok := b.Items.Module(id); ok {
			return stmtNodes(m.Stmts)
		}
	case ItemFunc:
		if fn, ok := b.Items.Func(id); ok {
			return exprNodes(fn.Body)
		}
	case ItemBinding:
		if bind, ok := b.Items.Binding(id); ok {
			return exprNodes(bind.Value)
		}
	}
	return nil
}

func (b *Builder) exprChildren(id ExprID) []Node {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return nil
	}
	x := b.Exprs
	switch expr.Kind {
	case ExprRecord:
		r, _ := x.Record(id)
		out := make([]Node, 0, len(r.Fields))
		for _, f := range r.Fields {
			out = append(out, ExprNode(f.Value))
		}
		return out
	case ExprGroup:
		g, _ := x.Group(id)
		return exprNodes(g.Inner)
	case ExprBlock:
		blk, _ := x.Block(id)
		return stmtNodes(blk.Stmts)
	case ExprArray, ExprTuple:
		l, _ := x.List(id)
		return exprNodes(l.Elements...)
	case ExprIf:
		d, _ := x.If(id)
		return exprNodes(d.Cond, d.Then, d.Else)
	case ExprWhile:
		d, _ := x.While(id)
		return exprNodes(d.Cond, d.Body)
	case ExprLoop:
		d, _ := x.Loop(id)
		return exprNodes(d.Body)
	case ExprBreak, ExprReturn:
		d, _ := x.Jump(id)
		return exprNodes(d.Value)
	case ExprAssign:
		d, _ := x.Assign(id)
		return exprNodes(d.Target, d.Value)
	case ExprLogical:
		d, _ := x.Logical(id)
		return exprNodes(d.Left, d.Right)
	case ExprBinary:
		d, _ := x.Binary(id)
		return exprNodes(d.Left, d.Right)
	case ExprUnary:
		d, _ := x.Unary(id)
		return exprNodes(d.Operand)
	case ExprCall:
		d, _ := x.Call(id)
		return exprNodes(append([]ExprID{d.Callee}, d.Args...)...)
	case ExprField:
		d, _ := x.Field(id)
		return exprNodes(d.Target)
	case ExprIndex:
		d, _ := x.Index(id)
		return exprNodes(d.Target, d.Index)
	}
	return nil
}

// exprNodes skips NoExprID entries.
func exprNodes(ids ...ExprID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if id.IsValid() {
			out = append(out, ExprNode(id))
		}
	}
	return out
}

func stmtNodes(ids []StmtID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, StmtNode(id))
	}
	return out
}

// NodeSpan returns the span of n, or source.DummySpan for a dangling id.
func (b *Builder) NodeSpan(n Node) source.Span {
	switch n.Kind {
	case NodeFile:
		if f := b.Files.Get(n.File); f != nil {
			return f.Span
		}
	case NodeItem:
		if it := b.Items.Get(n.Item); it != nil {
			return it.Span
		}
	case NodeStmt:
		if s := b.Stmts.Get(n.Stmt); s != nil {
			return s.Span
		}
	case NodeExpr:
		if e := b.Exprs.Get(n.Expr); e != nil {
			return e.Span
		}
	}
	return source.DummySpan
}

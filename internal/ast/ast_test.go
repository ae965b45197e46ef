package ast

import (
	"testing"

	"rym/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func intLit(b *Builder, v int64) ExprID {
	return b.Exprs.NewLiteral(sp(0, 1), ExprLiteralData{Kind: LitInt, Int: v})
}

func ident(b *Builder, name string) ExprID {
	return b.Exprs.NewIdent(sp(0, 1), b.Strings.Intern(name))
}

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatal("empty arena must return nil")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 || a.Len() != 1 {
		t.Fatalf("id=%d value=%v len=%d", id, a.Get(id), a.Len())
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	lit := intLit(b, 1)
	if _, ok := b.Exprs.Binary(lit); ok {
		t.Fatal("Binary() accepted a literal")
	}
	if d, ok := b.Exprs.Literal(lit); !ok || d.Int != 1 {
		t.Fatalf("Literal() = %+v, %v", d, ok)
	}
	if _, ok := b.Exprs.Literal(NoExprID); ok {
		t.Fatal("NoExprID must not resolve")
	}
}

func TestBlockValue(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := ident(b, "x")
	tail := b.Stmts.NewExpr(sp(0, 1), x, false)
	withValue := b.Exprs.NewBlock(sp(0, 3), []StmtID{tail})
	if v, ok := b.BlockValue(withValue); !ok || v != x {
		t.Fatalf("BlockValue = %d, %v", v, ok)
	}

	semi := b.Stmts.NewExpr(sp(0, 2), x, true)
	unit := b.Exprs.NewBlock(sp(0, 4), []StmtID{semi})
	if _, ok := b.BlockValue(unit); ok {
		t.Fatal("statement with `;` must not be the block value")
	}
	empty := b.Exprs.NewBlock(sp(0, 2), nil)
	if _, ok := b.BlockValue(empty); ok {
		t.Fatal("empty block has unit value")
	}
}

// buildSample: fn f(a) { -(-a) + [1, (2)] }; mut m = !!!c
func buildSample(b *Builder) FileID {
	file := b.NewFile(sp(0, 50))

	a := ident(b, "a")
	negNeg := b.Exprs.NewUnary(sp(0, 1), UnaryNeg, b.Exprs.NewUnary(sp(0, 1), UnaryNeg, a))
	arr := b.Exprs.NewArray(sp(0, 1), []ExprID{intLit(b, 1), b.Exprs.NewGroup(sp(0, 1), intLit(b, 2))})
	sum := b.Exprs.NewBinary(sp(0, 1), BinAdd, negNeg, arr)
	body := b.Exprs.NewBlock(sp(0, 1), []StmtID{b.Stmts.NewExpr(sp(0, 1), sum, false)})
	fn := b.Items.NewFunc(sp(0, 1), b.Strings.Intern("f"), sp(0, 1), []Param{{Name: b.Strings.Intern("a")}}, body)
	b.PushStmt(file, b.Stmts.NewItem(sp(0, 1), fn))

	c := ident(b, "c")
	not3 := b.Exprs.NewUnary(sp(0, 1), UnaryNot,
		b.Exprs.NewUnary(sp(0, 1), UnaryNot,
			b.Exprs.NewUnary(sp(0, 1), UnaryNot, c)))
	bind := b.Items.NewBinding(sp(0, 1), b.Strings.Intern("m"), sp(0, 1), true, not3)
	b.PushStmt(file, b.Stmts.NewItem(sp(0, 1), bind))

	b.PushStmt(file, b.Stmts.NewError(sp(0, 1)))
	return file
}

func TestSexpr(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := buildSample(b)
	want := "(fn f (a) (block (+ (- (- a)) (array 1 (group 2))))) (mut m (! (! (! c)))) (error)"
	if got := Sexpr(b, FileNode(file)); got != want {
		t.Fatalf("sexpr:\n got %s\nwant %s", got, want)
	}
}

func TestCountNodesSkipsErrors(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := buildSample(b)
	// stmt+fn+block+stmt+binary+neg+neg+a+array+1+group+2 = 12
	// stmt+binding+!+!+!+c = 6
	if got := CountNodes(b, file); got != 18 {
		t.Fatalf("CountNodes = %d, want 18", got)
	}
}

func TestNormalize(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := buildSample(b)
	if n := Normalize(b, file); n != 2 {
		t.Fatalf("Normalize rewrote %d chains, want 2", n)
	}
	want := "(fn f (a) (block (+ a (array 1 (group 2))))) (mut m (! c)) (error)"
	if got := Sexpr(b, FileNode(file)); got != want {
		t.Fatalf("after normalize:\n got %s\nwant %s", got, want)
	}
	if n := Normalize(b, file); n != 0 {
		t.Fatalf("second pass rewrote %d chains", n)
	}
}

func TestNormalizeMixedChain(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := b.NewFile(sp(0, 10))
	// --!!x → x
	x := ident(b, "x")
	e := b.Exprs.NewUnary(sp(0, 1), UnaryNeg,
		b.Exprs.NewUnary(sp(0, 1), UnaryNeg,
			b.Exprs.NewUnary(sp(0, 1), UnaryNot,
				b.Exprs.NewUnary(sp(0, 1), UnaryNot, x))))
	b.PushStmt(file, b.Stmts.NewExpr(sp(0, 5), e, false))
	Normalize(b, file)
	if got := Sexpr(b, FileNode(file)); got != "x" {
		t.Fatalf("got %s, want x", got)
	}
}

type kindCounter map[ExprKind]int

func (c kindCounter) Visit(b *Builder, n Node) Visitor {
	if n.Kind == NodeExpr {
		c[b.Exprs.Get(n.Expr).Kind]++
	}
	return c
}

func TestWalkVisitsAllExprs(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file := buildSample(b)
	counts := kindCounter{}
	Walk(counts, b, FileNode(file))
	if counts[ExprUnary] != 5 || counts[ExprIdent] != 2 || counts[ExprLit] != 2 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		lit  ExprLiteralData
		want string
	}{
		{ExprLiteralData{Kind: LitInt, Int: -3}, "-3"},
		{ExprLiteralData{Kind: LitFloat, Float: 2}, "2.0"},
		{ExprLiteralData{Kind: LitFloat, Float: 1.25}, "1.25"},
		{ExprLiteralData{Kind: LitString, Str: "a\"b"}, `"a\"b"`},
		{ExprLiteralData{Kind: LitChar, Char: 'x'}, "'x'"},
		{ExprLiteralData{Kind: LitBool, Bool: true}, "true"},
	}
	for _, tt := range tests {
		if got := FormatLiteral(&tt.lit); got != tt.want {
			t.Errorf("FormatLiteral(%+v) = %q, want %q", tt.lit, got, tt.want)
		}
	}
}

package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rym/internal/ast"
	"rym/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

// FormatASTPretty печатает AST файла деревом:
//
//	File main.rym (span: 1:1-3:1)
//	└─ Binding mut x (span: 1:1-1:10)
//	   └─ Lit 1 (span: 1:9-1:10)
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}

	header := "File"
	if fs != nil {
		if src := fs.Get(file.Span.File); src != nil {
			header += " " + src.FormatPath("auto", fs.BaseDir())
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (span: %s)\n", header, formatSpan(file.Span, fs))
	writeASTChildren(&sb, builder, ast.FileNode(fileID), fs, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeASTChildren(sb *strings.Builder, b *ast.Builder, n ast.Node, fs *source.FileSet, prefix string) {
	children := visibleChildren(b, n)
	for i, child := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(sb, "%s%s%s (span: %s)\n", prefix, branch, nodeLabel(b, child), formatSpan(b.NodeSpan(child), fs))
		writeASTChildren(sb, b, child, fs, prefix+next)
	}
}

// visibleChildren пропускает обёртки StmtItem/StmtExpr без `;`: в дампе
// они только удлиняли бы дерево.
func visibleChildren(b *ast.Builder, n ast.Node) []ast.Node {
	var out []ast.Node
	for _, child := range b.Children(n) {
		if child.Kind == ast.NodeStmt {
			if s := b.Stmts.Get(child.Stmt); s != nil && !s.Semi && s.Kind != ast.StmtError {
				out = append(out, b.Children(child)...)
				continue
			}
		}
		out = append(out, child)
	}
	return out
}

func nodeLabel(b *ast.Builder, n ast.Node) string {
	switch n.Kind {
	case ast.NodeFile:
		return "File"
	case ast.NodeItem:
		return itemLabel(b, n.Item)
	case ast.NodeStmt:
		s := b.Stmts.Get(n.Stmt)
		switch {
		case s == nil || s.Kind == ast.StmtError:
			return "Error"
		case s.Semi:
			return "Stmt;"
		default:
			return "Stmt"
		}
	case ast.NodeExpr:
		return exprLabel(b, n.Expr)
	}
	return "?"
}

func itemLabel(b *ast.Builder, id ast.ItemID) string {
	item := b.Items.Get(id)
	if item == nil {
		return "Item <nil>"
	}
	name := b.Name(item.Name)
	switch item.Kind {
	case ast.ItemFunc:
		fn, _ := b.Items.Func(id)
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = b.Name(p.Name)
		}
		return fmt.Sprintf("Func %s(%s)", name, strings.Join(params, ", "))
	case ast.ItemBinding:
		bind, _ := b.Items.Binding(id)
		if bind.Mutable {
			return "Binding mut " + name
		}
		return "Binding const " + name
	default:
		return item.Kind.String() + " " + name
	}
}

func exprLabel(b *ast.Builder, id ast.ExprID) string {
	e := b.Exprs.Get(id)
	if e == nil {
		return "Expr <nil>"
	}
	kind := e.Kind.String()
	if detail := exprDetail(b, id, e.Kind); detail != "" {
		return kind + " " + detail
	}
	return kind
}

// exprDetail - полезная нагрузка узла для дампа: имя, литерал или оператор.
func exprDetail(b *ast.Builder, id ast.ExprID, kind ast.ExprKind) string {
	x := b.Exprs
	switch kind {
	case ast.ExprIdent:
		d, _ := x.Ident(id)
		return b.Name(d.Name)
	case ast.ExprLit:
		d, _ := x.Literal(id)
		return ast.FormatLiteral(d)
	case ast.ExprRecord:
		d, _ := x.Record(id)
		fields := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = b.Name(f.Name)
		}
		return fmt.Sprintf("%s {%s}", b.Name(d.Name), strings.Join(fields, ", "))
	case ast.ExprAssign:
		d, _ := x.Assign(id)
		return d.Op.String()
	case ast.ExprLogical:
		d, _ := x.Logical(id)
		return d.Op.String()
	case ast.ExprBinary:
		d, _ := x.Binary(id)
		return d.Op.String()
	case ast.ExprUnary:
		d, _ := x.Unary(id)
		return d.Op.String()
	case ast.ExprField:
		d, _ := x.Field(id)
		return "." + b.Name(d.Name)
	}
	return ""
}

func nodeJSON(b *ast.Builder, n ast.Node) ASTNodeOutput {
	out := ASTNodeOutput{Span: b.NodeSpan(n)}
	switch n.Kind {
	case ast.NodeFile:
		out.Type = "File"
	case ast.NodeItem:
		out.Type = "Item"
		item := b.Items.Get(n.Item)
		out.Kind = item.Kind.String()
		out.Text = b.Name(item.Name)
		switch item.Kind {
		case ast.ItemFunc:
			fn, _ := b.Items.Func(n.Item)
			params := make([]string, len(fn.Params))
			for i, p := range fn.Params {
				params[i] = b.Name(p.Name)
			}
			out.Fields = map[string]any{"params": params}
		case ast.ItemBinding:
			bind, _ := b.Items.Binding(n.Item)
			out.Fields = map[string]any{"mutable": bind.Mutable}
		}
	case ast.NodeStmt:
		out.Type = "Stmt"
		s := b.Stmts.Get(n.Stmt)
		out.Kind = s.Kind.String()
		if s.Semi {
			out.Fields = map[string]any{"semi": true}
		}
	case ast.NodeExpr:
		out.Type = "Expr"
		e := b.Exprs.Get(n.Expr)
		out.Kind = e.Kind.String()
		out.Text = exprDetail(b, n.Expr, e.Kind)
	}
	for _, child := range b.Children(n) {
		out.Children = append(out.Children, nodeJSON(b, child))
	}
	return out
}

// FormatASTJSON выводит AST файла в JSON, узел за узлом.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	if builder.Files.Get(fileID) == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodeJSON(builder, ast.FileNode(fileID)))
}

// FormatASTSexpr печатает каждый верхнеуровневый оператор отдельной
// S-expression строкой.
func FormatASTSexpr(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	var sb strings.Builder
	for _, stmt := range file.Stmts {
		sb.WriteString(ast.Sexpr(builder, ast.StmtNode(stmt)))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

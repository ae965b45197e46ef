// Package testkit holds structural checks shared by parser and driver tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"rym/internal/ast"
	"rym/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) the file span starts at 0 and ends at the end of the content
// 2) every non-Error node span is non-empty and belongs to sf
// 3) every non-Error child span lies inside its parent span
//
// Error nodes and their subtrees are skipped: a recovery node may point at
// the token the parser stopped on, which is past the parent's last tree.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	// 1) file span sanity
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.Start != 0 || f.Span.End != lenContent {
		return fmt.Errorf("file span %v does not cover content [0, %d)", f.Span, lenContent)
	}

	// 2) + 3) обход с проверкой вложенности
	var check func(parent source.Span, n ast.Node) error
	check = func(parent source.Span, n ast.Node) error {
		for _, child := range b.Children(n) {
			if b.IsError(child) {
				continue
			}
			sp := b.NodeSpan(child)
			if sp.End <= sp.Start {
				return fmt.Errorf("empty span %v for %s", sp, ast.Sexpr(b, child))
			}
			if sp.File != sf.ID {
				return fmt.Errorf("span file mismatch for %s: got=%d want=%d", ast.Sexpr(b, child), sp.File, sf.ID)
			}
			if sp.Start < parent.Start || sp.End > parent.End {
				return fmt.Errorf("span %v of %s is outside parent span %v", sp, ast.Sexpr(b, child), parent)
			}
			if err := check(sp, child); err != nil {
				return err
			}
		}
		return nil
	}
	return check(f.Span, ast.FileNode(fileID))
}

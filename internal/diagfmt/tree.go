package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rym/internal/source"
	"rym/internal/tt"
)

// TreeOutput - JSON-представление дерева токенов.
type TreeOutput struct {
	Kind     string       `json:"kind"`
	Value    string       `json:"value,omitempty"`
	Span     source.Span  `json:"span"`
	Unclosed bool         `json:"unclosed,omitempty"`
	Children []TreeOutput `json:"children,omitempty"`
}

// FormatTreePretty печатает дерево токенов с отступом по вложенности.
// Группа печатается как её разделитель, содержимое - на уровень глубже.
func FormatTreePretty(w io.Writer, stream tt.TokenStream, fs *source.FileSet) error {
	var sb strings.Builder
	writeTreeLevel(&sb, stream, fs, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTreeLevel(sb *strings.Builder, stream tt.TokenStream, fs *source.FileSet, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, tree := range stream.Trees {
		if tree.Group == nil {
			fmt.Fprintf(sb, "%s%s", indent, tree.Token.Kind)
			if v := tokenValue(tree.Token); v != "" {
				sb.WriteString(" " + v)
			}
			fmt.Fprintf(sb, " %s\n", formatSpan(tree.Token.Span, fs))
			continue
		}
		g := tree.Group
		fmt.Fprintf(sb, "%s%s %s", indent, g.Delim, formatSpan(g.Span.Entire, fs))
		if g.Unclosed {
			sb.WriteString(" (unclosed)")
		}
		sb.WriteByte('\n')
		writeTreeLevel(sb, g.Stream, fs, depth+1)
	}
}

func treeOutputs(stream tt.TokenStream) []TreeOutput {
	out := make([]TreeOutput, 0, len(stream.Trees))
	for _, tree := range stream.Trees {
		if tree.Group == nil {
			out = append(out, TreeOutput{
				Kind:  tree.Token.Kind.String(),
				Value: tokenValue(tree.Token),
				Span:  tree.Token.Span,
			})
			continue
		}
		out = append(out, TreeOutput{
			Kind:     tree.Group.Delim.String(),
			Span:     tree.Group.Span.Entire,
			Unclosed: tree.Group.Unclosed,
			Children: treeOutputs(tree.Group.Stream),
		})
	}
	return out
}

// FormatTreeJSON выводит дерево токенов в JSON.
func FormatTreeJSON(w io.Writer, stream tt.TokenStream) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(treeOutputs(stream))
}

// formatSpan: "line:col-line:col", без FileSet - байтовые смещения.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

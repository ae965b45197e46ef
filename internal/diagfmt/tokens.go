package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"rym/internal/source"
	"rym/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Value string      `json:"value,omitempty"`
	Span  source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%3d: %-12s", i+1, tok.Kind.String())
		if v := tokenValue(tok); v != "" {
			line += " " + v
		}
		line += fmt.Sprintf(" at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// tokenValue - полезная нагрузка литералов и идентификаторов; для
// пунктуации пусто, т.к. её вид уже однозначен.
func tokenValue(tok token.Token) string {
	switch tok.Kind {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.CharLit:
		return tok.Payload()
	}
	return ""
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:  tok.Kind.String(),
			Value: tokenValue(tok),
			Span:  tok.Span,
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

type PrimOutput struct {
	Kind       string `json:"kind"`
	Offset     uint32 `json:"offset"`
	Len        uint32 `json:"len"`
	Text       string `json:"text"`
	Terminated bool   `json:"terminated"`
}

func primOutputs(prims []token.Prim, content []byte) []PrimOutput {
	out := make([]PrimOutput, 0, len(prims))
	var off uint32
	for _, p := range prims {
		end := min(off+p.Len, uint32(len(content))) // #nosec G115 -- FileSet limits content to uint32
		out = append(out, PrimOutput{
			Kind:       p.Kind.String(),
			Offset:     off,
			Len:        p.Len,
			Text:       string(content[off:end]),
			Terminated: p.Terminated,
		})
		off = end
	}
	return out
}

// FormatPrimsPretty выводит токены первого слоя: смещение, длину и текст.
func FormatPrimsPretty(w io.Writer, prims []token.Prim, content []byte) error {
	for i, p := range primOutputs(prims, content) {
		line := fmt.Sprintf("%3d: %-14s @%d+%d %s", i+1, p.Kind, p.Offset, p.Len, strconv.Quote(p.Text))
		if canBeUnterminated(prims[i].Kind) && !p.Terminated {
			line += " (unterminated)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatPrimsJSON is the JSON form of FormatPrimsPretty.
func FormatPrimsJSON(w io.Writer, prims []token.Prim, content []byte) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(primOutputs(prims, content))
}

func canBeUnterminated(k token.PrimKind) bool {
	switch k {
	case token.PrimBlockComment, token.PrimString, token.PrimChar:
		return true
	}
	return false
}

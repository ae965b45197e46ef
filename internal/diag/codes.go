package diag

import (
	"fmt"
)

// Code - стабильный числовой идентификатор диагностики; 0 означает "без кода".
type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexReservedChar             Code = 1005
	LexUnterminatedChar         Code = 1006
	LexBadEscape                Code = 1007
	LexBadChar                  Code = 1008

	// Парсерные
	SynInfo                     Code = 2000
	SynUnexpectedToken          Code = 2001
	SynUnclosedDelimiter        Code = 2002
	SynUnexpectedCloseDelimiter Code = 2003
	SynExpectExpression         Code = 2004
	SynExpectIdentifier         Code = 2005
	SynExpectComma              Code = 2006
	SynExpectBlock              Code = 2007
	SynExpectEquals             Code = 2008
	SynExpectColon              Code = 2009
	SynInvalidAssignTarget      Code = 2010
	SynUnexpectedTopLevel       Code = 2011
	SynUnsupported              Code = 2012

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Проект / манифест
	ProjInvalidManifest     Code = 5001
	ProjToolVersionMismatch Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Invalid character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Integer literal is too large",
	LexReservedChar:             "Reserved character",
	LexUnterminatedChar:         "Unterminated character literal",
	LexBadEscape:                "Invalid escape sequence",
	LexBadChar:                  "Invalid character literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynUnexpectedCloseDelimiter: "Unexpected closing delimiter",
	SynExpectExpression:         "Expected expression",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectComma:              "Expected `,`",
	SynExpectBlock:              "Expected block",
	SynExpectEquals:             "Expected `=`",
	SynExpectColon:              "Expected `:`",
	SynInvalidAssignTarget:      "Invalid assignment target",
	SynUnexpectedTopLevel:       "Unexpected item at top level",
	SynUnsupported:              "Unsupported construct",
	IOLoadFileError:             "Failed to load file",
	IOCacheError:                "Diagnostic cache failure",
	ProjInvalidManifest:         "Invalid project manifest",
	ProjToolVersionMismatch:     "Tool version does not satisfy manifest",
}

// ID returns the stable textual id ("LEX1002"), or "" for UnknownCode.
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic == 0:
		return ""
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return fmt.Sprintf("E%04d", ic)
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

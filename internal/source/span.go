package source

import (
	"fmt"
)

// Span - полуоткрытый интервал [Start, End) в байтах внутри файла.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// DummySpan marks diagnostics and nodes that have no meaningful location.
var DummySpan = Span{}

// IsDummy reports whether the span carries no location (0..0 in file 0).
func (s Span) IsDummy() bool {
	return s == DummySpan
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover возвращает минимальный span, покрывающий оба.
// Спаны из разных файлов не смешиваются.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// To returns the span from the start of s to the end of other.
func (s Span) To(other Span) Span {
	if s.File != other.File || other.End < s.Start {
		return s
	}
	return Span{File: s.File, Start: s.Start, End: other.End}
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// StartPoint returns the empty span at s.Start.
func (s Span) StartPoint() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// EndPoint returns the empty span at s.End.
func (s Span) EndPoint() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

// Text returns the bytes of content covered by the span, clamped to the buffer.
func (s Span) Text(content []byte) string {
	n := uint32(len(content)) // #nosec G115 -- FileSet.Add rejects files larger than uint32
	start, end := min(s.Start, n), min(s.End, n)
	if start > end {
		return ""
	}
	return string(content[start:end])
}

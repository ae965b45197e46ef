package diag

import (
	"slices"
)

// Sink - упорядоченный append-only журнал диагностик одной единицы компиляции.
// Не предназначен для конкурентной записи: один Sink на файл.
type Sink struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewSink creates a sink; max <= 0 means no limit.
func NewSink(max int) *Sink {
	return &Sink{max: max}
}

// Emit добавляет диагностику, учитывая лимит.
func (s *Sink) Emit(d Diagnostic) {
	if s == nil {
		return
	}
	if s.max > 0 && len(s.items) >= s.max {
		s.dropped++
		return
	}
	s.items = append(s.items, d)
}

// Len returns the number of diagnostics currently held.
func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Dropped returns how many diagnostics were rejected by the limit.
func (s *Sink) Dropped() int {
	if s == nil {
		return 0
	}
	return s.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика уровня Error.
func (s *Sink) HasErrors() bool {
	if s == nil {
		return false
	}
	return slices.ContainsFunc(s.items, Diagnostic.IsError)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (s *Sink) Items() []Diagnostic {
	if s == nil {
		return nil
	}
	return s.items
}

// Collect drains the sink: the diagnostics are returned in emission order
// and the sink is left empty.
func (s *Sink) Collect() []Diagnostic {
	if s == nil {
		return nil
	}
	out := s.items
	s.items = nil
	s.dropped = 0
	return out
}

// Sort сортирует по: file, start, end, level (desc), code
// для стабильного порядка вывода. Диагностики без спана идут первыми.
func (s *Sink) Sort() {
	if s == nil {
		return
	}
	Sort(s.items)
}

// Dedup drops diagnostics repeating code, level, primary span and title.
func (s *Sink) Dedup() {
	if s == nil {
		return
	}
	seen := make(map[dedupKey]struct{}, len(s.items))
	s.items = slices.DeleteFunc(s.items, func(d Diagnostic) bool {
		k := keyOf(d)
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}

// Sort orders diagnostics deterministically by position.
func Sort(items []Diagnostic) {
	slices.SortStableFunc(items, func(a, b Diagnostic) int {
		if c := compareSpans(a.Span(), b.Span()); c != 0 {
			return c
		}
		if a.Level != b.Level {
			return int(b.Level) - int(a.Level)
		}
		return int(a.Code) - int(b.Code)
	})
}

// Sorted returns a sorted copy without draining the sink.
func (s *Sink) Sorted() []Diagnostic {
	if s == nil {
		return nil
	}
	out := slices.Clone(s.items)
	Sort(out)
	return out
}

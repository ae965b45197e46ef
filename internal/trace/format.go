package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format - формат вывода событий.
type Format uint8

const (
	FormatAuto   Format = iota // text, либо ndjson для *.ndjson
	FormatText                 // для человека
	FormatNDJSON               // одна JSON-строка на событие
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatNDJSON:
		return "ndjson"
	}
	return "auto"
}

// ParseFormat разбирает формат; "json" - синоним ndjson.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: text|ndjson)", s)
}

// FormatEvent сериализует событие в одну строку с переводом строки.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return eventJSON(ev)
	}
	return eventText(ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Elapsed  int64             `json:"elapsed_us,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func eventJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Elapsed:  ev.Elapsed.Microseconds(),
		Extra:    ev.Extra,
	})
	if err != nil {
		// только строки и числа, Marshal не может упасть
		panic(fmt.Errorf("trace: marshal event: %w", err))
	}
	return append(data, '\n')
}

var kindGlyph = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// eventText: "#seq [scope]   → name (detail) {k=v, ...} 1.2ms".
// Дочерние события сдвинуты на два пробела.
func eventText(ev *Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "#%-5d [%s] ", ev.Seq, ev.Scope)
	if ev.ParentID != 0 {
		b.WriteString("  ")
	}
	b.WriteString(kindGlyph[ev.Kind])
	b.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(pairs, ", "))
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&b, " %s", ev.Elapsed)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

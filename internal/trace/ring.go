package trace

import (
	"io"
	"sync"
)

const defaultRingSize = 4096

// RingTracer держит последние N событий в памяти. Используется на
// уровне error: ничего не пишет, пока команда не упадёт с паникой.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int // сколько событий записано всего
	level Level
}

// NewRingTracer создаёт кольцо на capacity событий (по умолчанию 4096).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit кладёт копию события в кольцо, вытесняя самое старое.
func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.next%len(t.buf)] = *ev
	t.buf[t.next%len(t.buf)].Seq = NextSeq()
	t.next++
	t.mu.Unlock()
}

// Snapshot возвращает события от старых к новым.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := min(t.next, len(t.buf))
	out := make([]Event, 0, n)
	for i := t.next - n; i < t.next; i++ {
		out = append(out, t.buf[i%len(t.buf)])
	}
	return out
}

// Dump пишет содержимое кольца в w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

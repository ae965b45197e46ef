package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq выдаёт следующий глобальный номер события.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID выдаёт уникальный id спана; 0 зарезервирован за "нет спана".
func NextSpanID() uint64 { return spanCounter.Add(1) }

// getGoroutineID читает номер горутины из заголовка runtime.Stack
// ("goroutine 17 [running]:").
func getGoroutineID() uint64 {
	var buf [64]byte
	head := string(buf[:runtime.Stack(buf[:], false)])
	head = strings.TrimPrefix(head, "goroutine ")
	if i := strings.IndexByte(head, ' '); i > 0 {
		if id, err := strconv.ParseUint(head[:i], 10, 64); err == nil {
			return id
		}
	}
	return 0
}

// openSpans - спаны, для которых ещё не вызван End. Heartbeat показывает
// самый старый из них, это и есть место, где пайплайн застрял.
var openSpans struct {
	sync.Mutex
	byID map[uint64]*Span
}

func trackOpen(s *Span) {
	openSpans.Lock()
	if openSpans.byID == nil {
		openSpans.byID = make(map[uint64]*Span)
	}
	openSpans.byID[s.id] = s
	openSpans.Unlock()
}

func untrackOpen(id uint64) {
	openSpans.Lock()
	delete(openSpans.byID, id)
	openSpans.Unlock()
}

// oldestOpen возвращает имя и возраст самого давнего открытого спана.
func oldestOpen(now time.Time) (name string, age time.Duration, n int) {
	openSpans.Lock()
	defer openSpans.Unlock()
	var oldest *Span
	for _, s := range openSpans.byID {
		if oldest == nil || s.started.Before(oldest.started) {
			oldest = s
		}
	}
	if oldest == nil {
		return "", 0, 0
	}
	return oldest.scope.String() + ":" + oldest.name, now.Sub(oldest.started), len(openSpans.byID)
}

// Span - открытый интервал работы; закрывается End.
// Нулевой или выключенный спан безопасно принимает все вызовы.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
	ended    atomic.Bool
}

// Begin открывает спан и пишет KindSpanBegin. parent = 0 для корня.
// Если трейсер выключен или уровень отсекает scope, спан инертен.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		gid:      getGoroutineID(),
		scope:    scope,
		name:     name,
		started:  time.Now(),
	}
	trackOpen(s)
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

// Point пишет мгновенное событие под parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      getGoroutineID(),
		Name:     name,
		Detail:   detail,
	})
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
}

// End закрывает спан и возвращает его длительность.
// Повторный End ничего не пишет и возвращает 0.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 || !s.ended.CompareAndSwap(false, true) {
		return 0
	}
	untrackOpen(s.id)
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Elapsed = now.Sub(s.started)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// WithExtra добавляет пару key=value в событие конца спана.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// Recording reports whether the span will emit its end event.
// Дорогие атрибуты считают только под этой проверкой.
func (s *Span) Recording() bool {
	return s != nil && s.id != 0
}

// ID возвращает id спана; 0 у инертного.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

package trace

import "time"

// Kind - вид события.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint     // мгновенное событие
	KindHeartbeat // признак жизни, проходит любой уровень
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string { return lookupName(kindNames[:], int(k)) }

// Scope - глубина события. Меньшее значение = более крупное событие.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // одна команда CLI
	ScopePass                    // lex, tree, parse, normalize
	ScopeFile                    // файл в прогоне по директории
	ScopeNode                    // переписывания узлов AST
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
	ScopeNode:   "node",
}

func (s Scope) String() string { return lookupName(scopeNames[:], int(s)) }

func lookupName(names []string, i int) string {
	if i > 0 && i < len(names) {
		return names[i]
	}
	return "unknown"
}

// Event - одна запись трассы.
type Event struct {
	Time     time.Time
	Seq      uint64 // глобальный порядок, проставляет получатель
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 у корня
	GID      uint64 // горутина, открывшая спан
	Name     string // "parse", "a.rym", "heartbeat"
	Detail   string
	Elapsed  time.Duration // только у KindSpanEnd
	Extra    map[string]string
}

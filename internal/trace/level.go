package trace

import (
	"fmt"
	"strings"
)

// Level - подробность трассы. Каждый следующий уровень включает
// все события предыдущего.
type Level uint8

const (
	LevelOff    Level = iota // трасса выключена
	LevelError               // только ring-буфер, дамп при панике
	LevelPhase               // команда и проходы lex/tree/parse
	LevelDetail              // + файлы
	LevelDebug               // + узлы (normalize)
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// deepest - самый мелкий scope, который уровень ещё пропускает.
// У off и error это 0: они не пропускают ничего.
var deepest = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel разбирает имя уровня без учёта регистра; "" = off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit сообщает, пишет ли уровень события данного scope.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(deepest) && scope != 0 && scope <= deepest[l]
}

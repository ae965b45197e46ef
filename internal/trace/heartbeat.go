package trace

import (
	"context"
	"fmt"
	"time"
)

// Heartbeat периодически пишет KindHeartbeat с самым старым открытым
// спаном. Если heartbeat идут, а спан не закрывается, команда зависла
// именно в нём.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat запускает heartbeat. Возвращает nil, если трейсер
// выключен или interval <= 0; Stop на nil безопасен.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go h.loop(ctx, tracer, interval)
	return h
}

func (h *Heartbeat) loop(ctx context.Context, tracer Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for beat := 1; ; beat++ {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			tracer.Emit(beatEvent(now, beat))
		}
	}
}

func beatEvent(now time.Time, beat int) *Event {
	ev := &Event{
		Time:   now,
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d idle", beat),
	}
	if name, age, n := oldestOpen(now); n > 0 {
		ev.Detail = fmt.Sprintf("#%d in %s for %s", beat, name, age.Round(time.Millisecond))
		ev.Extra = map[string]string{"open": fmt.Sprint(n)}
	}
	return ev
}

// Stop останавливает heartbeat и ждёт выхода горутины.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

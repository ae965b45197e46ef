package trace

import "context"

// SpanContext - текущий открытый спан, который наследуют дочерние.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

type ctxKey struct{}

// ctxState хранит трейсер и активный спан одним значением,
// чтобы Start не делал два context.WithValue на каждый файл.
type ctxState struct {
	tracer Tracer
	span   SpanContext
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext возвращает трейсер из ctx или Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer кладёт трейсер в ctx, сохраняя активный спан.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := stateOf(ctx)
	st.tracer = t
	return context.WithValue(ctx, ctxKey{}, st)
}

// CurrentSpan возвращает активный спан; нулевой, если его нет.
func CurrentSpan(ctx context.Context) SpanContext {
	return stateOf(ctx).span
}

// Start открывает спан под активным спаном ctx и возвращает контекст,
// в котором новый спан активен. С выключенным трейсером ctx не меняется.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	sp := Begin(st.tracer, scope, name, st.span.SpanID)
	if sp.ID() == 0 {
		return ctx, sp
	}
	st.span = SpanContext{SpanID: sp.ID(), GID: sp.gid}
	return context.WithValue(ctx, ctxKey{}, st), sp
}

package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"", LevelOff, false},
		{"PHASE", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	root := Begin(tr, ScopeDriver, "diag", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	pass.WithExtra("nodes", "12").WithExtra("errors", "0").End("")
	Begin(tr, ScopeFile, "file:a.rym", root.ID()).End("") // отфильтровано уровнем
	root.End("done")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "← parse {errors=0, nodes=12}") {
		t.Fatalf("end line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "diag (done)") {
		t.Fatalf("root end line = %q", lines[3])
	}
	if strings.Contains(out, "file:a.rym") {
		t.Fatal("file scope leaked at phase level")
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopePass, "lex", 0).WithExtra("tokens", "3").End("")

	dec := json.NewDecoder(&buf)
	var kinds []string
	for dec.More() {
		var ev map[string]any
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		kinds = append(kinds, ev["kind"].(string))
		if ev["name"] != "lex" || ev["scope"] != "pass" {
			t.Fatalf("event = %v", ev)
		}
	}
	if strings.Join(kinds, ",") != "begin,end" {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Fatalf("names = %v", names)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestOffEmitsNothing(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer is enabled")
	}
	sp := Begin(tr, ScopeDriver, "x", 0)
	if sp.ID() != 0 || sp.Recording() || sp.End("") != 0 {
		t.Fatal("disabled span must be inert")
	}
}

func TestErrorLevelUsesRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(Dumper); !ok {
		t.Fatalf("error level tracer %T cannot dump", tr)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	r := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatal("tracer not propagated")
	}
}

func TestStartNestsUnderActiveSpan(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), r)

	ctx, root := Start(ctx, ScopeDriver, "diag")
	fileCtx, file := Start(ctx, ScopeFile, "a.rym")
	if CurrentSpan(fileCtx).SpanID != file.ID() {
		t.Fatalf("active span = %d, want %d", CurrentSpan(fileCtx).SpanID, file.ID())
	}
	if CurrentSpan(ctx).SpanID != root.ID() {
		t.Fatal("parent context must keep its own span")
	}
	file.End("")
	root.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("events = %d", len(snap))
	}
	if snap[1].ParentID != root.ID() {
		t.Fatalf("file parent = %d, want %d", snap[1].ParentID, root.ID())
	}
}

func TestStartFilteredScopeKeepsContext(t *testing.T) {
	r := NewRingTracer(4, LevelPhase)
	ctx, root := Start(WithTracer(context.Background(), r), ScopeDriver, "parse")
	defer root.End("")
	fileCtx, sp := Start(ctx, ScopeFile, "a.rym")
	if sp.ID() != 0 || fileCtx != ctx {
		t.Fatal("filtered span must not change the context")
	}
	// node-спаны под отфильтрованным файлом цепляются к корню
	if CurrentSpan(fileCtx).SpanID != root.ID() {
		t.Fatal("root span lost")
	}
}

func TestRecording(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	tests := []struct {
		name string
		sp   *Span
		want bool
	}{
		{"nil", nil, false},
		{"nop tracer", Begin(Nop, ScopePass, "lex", 0), false},
		{"filtered scope", Begin(r, ScopeFile, "a.rym", 0), false},
		{"active", Begin(r, ScopePass, "parse", 0), true},
	}
	for _, tt := range tests {
		if got := tt.sp.Recording(); got != tt.want {
			t.Errorf("%s: Recording = %v, want %v", tt.name, got, tt.want)
		}
		tt.sp.End("")
	}
}

func TestEndIsIdempotent(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	sp := Begin(r, ScopePass, "lex", 0)
	sp.End("")
	if d := sp.End("again"); d != 0 {
		t.Fatalf("second End = %v", d)
	}
	if n := len(r.Snapshot()); n != 2 {
		t.Fatalf("events = %d, want 2", n)
	}
}

func TestHeartbeatReportsOpenSpan(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	sp := Begin(r, ScopePass, "parse", 0)
	hb := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	var detail string
	for time.Now().Before(deadline) && detail == "" {
		for _, ev := range r.Snapshot() {
			if ev.Kind == KindHeartbeat {
				detail = ev.Detail
			}
		}
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	sp.End("")
	if !strings.Contains(detail, "pass:parse") {
		t.Fatalf("heartbeat detail = %q", detail)
	}
}

func TestHeartbeatDisabled(t *testing.T) {
	if hb := StartHeartbeat(Nop, time.Millisecond); hb != nil {
		t.Fatal("heartbeat on Nop tracer")
	}
	var hb *Heartbeat
	hb.Stop()
}

func TestBothModeDumpsRing(t *testing.T) {
	var out bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &out})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "tree", 0).End("")
	d, ok := tr.(Dumper)
	if !ok {
		t.Fatalf("both mode tracer %T cannot dump", tr)
	}
	var dump bytes.Buffer
	if err := d.Dump(&dump, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(out.String(), "tree") != 2 || strings.Count(dump.String(), "tree") != 2 {
		t.Fatalf("stream:\n%s\ndump:\n%s", out.String(), dump.String())
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]StorageMode{"": ModeStream, "Ring": ModeRing, "both": ModeBoth} {
		if got, err := ParseMode(in); err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Error("ParseMode(disk) succeeded")
	}
}

package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 10}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 5}, Span{File: 1, Start: 0, End: 10}},
		{"reversed", Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 2, End: 10}},
		{"other file is ignored", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 10}, Span{File: 1, Start: 2, End: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_To(t *testing.T) {
	open := Span{Start: 0, End: 1}
	last := Span{Start: 5, End: 6}
	if got := open.To(last); got != (Span{Start: 0, End: 6}) {
		t.Fatalf("To() = %v", got)
	}
	// конец раньше начала - span не меняется
	if got := last.To(open); got != last {
		t.Fatalf("To() backwards = %v, want %v", got, last)
	}
}

func TestSpan_IsDummy(t *testing.T) {
	if !DummySpan.IsDummy() {
		t.Fatal("DummySpan must be dummy")
	}
	if (Span{Start: 0, End: 1}).IsDummy() {
		t.Fatal("0..1 is a real span")
	}
	if (Span{File: 3}).IsDummy() {
		t.Fatal("an empty span in another file is not the dummy span")
	}
}

func TestSpan_Text(t *testing.T) {
	content := []byte("let x")
	tests := []struct {
		name string
		span Span
		want string
	}{
		{"word", Span{Start: 0, End: 3}, "let"},
		{"empty", Span{Start: 2, End: 2}, ""},
		{"clamped", Span{Start: 4, End: 100}, "x"},
		{"past end", Span{Start: 50, End: 60}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Text(content); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

package source

import (
	"strings"
	"testing"
)

func TestRecordsYieldsOnePerLine(t *testing.T) {
	r := strings.NewReader("a\nb\nc\n")
	lines, errc := Records(t.Context(), r)

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	if err, ok := <-errc; ok && err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestRecordsEmptyInput(t *testing.T) {
	lines, errc := Records(t.Context(), strings.NewReader(""))
	count := 0
	for range lines {
		count++
	}
	if count != 0 {
		t.Fatalf("expected 0 lines, got %d", count)
	}
	if err, ok := <-errc; ok && err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package sink

import (
	"context"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/domain"
)

func TestIDPropertyByLabel(t *testing.T) {
	cases := map[string]string{
		"Chunk":   "chunkId",
		"Concept": "conceptId",
		"Other":   "id",
	}
	for label, want := range cases {
		if got := idProperty(label); got != want {
			t.Fatalf("idProperty(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestSanitizeRelType(t *testing.T) {
	got := sanitizeRelType("is-a kind.of")
	want := "IS_A_KIND_OF"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSanitizeLabelPassesKnownLabels(t *testing.T) {
	for _, label := range []string{"Chunk", "Concept"} {
		if got := sanitizeLabel(label); got != label {
			t.Fatalf("expected %q unchanged, got %q", label, got)
		}
	}
}

func TestWriteBuffersBelowBatchSize(t *testing.T) {
	s := &Sink{opts: Options{BatchSize: 10, MaxRetries: 1}}
	for i := 0; i < 5; i++ {
		if err := s.Write(context.Background(), domain.NewUpsertNode("Concept", "id", nil)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if len(s.buffer) != 5 {
		t.Fatalf("expected 5 buffered writes, got %d", len(s.buffer))
	}
}

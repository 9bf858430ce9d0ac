package parse

import (
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/domain"
)

func TestRecordRoundTrip(t *testing.T) {
	c := domain.Chunk{
		ChunkID:   "c1",
		DocID:     "d1",
		Span:      domain.Span{Start: 0, End: 9},
		Text:      "Neo4j is great",
		SourceURI: "s",
		Hash:      "h",
	}
	line, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Record(line)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got != c {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, c)
	}
}

func TestRecordUnknownFieldsIgnored(t *testing.T) {
	line := `{"chunkId":"c1","docId":"d1","span":{"start":0,"end":1},"text":"t","sourceUri":"s","hash":"h","extra":"ignored"}`
	if _, err := Record(line); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecordMissingFieldFails(t *testing.T) {
	line := `{"chunkId":"c1","docId":"d1","text":"t","sourceUri":"s","hash":"h"}`
	if _, err := Record(line); err == nil {
		t.Fatal("expected parse failure for missing span")
	}
}

func TestRecordMalformedJSON(t *testing.T) {
	if _, err := Record("not json"); err == nil {
		t.Fatal("expected parse failure for malformed JSON")
	}
}

func TestStageDropsMalformedLines(t *testing.T) {
	lines := make(chan string, 3)
	lines <- `{"chunkId":"c1","docId":"d1","span":{"start":0,"end":1},"text":"t","sourceUri":"s","hash":"h"}`
	lines <- `not json`
	lines <- `{"docId":"d2"}`
	close(lines)

	out := Stage(lines, nil)
	var got []string
	for c := range out {
		got = append(got, c.ChunkID)
	}
	if len(got) != 1 || got[0] != "c1" {
		t.Fatalf("expected only c1 to survive, got %v", got)
	}
}

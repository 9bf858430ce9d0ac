package pair

import (
	"strings"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/domain"
)

func TestCandidatesSingleConceptProducesNone(t *testing.T) {
	chunk := domain.Chunk{ChunkID: "c1", Text: "hello"}
	concepts := []domain.Concept{domain.NewConcept("Neo4j", "NER")}
	got := Candidates(chunk, concepts)
	if len(got) != 0 {
		t.Fatalf("expected no candidates for single concept, got %d", len(got))
	}
}

func TestCandidatesCanonicalOrdering(t *testing.T) {
	chunk := domain.Chunk{ChunkID: "c1", Text: "api and rest"}
	concepts := []domain.Concept{
		domain.NewConcept("REST", "acronym"),
		domain.NewConcept("API", "acronym"),
	}
	got := Candidates(chunk, concepts)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 candidate, got %d", len(got))
	}
	if got[0].A.ConceptID >= got[0].B.ConceptID {
		t.Fatalf("expected canonical ordering a < b, got a=%s b=%s", got[0].A.ConceptID, got[0].B.ConceptID)
	}
}

func TestCandidatesWindowIDIsChunkID(t *testing.T) {
	chunk := domain.Chunk{ChunkID: "c42", Text: "x"}
	concepts := []domain.Concept{domain.NewConcept("Foo", "NER"), domain.NewConcept("Bar", "NER")}
	got := Candidates(chunk, concepts)
	if len(got) != 1 || got[0].WindowID != "c42" {
		t.Fatalf("expected windowId c42, got %+v", got)
	}
}

func TestEvidenceTruncates(t *testing.T) {
	text := strings.Repeat("a", 600)
	got := Evidence(text)
	if len([]rune(got)) != 500 {
		t.Fatalf("expected 500 chars, got %d", len([]rune(got)))
	}
}

func TestEvidenceShorterThanLimit(t *testing.T) {
	text := "short text"
	if got := Evidence(text); got != text {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

func TestCandidatesThreeConceptsYieldsThreePairs(t *testing.T) {
	chunk := domain.Chunk{ChunkID: "c1", Text: "x"}
	concepts := []domain.Concept{
		domain.NewConcept("Alpha", "NER"),
		domain.NewConcept("Beta", "NER"),
		domain.NewConcept("Gamma", "NER"),
	}
	got := Candidates(chunk, concepts)
	if len(got) != 3 {
		t.Fatalf("expected 3 pairs for 3 concepts, got %d", len(got))
	}
}

package extract

import (
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func lemmaSet(concepts []domain.Concept) map[string]string {
	out := make(map[string]string, len(concepts))
	for _, c := range concepts {
		out[c.Lemma] = c.Origin
	}
	return out
}

func TestExtractCamelCaseAndAcronym(t *testing.T) {
	c := domain.Chunk{ChunkID: "c1", Text: "CamelCase API uses machine learning"}
	concepts := Extract(c, testLogger(t))
	byLemma := lemmaSet(concepts)

	if origin, ok := byLemma["camel_case"]; !ok || origin != "camelCase" {
		t.Fatalf("expected camel_case with origin camelCase, got %v", byLemma)
	}
	if origin, ok := byLemma["api"]; !ok || origin != "acronym" {
		t.Fatalf("expected api with origin acronym, got %v", byLemma)
	}
	if _, hasMachine := byLemma["machine"]; !hasMachine {
		if _, hasML := byLemma["machine_learning"]; !hasML {
			t.Fatalf("expected machine or machine_learning to be present, got %v", byLemma)
		}
	}
}

func TestExtractUniqueByLemma(t *testing.T) {
	c := domain.Chunk{ChunkID: "c1", Text: "Neo4j Neo4j Neo4j is great"}
	concepts := Extract(c, testLogger(t))
	seen := map[string]int{}
	for _, concept := range concepts {
		seen[concept.Lemma]++
	}
	for lemma, count := range seen {
		if count > 1 {
			t.Fatalf("lemma %q appeared %d times, expected uniqueness", lemma, count)
		}
	}
}

func TestExtractDropsStopWordCapitalized(t *testing.T) {
	c := domain.Chunk{ChunkID: "c1", Text: "The Figure shows nothing useful here"}
	concepts := Extract(c, testLogger(t))
	for _, concept := range concepts {
		if concept.Surface == "The" || concept.Surface == "Figure" {
			t.Fatalf("expected stop words to be dropped, found %q", concept.Surface)
		}
	}
}

// A multi-word capitalized run led by a stop word must not survive as a
// single combined-string concept just because the stop-word list only has
// single-word keys.
func TestExtractDropsMultiWordCapitalizedRunContainingStopWord(t *testing.T) {
	concepts := runHeuristic("The Figure shows nothing useful here")
	for _, concept := range concepts {
		if concept.Surface == "The Figure" || concept.Lemma == "the_figure" {
			t.Fatalf("expected combined stop-word run to be dropped, found %+v", concept)
		}
	}
}

func TestExtractNoConceptsForEmptyChunk(t *testing.T) {
	c := domain.Chunk{ChunkID: "c1", Text: "a an is"}
	concepts := Extract(c, testLogger(t))
	if len(concepts) != 0 {
		t.Fatalf("expected no concepts, got %v", concepts)
	}
}

package materialize

import (
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/domain"
)

func TestChunkUpsertNode(t *testing.T) {
	c := domain.Chunk{ChunkID: "c1", DocID: "d1", Text: "t", SourceURI: "s", Hash: "h", Span: domain.Span{Start: 0, End: 1}}
	w := Chunk(c)
	if w.Kind != domain.UpsertNodeWrite || w.NodeLabel != "Chunk" || w.NodeID != "c1" {
		t.Fatalf("unexpected write: %+v", w)
	}
	if w.NodeProps["docId"] != "d1" {
		t.Fatalf("expected docId prop, got %+v", w.NodeProps)
	}
}

func TestRelationUppercasesPredicate(t *testing.T) {
	a, b := domain.CanonicalPair(domain.NewConcept("neo4j", "NER"), domain.NewConcept("graph", "NER"))
	r := domain.ScoredRelation{A: a, B: b, Predicate: "is-a kind", Confidence: 0.9, Evidence: "e"}
	w := Relation(r)
	if w.Kind != domain.UpsertEdgeWrite {
		t.Fatalf("expected edge write, got %+v", w)
	}
	if w.RelType != "IS_A_KIND" {
		t.Fatalf("expected IS_A_KIND, got %q", w.RelType)
	}
	if w.FromID != a.ConceptID || w.ToID != b.ConceptID {
		t.Fatalf("expected directed a->b edge, got %+v", w)
	}
}

func TestChunkWithMentionsOrdering(t *testing.T) {
	c := domain.Chunk{ChunkID: "c1"}
	concepts := []domain.Concept{domain.NewConcept("Foo", "NER"), domain.NewConcept("Bar", "NER")}
	writes := ChunkWithMentions(c, concepts)
	if len(writes) != 5 {
		t.Fatalf("expected 1 chunk + 2 concepts + 2 mentions = 5 writes, got %d", len(writes))
	}
	if writes[0].NodeLabel != "Chunk" {
		t.Fatalf("expected first write to be the Chunk node, got %+v", writes[0])
	}
	for _, w := range writes[len(writes)-2:] {
		if w.Kind != domain.UpsertEdgeWrite || w.RelType != "MENTIONS" {
			t.Fatalf("expected trailing writes to be MENTIONS edges, got %+v", w)
		}
	}
}

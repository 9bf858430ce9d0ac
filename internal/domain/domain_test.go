package domain

import "testing"

func TestConceptIDStable(t *testing.T) {
	a := ConceptID("neo4j")
	b := ConceptID("neo4j")
	if a != b {
		t.Fatalf("ConceptID not stable: %q != %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%q)", len(a), a)
	}
}

func TestNormalizeLemmaIdempotent(t *testing.T) {
	cases := []string{"CamelCase", "REST API", "machine learning", "  Spaced  ", "already_snake"}
	for _, c := range cases {
		once := NormalizeLemma(c)
		twice := NormalizeLemma(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q != %q", c, once, twice)
		}
	}
}

func TestNormalizeLemmaBoundary(t *testing.T) {
	got := NormalizeLemma("CamelCase")
	want := "camel_case"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCanonicalPairOrdering(t *testing.T) {
	x := NewConcept("Zebra", "NER")
	y := NewConcept("Apple", "NER")
	a, b := CanonicalPair(x, y)
	if a.ConceptID >= b.ConceptID {
		t.Fatalf("expected a.ConceptID < b.ConceptID, got a=%q b=%q", a.ConceptID, b.ConceptID)
	}
}

func TestRelationTypeName(t *testing.T) {
	got := RelationTypeName("is-a kind.of")
	want := "IS_A_KIND_OF"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// Package domain holds the wire-level types shared by every pipeline stage:
// Chunk, Concept, Mention, CoOccurrence, RelationCandidate, LlmVerdict,
// ScoredRelation, and the GraphWrite command sum. Nothing here depends on any
// stage's implementation; stages depend on this package, never the reverse.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Span is a byte/character offset range into a source document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Chunk is an immutable unit of ingest. Created by Parse (S2); never mutated.
type Chunk struct {
	ChunkID   string `json:"chunkId"`
	DocID     string `json:"docId"`
	Span      Span   `json:"span"`
	Text      string `json:"text"`
	SourceURI string `json:"sourceUri"`
	Hash      string `json:"hash"`
}

// Concept is a canonical entity extracted from a Chunk.
type Concept struct {
	ConceptID string `json:"conceptId"`
	Lemma     string `json:"lemma"`
	Surface   string `json:"surface"`
	Origin    string `json:"origin"`
}

// Mention pairs a Chunk to a Concept it contains.
type Mention struct {
	ChunkID string  `json:"chunkId"`
	Concept Concept `json:"concept"`
}

// CoOccurrence is an unordered pair of distinct Concepts co-observed in one
// Chunk. A and B are canonicalized so A.ConceptID < B.ConceptID.
type CoOccurrence struct {
	A        Concept `json:"a"`
	B        Concept `json:"b"`
	WindowID string  `json:"windowId"`
	Freq     int     `json:"freq"`
}

// RelationCandidate is a CoOccurrence enriched with evidence text.
type RelationCandidate struct {
	CoOccurrence
	Evidence string `json:"evidence"`
}

// LlmVerdict is the LLM's judgment for a candidate.
type LlmVerdict struct {
	Predicate  string  `json:"predicate"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
	Ref        string  `json:"ref"`
}

// ScoredRelation is a verdict with confidence >= threshold, joined to its
// originating Concept pair.
type ScoredRelation struct {
	A          Concept `json:"a"`
	B          Concept `json:"b"`
	Predicate  string  `json:"predicate"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
}

// GraphWriteKind tags the two GraphWrite variants. A plain tagged sum, not a
// virtual hierarchy — the sink does one switch over Kind at its single
// point of use.
type GraphWriteKind int

const (
	UpsertNodeWrite GraphWriteKind = iota
	UpsertEdgeWrite
)

// GraphWrite is the sink's input command.
type GraphWrite struct {
	Kind GraphWriteKind

	// UpsertNode fields.
	NodeLabel string
	NodeID    string
	NodeProps map[string]any

	// UpsertEdge fields.
	FromLabel string
	FromID    string
	RelType   string
	ToLabel   string
	ToID      string
	EdgeProps map[string]any
}

func NewUpsertNode(label, id string, props map[string]any) GraphWrite {
	return GraphWrite{Kind: UpsertNodeWrite, NodeLabel: label, NodeID: id, NodeProps: props}
}

func NewUpsertEdge(fromLabel, fromID, rel, toLabel, toID string, props map[string]any) GraphWrite {
	return GraphWrite{
		Kind:      UpsertEdgeWrite,
		FromLabel: fromLabel,
		FromID:    fromID,
		RelType:   rel,
		ToLabel:   toLabel,
		ToID:      toID,
		EdgeProps: props,
	}
}

// ConceptID returns the 16-character lowercase hex prefix of SHA-256(lemma).
// A pure function of lemma: two extractions of the same lemma always collide.
func ConceptID(lemma string) string {
	sum := sha256.Sum256([]byte(lemma))
	return hex.EncodeToString(sum[:])[:16]
}

var (
	lemmaBoundary  = regexp.MustCompile(`([a-z])([A-Z])`)
	lemmaNonWord   = regexp.MustCompile(`[^a-z0-9_]+`)
	lemmaMultiUndr = regexp.MustCompile(`_+`)
)

// NormalizeLemma produces the canonical lemma form for a surface string:
// underscore at lowercase->uppercase boundaries, lowercase, non-[a-z0-9_]
// replaced with underscore, consecutive underscores collapsed, leading and
// trailing underscores trimmed. Stable across runs — normalizing twice
// equals normalizing once.
func NormalizeLemma(s string) string {
	s = lemmaBoundary.ReplaceAllString(s, "${1}_${2}")
	s = strings.ToLower(s)
	s = lemmaNonWord.ReplaceAllString(s, "_")
	s = lemmaMultiUndr.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return s
}

// NewConcept builds a Concept from a surface string and origin tag, deriving
// Lemma and ConceptID via NormalizeLemma/ConceptID.
func NewConcept(surface, origin string) Concept {
	lemma := NormalizeLemma(surface)
	return Concept{
		ConceptID: ConceptID(lemma),
		Lemma:     lemma,
		Surface:   surface,
		Origin:    origin,
	}
}

// CanonicalPair orders two concepts so the lexicographically smaller
// ConceptID is always A, per the CoOccurrence/RelationCandidate/
// ScoredRelation invariant.
func CanonicalPair(x, y Concept) (a, b Concept) {
	if x.ConceptID <= y.ConceptID {
		return x, y
	}
	return y, x
}

// RelationTypeName uppercases a predicate and replaces every
// non-[A-Z0-9_] character with underscore, per the Materialize (S6) spec.
func RelationTypeName(predicate string) string {
	upper := strings.ToUpper(predicate)
	return lemmaNonWordUpper.ReplaceAllString(upper, "_")
}

var lemmaNonWordUpper = regexp.MustCompile(`[^A-Z0-9_]+`)

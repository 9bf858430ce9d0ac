// Package materialize implements S6: pure functions converting Chunks,
// Concepts, Mentions, and ScoredRelations to GraphWrite commands. Grounded
// on internal/data/graph/neo4j_concept_graph.go's property-map shaping.
package materialize

import "github.com/yungbote/neurobridge-backend/internal/domain"

// Chunk converts a Chunk into an UpsertNode command.
func Chunk(c domain.Chunk) domain.GraphWrite {
	return domain.NewUpsertNode("Chunk", c.ChunkID, map[string]any{
		"chunkId":   c.ChunkID,
		"docId":     c.DocID,
		"text":      c.Text,
		"sourceUri": c.SourceURI,
		"hash":      c.Hash,
		"spanStart": c.Span.Start,
		"spanEnd":   c.Span.End,
	})
}

// Concept converts a Concept into an UpsertNode command.
func Concept(c domain.Concept) domain.GraphWrite {
	return domain.NewUpsertNode("Concept", c.ConceptID, map[string]any{
		"conceptId": c.ConceptID,
		"lemma":     c.Lemma,
		"surface":   c.Surface,
		"origin":    c.Origin,
	})
}

// Mention converts a (Chunk, Mention) pair into an UpsertEdge command.
func Mention(chunkID string, m domain.Mention) domain.GraphWrite {
	return domain.NewUpsertEdge("Chunk", chunkID, "MENTIONS", "Concept", m.Concept.ConceptID, map[string]any{})
}

// Relation converts a ScoredRelation into an UpsertEdge command. The
// relationship type is the uppercased predicate with non-[A-Z0-9_]
// characters replaced by underscore.
func Relation(r domain.ScoredRelation) domain.GraphWrite {
	relType := domain.RelationTypeName(r.Predicate)
	return domain.NewUpsertEdge("Concept", r.A.ConceptID, relType, "Concept", r.B.ConceptID, map[string]any{
		"confidence": r.Confidence,
		"evidence":   r.Evidence,
	})
}

// ChunkWithMentions produces the Chunk node write followed by a Concept node
// write and a Mention edge write per concept: Chunk node, Concept nodes (any
// order), Mention edges.
func ChunkWithMentions(c domain.Chunk, concepts []domain.Concept) []domain.GraphWrite {
	out := make([]domain.GraphWrite, 0, 1+2*len(concepts))
	out = append(out, Chunk(c))
	for _, concept := range concepts {
		out = append(out, Concept(concept))
	}
	for _, concept := range concepts {
		out = append(out, Mention(c.ChunkID, domain.Mention{ChunkID: c.ChunkID, Concept: concept}))
	}
	return out
}

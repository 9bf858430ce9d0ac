// Package pair implements S4: enumerate unordered concept pairs within a
// Chunk, canonicalized by ConceptID, with evidence text.
package pair

import (
	"github.com/yungbote/neurobridge-backend/internal/domain"
)

const evidenceMaxChars = 500

// Evidence truncates text to at most evidenceMaxChars runes.
func Evidence(text string) string {
	r := []rune(text)
	if len(r) <= evidenceMaxChars {
		return text
	}
	return string(r[:evidenceMaxChars])
}

// Candidates discards chunks with fewer than 2 distinct concepts, enumerates
// all unordered pairs of the remaining concepts, canonicalizes pair order by
// ConceptID, and returns one RelationCandidate per pair.
func Candidates(chunk domain.Chunk, concepts []domain.Concept) []domain.RelationCandidate {
	if len(concepts) < 2 {
		return nil
	}

	evidence := Evidence(chunk.Text)
	out := make([]domain.RelationCandidate, 0, len(concepts)*(len(concepts)-1)/2)

	for i := 0; i < len(concepts); i++ {
		for j := i + 1; j < len(concepts); j++ {
			a, b := domain.CanonicalPair(concepts[i], concepts[j])
			out = append(out, domain.RelationCandidate{
				CoOccurrence: domain.CoOccurrence{
					A:        a,
					B:        b,
					WindowID: chunk.ChunkID,
					Freq:     1,
				},
				Evidence: evidence,
			})
		}
	}
	return out
}

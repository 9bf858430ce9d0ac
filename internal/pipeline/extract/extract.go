// Package extract implements S3: produce the set of Concept mentions per
// Chunk. Two strategies compose: an NER/POS path (github.com/jdkato/prose/v2)
// and a heuristic regex path that always runs to catch domain tokens the NER
// model misses. Uniqueness within a chunk is by lemma.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"

	"github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// stopWords is the case-sensitive set of discourse/structural words dropped
// from NER entities and from capitalized heuristic matches. The POS noun path
// does not consult it.
var stopWords = map[string]struct{}{
	"The": {}, "This": {}, "That": {}, "These": {}, "Those": {}, "They": {},
	"There": {}, "Then": {}, "When": {}, "Where": {}, "What": {}, "Which": {},
	"Who": {}, "Why": {}, "How": {}, "Figure": {}, "Table": {}, "Section": {},
	"Chapter": {}, "Page": {}, "For": {}, "From": {}, "With": {}, "Without": {},
	"About": {},
}

// nounTags are the POS tags (Penn Treebank) treated as common/proper nouns,
// singular and plural.
var nounTags = map[string]struct{}{
	"NN": {}, "NNS": {}, "NNP": {}, "NNPS": {},
}

var (
	reCapitalized   = regexp.MustCompile(`\b[A-Z][A-Za-z]{2,}(?:\s+[A-Z][A-Za-z]+)*\b`)
	reCamelCase     = regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]*)+\b`)
	reAcronym       = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	reTechnicalTerm = regexp.MustCompile(`\b[a-z][a-z0-9]*(?:[A-Z][a-z0-9]*)+\b`)
	reAllDigits     = regexp.MustCompile(`^[0-9]+$`)
)

// Extract returns the deduplicated (by lemma) set of Concepts found in c.
// Per-chunk exceptions are logged and swallowed — the pipeline continues.
func Extract(c domain.Chunk, log *logger.Logger) []domain.Concept {
	nerConcepts := runNER(c.Text, log)
	heuristic := runHeuristic(c.Text)

	seen := make(map[string]struct{}, len(nerConcepts)+len(heuristic))
	out := make([]domain.Concept, 0, len(nerConcepts)+len(heuristic))

	for _, concept := range nerConcepts {
		if _, dup := seen[concept.Lemma]; dup {
			continue
		}
		seen[concept.Lemma] = struct{}{}
		out = append(out, concept)
	}

	if len(nerConcepts) > 0 {
		// NER path produced findings: only camelCase/acronym heuristic
		// findings not already present are added; other heuristic origins
		// are suppressed.
		for _, concept := range heuristic {
			if concept.Origin != "camelCase" && concept.Origin != "acronym" {
				continue
			}
			if _, dup := seen[concept.Lemma]; dup {
				continue
			}
			seen[concept.Lemma] = struct{}{}
			out = append(out, concept)
		}
	} else {
		for _, concept := range heuristic {
			if _, dup := seen[concept.Lemma]; dup {
				continue
			}
			seen[concept.Lemma] = struct{}{}
			out = append(out, concept)
		}
	}

	return out
}

// runNER annotates text with prose (sentence split, tokenize, POS, NER).
// If the NER path panics, the panic is recovered and nil is returned so the
// caller falls back to the heuristic path for this chunk.
func runNER(text string, log *logger.Logger) (concepts []domain.Concept) {
	defer func() {
		if r := recover(); r != nil {
			if log != nil {
				log.Warn("extract: NER path panicked, falling back to heuristic", "error", fmt.Sprintf("%v", r))
			}
			concepts = nil
		}
	}()

	doc, err := prose.NewDocument(text)
	if err != nil {
		if log != nil {
			log.Warn("extract: NER path failed, falling back to heuristic", "error", err)
		}
		return nil
	}

	inSpan := make(map[int]struct{})
	for _, ent := range doc.Entities() {
		surface := strings.TrimSpace(ent.Text)
		if len([]rune(surface)) <= 2 {
			continue
		}
		if isStopWordEntity(surface) {
			continue
		}
		origin := "NER_" + ent.Label
		concepts = append(concepts, domain.NewConcept(surface, origin))
		for _, idx := range tokenIndicesWithinEntity(doc, surface) {
			inSpan[idx] = struct{}{}
		}
	}

	for i, tok := range doc.Tokens() {
		if _, inside := inSpan[i]; inside {
			continue
		}
		if _, isNoun := nounTags[tok.Tag]; !isNoun {
			continue
		}
		surface := strings.TrimSpace(tok.Text)
		if len([]rune(surface)) <= 2 {
			continue
		}
		if reAllDigits.MatchString(surface) {
			continue
		}
		concepts = append(concepts, domain.NewConcept(surface, "POS_"+tok.Tag))
	}

	return concepts
}

// tokenIndicesWithinEntity is a best-effort match of token indices whose
// text participates in the given multi-token entity surface, used only to
// avoid double-counting a noun already covered by an NER span.
func tokenIndicesWithinEntity(doc *prose.Document, entitySurface string) []int {
	words := strings.Fields(entitySurface)
	if len(words) == 0 {
		return nil
	}
	tokens := doc.Tokens()
	var idxs []int
	for i := 0; i+len(words) <= len(tokens); i++ {
		match := true
		for j, w := range words {
			if tokens[i+j].Text != w {
				match = false
				break
			}
		}
		if match {
			for j := range words {
				idxs = append(idxs, i+j)
			}
		}
	}
	return idxs
}

func isStopWordEntity(surface string) bool {
	_, ok := stopWords[surface]
	return ok
}

// runHeuristic applies the always-on regex path over the raw text. More
// specific token shapes (camelCase, acronym, technicalTerm) take precedence
// over the generic capitalized-word match for the same surface text, so
// e.g. "CamelCase" is tagged camelCase, not the generic NER origin.
func runHeuristic(text string) []domain.Concept {
	var out []domain.Concept
	seenLemma := make(map[string]struct{})
	claimedSurface := make(map[string]struct{})

	add := func(surface, origin string) {
		concept := domain.NewConcept(surface, origin)
		if _, dup := seenLemma[concept.Lemma]; dup {
			return
		}
		seenLemma[concept.Lemma] = struct{}{}
		out = append(out, concept)
	}

	for _, m := range reCamelCase.FindAllString(text, -1) {
		claimedSurface[m] = struct{}{}
		add(m, "camelCase")
	}
	for _, m := range reAcronym.FindAllString(text, -1) {
		claimedSurface[m] = struct{}{}
		add(m, "acronym")
	}
	for _, m := range reTechnicalTerm.FindAllString(text, -1) {
		if !hasLowerThenUpper(m) {
			continue
		}
		claimedSurface[m] = struct{}{}
		add(m, "technicalTerm")
	}
	for _, m := range reCapitalized.FindAllString(text, -1) {
		if len([]rune(m)) <= 2 {
			continue
		}
		// reCapitalized can span several whitespace-joined capitalized
		// words (e.g. "The Figure"); a stop word anywhere in that span,
		// or a word already claimed by another origin, disqualifies the
		// whole match rather than just the combined string.
		words := strings.Fields(m)
		disqualified := false
		for _, w := range words {
			if _, stop := stopWords[w]; stop {
				disqualified = true
				break
			}
			if _, claimed := claimedSurface[w]; claimed {
				disqualified = true
				break
			}
		}
		if disqualified {
			continue
		}
		if _, claimed := claimedSurface[m]; claimed {
			continue
		}
		add(m, "NER")
	}

	return out
}

func hasLowerThenUpper(s string) bool {
	sawLower := false
	for _, r := range s {
		if unicode.IsLower(r) {
			sawLower = true
		}
		if sawLower && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

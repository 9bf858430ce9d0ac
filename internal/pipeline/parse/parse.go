// Package parse implements S2: decode one record into a typed Chunk.
// Malformed records are dropped with a warning; they never fail the
// pipeline.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type wireSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type wireChunk struct {
	ChunkID   *string   `json:"chunkId"`
	DocID     *string   `json:"docId"`
	Span      *wireSpan `json:"span"`
	Text      *string   `json:"text"`
	SourceURI *string   `json:"sourceUri"`
	Hash      *string   `json:"hash"`
}

// Record decodes a single JSON line into a Chunk. Unknown fields are
// ignored by encoding/json's default Unmarshal; any missing required field
// is a parse failure.
func Record(line string) (domain.Chunk, error) {
	var w wireChunk
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return domain.Chunk{}, fmt.Errorf("parse: decode: %w", err)
	}
	missing := requiredFields(w)
	if len(missing) > 0 {
		return domain.Chunk{}, fmt.Errorf("parse: missing required field(s): %s", strings.Join(missing, ", "))
	}
	return domain.Chunk{
		ChunkID:   *w.ChunkID,
		DocID:     *w.DocID,
		Span:      domain.Span{Start: w.Span.Start, End: w.Span.End},
		Text:      *w.Text,
		SourceURI: *w.SourceURI,
		Hash:      *w.Hash,
	}, nil
}

func requiredFields(w wireChunk) []string {
	var missing []string
	if w.ChunkID == nil || *w.ChunkID == "" {
		missing = append(missing, "chunkId")
	}
	if w.DocID == nil || *w.DocID == "" {
		missing = append(missing, "docId")
	}
	if w.Span == nil {
		missing = append(missing, "span")
	}
	if w.Text == nil {
		missing = append(missing, "text")
	}
	if w.SourceURI == nil {
		missing = append(missing, "sourceUri")
	}
	if w.Hash == nil {
		missing = append(missing, "hash")
	}
	return missing
}

// Stage consumes raw lines and emits valid Chunks, logging and dropping
// malformed ones. Zero-or-one Chunks per input line.
func Stage(lines <-chan string, log *logger.Logger) <-chan domain.Chunk {
	out := make(chan domain.Chunk)
	go func() {
		defer close(out)
		for line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			chunk, err := Record(line)
			if err != nil {
				if log != nil {
					log.Warn("parse: dropping malformed record", "error", err)
				}
				continue
			}
			out <- chunk
		}
	}()
	return out
}

// Encode is the inverse of Record, used by round-trip tests.
func Encode(c domain.Chunk) (string, error) {
	w := wireChunk{
		ChunkID:   &c.ChunkID,
		DocID:     &c.DocID,
		Span:      &wireSpan{Start: c.Span.Start, End: c.Span.End},
		Text:      &c.Text,
		SourceURI: &c.SourceURI,
		Hash:      &c.Hash,
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("parse: encode: %w", err)
	}
	return string(raw), nil
}

// Package sink implements S7: a transactional, batched, idempotent-upsert
// graph writer. Grounded on internal/data/graph/neo4j_concept_graph.go and
// neo4j_material_kg.go's UNWIND/MERGE/SET Cypher shape, and
// internal/platform/neo4jdb/client.go's driver lifecycle.
package sink

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/neo4jdb"
)

var reNonLabelChar = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// sanitizeLabel strips anything that cannot appear in a Cypher label/rel-type
// token; defense in depth against a caller passing an untrusted label. Known
// labels (Chunk, Concept) pass through unchanged.
func sanitizeLabel(label string) string {
	return reNonLabelChar.ReplaceAllString(label, "_")
}

// sanitizeRelType uppercases and replaces non-[A-Z0-9_] characters, matching
// domain.RelationTypeName; applied again here since MENTIONS bypasses that
// helper.
func sanitizeRelType(relType string) string {
	return reNonLabelChar.ReplaceAllString(strings.ToUpper(relType), "_")
}

type Options struct {
	BatchSize  int
	MaxRetries int
}

// Sink accumulates GraphWrite commands into an in-memory buffer and flushes
// them transactionally. Sink instances do not share buffers — each worker
// owns its own sink, so batches from concurrent workers never interleave.
type Sink struct {
	client  *neo4jdb.Client
	session neo4j.SessionWithContext
	log     *logger.Logger
	opts    Options

	mu     sync.Mutex
	buffer []domain.GraphWrite
}

// Open establishes a session pinned to the client's configured database. The
// smoke test (`RETURN 1`) already ran when the client itself was opened;
// this one session is held across the sink's entire lifetime rather than
// reopened per flush.
func Open(ctx context.Context, client *neo4jdb.Client, opts Options, log *logger.Logger) (*Sink, error) {
	if client == nil {
		return nil, fmt.Errorf("sink: client required")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	session := client.Session(ctx, neo4j.AccessModeWrite)
	return &Sink{
		client:  client,
		session: session,
		log:     log.With("component", "sink"),
		opts:    opts,
	}, nil
}

// Write appends a command to the buffer, flushing when the buffer reaches
// BatchSize.
func (s *Sink) Write(ctx context.Context, w domain.GraphWrite) error {
	s.mu.Lock()
	s.buffer = append(s.buffer, w)
	full := len(s.buffer) >= s.opts.BatchSize
	s.mu.Unlock()

	if full {
		return s.Flush(ctx)
	}
	return nil
}

// WriteAll appends every command, flushing as needed between them.
func (s *Sink) WriteAll(ctx context.Context, ws []domain.GraphWrite) error {
	for _, w := range ws {
		if err := s.Write(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// Flush commits the buffered batch as one transaction with linear-backoff
// retry. On exhaustion, returns an error fatal to this sink worker.
func (s *Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		if err := s.commit(ctx, batch); err != nil {
			lastErr = err
			if attempt == s.opts.MaxRetries {
				break
			}
			s.log.Warn("sink: commit failed, retrying",
				"attempt", attempt, "max_retries", s.opts.MaxRetries, "batch_size", len(batch), "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("sink: flush exhausted %d attempts: %w", s.opts.MaxRetries, lastErr)
}

func (s *Sink) commit(ctx context.Context, batch []domain.GraphWrite) error {
	_, err := s.session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		for _, w := range batch {
			switch w.Kind {
			case domain.UpsertNodeWrite:
				if err := upsertNode(ctx, tx, w); err != nil {
					return nil, err
				}
			case domain.UpsertEdgeWrite:
				if err := upsertEdge(ctx, tx, w, now); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("sink: unknown GraphWrite kind %d", w.Kind)
			}
		}
		return nil, nil
	})
	return err
}

// idProperty returns the id-property name used to MERGE a node by label.
func idProperty(label string) string {
	switch label {
	case "Chunk":
		return "chunkId"
	case "Concept":
		return "conceptId"
	default:
		return "id"
	}
}

func upsertNode(ctx context.Context, tx neo4j.ManagedTransaction, w domain.GraphWrite) error {
	idProp := idProperty(w.NodeLabel)
	cypher := fmt.Sprintf(
		"MERGE (n:%s {%s: $id}) SET n += $props",
		sanitizeLabel(w.NodeLabel), idProp,
	)
	res, err := tx.Run(ctx, cypher, map[string]any{"id": w.NodeID, "props": w.NodeProps})
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// upsertEdge MERGEs both endpoints by (label, id-property) — out-of-order
// arrivals create a placeholder endpoint that a later node upsert completes,
// so no command may assume either endpoint already exists.
func upsertEdge(ctx context.Context, tx neo4j.ManagedTransaction, w domain.GraphWrite, now string) error {
	fromIDProp := idProperty(w.FromLabel)
	toIDProp := idProperty(w.ToLabel)
	relType := sanitizeRelType(w.RelType)

	cypher := fmt.Sprintf(
		`MERGE (a:%s {%s: $fromId})
MERGE (b:%s {%s: $toId})
MERGE (a)-[r:%s]->(b)
SET r += $props
SET r.updatedAt = $updatedAt`,
		sanitizeLabel(w.FromLabel), fromIDProp,
		sanitizeLabel(w.ToLabel), toIDProp,
		relType,
	)
	res, err := tx.Run(ctx, cypher, map[string]any{
		"fromId":    w.FromID,
		"toId":      w.ToID,
		"props":     w.EdgeProps,
		"updatedAt": now,
	})
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// Close flushes the residual buffer (with retries), then tears down the
// session. The driver itself is owned by the caller (it may be shared by
// other sink workers), so Close does not close it.
func (s *Sink) Close(ctx context.Context) error {
	flushErr := s.Flush(ctx)
	closeErr := s.session.Close(ctx)
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

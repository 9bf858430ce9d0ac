// Package graphquery implements S9's read-only Cypher lookups over the
// graph populated by the sink (S7). Kept separate from internal/pipeline/sink
// so read and write paths never share mutable state. Grounded on
// internal/data/graph/neo4j_concept_graph.go's MERGE/UNWIND Cypher shape,
// adapted here to MATCH-only read queries.
package graphquery

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/neurobridge-backend/internal/platform/apierr"
	"github.com/yungbote/neurobridge-backend/internal/platform/neo4jdb"
)

// ConceptView is the read-side projection of a Concept node.
type ConceptView struct {
	ConceptID string `json:"conceptId"`
	Lemma     string `json:"lemma"`
	Surface   string `json:"surface"`
	Origin    string `json:"origin"`
}

// MentionView pairs a Chunk with the text evidence the concept was found in.
type MentionView struct {
	ChunkID   string `json:"chunkId"`
	DocID     string `json:"docId"`
	SourceURI string `json:"sourceUri"`
	Text      string `json:"text"`
}

// RelationView is a typed edge incident to a concept, in either direction.
type RelationView struct {
	Predicate  string  `json:"predicate"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence"`
	OtherID    string  `json:"otherConceptId"`
	Direction  string  `json:"direction"` // "out" or "in"
}

// NeighborView is one concept reached while walking relation edges.
type NeighborView struct {
	Concept ConceptView `json:"concept"`
	Depth   int         `json:"depth"`
	Via     string      `json:"via"`
}

type Queries struct {
	client *neo4jdb.Client
}

func New(client *neo4jdb.Client) *Queries {
	return &Queries{client: client}
}

// GetConcept looks up one Concept node by its conceptId property.
func (q *Queries) GetConcept(ctx context.Context, conceptID string) (ConceptView, error) {
	session := q.client.Session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Concept {conceptId: $id})
RETURN c.conceptId AS conceptId, c.lemma AS lemma, c.surface AS surface, c.origin AS origin
LIMIT 1`, map[string]any{"id": conceptID})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, apierr.NotFound(fmt.Errorf("concept %q not found", conceptID))
		}
		return ConceptView{
			ConceptID: stringField(record, "conceptId"),
			Lemma:     stringField(record, "lemma"),
			Surface:   stringField(record, "surface"),
			Origin:    stringField(record, "origin"),
		}, nil
	})
	if err != nil {
		return ConceptView{}, err
	}
	return result.(ConceptView), nil
}

// Evidence returns every Chunk that mentions conceptID, plus every relation
// edge incident to it (direction-tagged).
func (q *Queries) Evidence(ctx context.Context, conceptID string) ([]MentionView, []RelationView, error) {
	if _, err := q.GetConcept(ctx, conceptID); err != nil {
		return nil, nil, err
	}

	session := q.client.Session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	mentions, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (ch:Chunk)-[:MENTIONS]->(c:Concept {conceptId: $id})
RETURN ch.chunkId AS chunkId, ch.docId AS docId, ch.sourceUri AS sourceUri, ch.text AS text`,
			map[string]any{"id": conceptID})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]MentionView, 0, len(records))
		for _, r := range records {
			out = append(out, MentionView{
				ChunkID:   stringField(r, "chunkId"),
				DocID:     stringField(r, "docId"),
				SourceURI: stringField(r, "sourceUri"),
				Text:      stringField(r, "text"),
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graphquery: evidence mentions: %w", err)
	}

	relations, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (c:Concept {conceptId: $id})-[r]->(o:Concept)
WHERE type(r) <> 'MENTIONS'
RETURN type(r) AS predicate, r.confidence AS confidence, r.evidence AS evidence, o.conceptId AS otherId, 'out' AS direction
UNION
MATCH (o:Concept)-[r]->(c:Concept {conceptId: $id})
WHERE type(r) <> 'MENTIONS'
RETURN type(r) AS predicate, r.confidence AS confidence, r.evidence AS evidence, o.conceptId AS otherId, 'in' AS direction`,
			map[string]any{"id": conceptID})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]RelationView, 0, len(records))
		for _, r := range records {
			out = append(out, RelationView{
				Predicate:  stringField(r, "predicate"),
				Confidence: floatField(r, "confidence"),
				Evidence:   stringField(r, "evidence"),
				OtherID:    stringField(r, "otherId"),
				Direction:  stringField(r, "direction"),
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("graphquery: evidence relations: %w", err)
	}

	return mentions.([]MentionView), relations.([]RelationView), nil
}

// Neighbors walks relation edges (excluding MENTIONS) out to depth hops,
// optionally restricted to a single predicate. depth is capped at 3.
func (q *Queries) Neighbors(ctx context.Context, conceptID string, depth int, predicate string) ([]NeighborView, error) {
	if _, err := q.GetConcept(ctx, conceptID); err != nil {
		return nil, err
	}
	if depth <= 0 {
		depth = 1
	}
	if depth > 3 {
		depth = 3
	}

	session := q.client.Session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	cypher := fmt.Sprintf(`
MATCH path = (c:Concept {conceptId: $id})-[r*1..%d]-(n:Concept)
WHERE all(rel IN r WHERE type(rel) <> 'MENTIONS' AND ($predicate = '' OR type(rel) = $predicate))
RETURN DISTINCT n.conceptId AS conceptId, n.lemma AS lemma, n.surface AS surface, n.origin AS origin,
       length(path) AS depth, type(last(r)) AS via`, depth)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"id": conceptID, "predicate": predicate})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]NeighborView, 0, len(records))
		for _, r := range records {
			out = append(out, NeighborView{
				Concept: ConceptView{
					ConceptID: stringField(r, "conceptId"),
					Lemma:     stringField(r, "lemma"),
					Surface:   stringField(r, "surface"),
					Origin:    stringField(r, "origin"),
				},
				Depth: intField(r, "depth"),
				Via:   stringField(r, "via"),
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graphquery: neighbors: %w", err)
	}
	return result.([]NeighborView), nil
}

// Healthy runs a lightweight driver connectivity check for /healthz.
func (q *Queries) Healthy(ctx context.Context) error {
	return q.client.Driver.VerifyConnectivity(ctx)
}

func stringField(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func floatField(record *neo4j.Record, key string) float64 {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	default:
		return 0
	}
}

func intField(record *neo4j.Record, key string) int {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return int(t)
	case float64:
		return int(t)
	default:
		return 0
	}
}

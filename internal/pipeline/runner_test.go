package pipeline

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/score"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	z, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("zap.NewDevelopment: %v", err)
	}
	return &logger.Logger{SugaredLogger: z.Sugar()}
}

type fakeGenerator struct {
	response string
}

func (f fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, nil
}

func (f fakeGenerator) Available(ctx context.Context) bool { return true }

func TestPlanChunkWithoutScoringEmitsOnlyMentions(t *testing.T) {
	log := testLogger(t)
	chunk := domain.Chunk{
		ChunkID: "c1", DocID: "d1",
		Text: "The PaymentGateway integrates with the BillingAPI for invoicing.",
	}
	plan := planChunk(context.Background(), chunk, nil, false, log)

	if plan.Candidates != 0 || plan.Relations != 0 {
		t.Fatalf("expected no candidates/relations when scoring disabled, got %+v", plan)
	}
	if plan.Concepts == 0 {
		t.Fatalf("expected at least one concept extracted from chunk text")
	}
	if len(plan.Writes) != 1+2*plan.Concepts {
		t.Fatalf("expected 1 chunk write + 2 writes per concept, got %d writes for %d concepts", len(plan.Writes), plan.Concepts)
	}
}

func TestPlanChunkWithScoringAddsRelationWrites(t *testing.T) {
	log := testLogger(t)
	chunk := domain.Chunk{
		ChunkID: "c1", DocID: "d1",
		Text: "The PaymentGateway integrates with the BillingAPI for invoicing.",
	}
	gen := fakeGenerator{response: `{"predicate":"uses","confidence":0.9,"evidence":"integrates with"}`}
	scorer := score.New(gen, score.Options{
		PredicateSet:  []string{"related_to", "uses"},
		MinConfidence: 0.5,
	}, log)

	plan := planChunk(context.Background(), chunk, scorer, true, log)

	if plan.Concepts < 2 {
		t.Skipf("extraction found fewer than 2 concepts (%d); candidate pairing requires at least 2", plan.Concepts)
	}
	if plan.Candidates == 0 {
		t.Fatalf("expected at least one candidate pair")
	}
	if plan.Relations != plan.Candidates {
		t.Fatalf("expected every candidate scored above threshold to be kept, got %d/%d", plan.Relations, plan.Candidates)
	}
	if len(plan.Writes) != 1+2*plan.Concepts+plan.Relations {
		t.Fatalf("expected chunk+concept+mention+relation writes, got %d for %d concepts %d relations",
			len(plan.Writes), plan.Concepts, plan.Relations)
	}
}

func TestPlanChunkScoringBelowThresholdDropsRelations(t *testing.T) {
	log := testLogger(t)
	chunk := domain.Chunk{
		ChunkID: "c1", DocID: "d1",
		Text: "The PaymentGateway integrates with the BillingAPI for invoicing.",
	}
	gen := fakeGenerator{response: `{"predicate":"uses","confidence":0.1,"evidence":"integrates with"}`}
	scorer := score.New(gen, score.Options{
		PredicateSet:  []string{"related_to", "uses"},
		MinConfidence: 0.5,
	}, log)

	plan := planChunk(context.Background(), chunk, scorer, true, log)

	if plan.Relations != 0 {
		t.Fatalf("expected all candidates dropped below threshold, got %d relations kept", plan.Relations)
	}
	if len(plan.Writes) != 1+2*plan.Concepts {
		t.Fatalf("expected no relation writes, got %d writes for %d concepts", len(plan.Writes), plan.Concepts)
	}
}

// Package pipeline wires S1 through S7 into a staged, data-parallel
// dataflow. Grounded on internal/jobs/pipeline/ingest_chunks/pipeline.go's
// heartbeat-goroutine-plus-WaitGroup shutdown idiom and
// internal/jobs/worker/worker.go's env-controlled goroutine fan-out, using
// golang.org/x/sync/errgroup (already a teacher dependency) to supervise
// fatal-error cancellation across the per-Chunk worker pool.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-backend/internal/config"
	"github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/extract"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/materialize"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/pair"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/parse"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/score"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/sink"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/source"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/neo4jdb"
)

// Stats summarizes one Run, used for both operator logging and tests.
type Stats struct {
	LinesRead       int
	ChunksParsed    int
	ConceptsEmitted int
	CandidatesMade  int
	RelationsKept   int
	WritesCommitted int
}

// Report is called periodically with a human-readable progress message,
// matching internal/jobs/pipeline/ingest_chunks's Report callback shape.
type Report func(stage string, message string)

type Options struct {
	Parallelism int
	Report      Report
}

// Run executes S1(r)->S2->S3/S4->S5->S6->S7 to completion and returns
// aggregate Stats. Fatal sink errors (open/commit-exhaustion) abort the run;
// every other per-item error is logged and swallowed so one bad chunk never
// kills the run.
func Run(ctx context.Context, r io.Reader, client *neo4jdb.Client, cfg config.Config, scorer *score.Scorer, log *logger.Logger, opts Options) (Stats, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = cfg.Pipeline.Parallelism
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	report := opts.Report
	if report == nil {
		report = func(string, string) {}
	}

	lines, srcErrc := source.Records(ctx, r)
	chunks := parse.Stage(lines, log)

	stats := Stats{}
	statsc := make(chan func(*Stats), opts.Parallelism*4)

	group, gctx := errgroup.WithContext(ctx)

	sinks := make([]*sink.Sink, opts.Parallelism)
	for i := 0; i < opts.Parallelism; i++ {
		s, err := sink.Open(gctx, client, sink.Options{BatchSize: cfg.Graph.BatchSize, MaxRetries: cfg.Graph.MaxRetries}, log)
		if err != nil {
			return stats, fmt.Errorf("pipeline: open sink %d: %w", i, err)
		}
		sinks[i] = s
	}

	scoringEnabled := scorer != nil && scorer.Enabled(gctx)
	if !scoringEnabled {
		log.Info("pipeline: scoring disabled for this run; relation edges will not be produced")
	}

	for i := 0; i < opts.Parallelism; i++ {
		workerSink := sinks[i]
		group.Go(func() error {
			defer func() {
				if err := workerSink.Close(gctx); err != nil {
					log.Error("pipeline: sink close failed", "error", err)
				}
			}()

			for chunk := range chunks {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				plan := planChunk(gctx, chunk, scorer, scoringEnabled, log)

				if err := workerSink.WriteAll(gctx, plan.Writes); err != nil {
					return fmt.Errorf("pipeline: sink write: %w", err)
				}

				report("materialize", fmt.Sprintf("chunk %s: %d concepts, %d candidates, %d relations", chunk.ChunkID, plan.Concepts, plan.Candidates, plan.Relations))

				writesLen := len(plan.Writes)
				statsc <- func(s *Stats) {
					s.ChunksParsed++
					s.ConceptsEmitted += plan.Concepts
					s.CandidatesMade += plan.Candidates
					s.RelationsKept += plan.Relations
					s.WritesCommitted += writesLen
				}
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		for mutate := range statsc {
			mutate(&stats)
		}
		close(done)
	}()

	runErr := group.Wait()
	close(statsc)
	<-done

	if runErr != nil {
		return stats, runErr
	}

	if err, ok := <-srcErrc; ok && err != nil {
		return stats, fmt.Errorf("pipeline: source: %w", err)
	}

	return stats, nil
}

// chunkPlan is the pure result of running S3/S4/S5/S6 over one Chunk,
// factored out of the worker loop so it can be exercised directly in tests
// without a live Neo4j connection.
type chunkPlan struct {
	Writes     []domain.GraphWrite
	Concepts   int
	Candidates int
	Relations  int
}

func planChunk(ctx context.Context, chunk domain.Chunk, scorer *score.Scorer, scoringEnabled bool, log *logger.Logger) chunkPlan {
	concepts := extract.Extract(chunk, log)
	writes := materialize.ChunkWithMentions(chunk, concepts)

	plan := chunkPlan{Concepts: len(concepts)}

	if scoringEnabled {
		candidates := pair.Candidates(chunk, concepts)
		plan.Candidates = len(candidates)
		for _, candidate := range candidates {
			rel, kept := scorer.Score(ctx, candidate)
			if !kept {
				continue
			}
			writes = append(writes, materialize.Relation(rel))
			plan.Relations++
		}
	}

	plan.Writes = writes
	return plan
}

// HeartbeatTicker starts a goroutine reporting elapsed time at interval
// until stop is closed, matching the ingest_chunks heartbeat idiom. Returned
// for callers that want to surface liveness independent of per-chunk Report
// calls.
func HeartbeatTicker(ctx context.Context, interval time.Duration, report func(elapsed time.Duration)) (stop func()) {
	stopc := make(chan struct{})
	go func() {
		start := time.Now()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopc:
				return
			case <-t.C:
				report(time.Since(start))
			}
		}
	}()
	var stopOnce bool
	return func() {
		if stopOnce {
			return
		}
		stopOnce = true
		close(stopc)
	}
}

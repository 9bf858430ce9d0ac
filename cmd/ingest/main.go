// Command ingest runs S1..S7 over a bounded text source, then exits.
// Grounded on cmd/inference/main.go's app-init + shutdown.NotifyContext +
// exit-code-on-error shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/yungbote/neurobridge-backend/internal/config"
	"github.com/yungbote/neurobridge-backend/internal/pipeline"
	"github.com/yungbote/neurobridge-backend/internal/pipeline/score"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/neo4jdb"
	"github.com/yungbote/neurobridge-backend/internal/platform/ollamaclient"
	"github.com/yungbote/neurobridge-backend/internal/platform/shutdown"
)

func main() {
	var input string
	var logMode string
	flag.StringVar(&input, "input", "", "path to a newline-delimited JSON Chunk file; stdin if empty")
	flag.StringVar(&logMode, "log-mode", "dev", "logger mode: dev or prod")
	flag.Parse()

	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	client, err := neo4jdb.New(neo4jdb.Config{
		URI:      cfg.Graph.URI,
		User:     cfg.Graph.User,
		Password: cfg.Graph.Password,
		Database: cfg.Graph.Database,
		Timeout:  cfg.Graph.Timeout,
	}, log)
	if err != nil {
		log.Error("graph client init failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()
	defer client.Close(context.Background())

	llmClient := ollamaclient.New(ollamaclient.Config{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
	}, log)
	scorer := score.New(llmClient, score.Options{
		PredicateSet:  cfg.Relation.PredicateSet,
		MinConfidence: cfg.Relation.MinConfidence,
	}, log)

	r, closeInput, err := openInput(input)
	if err != nil {
		log.Error("open input failed", "error", err)
		os.Exit(1)
	}
	defer closeInput()

	stats, err := pipeline.Run(ctx, r, client, cfg, scorer, log, pipeline.Options{
		Parallelism: cfg.Pipeline.Parallelism,
		Report: func(stage, message string) {
			log.Debug("pipeline progress", "stage", stage, "message", message)
		},
	})
	if err != nil {
		log.Error("pipeline run failed", "error", err, "stats", stats)
		os.Exit(1)
	}

	log.Info("pipeline run complete",
		"chunks_parsed", stats.ChunksParsed,
		"concepts_emitted", stats.ConceptsEmitted,
		"candidates_made", stats.CandidatesMade,
		"relations_kept", stats.RelationsKept,
		"writes_committed", stats.WritesCommitted,
	)
}

// openInput opens path for reading, or falls back to stdin when path is
// empty. The returned closer is always safe to call.
func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// Command server runs S9 (the read-only query HTTP surface) against an
// already-populated graph. Grounded on cmd/inference/main.go's app-init
// shape; gin's blocking Run has no context parameter, so shutdown here is
// OS-signal-terminated rather than context-cancelled.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/neurobridge-backend/internal/config"
	"github.com/yungbote/neurobridge-backend/internal/graphquery"
	httpapi "github.com/yungbote/neurobridge-backend/internal/http"
	"github.com/yungbote/neurobridge-backend/internal/http/handlers"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/neo4jdb"
)

func main() {
	var logMode string
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

	defer client.Close(context.Background())

	queries := graphquery.New(client)
	server := httpapi.NewServer(httpapi.RouterConfig{
		ConceptHandler: handlers.NewConceptHandler(queries),
		HealthHandler:  handlers.NewHealthHandler(queries),
		Log:            log,
	})

	log.Info("query surface listening", "addr", cfg.HTTP.Addr)
	if err := server.Run(cfg.HTTP.Addr); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

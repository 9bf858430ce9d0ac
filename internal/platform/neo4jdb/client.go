// Package neo4jdb owns the lifetime of the neo4j driver used by both the
// sink (S7) and the query surface's read queries (S9).
package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type Client struct {
	Driver   neo4j.DriverWithContext
	database string
	log      *logger.Logger
}

// Config carries the connection options sourced from the `graph.*` config
// section.
type Config struct {
	URI      string
	User     string
	Password string
	Database string
	Timeout  time.Duration
	MaxPool  int
}

// New opens a driver against cfg and runs `RETURN 1` as a smoke test; a
// failure here is fatal — nothing downstream can make progress without a
// reachable graph.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4jdb: graph.uri required")
	}
	if cfg.User == "" {
		cfg.User = "neo4j"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxPool <= 0 {
		cfg.MaxPool = 50
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(dc *neo4j.Config) {
		dc.MaxConnectionPoolSize = cfg.MaxPool
		dc.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	session := driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: cfg.Database,
	})
	_, err = session.Run(ctx, "RETURN 1", nil)
	closeErr := session.Close(ctx)
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: smoke test: %w", err)
	}
	if closeErr != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: smoke test session close: %w", closeErr)
	}

	return &Client{
		Driver:   driver,
		database: cfg.Database,
		log:      log.With("client", "neo4jdb"),
	}, nil
}

// NewFromEnv builds a Config from the environment so the connection
// endpoint and password can be overridden regardless of file-based
// configuration.
func NewFromEnv(log *logger.Logger) (*Client, error) {
	cfg := Config{
		URI:      envutil.String("NEO4J_URI", ""),
		User:     envutil.String("NEO4J_USER", "neo4j"),
		Password: envutil.String("NEO4J_PASSWORD", ""),
		Database: envutil.String("NEO4J_DATABASE", "neo4j"),
		Timeout:  envutil.Duration("NEO4J_TIMEOUT", 10*time.Second),
		MaxPool:  envutil.Int("NEO4J_MAX_POOL_SIZE", 50),
	}
	return New(cfg, log)
}

func (c *Client) Database() string { return c.database }

// Session opens a session pinned to the client's configured database.
func (c *Client) Session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: c.database,
	})
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}

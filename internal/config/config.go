// Package config loads the pipeline and query-surface configuration from a
// YAML file, with environment overrides for connection endpoint and
// credentials so secrets never need to live in a checked-in file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
)

type GraphConfig struct {
	URI        string        `yaml:"uri"`
	User       string        `yaml:"user"`
	Password   string        `yaml:"password"`
	Database   string        `yaml:"database"`
	BatchSize  int           `yaml:"batchSize"`
	MaxRetries int           `yaml:"maxRetries"`
	Timeout    time.Duration `yaml:"timeout"`
}

type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"maxRetries"`
}

type RelationConfig struct {
	CooccurWindow int      `yaml:"cooccurWindow"`
	CooccurMinPMI float64  `yaml:"cooccurMinPmi"`
	PredicateSet  []string `yaml:"predicateSet"`
	MinConfidence float64  `yaml:"minConfidence"`
}

type PipelineConfig struct {
	Parallelism int `yaml:"parallelism"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Graph    GraphConfig    `yaml:"graph"`
	LLM      LLMConfig      `yaml:"llm"`
	Relation RelationConfig `yaml:"relation"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// Default returns the fallback configuration used when no YAML file is
// present, matching the shape of learning_build's embedded-fallback spec.
func Default() Config {
	return Config{
		Graph: GraphConfig{
			User:       "neo4j",
			Database:   "neo4j",
			BatchSize:  500,
			MaxRetries: 3,
			Timeout:    10 * time.Second,
		},
		LLM: LLMConfig{
			Model:       "llama3",
			Temperature: 0.0,
			Timeout:     30 * time.Second,
			MaxRetries:  3,
		},
		Relation: RelationConfig{
			CooccurWindow: 0,
			CooccurMinPMI: 0,
			PredicateSet:  []string{"related_to", "is_a", "part_of", "causes", "uses"},
			MinConfidence: 0.6,
		},
		Pipeline: PipelineConfig{
			Parallelism: 4,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load reads path (falling back to the Default() when path does not exist),
// then applies environment overrides — graph.uri and graph.password must
// not be required to live only in a configuration file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv loads from CONFIG_PATH (default "config.yaml").
func LoadFromEnv() (Config, error) {
	return Load(envutil.String("CONFIG_PATH", "config.yaml"))
}

func applyEnvOverrides(cfg *Config) {
	cfg.Graph.URI = envutil.String("NEO4J_URI", cfg.Graph.URI)
	cfg.Graph.User = envutil.String("NEO4J_USER", cfg.Graph.User)
	cfg.Graph.Password = envutil.String("NEO4J_PASSWORD", cfg.Graph.Password)
	cfg.Graph.Database = envutil.String("NEO4J_DATABASE", cfg.Graph.Database)
	cfg.Graph.BatchSize = envutil.Int("GRAPH_BATCH_SIZE", cfg.Graph.BatchSize)
	cfg.Graph.MaxRetries = envutil.Int("GRAPH_MAX_RETRIES", cfg.Graph.MaxRetries)
	cfg.Graph.Timeout = envutil.Duration("GRAPH_TIMEOUT", cfg.Graph.Timeout)

	cfg.LLM.Endpoint = envutil.String("LLM_ENDPOINT", cfg.LLM.Endpoint)
	cfg.LLM.Model = envutil.String("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.Temperature = envutil.Float("LLM_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.Timeout = envutil.Duration("LLM_TIMEOUT", cfg.LLM.Timeout)
	cfg.LLM.MaxRetries = envutil.Int("LLM_MAX_RETRIES", cfg.LLM.MaxRetries)

	cfg.Relation.MinConfidence = envutil.Float("RELATION_MIN_CONFIDENCE", cfg.Relation.MinConfidence)
	cfg.Relation.CooccurMinPMI = envutil.Float("RELATION_COOCCUR_MIN_PMI", cfg.Relation.CooccurMinPMI)

	cfg.Pipeline.Parallelism = envutil.Int("PIPELINE_PARALLELISM", cfg.Pipeline.Parallelism)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
}

// validate rejects a missing required value before any stage starts.
func validate(cfg Config) error {
	if cfg.Graph.URI == "" {
		return fmt.Errorf("config: graph.uri is required (set NEO4J_URI)")
	}
	if cfg.Graph.BatchSize <= 0 {
		return fmt.Errorf("config: graph.batchSize must be positive")
	}
	if cfg.Graph.MaxRetries <= 0 {
		return fmt.Errorf("config: graph.maxRetries must be positive")
	}
	if cfg.LLM.MaxRetries <= 0 {
		return fmt.Errorf("config: llm.maxRetries must be at least 1")
	}
	if cfg.Pipeline.Parallelism <= 0 {
		return fmt.Errorf("config: pipeline.parallelism must be positive")
	}
	return nil
}

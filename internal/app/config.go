package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/puzzlegraph/internal/batch"
	redisbus "github.com/yungbote/puzzlegraph/internal/clients/redis"
	"github.com/yungbote/puzzlegraph/internal/observability"
	"github.com/yungbote/puzzlegraph/internal/platform/envutil"
	"github.com/yungbote/puzzlegraph/internal/platform/neo4jdb"
	"github.com/yungbote/puzzlegraph/internal/statespace"
)

const configPathEnv = "PUZZLEGRAPH_CONFIG"

const (
	SinkMemory   = "memory"
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
	SinkNeo4j    = "neo4j"
)

var ErrUnknownSink = errors.New("unknown sink")

type Config struct {
	LogMode  string `yaml:"log_mode"`
	LogLevel string `yaml:"log_level"`

	Graph          string `yaml:"graph"`
	BoardSide      int    `yaml:"board_side"`
	StateBatchSize int    `yaml:"state_batch_size"`
	MoveBatchSize  int    `yaml:"move_batch_size"`
	DryRun         bool   `yaml:"dry_run"`

	Sink         string `yaml:"sink"`
	EnsureSchema bool   `yaml:"ensure_schema"`
	SQLitePath   string `yaml:"sqlite_path"`
	PostgresDSN  string `yaml:"postgres_dsn"`

	Neo4j neo4jdb.Config            `yaml:"neo4j"`
	Redis redisbus.Config           `yaml:"redis"`
	Otel  observability.OtelConfig `yaml:"otel"`
}

func DefaultConfig() Config {
	return Config{
		LogMode:        "development",
		Graph:          "puzzle8",
		BoardSide:      3,
		StateBatchSize: 50000,
		MoveBatchSize:  50000,
		Sink:           SinkMemory,
		EnsureSchema:   true,
		SQLitePath:     "puzzlegraph.db",
		Otel:           observability.OtelConfig{ServiceName: "puzzlegraph", SampleRatio: 1},
	}
}

// LoadConfig layers defaults, the YAML file at path (or $PUZZLEGRAPH_CONFIG),
// and environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = strings.TrimSpace(os.Getenv(configPathEnv))
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)

	cfg.Graph = envutil.String("GRAPH_NAME", cfg.Graph)
	cfg.BoardSide = envutil.Int("BOARD_SIDE", cfg.BoardSide)
	cfg.StateBatchSize = envutil.Int("STATE_BATCH_SIZE", cfg.StateBatchSize)
	cfg.MoveBatchSize = envutil.Int("MOVE_BATCH_SIZE", cfg.MoveBatchSize)

	cfg.Sink = strings.ToLower(envutil.String("SINK", cfg.Sink))
	cfg.EnsureSchema = envutil.Bool("ENSURE_SCHEMA", cfg.EnsureSchema)
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)
	cfg.PostgresDSN = envutil.String("POSTGRES_DSN", cfg.PostgresDSN)

	cfg.Neo4j.URI = envutil.String("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.String("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.String("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.String("NEO4J_DATABASE", cfg.Neo4j.Database)
	cfg.Neo4j.Timeout = envutil.Seconds("NEO4J_TIMEOUT_SECONDS", cfg.Neo4j.Timeout)
	cfg.Neo4j.MaxPoolSize = envutil.Int("NEO4J_MAX_POOL_SIZE", cfg.Neo4j.MaxPoolSize)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Otel.SampleRatio)
}

// Validate rejects a configuration before any work starts.
func (c Config) Validate() error {
	if c.BoardSide < 1 {
		return fmt.Errorf("board side %d: %w", c.BoardSide, statespace.ErrInvalidTileCount)
	}
	if c.BoardSide > statespace.MaxSide {
		return fmt.Errorf("board side %d: %w", c.BoardSide, statespace.ErrBoardTooLarge)
	}
	if c.StateBatchSize <= 0 {
		return fmt.Errorf("state batch size %d: %w", c.StateBatchSize, batch.ErrInvalidBatchSize)
	}
	if c.MoveBatchSize <= 0 {
		return fmt.Errorf("move batch size %d: %w", c.MoveBatchSize, batch.ErrInvalidBatchSize)
	}
	if strings.TrimSpace(c.Graph) == "" {
		return fmt.Errorf("graph name required")
	}
	if c.DryRun {
		return nil
	}
	switch c.Sink {
	case SinkMemory:
	case SinkSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("sqlite sink: SQLITE_PATH required")
		}
	case SinkPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("postgres sink: POSTGRES_DSN required")
		}
	case SinkNeo4j:
		if strings.TrimSpace(c.Neo4j.URI) == "" {
			return fmt.Errorf("neo4j sink: NEO4J_URI required")
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownSink, c.Sink)
	}
	return nil
}

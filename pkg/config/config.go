package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the decision engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"7200"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// ERP database configuration (PostgreSQL)
	ERP ERPConfig `yaml:"erp"`

	// Graph database configuration (Neo4j)
	Graph GraphConfig `yaml:"graph"`

	// Engine tunables
	Engine EngineConfig `yaml:"engine"`
}

// ERPConfig holds PostgreSQL ERP database configuration.
type ERPConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"demo"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"erp"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// GraphConfig holds Neo4j graph database configuration.
type GraphConfig struct {
	URI      string `yaml:"uri" env:"NEO4J_URI" env-default:"bolt://localhost:7687"`
	User     string `yaml:"user" env:"NEO4J_USER" env-default:"neo4j"`
	Password string `yaml:"-" env:"NEO4J_PASSWORD"` // Secret - not in YAML
}

// EngineConfig holds decision-engine tunables.
type EngineConfig struct {
	// DefaultFactoryID is assumed when a request omits the target factory
	// and the graph has no producing factory on record.
	DefaultFactoryID string `yaml:"default_factory_id" env:"ENGINE_DEFAULT_FACTORY_ID" env-default:"F1"`
	// DefaultHorizonDays is the demand-consolidation horizon when unset.
	DefaultHorizonDays int `yaml:"default_horizon_days" env:"ENGINE_DEFAULT_HORIZON_DAYS" env-default:"30"`
	// DefaultNeedByDays is added to today for RFQ scoring when the request
	// carries no need-by date.
	DefaultNeedByDays int `yaml:"default_need_by_days" env:"ENGINE_DEFAULT_NEED_BY_DAYS" env-default:"30"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string for the ERP tier.
func (c *ERPConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

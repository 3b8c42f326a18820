package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for learning-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8443"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Record store configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis catalog snapshot cache (optional - disabled if host is empty)
	Redis RedisConfig `yaml:"redis"`

	// Local index-alert log
	AlertLog AlertLogConfig `yaml:"alert_log"`

	// AI learning advisor endpoint
	Advisor AdvisorConfig `yaml:"advisor"`

	// Recommendation engine tuning
	Recommend RecommendConfig `yaml:"recommend"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without an auth server.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL record store configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"cyberpath"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"learning_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds Redis configuration for the catalog snapshot cache.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
	// SnapshotTTLMinutes is how long a cached catalog snapshot stays valid.
	SnapshotTTLMinutes int `yaml:"snapshot_ttl_minutes" env:"REDIS_SNAPSHOT_TTL_MINUTES" env-default:"30"`
}

// AlertLogConfig holds the local index-alert log settings.
type AlertLogConfig struct {
	// Path is the SQLite file backing the alert log.
	Path string `yaml:"path" env:"ALERT_LOG_PATH" env-default:"index_alerts.db"`
	// MaxEntries caps the log; oldest entries by last_seen are evicted past it.
	MaxEntries int `yaml:"max_entries" env:"ALERT_LOG_MAX_ENTRIES" env-default:"200"`
}

// AdvisorConfig holds configuration for the AI learning advisor.
type AdvisorConfig struct {
	// Provider selects the client implementation: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"ADVISOR_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"ADVISOR_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"ADVISOR_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"ADVISOR_API_KEY"` // Secret - not in YAML
	// TimeoutSeconds bounds each advisor call; timeouts degrade to no AI candidates.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"ADVISOR_TIMEOUT_SECONDS" env-default:"15"`
}

// IsAvailable returns true if the advisor endpoint is configured.
func (c *AdvisorConfig) IsAvailable() bool {
	return c.Endpoint != "" && c.Model != ""
}

// Timeout returns the advisor call timeout as a duration.
func (c *AdvisorConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// MaxRecommendations is the default top-N slice size.
	MaxRecommendations int `yaml:"max_recommendations" env:"RECOMMEND_MAX" env-default:"5"`
	// WeightsPath optionally points to a YAML file overriding algorithm weights.
	WeightsPath string `yaml:"weights_path" env:"RECOMMEND_WEIGHTS_PATH" env-default:""`
	// Combiner selects how duplicate course scores merge: "max" or "weighted".
	Combiner string `yaml:"combiner" env:"RECOMMEND_COMBINER" env-default:"max"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// Environment variables override YAML values. Secrets (PGPASSWORD,
// ADVISOR_API_KEY, REDIS_PASSWORD) must come from environment variables.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if cfg.Advisor.Provider != "openai" && cfg.Advisor.Provider != "anthropic" {
		return nil, fmt.Errorf("invalid advisor provider: %s", cfg.Advisor.Provider)
	}
	if cfg.Recommend.Combiner != "max" && cfg.Recommend.Combiner != "weighted" {
		return nil, fmt.Errorf("invalid recommend combiner: %s", cfg.Recommend.Combiner)
	}

	return cfg, nil
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, "=")
		if len(parts) == 2 {
			endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns a PostgreSQL connection URL for pgxpool.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int           `mapstructure:"max_connections"`
	IdleConnections int           `mapstructure:"idle_connections"`
	MaxLifetime     time.Duration `mapstructure:"max_lifetime"`
}

// RedisConfig holds Redis connection settings for the blacklist cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LLMConfig holds settings for the local OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

// AdapterConfig holds per-engine wiring.
type AdapterConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// RatePerSecond caps outbound calls to the vendor; 0 disables limiting.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

// QueryCacheConfig controls the in-process query-generation cache.
type QueryCacheConfig struct {
	MaxSize int           `mapstructure:"max_size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// BlacklistCacheConfig controls the domain blacklist cache.
type BlacklistCacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ConfidenceConfig holds the phase-1 classification threshold.
type ConfidenceConfig struct {
	// Threshold is parsed as a scale-2 decimal; the string form avoids
	// binary-float drift on the exact-threshold comparison.
	Threshold string `mapstructure:"threshold"`
}

// WorkflowConfig controls orchestration.
type WorkflowConfig struct {
	MaxQueriesPerEngine int           `mapstructure:"max_queries_per_engine"`
	TotalTimeout        time.Duration `mapstructure:"total_timeout"`
	MaxConcurrency      int           `mapstructure:"max_concurrency"`
}

// ServerConfig controls the admin/trigger HTTP server.
type ServerConfig struct {
	Port        int `mapstructure:"port"`
	MetricsPort int `mapstructure:"metrics_port"`
	// AuthToken, when set, requires a matching bearer token on the
	// discovery API endpoints.
	AuthToken string `mapstructure:"auth_token"`
}

// Config is the root configuration for the discovery service.
type Config struct {
	Database       DatabaseConfig           `mapstructure:"database"`
	Redis          RedisConfig              `mapstructure:"redis"`
	LLM            LLMConfig                `mapstructure:"llm"`
	Adapters       map[string]AdapterConfig `mapstructure:"adapters"`
	QueryCache     QueryCacheConfig         `mapstructure:"query_cache"`
	BlacklistCache BlacklistCacheConfig     `mapstructure:"blacklist_cache"`
	Confidence     ConfidenceConfig         `mapstructure:"confidence"`
	Workflow       WorkflowConfig           `mapstructure:"workflow"`
	Server         ServerConfig             `mapstructure:"server"`
	// TablesPath points at the hot-reloadable scoring/antispam tables file.
	TablesPath string `mapstructure:"tables_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "discovery")
	v.SetDefault("database.password", "discovery")
	v.SetDefault("database.database", "discovery")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.idle_connections", 5)
	v.SetDefault("database.max_lifetime", 5*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.base_url", "http://localhost:8000")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "llama-3.1-8b-instruct")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_tokens", 200)
	v.SetDefault("llm.temperature", 0.7)

	for _, engine := range []string{"searxng", "brave", "serper", "tavily", "perplexica"} {
		v.SetDefault("adapters."+engine+".enabled", engine == "searxng")
		v.SetDefault("adapters."+engine+".timeout", 15*time.Second)
		v.SetDefault("adapters."+engine+".rate_per_second", 1.0)
	}
	v.SetDefault("adapters.searxng.base_url", "http://localhost:8888")
	v.SetDefault("adapters.brave.base_url", "https://api.search.brave.com/res/v1/web/search")
	v.SetDefault("adapters.serper.base_url", "https://google.serper.dev/search")
	v.SetDefault("adapters.tavily.base_url", "https://api.tavily.com/search")
	v.SetDefault("adapters.perplexica.base_url", "http://localhost:3001")

	v.SetDefault("query_cache.max_size", 1000)
	v.SetDefault("query_cache.ttl", 24*time.Hour)
	v.SetDefault("blacklist_cache.ttl", 24*time.Hour)

	v.SetDefault("confidence.threshold", "0.60")

	v.SetDefault("workflow.max_queries_per_engine", 3)
	v.SetDefault("workflow.total_timeout", 10*time.Minute)
	v.SetDefault("workflow.max_concurrency", 16)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.auth_token", "")

	v.SetDefault("tables_path", "")
}

// Load reads the config file at path (optional; defaults apply when the file
// is missing) and applies DISCOVERY_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DISCOVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// AdapterFor returns the adapter section for an engine name (case-insensitive),
// falling back to a disabled zero config.
func (c *Config) AdapterFor(engine string) AdapterConfig {
	if a, ok := c.Adapters[strings.ToLower(engine)]; ok {
		return a
	}
	return AdapterConfig{}
}

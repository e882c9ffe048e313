package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the server and tools.
type Config struct {
	Port int `envconfig:"PORT" default:"8080" yaml:"port"`

	// Storage for last-used waypoint lists: sqlite (local file) or postgres.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite" yaml:"store_driver"`
	DBPath      string `envconfig:"DB_PATH" default:"data/app.db" yaml:"db_path"`
	DatabaseURL string `envconfig:"DATABASE_URL" yaml:"database_url"`
	SeedPath    string `envconfig:"SEED_PATH" default:"data/seeds/boards.json" yaml:"seed_path"`

	// Explanation cache: sql (same database as the store), redis, or none.
	CacheDriver    string        `envconfig:"CACHE_DRIVER" default:"sql" yaml:"cache_driver"`
	RedisURL       string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0" yaml:"redis_url"`
	ExplanationTTL time.Duration `envconfig:"EXPLANATION_TTL" default:"24h" yaml:"explanation_ttl"`
	WaypointTTL    time.Duration `envconfig:"WAYPOINT_TTL" default:"720h" yaml:"waypoint_ttl"`

	BoardSize int `envconfig:"BOARD_SIZE" default:"8" yaml:"board_size"`

	// Text generation: openai (chat-completions compatible endpoint), mock, or none.
	LLMProvider    string        `envconfig:"LLM_PROVIDER" default:"none" yaml:"llm_provider"`
	LLMBaseURL     string        `envconfig:"LLM_BASE_URL" default:"https://api.openai.com/v1" yaml:"llm_base_url"`
	LLMAPIKey      string        `envconfig:"LLM_API_KEY" yaml:"-"`
	LLMModel       string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini" yaml:"llm_model"`
	LLMTimeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"20s" yaml:"llm_timeout"`
	LLMConcurrency int           `envconfig:"LLM_CONCURRENCY" default:"4" yaml:"llm_concurrency"`

	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"en" yaml:"default_language"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" yaml:"log_level"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" yaml:"log_format"`
	LogFile   string `envconfig:"LOG_FILE" yaml:"log_file"`
}

// EnvConfigFile names an optional YAML file applied before environment variables.
const EnvConfigFile = "CONFIG_FILE"

// Load builds the configuration: envconfig defaults, then the optional YAML file,
// then environment variables, which always win.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: process env: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("load config: parse %q: %w", path, err)
		}
		mergeFile(&cfg, &fileCfg)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

// mergeFile copies non-zero file values into cfg for every field whose
// environment variable is not set.
func mergeFile(cfg, fileCfg *Config) {
	dst := reflect.ValueOf(cfg).Elem()
	src := reflect.ValueOf(fileCfg).Elem()
	t := dst.Type()

	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("envconfig")
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if v := src.Field(i); !v.IsZero() {
			dst.Field(i).Set(v)
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	switch cfg.StoreDriver {
	case "sqlite":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return errors.New("DB_PATH is required for STORE_DRIVER=sqlite")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", cfg.StoreDriver)
	}

	switch cfg.CacheDriver {
	case "sql", "none":
	case "redis":
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return errors.New("REDIS_URL is required for CACHE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("CACHE_DRIVER must be sql, redis or none, got %q", cfg.CacheDriver)
	}

	switch cfg.LLMProvider {
	case "mock", "none":
	case "openai":
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			return errors.New("LLM_API_KEY is required for LLM_PROVIDER=openai")
		}
		if strings.TrimSpace(cfg.LLMBaseURL) == "" {
			return errors.New("LLM_BASE_URL is required for LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be openai, mock or none, got %q", cfg.LLMProvider)
	}

	if cfg.LLMConcurrency < 1 {
		return fmt.Errorf("LLM_CONCURRENCY must be at least 1")
	}
	if cfg.BoardSize < 1 {
		return fmt.Errorf("BOARD_SIZE must be at least 1")
	}
	if cfg.ExplanationTTL < 0 || cfg.WaypointTTL < 0 {
		return fmt.Errorf("EXPLANATION_TTL and WAYPOINT_TTL must not be negative")
	}

	return nil
}

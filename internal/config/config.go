package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	WorkerCount   int           `yaml:"worker_count"`
	Engine        EngineConfig  `yaml:"engine"`
	Ollama        OllamaConfig  `yaml:"ollama"`
}

type EngineConfig struct {
	Model       string        `yaml:"model"`
	ChatModel   string        `yaml:"chat_model"`
	Timeout     time.Duration `yaml:"timeout"`
	MergePolicy string        `yaml:"merge_policy"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	DefaultModelNames       []string      `yaml:"models"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("BENCHWISE_ADDR", ":8080"),
		JWTSecret:     getEnv("BENCHWISE_JWT_SECRET", insecureJWTSecret),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("BENCHWISE_DATABASE_PATH", "benchwise.db"),
		TokenDuration: 1 * time.Hour,
		WorkerCount:   2,
		Engine: EngineConfig{
			Model:       getEnv("BENCHWISE_MODEL", "llama3"),
			ChatModel:   getEnv("BENCHWISE_CHAT_MODEL", "llama3"),
			Timeout:     60 * time.Second,
			MergePolicy: "replace_all",
		},
		Ollama: OllamaConfig{
			BaseURL:                 getEnv("BENCHWISE_OLLAMA_URL", "http://localhost:11434"),
			Timeout:                 30 * time.Second,
			Retries:                 3,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach a deployed
// environment. The default JWT secret is only tolerated when
// BENCHWISE_ENV is development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Engine.Model == "" {
		return fmt.Errorf("engine model is required")
	}
	if c.JWTSecret == "" || c.JWTSecret == insecureJWTSecret {
		if getEnv("BENCHWISE_ENV", "development") != "development" {
			return fmt.Errorf("jwt_secret must be set to a non-default value outside development")
		}
	}
	switch c.Engine.MergePolicy {
	case "", "replace_all", "union_preserve_unseen":
	default:
		return fmt.Errorf("unknown merge_policy %q", c.Engine.MergePolicy)
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/benchwise/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.Engine.Model == "" {
		t.Fatalf("expected default engine model")
	}
	if cfg.Engine.MergePolicy != "replace_all" {
		t.Fatalf("unexpected merge policy: %s", cfg.Engine.MergePolicy)
	}
}

func TestLoadConfig_YAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "addr: \":9090\"\ndatabase_path: \"test.db\"\nengine:\n  model: \"mistral\"\n  merge_policy: \"union_preserve_unseen\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.Engine.Model != "mistral" {
		t.Fatalf("unexpected model: %s", cfg.Engine.Model)
	}
	if cfg.Engine.MergePolicy != "union_preserve_unseen" {
		t.Fatalf("unexpected merge policy: %s", cfg.Engine.MergePolicy)
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	os.Setenv("BENCHWISE_ENV", "production")
	defer os.Unsetenv("BENCHWISE_ENV")

	cfg := &config.Config{
		Addr:          ":8080",
		JWTSecret:     "supersecretkey",
		APITimeout:    5 * time.Second,
		DatabasePath:  "benchwise.db",
		TokenDuration: 1 * time.Hour,
		Engine:        config.EngineConfig{Model: "m"},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	os.Setenv("BENCHWISE_ENV", "development")
	defer os.Unsetenv("BENCHWISE_ENV")

	cfg := &config.Config{
		Addr:          ":8080",
		JWTSecret:     "supersecretkey",
		APITimeout:    5 * time.Second,
		DatabasePath:  "benchwise.db",
		TokenDuration: 1 * time.Hour,
		Engine:        config.EngineConfig{Model: "m"},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_MissingEngineModel(t *testing.T) {
	os.Setenv("BENCHWISE_ENV", "development")
	defer os.Unsetenv("BENCHWISE_ENV")

	cfg := &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "benchwise.db",
		TokenDuration: 1 * time.Hour,
		Engine:        config.EngineConfig{Model: ""},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for missing engine model")
	}
}

func TestValidate_UnknownMergePolicy(t *testing.T) {
	cfg := &config.Config{
		Addr:         ":8080",
		JWTSecret:    "strongsecret",
		DatabasePath: "benchwise.db",
		Engine:       config.EngineConfig{Model: "m", MergePolicy: "keep_everything"},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for unknown merge policy")
	}
}

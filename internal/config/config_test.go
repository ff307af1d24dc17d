package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
app:
  name: "visualizer"
  version: "1.0.0"
  environment: "test"
logger:
  level: "debug"
llm:
  provider: "openai"
  openai:
    baseURL: "https://openrouter.ai/api/v1"
    apiKey: "${TEST_VIS_API_KEY}"
    model: "anthropic/claude-3.5-sonnet"
embedding:
  provider: "openai"
  openai:
    baseURL: "https://openrouter.ai/api/v1"
    apiKey: "${TEST_VIS_API_KEY}"
    model: "baai/bge-m3"
pipeline:
  enrichMode: "rules"
  textColumn: "Description"
  clusters: 4
  language: "Vietnamese"
source:
  workbookPath: "data/observations.xlsx"
  promptsPath: "data/prompts.json"
server:
  address: ":9090"
middleware:
  rateLimiter:
    enabled: true
    tokenBucket:
      rate: 1
      capacity: 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TEST_VIS_API_KEY", "sk-test-123")

	cfg, err := LoadConfig(writeConfig(t, testYAML))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.App.Name != "visualizer" || cfg.Logger.Level != "debug" {
		t.Errorf("app section not parsed: %+v", cfg.App)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.OpenAI.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("llm section not parsed: %+v", cfg.LLM)
	}
	if cfg.LLM.OpenAI.APIKey != "sk-test-123" {
		t.Errorf("environment variable not expanded: %q", cfg.LLM.OpenAI.APIKey)
	}
	if cfg.Pipeline.EnrichMode != "rules" || cfg.Pipeline.Clusters != 4 {
		t.Errorf("pipeline section not parsed: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.Language != "Vietnamese" {
		t.Errorf("language = %q", cfg.Pipeline.Language)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("server address = %q", cfg.Server.Address)
	}
	if !cfg.Middleware.RateLimiter.Enabled || cfg.Middleware.RateLimiter.TokenBucket.Capacity != 3 {
		t.Errorf("middleware section not parsed: %+v", cfg.Middleware)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app:\n  name: minimal\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	p := cfg.Pipeline
	if p.EnrichMode != "clusters" {
		t.Errorf("default enrichMode = %q, want clusters", p.EnrichMode)
	}
	if p.Clusters != 6 {
		t.Errorf("default clusters = %d, want 6", p.Clusters)
	}
	if p.SampleRows != 3 {
		t.Errorf("default sampleRows = %d, want 3", p.SampleRows)
	}
	if p.NamingTemperature != 0.5 {
		t.Errorf("default namingTemperature = %v, want 0.5", p.NamingTemperature)
	}
	if p.GenerationTemperature != 0 {
		t.Errorf("default generationTemperature = %v, want 0", p.GenerationTemperature)
	}
}

func TestLoadConfig_Failures(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
	if _, err := LoadConfig(writeConfig(t, "app: [not: valid")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

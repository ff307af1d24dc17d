package embedding

import (
	"testing"

	"Minerva_1.0/internal/config"
)

func TestNewEmdModel(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EmbeddingConfig
		wantErr bool
	}{
		{
			"openai with key",
			config.EmbeddingConfig{Provider: "openai", OpenAI: config.OpenAIConfig{APIKey: "sk-test", Model: "baai/bge-m3"}},
			false,
		},
		{
			"openai without key",
			config.EmbeddingConfig{Provider: "openai", OpenAI: config.OpenAIConfig{Model: "baai/bge-m3"}},
			true,
		},
		{
			"gemini without key",
			config.EmbeddingConfig{Provider: "gemini", Gemini: config.GeminiConfig{Model: "text-embedding-004"}},
			true,
		},
		{
			"ollama defaults",
			config.EmbeddingConfig{Provider: "ollama", Ollama: config.OllamaConfig{Model: "nomic-embed-text"}},
			false,
		},
		{
			"unsupported provider",
			config.EmbeddingConfig{Provider: "huggingface"},
			true,
		},
		{
			"empty provider",
			config.EmbeddingConfig{},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewEmdModel(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected a configuration error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEmdModel() error = %v", err)
			}
			if model == nil {
				t.Fatal("factory returned a nil model")
			}
		})
	}
}

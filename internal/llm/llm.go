package llm

import (
	"context"
	"fmt"

	"Minerva_1.0/internal/config"
	"Minerva_1.0/internal/models"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
// 请求内容为 {系统指令, 用户消息, 采样温度, 是否要求 JSON 回复}，响应为生成的文本。
// 客户端本身无内部可变状态，构造一次后可在编排器的整个生命周期内复用。
type LLM interface {
	Generate(ctx context.Context, req *models.GenerateRequest) (string, error)
}

// NewClient 是一个工厂函数，根据提供的配置创建并返回一个实现了 LLM 接口的客户端。
// 缺失凭证或模型名属于配置错误，立即返回，不做重试。
func NewClient(cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		if cfg.OpenAI.Model == "" {
			return nil, fmt.Errorf("openai provider requires a model name")
		}
		return NewOpenAI(cfg.OpenAI.Model, cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return NewGemini(context.Background(), cfg.Gemini.Model, cfg.Gemini.APIKey)
	case "ollama":
		return NewOllama(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

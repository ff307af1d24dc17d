package llm

import (
	"context"
	"fmt"

	"Minerva_1.0/internal/models"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI 是一个用于 OpenAI 兼容 API 的 LLM 客户端。
// 通过自定义 BaseURL 可以指向 OpenRouter 等兼容网关。
type OpenAI struct {
	client *openai.Client // OpenAI 客户端实例。
	model  string         // 要使用的模型名称。
}

// NewOpenAI 创建一个新的 OpenAI 客户端。
//
// 参数:
//
//	model: 要使用的模型名称。
//	apiKey: API 密钥。
//	baseURL: API 基准 URL，留空则使用官方端点。
//
// 返回值:
//
//	*OpenAI: 新创建的 OpenAI 客户端实例。
//	error: 如果创建客户端失败，则返回错误。
func NewOpenAI(model, apiKey, baseURL string) (*OpenAI, error) {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAI{
		client: client,
		model:  model,
	}, nil
}

// Generate 使用 OpenAI API 生成内容。
// 温度与 JSON 响应模式取自请求本身，由调用方按阶段决定。
func (o *OpenAI) Generate(ctx context.Context, req *models.GenerateRequest) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildRequest 将统一请求转换为 OpenAI 的聊天补全请求。
// 温度始终以指针形式传递，温度为 0 时也会被显式序列化，保证生成阶段的确定性采样。
func (o *OpenAI) buildRequest(req *models.GenerateRequest) openai.ChatCompletionRequest {
	openaiReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: &req.Temperature,
	}
	if req.JSONResponse {
		openaiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return openaiReq
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// OpenAIConfig 包含 OpenAI 兼容端点的配置。
// BaseURL 可指向任何兼容服务 (例如 OpenRouter 的 "https://openrouter.ai/api/v1")。
type OpenAIConfig struct {
	BaseURL string `yaml:"baseURL"` // API 基准 URL，留空则使用官方端点
	APIKey  string `yaml:"apiKey"`  // API 密钥，支持 ${ENV_VAR} 展开
	Model   string `yaml:"model"`   // 要使用的模型名称
}

// GeminiConfig 包含 Gemini 模型的配置。
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"` // Gemini API 密钥，支持 ${ENV_VAR} 展开
	Model  string `yaml:"model"`  // 要使用的模型名称
}

// OllamaConfig 包含本地 Ollama 服务的配置。
type OllamaConfig struct {
	BaseURL string `yaml:"baseURL"` // Ollama 服务地址，留空则默认 "http://localhost:11434"
	Model   string `yaml:"model"`   // 要使用的模型名称
}

// LLMConfig 包含了不同LLM提供商的配置。
type LLMConfig struct {
	Provider string       `yaml:"provider"` // LLM提供商 (例如: "openai", "gemini", "ollama")
	OpenAI   OpenAIConfig `yaml:"openai"`   // OpenAI 兼容端点配置
	Gemini   GeminiConfig `yaml:"gemini"`   // Gemini 模型配置
	Ollama   OllamaConfig `yaml:"ollama"`   // Ollama 模型配置
}

// EmbeddingConfig 包含了不同Embedding提供商的配置。
type EmbeddingConfig struct {
	Provider string       `yaml:"provider"` // Embedding提供商 (例如: "openai", "gemini", "ollama")
	OpenAI   OpenAIConfig `yaml:"openai"`   // OpenAI 兼容端点配置
	Gemini   GeminiConfig `yaml:"gemini"`   // Gemini 模型配置
	Ollama   OllamaConfig `yaml:"ollama"`   // Ollama 模型配置
}

// PipelineConfig 汇集了可视化流水线的可调参数及其文档化默认值。
type PipelineConfig struct {
	// EnrichMode 选择语义增强方式: "clusters" (嵌入聚类)、"rules" (规则归纳)、"off"。
	EnrichMode string `yaml:"enrichMode"`
	// TextColumn 是做语义增强的文本列名。列必须存在，否则增强直接报配置错误。
	TextColumn string `yaml:"textColumn"`
	// Clusters 是嵌入聚类的固定簇数 k。默认 6。
	Clusters int `yaml:"clusters"`
	// SampleRows 是提示词中附带的数据样例行数。默认 3。
	SampleRows int `yaml:"sampleRows"`
	// GenerationTemperature 是代码生成阶段的采样温度。默认 0，偏向严格遵守输出契约。
	GenerationTemperature float32 `yaml:"generationTemperature"`
	// NamingTemperature 是聚类命名阶段的采样温度。默认 0.5。
	NamingTemperature float32 `yaml:"namingTemperature"`
	// Language 是图表标题与标签的工作语言提示，留空则跟随用户提问的语言。
	Language string `yaml:"language"`
}

// SourceConfig 定义了数据源：Excel 工作簿与各工作表的默认提问。
type SourceConfig struct {
	WorkbookPath string `yaml:"workbookPath"` // xlsx 文件路径
	PromptsPath  string `yaml:"promptsPath"`  // 工作表名 -> 默认提问 的 JSON 文件路径
}

// TokenBucketConfig 定义了令牌桶算法的配置。
type TokenBucketConfig struct {
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// RateLimiterConfig 定义了 HTTP 层限流的配置，主要用于保护 LLM 配额。
type RateLimiterConfig struct {
	Enabled     bool              `yaml:"enabled"`
	TokenBucket TokenBucketConfig `yaml:"tokenBucket"`
}

// MiddlewareConfig 包含了 HTTP 中间件的配置。
type MiddlewareConfig struct {
	RateLimiter RateLimiterConfig `yaml:"rateLimiter"`
}

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address string `yaml:"address"` // 监听地址，例如 ":8080"
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`        // 应用程序信息
	Logger     LoggerConfig     `yaml:"logger"`     // 日志记录器配置
	LLM        LLMConfig        `yaml:"llm"`        // LLM 配置部分
	Embedding  EmbeddingConfig  `yaml:"embedding"`  // Embedding 配置部分
	Pipeline   PipelineConfig   `yaml:"pipeline"`   // 可视化流水线配置
	Source     SourceConfig     `yaml:"source"`     // 数据源配置
	Server     ServerConfig     `yaml:"server"`     // HTTP 服务配置
	Middleware MiddlewareConfig `yaml:"middleware"` // 中间件配置
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
// 文件内容先经过环境变量展开再解析，因此密钥可以写成 ${OPENROUTER_API_KEY}。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	// 读取 YAML 文件内容。
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig // 声明一个AppConfig变量用于存储解析后的配置。
	// 展开环境变量后再将 YAML 内容解析到 cfg 结构体中。
	err = yaml.Unmarshal([]byte(os.ExpandEnv(string(yamlFile))), &cfg)
	if err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.Pipeline.ApplyDefaults()
	return &cfg, nil // 返回解析后的配置和nil错误。
}

// ApplyDefaults 为未设置的流水线参数填入文档化默认值。
func (p *PipelineConfig) ApplyDefaults() {
	if p.EnrichMode == "" {
		p.EnrichMode = "clusters"
	}
	if p.Clusters <= 0 {
		p.Clusters = 6
	}
	if p.SampleRows <= 0 {
		p.SampleRows = 3
	}
	if p.NamingTemperature == 0 {
		p.NamingTemperature = 0.5
	}
	// GenerationTemperature 的默认值 0 即期望值，无需额外处理。
}

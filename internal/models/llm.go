package models

// GenerateRequest 是发往 LLM 客户端的统一请求格式。
type GenerateRequest struct {
	System       string  // 系统指令
	User         string  // 用户消息
	Temperature  float32 // 采样温度，取值 [0, 1]
	JSONResponse bool    // 是否要求模型以 JSON 对象格式回复
}

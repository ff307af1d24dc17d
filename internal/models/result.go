package models

// Result 是一次可视化查询的结构化结果，每次查询构造一个。
// Success 为 true 时 ChartType、PlotData、Fig、Code 有效；
// 为 false 时只有 Error 有效，不展示任何部分图表。
type Result struct {
	Success   bool       `json:"success"`
	ChartType string     `json:"chart_type,omitempty"` // 图表类型标签
	PlotData  *Dataset   `json:"plot_data,omitempty"`  // 聚合后的数据表，用于人工核对
	Fig       *ChartSpec `json:"fig,omitempty"`        // 图表对象
	Code      string     `json:"code,omitempty"`       // 生成该结果的程序文本，供审计
	Error     string     `json:"error,omitempty"`      // 失败原因描述
}

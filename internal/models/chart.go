package models

// ChartSpec 是生成代码产出的可渲染图表对象。
// 它只描述图表，不负责绘制：前端拿到 JSON 后用任意图表库渲染。
type ChartSpec struct {
	Kind   string   `json:"kind"`             // 图表类型："bar"、"line"、"pie"、"scatter" 等
	Title  string   `json:"title,omitempty"`  // 图表标题，语言跟随用户提问
	X      string   `json:"x,omitempty"`      // X 轴对应的列名（bar/line/scatter）
	Y      string   `json:"y,omitempty"`      // Y 轴对应的列名（bar/line/scatter）
	Names  string   `json:"names,omitempty"`  // 扇区名称列（pie）
	Values string   `json:"values,omitempty"` // 扇区数值列（pie）
	Data   *Dataset `json:"data,omitempty"`   // 图表背后的聚合数据
}

package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

type ChartGenerateReq struct {
	g.Meta           `path:"/v1/chart/generate" method:"post" tags:"chart" summary:"根据查询结果生成图表"`
	QueryResult      []map[string]interface{} `json:"query_result" v:"required"`
	QueryDescription string                   `json:"query_description" v:"required"`
	Columns          []string                 `json:"columns"` // 可选，列顺序；为空时按请求体中的键顺序
}

type ChartConfig struct {
	ChartType string `json:"chart_type"`
	Title     string `json:"title"`
	XColumn   string `json:"x_column"`
	YColumn   string `json:"y_column"`
	Reason    string `json:"reason"`
}

type ChartGenerateRes struct {
	Success     bool         `json:"success"`
	ChartType   string       `json:"chart_type"`
	ChartData   *string      `json:"chart_data"`
	Message     string       `json:"message"`
	Config      *ChartConfig `json:"config,omitempty"`
	Placeholder bool         `json:"placeholder,omitempty"`
}

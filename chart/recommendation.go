package chart

import (
	"fmt"
	"strings"

	"github.com/Malowking/edugo/core/model"
	"github.com/Malowking/edugo/nl2sql/advisor"
	"github.com/Malowking/edugo/pkg/schema"
)

// 图表类型
const (
	TypeBar  = "bar"
	TypePie  = "pie"
	TypeLine = "line"
	TypeNone = "none"
)

// DefaultTitle 未给出标题时使用
const DefaultTitle = "查询结果"

// Recommendation 模型给出的图表建议，只作参考
type Recommendation struct {
	ChartType string `json:"chart_type"`
	Title     string `json:"title"`
	XColumn   string `json:"x_column"`
	YColumn   string `json:"y_column"`
	Reason    string `json:"reason"`
}

// Request 生成建议所需的输入，只包含列名和行数
type Request struct {
	Description string
	Columns     []string
	RowCount    int
}

// DefaultRecommendation 模型输出无法解析时的默认建议：柱状图，第一列为X轴，第二列为Y轴
func DefaultRecommendation(columns []string) Recommendation {
	rec := Recommendation{
		ChartType: TypeBar,
		Title:     DefaultTitle,
		Reason:    "默认使用柱状图",
	}
	if len(columns) > 0 {
		rec.XColumn = columns[0]
	}
	if len(columns) > 1 {
		rec.YColumn = columns[1]
	}
	return rec
}

const recommendationPrompt = `你是一个数据可视化专家。请根据查询结果和描述，判断最适合的图表类型。

可选图表类型:
- bar: 柱状图（适合比较不同类别的数值）
- pie: 饼图（适合展示占比）
- line: 折线图（适合展示趋势）
- none: 不需要图表（适合简单的列表或单条记录）

请以JSON格式返回，格式为:
{
    "chart_type": "bar/pie/line/none",
    "reason": "选择该图表的原因",
    "title": "图表标题",
    "x_column": "X轴字段名",
    "y_column": "Y轴字段名"
}

只返回JSON，不要有其他内容。`

func buildRecommendationMessages(req Request) []*schema.Message {
	user := fmt.Sprintf("查询描述: %s\n查询结果列: %s\n数据行数: %d\n\n请判断最适合的图表类型。",
		req.Description, strings.Join(req.Columns, ", "), req.RowCount)
	return []*schema.Message{
		schema.SystemMessage(recommendationPrompt),
		schema.UserMessage(user),
	}
}

// parseRecommendation 解析模型输出，chart_type 统一为小写，缺失时视为 none
func parseRecommendation(raw string) (Recommendation, error) {
	rec, err := advisor.DecodeJSON[Recommendation](raw)
	if err != nil {
		return Recommendation{}, err
	}
	rec.ChartType = strings.ToLower(strings.TrimSpace(rec.ChartType))
	if rec.ChartType == "" {
		rec.ChartType = TypeNone
	}
	return rec, nil
}

// NewRecommender 创建图表建议器
func NewRecommender(gateway model.Gateway) *advisor.Advisor[Request, Recommendation] {
	return &advisor.Advisor[Request, Recommendation]{
		Name:    "chart",
		Gateway: gateway,
		Prompt:  buildRecommendationMessages,
		Parse:   parseRecommendation,
		Fallback: func(req Request, _ error) Recommendation {
			return DefaultRecommendation(req.Columns)
		},
	}
}

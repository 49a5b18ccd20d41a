package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/Malowking/edugo/core/common"
	"github.com/Malowking/edugo/core/file_store"
	"github.com/Malowking/edugo/core/model"
	"github.com/Malowking/edugo/internal/metrics"
	"github.com/Malowking/edugo/nl2sql/advisor"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/gogf/gf/v2/encoding/gbase64"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/google/uuid"
)

// 结果消息
const (
	MsgNoData         = "no data"
	MsgChartGenerated = "chart generated"
	MsgNoChartNeeded  = "no chart needed"
)

// 渲染路径，用于指标
const (
	pathRecommended = "recommended"
	pathFallback    = "fallback"
	pathPlaceholder = "placeholder"
)

// Result 图表生成结果
type Result struct {
	Success     bool            `json:"success"`
	ChartType   string          `json:"chart_type"`
	ChartData   string          `json:"chart_data,omitempty"` // base64 编码的 PNG
	Message     string          `json:"message"`
	Config      *Recommendation `json:"config,omitempty"` // 实际使用的建议
	Placeholder bool            `json:"placeholder,omitempty"`
}

// Generator 图表选择与渲染
type Generator struct {
	recommender *advisor.Advisor[Request, Recommendation]
	renderer    *Renderer
	archive     file_store.Store
}

// NewGenerator 创建图表生成器，archive 为空时不归档
func NewGenerator(gateway model.Gateway, renderer *Renderer, archive file_store.Store) *Generator {
	return &Generator{
		recommender: NewRecommender(gateway),
		renderer:    renderer,
		archive:     archive,
	}
}

// Render 生成图表；任何失败都以 success=false 返回，不会影响外层的聊天或查询响应
func (gen *Generator) Render(ctx context.Context, table *schema.Table, description string) *Result {
	if table.Len() == 0 {
		return &Result{Success: false, ChartType: TypeNone, Message: MsgNoData}
	}

	var result *Result
	err := common.SafeCall(ctx, "chart-render", func() error {
		result = gen.render(ctx, table, description)
		return nil
	})
	if err != nil {
		metrics.ObserveChartRender(TypeNone, "panic")
		return &Result{Success: false, ChartType: TypeNone, Message: fmt.Sprintf("chart generation failed: %v", err)}
	}
	return result
}

func (gen *Generator) render(ctx context.Context, table *schema.Table, description string) *Result {
	rec := gen.recommend(ctx, table, description)
	g.Log().Infof(ctx, "[图表] 建议: type=%s, x=%s, y=%s, reason=%s", rec.ChartType, rec.XColumn, rec.YColumn, rec.Reason)

	if rec.ChartType == TypeNone {
		message := rec.Reason
		if message == "" {
			message = MsgNoChartNeeded
		}
		metrics.ObserveChartRender(TypeNone, pathRecommended)
		return &Result{Success: false, ChartType: TypeNone, Message: message, Config: &rec}
	}

	plan, path := BuildPlan(table, rec)
	png, err := gen.renderer.Draw(plan)
	if err != nil {
		g.Log().Warningf(ctx, "[图表] 绘制 %s 失败, 使用占位图: %v", plan.Type, err)
		path = pathPlaceholder
		png, err = gen.renderer.Placeholder(plan.Title, fmt.Sprintf("unable to draw %s chart", plan.Type))
		if err != nil {
			g.Log().Errorf(ctx, "[图表] 绘制占位图失败: %v", err)
			return &Result{Success: false, ChartType: TypeNone, Message: fmt.Sprintf("chart generation failed: %v", err), Config: &rec}
		}
	}
	metrics.ObserveChartRender(rec.ChartType, path)
	gen.archivePNG(ctx, rec.ChartType, png)

	return &Result{
		Success:     true,
		ChartType:   rec.ChartType,
		ChartData:   gbase64.EncodeToString(png),
		Message:     MsgChartGenerated,
		Config:      &rec,
		Placeholder: path == pathPlaceholder,
	}
}

// recommend 模型失败时返回 none，失败原因作为 reason
func (gen *Generator) recommend(ctx context.Context, table *schema.Table, description string) Recommendation {
	advice, err := gen.recommender.Advise(ctx, Request{
		Description: description,
		Columns:     table.Columns,
		RowCount:    table.Len(),
	})
	if err != nil {
		return Recommendation{ChartType: TypeNone, Reason: err.Error()}
	}
	return advice.Value
}

// archivePNG 异步归档，失败只记录日志
func (gen *Generator) archivePNG(ctx context.Context, chartType string, png []byte) {
	if gen.archive == nil {
		return
	}
	name := fmt.Sprintf("chart_%s_%s_%s.png", chartType, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	bgCtx := context.WithoutCancel(ctx)
	common.SafeGo(bgCtx, "chart-archive", func() {
		if _, err := gen.archive.Save(bgCtx, name, png, "image/png"); err != nil {
			g.Log().Warningf(bgCtx, "[图表] 归档失败: %v", err)
		}
	})
}

// BuildPlan 根据建议和实际列解析出绘图数据，返回使用的路径
// bar/line 优先使用建议的列，不存在时按位置取前两列；pie 固定取前两列
func BuildPlan(table *schema.Table, rec Recommendation) (Plan, string) {
	plan := Plan{Type: rec.ChartType, Title: rec.Title}
	if plan.Title == "" {
		plan.Title = DefaultTitle
	}

	switch rec.ChartType {
	case TypeBar, TypeLine:
		x, y, path := rec.XColumn, rec.YColumn, pathRecommended
		if !table.HasColumn(x) || !table.HasColumn(y) {
			if len(table.Columns) < 2 {
				plan.Note = "insufficient data"
				return plan, pathPlaceholder
			}
			x, y, path = table.Columns[0], table.Columns[1], pathFallback
		}
		plan.XLabel, plan.YLabel = x, y
		plan.Labels = labelsOf(table, x)
		plan.Values = valuesOf(table, y)
		return plan, path

	case TypePie:
		if len(table.Columns) < 2 {
			plan.Note = "insufficient data"
			return plan, pathPlaceholder
		}
		plan.XLabel, plan.YLabel = table.Columns[0], table.Columns[1]
		// 非正值无法构成扇区，标签和数值一起剔除
		allLabels := labelsOf(table, table.Columns[0])
		allValues := valuesOf(table, table.Columns[1])
		var (
			labels []string
			values []float64
			sum    float64
		)
		for i, v := range allValues {
			if v > 0 {
				labels = append(labels, allLabels[i])
				values = append(values, v)
				sum += v
			}
		}
		if sum <= 0 {
			plan.Note = "no positive values"
			return plan, pathPlaceholder
		}
		for i := range labels {
			labels[i] = fmt.Sprintf("%s (%.1f%%)", labels[i], values[i]/sum*100)
		}
		plan.Labels, plan.Values = labels, values
		return plan, pathRecommended

	default:
		plan.Note = unsupportedNote(rec.ChartType)
		return plan, pathPlaceholder
	}
}

func labelsOf(table *schema.Table, column string) []string {
	values := table.Values(column)
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = gconv.String(v)
	}
	return labels
}

func valuesOf(table *schema.Table, column string) []float64 {
	values := table.Values(column)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = gconv.Float64(v)
	}
	return out
}

package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Plan 已解析好的绘图数据，Note 非空时绘制占位图
type Plan struct {
	Type   string
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	Note   string
}

// Renderer 把 Plan 绘制为 PNG
type Renderer struct {
	width  int
	height int
	dpi    float64
}

// NewRenderer 创建渲染器
func NewRenderer(width, height int, dpi float64) *Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if dpi <= 0 {
		dpi = 100
	}
	return &Renderer{width: width, height: height, dpi: dpi}
}

// Draw 按类型绘制，不支持的类型绘制占位图
func (r *Renderer) Draw(plan Plan) ([]byte, error) {
	if plan.Note != "" {
		return r.Placeholder(plan.Title, plan.Note)
	}
	if len(plan.Labels) != len(plan.Values) {
		return nil, fmt.Errorf("labels (%d) and values (%d) length mismatch", len(plan.Labels), len(plan.Values))
	}

	switch plan.Type {
	case TypeBar:
		return r.drawBar(plan)
	case TypeLine:
		return r.drawLine(plan)
	case TypePie:
		return r.drawPie(plan)
	default:
		return r.Placeholder(plan.Title, unsupportedNote(plan.Type))
	}
}

func (r *Renderer) drawBar(plan Plan) ([]byte, error) {
	bars := make([]gochart.Value, len(plan.Values))
	for i, v := range plan.Values {
		bars[i] = gochart.Value{Label: plan.Labels[i], Value: v}
	}

	c := gochart.BarChart{
		Title:      plan.Title,
		Width:      r.width,
		Height:     r.height,
		DPI:        r.dpi,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		BarWidth:   barWidth(r.width, len(bars)),
		YAxis: gochart.YAxis{
			Name:  plan.YLabel,
			Range: valueRange(plan.Values),
		},
		Bars: bars,
	}
	return renderTo(c.Render)
}

func (r *Renderer) drawLine(plan Plan) ([]byte, error) {
	xs := make([]float64, len(plan.Values))
	ticks := make([]gochart.Tick, len(plan.Values))
	for i := range plan.Values {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: plan.Labels[i]}
	}

	c := gochart.Chart{
		Title:      plan.Title,
		Width:      r.width,
		Height:     r.height,
		DPI:        r.dpi,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20}},
		XAxis: gochart.XAxis{
			Name:  plan.XLabel,
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  plan.YLabel,
			Range: valueRange(plan.Values),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    plan.YLabel,
				XValues: xs,
				YValues: plan.Values,
				Style:   gochart.Style{StrokeWidth: 2, DotWidth: 4},
			},
		},
	}
	return renderTo(c.Render)
}

func (r *Renderer) drawPie(plan Plan) ([]byte, error) {
	values := make([]gochart.Value, 0, len(plan.Values))
	for i, v := range plan.Values {
		if v <= 0 {
			continue
		}
		values = append(values, gochart.Value{Label: plan.Labels[i], Value: v})
	}
	if len(values) == 0 {
		return nil, errors.New("pie chart requires at least one positive value")
	}

	c := gochart.PieChart{
		Title:  plan.Title,
		Width:  r.width,
		Height: r.height,
		DPI:    r.dpi,
		Values: values,
	}
	return renderTo(c.Render)
}

// Placeholder 绘制只有标题和提示文字的图片
func (r *Renderer) Placeholder(title, note string) ([]byte, error) {
	rd, err := gochart.PNG(r.width, r.height)
	if err != nil {
		return nil, err
	}
	rd.SetDPI(r.dpi)

	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	canvas := gochart.Box{Top: 0, Left: 0, Right: r.width, Bottom: r.height}
	gochart.Draw.Box(rd, canvas, gochart.Style{
		FillColor:   drawing.ColorWhite,
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 1,
	})

	textStyle := gochart.Style{
		Font:                font,
		FontSize:            14,
		FontColor:           drawing.ColorBlack,
		TextHorizontalAlign: gochart.TextHorizontalAlignCenter,
		TextVerticalAlign:   gochart.TextVerticalAlignMiddle,
	}
	if title != "" {
		gochart.Draw.TextWithin(rd, title, gochart.Box{Top: 0, Left: 0, Right: r.width, Bottom: r.height / 4}, textStyle)
	}
	gochart.Draw.TextWithin(rd, note, canvas, textStyle)

	var buf bytes.Buffer
	if err := rd.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderTo(render func(gochart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// valueRange Y轴从0（或最小负值）开始，上方留出10%空间；全为0时交给 go-chart 自行判断
func valueRange(values []float64) gochart.Range {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return nil
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.1}
}

func barWidth(width, bars int) int {
	if bars == 0 {
		return 50
	}
	w := int(float64(width) * 0.6 / float64(bars))
	if w > 50 {
		return 50
	}
	if w < 5 {
		return 5
	}
	return w
}

func unsupportedNote(chartType string) string {
	return fmt.Sprintf("unsupported chart type: %s", chartType)
}

package edugo

import (
	"context"

	"github.com/Malowking/edugo/api/edugo/v1"
	"github.com/Malowking/edugo/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// ChartGenerate 图表失败不返回错误，结果中 success=false
func (c *ControllerV1) ChartGenerate(ctx context.Context, req *v1.ChartGenerateReq) (res *v1.ChartGenerateRes, err error) {
	columns := req.Columns
	if len(columns) == 0 {
		if r := g.RequestFromCtx(ctx); r != nil {
			columns, err = schema.ColumnOrderFromJSON(r.GetBody(), "query_result")
			if err != nil {
				g.Log().Debugf(ctx, "ChartGenerate: 无法从请求体恢复列顺序: %v", err)
				columns = nil
			}
		}
	}

	table := schema.NewTable(columns, req.QueryResult)
	result := c.deps.Charts.Render(ctx, table, req.QueryDescription)

	res = &v1.ChartGenerateRes{
		Success:     result.Success,
		ChartType:   result.ChartType,
		Message:     result.Message,
		Placeholder: result.Placeholder,
	}
	if result.ChartData != "" {
		res.ChartData = &result.ChartData
	}
	if result.Config != nil {
		res.Config = &v1.ChartConfig{
			ChartType: result.Config.ChartType,
			Title:     result.Config.Title,
			XColumn:   result.Config.XColumn,
			YColumn:   result.Config.YColumn,
			Reason:    result.Config.Reason,
		}
	}
	return res, nil
}

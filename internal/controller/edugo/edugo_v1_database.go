package edugo

import (
	"context"

	"github.com/Malowking/edugo/api/edugo/v1"
	"github.com/Malowking/edugo/core/common"
	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/internal/logic/export"
	"github.com/Malowking/edugo/nl2sql/executor"
	"github.com/gogf/gf/v2/frame/g"
)

// Query 查询失败不返回错误，结果中 success=false
func (c *ControllerV1) Query(ctx context.Context, req *v1.QueryReq) (res *v1.QueryRes, err error) {
	env := c.deps.Translator.Translate(ctx, common.CleanInput(req.NaturalLanguage), req.AdminToken)
	return toQueryRes(env), nil
}

// QueryExport 只导出读操作的结果；导出不接受管理员令牌
func (c *ControllerV1) QueryExport(ctx context.Context, req *v1.QueryExportReq) (res *v1.QueryExportRes, err error) {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	env := c.deps.Translator.Translate(ctx, common.CleanInput(req.NaturalLanguage), "")
	if !env.Success {
		return nil, errors.New(errors.ErrExportFailed, env.Message)
	}

	result, err := c.deps.Exporter.Export(ctx, env, format, req.Title)
	if err != nil {
		g.Log().Errorf(ctx, "QueryExport failed: %v", err)
		return nil, err
	}

	return &v1.QueryExportRes{
		SQL:      *env.SQL,
		FileURL:  result.FileURL,
		Filename: result.Filename,
		Format:   result.Format,
		Size:     result.Size,
		RowCount: result.RowCount,
	}, nil
}

func toQueryRes(env *executor.Envelope) *v1.QueryRes {
	res := &v1.QueryRes{
		Success:      env.Success,
		SQL:          env.SQL,
		Columns:      env.Columns,
		Result:       env.Rows,
		AffectedRows: env.AffectedRows,
		Message:      env.Message,
		ErrorKind:    env.ErrorKind,
	}
	if op := env.OperationName(); op != "" {
		res.Operation = &op
	}
	return res
}

package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// QueryReq 自然语言查询
type QueryReq struct {
	g.Meta          `path:"/v1/database/query" method:"post" tags:"database" summary:"自然语言转SQL并执行"`
	NaturalLanguage string `json:"natural_language" v:"required#查询内容不能为空"`
	AdminToken      string `json:"admin_token"` // 写操作需要
}

// QueryRes 与执行结果一一对应，失败时 sql 之外的数据字段为空
type QueryRes struct {
	Success      bool                     `json:"success"`
	SQL          *string                  `json:"sql"`
	Columns      []string                 `json:"columns,omitempty"`
	Result       []map[string]interface{} `json:"result"`
	AffectedRows *int64                   `json:"affected_rows"`
	Message      string                   `json:"message"`
	Operation    *string                  `json:"operation"`
	ErrorKind    string                   `json:"error_kind,omitempty"`
}

// QueryExportReq 查询并导出，只允许读操作
type QueryExportReq struct {
	g.Meta          `path:"/v1/database/query/export" method:"post" tags:"database" summary:"自然语言查询并导出结果"`
	NaturalLanguage string `json:"natural_language" v:"required#查询内容不能为空"`
	Format          string `json:"format" v:"in:csv,xlsx,excel,json" dc:"csv, xlsx or json, default csv"`
	Title           string `json:"title"`
}

type QueryExportRes struct {
	SQL      string `json:"sql"`
	FileURL  string `json:"file_url"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	RowCount int    `json:"row_count"`
}

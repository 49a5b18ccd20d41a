package executor

import (
	"github.com/Malowking/edugo/nl2sql/common"
	"github.com/Malowking/edugo/pkg/schema"
)

// Envelope 统一的执行结果
// 成功时按操作类型完整填充；失败时只有 message 和 error_kind，不携带行数据
type Envelope struct {
	Success      bool                  `json:"success"`
	Operation    *common.OperationKind `json:"operation"`
	SQL          *string               `json:"sql"`
	Columns      []string              `json:"columns,omitempty"`
	Rows         []map[string]any      `json:"rows"`
	AffectedRows *int64                `json:"affected_rows"`
	Message      string                `json:"message"`
	ErrorKind    string                `json:"error_kind,omitempty"`
}

// Failure 构造失败结果
func Failure(kind, message string, statement string) *Envelope {
	env := &Envelope{
		Success:   false,
		Message:   message,
		ErrorKind: kind,
	}
	if statement != "" {
		env.SQL = &statement
	}
	return env
}

// IsSelect 是否为成功的查询结果
func (e *Envelope) IsSelect() bool {
	return e != nil && e.Success && e.Operation != nil && *e.Operation == common.OpSelect
}

// OperationName 操作类型字符串，失败时为空
func (e *Envelope) OperationName() string {
	if e == nil || e.Operation == nil {
		return ""
	}
	return string(*e.Operation)
}

// Table 查询结果转换为表格
func (e *Envelope) Table() *schema.Table {
	if e == nil || e.Rows == nil {
		return schema.NewTable(nil, nil)
	}
	return schema.NewTable(e.Columns, e.Rows)
}

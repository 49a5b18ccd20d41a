package executor

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/Malowking/edugo/internal/metrics"
	"github.com/Malowking/edugo/nl2sql/common"
	"github.com/Malowking/edugo/nl2sql/datasource"
	"github.com/Malowking/edugo/nl2sql/parser"
	"github.com/gogf/gf/v2/frame/g"
)

// Config 执行器配置
type Config struct {
	AdminToken      string        // 写操作令牌，为空时拒绝所有写操作
	MaxAffectedRows int           // 单条写语句的影响行数上限
	MaxQueryRows    int           // 查询返回行数上限
	StoreTimeout    time.Duration // 整个事务的超时时间
}

// Executor 在事务中执行经过校验的语句
type Executor struct {
	store     datasource.Store
	validator *parser.SQLValidator
	config    Config
}

// NewExecutor 创建执行器
func NewExecutor(store datasource.Store, config Config) *Executor {
	if config.MaxAffectedRows <= 0 {
		config.MaxAffectedRows = common.DefaultMaxAffectedRows
	}
	if config.MaxQueryRows <= 0 {
		config.MaxQueryRows = common.DefaultQueryLimit
	}
	return &Executor{
		store:     store,
		validator: parser.NewSQLValidator(),
		config:    config,
	}
}

// Execute 校验、鉴权并在事务中执行语句
// 所有失败都以 success=false 的结果返回，不向上抛出错误
func (e *Executor) Execute(ctx context.Context, statement, token string) *Envelope {
	start := time.Now()
	env := e.execute(ctx, statement, token)

	outcome := common.ExecutionStatusSuccess
	if !env.Success {
		outcome = env.ErrorKind
	}
	op := env.OperationName()
	if op == "" {
		op = string(e.validator.Classify(statement))
	}
	metrics.ObserveExecution(op, outcome, time.Since(start))
	return env
}

func (e *Executor) execute(ctx context.Context, statement, token string) *Envelope {
	// 1. 安全校验，未通过的语句不会接触存储
	if !e.validator.Validate(ctx, statement) {
		return Failure(common.KindUnsafeStatement, common.MsgUnsafeStatement, statement)
	}

	// 2. 写操作鉴权
	kind := e.validator.Classify(statement)
	if kind.IsWrite() && !e.authorized(token) {
		g.Log().Warningf(ctx, "[SQL执行] 写操作缺少管理员权限, 操作: %s", kind)
		return Failure(common.KindInsufficientPrivilege, common.MsgInsufficientPrivilege, statement)
	}

	if tables, err := parser.ReferencedTables(statement); err == nil {
		g.Log().Infof(ctx, "[SQL执行] 操作: %s, 涉及表: %s, SQL: %s", kind, strings.Join(tables, ","), statement)
	} else {
		g.Log().Infof(ctx, "[SQL执行] 操作: %s, SQL: %s", kind, statement)
	}

	if e.config.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.StoreTimeout)
		defer cancel()
	}

	// 3. 开启事务，除唯一的提交点外所有退出路径都回滚
	tx, err := e.store.Begin(ctx)
	if err != nil {
		g.Log().Errorf(ctx, "[SQL执行] 开启事务失败: %v", err)
		return Failure(common.KindExecutionFailure, fmt.Sprintf(common.MsgExecutionFailed, err), statement)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			g.Log().Errorf(ctx, "[SQL执行] 回滚失败: %v", rbErr)
		}
	}()

	if kind == common.OpSelect {
		env := e.runSelect(ctx, tx, statement)
		if !env.Success {
			return env
		}
		if err := tx.Commit(); err != nil {
			g.Log().Errorf(ctx, "[SQL执行] 提交失败: %v", err)
			return Failure(common.KindExecutionFailure, fmt.Sprintf(common.MsgExecutionFailed, err), statement)
		}
		committed = true
		return env
	}

	// 4. 写操作：超过上限整体回滚
	affected, err := tx.Exec(ctx, statement)
	if err != nil {
		g.Log().Errorf(ctx, "[SQL执行] 执行失败: %v", err)
		return Failure(common.KindExecutionFailure, fmt.Sprintf(common.MsgExecutionFailed, err), statement)
	}
	if affected > int64(e.config.MaxAffectedRows) {
		g.Log().Warningf(ctx, "[SQL执行] 影响行数 %d 超过上限 %d, 回滚", affected, e.config.MaxAffectedRows)
		return Failure(common.KindRowLimitExceeded,
			fmt.Sprintf(common.MsgRowLimitExceeded, e.config.MaxAffectedRows), statement)
	}
	if err := tx.Commit(); err != nil {
		g.Log().Errorf(ctx, "[SQL执行] 提交失败: %v", err)
		return Failure(common.KindExecutionFailure, fmt.Sprintf(common.MsgExecutionFailed, err), statement)
	}
	committed = true

	g.Log().Infof(ctx, "[SQL执行] %s 成功, 影响行数: %d", kind, affected)
	return &Envelope{
		Success:      true,
		Operation:    &kind,
		SQL:          &statement,
		AffectedRows: &affected,
		Message:      writeMessage(kind, affected),
	}
}

func (e *Executor) runSelect(ctx context.Context, tx datasource.Tx, statement string) *Envelope {
	result, err := tx.Query(ctx, statement)
	if err != nil {
		g.Log().Errorf(ctx, "[SQL执行] 查询失败: %v", err)
		return Failure(common.KindExecutionFailure, fmt.Sprintf(common.MsgExecutionFailed, err), statement)
	}

	rows := normalizeRows(result)
	if len(rows) > e.config.MaxQueryRows {
		g.Log().Warningf(ctx, "[SQL执行] 查询返回 %d 行, 截断为 %d 行", len(rows), e.config.MaxQueryRows)
		rows = rows[:e.config.MaxQueryRows]
	}

	kind := common.OpSelect
	count := int64(len(rows))
	return &Envelope{
		Success:      true,
		Operation:    &kind,
		SQL:          &statement,
		Columns:      result.Columns,
		Rows:         rows,
		AffectedRows: &count,
		Message:      fmt.Sprintf(common.MsgQuerySucceeded, count),
	}
}

// authorized 令牌精确比较，未配置令牌时拒绝
func (e *Executor) authorized(token string) bool {
	if e.config.AdminToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(e.config.AdminToken)) == 1
}

func writeMessage(kind common.OperationKind, affected int64) string {
	switch kind {
	case common.OpInsert:
		return fmt.Sprintf(common.MsgInserted, affected)
	case common.OpUpdate:
		return fmt.Sprintf(common.MsgUpdated, affected)
	default:
		return fmt.Sprintf(common.MsgDeleted, affected)
	}
}

// normalizeRows 行转换为 JSON 安全的 map：时间转为 ISO-8601 字符串，字节数组转为字符串
func normalizeRows(result *datasource.QueryResult) []map[string]any {
	rows := make([]map[string]any, 0, len(result.Rows))
	for _, values := range result.Rows {
		row := make(map[string]any, len(result.Columns))
		for i, col := range result.Columns {
			if i >= len(values) {
				row[col] = nil
				continue
			}
			row[col] = normalizeValue(values[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format(time.RFC3339)
	case []byte:
		return string(val)
	default:
		return v
	}
}

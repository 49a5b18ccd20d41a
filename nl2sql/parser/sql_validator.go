package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Malowking/edugo/nl2sql/common"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/xwb1989/sqlparser"
)

var (
	ErrEmptyStatement  = errors.New("空SQL语句")
	ErrDeniedKeyword   = errors.New("SQL包含危险关键字")
	ErrVerbNotAllowed  = errors.New("SQL操作类型不被允许")
	ErrMultipleStmts   = errors.New("只允许单条SQL语句")
	ErrInvalidSQL      = errors.New("无效的SQL语句")
	ErrUnsupportedStmt = errors.New("不支持的SQL语句类型")
)

// DeniedKeywords 结构变更和权限变更关键字，出现在语句任意位置都拒绝
var DeniedKeywords = []string{"DROP", "TRUNCATE", "ALTER", "CREATE", "GRANT", "REVOKE"}

// SQLValidator SQL安全校验器，无状态，可并发使用
type SQLValidator struct {
	deniedKeywords []string
	allowedVerbs   map[string]common.OperationKind
}

// NewSQLValidator 创建SQL校验器
func NewSQLValidator() *SQLValidator {
	return &SQLValidator{
		deniedKeywords: DeniedKeywords,
		allowedVerbs: map[string]common.OperationKind{
			"SELECT": common.OpSelect,
			"INSERT": common.OpInsert,
			"UPDATE": common.OpUpdate,
			"DELETE": common.OpDelete,
		},
	}
}

// Check 按顺序校验：危险关键字（文本匹配，不区分大小写），语句条数，再校验首个关键字
// 返回的错误说明了被拒绝的关键字或操作类型
func (v *SQLValidator) Check(statement string) error {
	if strings.TrimSpace(statement) == "" {
		return ErrEmptyStatement
	}

	// 只对副本做大写转换，原语句保持不变
	upper := strings.ToUpper(statement)
	for _, denied := range v.deniedKeywords {
		if strings.Contains(upper, denied) {
			return fmt.Errorf("%w: %s", ErrDeniedKeyword, denied)
		}
	}

	if n := statementCount(statement); n > 1 {
		return fmt.Errorf("%w: %d", ErrMultipleStmts, n)
	}

	verb := leadingToken(upper)
	if _, ok := v.allowedVerbs[verb]; !ok {
		return fmt.Errorf("%w: %q", ErrVerbNotAllowed, verb)
	}
	return nil
}

// Validate 校验语句是否允许执行，拒绝原因写入审计日志
func (v *SQLValidator) Validate(ctx context.Context, statement string) bool {
	if err := v.Check(statement); err != nil {
		g.Log().Warningf(ctx, "[SQL校验] 拒绝语句: %v, SQL: %s", err, statement)
		return false
	}
	return true
}

// Classify 根据首个关键字判断操作类型，不在允许列表中的返回 REJECTED
func (v *SQLValidator) Classify(statement string) common.OperationKind {
	verb := leadingToken(strings.ToUpper(statement))
	if kind, ok := v.allowedVerbs[verb]; ok {
		return kind
	}
	return common.OpRejected
}

// statementCount 按分号切分后统计非空语句数，字符串字面量中的分号不计入
func statementCount(statement string) int {
	pieces, err := sqlparser.SplitStatementToPieces(statement)
	if err != nil {
		if strings.Contains(strings.TrimRight(strings.TrimSpace(statement), "; \t\n"), ";") {
			return 2
		}
		return 1
	}
	n := 0
	for _, piece := range pieces {
		if strings.TrimSpace(piece) != "" {
			n++
		}
	}
	return n
}

// leadingToken 跳过前导空白后取第一个由字母组成的词
func leadingToken(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

// ReferencedTables 提取语句涉及的表名，只用于审计日志
// 解析失败不影响执行决策
func ReferencedTables(statement string) ([]string, error) {
	stmt, err := sqlparser.Parse(statement)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSQL, err)
	}

	var tables []string
	switch s := stmt.(type) {
	case sqlparser.SelectStatement:
		tables = tablesFromSelect(s)
	case *sqlparser.Insert:
		tables = append(tables, s.Table.Name.String())
	case *sqlparser.Update:
		tables = tablesFromExprs(s.TableExprs)
	case *sqlparser.Delete:
		tables = tablesFromExprs(s.TableExprs)
	default:
		return nil, ErrUnsupportedStmt
	}
	return dedupe(tables), nil
}

func tablesFromSelect(stmt sqlparser.SelectStatement) []string {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		return tablesFromExprs(s.From)
	case *sqlparser.Union:
		return append(tablesFromSelect(s.Left), tablesFromSelect(s.Right)...)
	case *sqlparser.ParenSelect:
		return tablesFromSelect(s.Select)
	}
	return nil
}

func tablesFromExprs(exprs sqlparser.TableExprs) []string {
	tables := make([]string, 0)
	for _, expr := range exprs {
		tables = append(tables, tablesFromTableExpr(expr)...)
	}
	return tables
}

// tablesFromTableExpr 从TableExpr提取表名，处理JOIN和子查询
func tablesFromTableExpr(expr sqlparser.TableExpr) []string {
	switch t := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		switch e := t.Expr.(type) {
		case sqlparser.TableName:
			return []string{e.Name.String()}
		case *sqlparser.Subquery:
			return tablesFromSelect(e.Select)
		}
	case *sqlparser.JoinTableExpr:
		return append(tablesFromTableExpr(t.LeftExpr), tablesFromTableExpr(t.RightExpr)...)
	case *sqlparser.ParenTableExpr:
		return tablesFromExprs(t.Exprs)
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

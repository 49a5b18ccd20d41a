package datasource

import (
	"context"
)

// Store 关系型存储，每个请求开启一个事务
type Store interface {
	// Begin 开启事务，ctx 的超时作用于整个事务
	Begin(ctx context.Context) (Tx, error)
}

// Tx 单个事务，所有语句都在事务内执行
type Tx interface {
	// Query 执行读语句，返回列名和全部行
	Query(ctx context.Context, statement string) (*QueryResult, error)
	// Exec 执行写语句，返回存储报告的影响行数
	Exec(ctx context.Context, statement string) (int64, error)
	// Commit 提交
	Commit() error
	// Rollback 回滚
	Rollback() error
}

// QueryResult 查询结果
type QueryResult struct {
	Columns []string
	Rows    [][]interface{}
}

package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// GormStore 基于 gorm 连接池的存储实现
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Begin 从连接池获取连接并开启事务
func (s *GormStore) Begin(ctx context.Context) (Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	return &gormTx{tx: tx}, nil
}

type gormTx struct {
	tx *gorm.DB
}

// Query 执行查询
func (t *gormTx) Query(ctx context.Context, statement string) (*QueryResult, error) {
	rows, err := t.tx.WithContext(ctx).Raw(statement).Rows()
	if err != nil {
		return nil, fmt.Errorf("执行查询失败: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Exec 执行写语句
func (t *gormTx) Exec(ctx context.Context, statement string) (int64, error) {
	result := t.tx.WithContext(ctx).Exec(statement)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (t *gormTx) Commit() error {
	return t.tx.Commit().Error
}

func (t *gormTx) Rollback() error {
	return t.tx.Rollback().Error
}

// scanRows 读取全部行，字节数组转换为字符串
func scanRows(rows *sql.Rows) (*QueryResult, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("获取列名失败: %w", err)
	}

	result := &QueryResult{
		Columns: columns,
		Rows:    make([][]interface{}, 0),
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("扫描行数据失败: %w", err)
		}

		rowData := make([]interface{}, len(columns))
		for i, val := range values {
			if b, ok := val.([]byte); ok {
				rowData[i] = string(b)
			} else {
				rowData[i] = val
			}
		}

		result.Rows = append(result.Rows, rowData)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
